package lexer

import (
	"fmt"
	"unicode/utf8"

	"spin/internal/diag"
	"spin/internal/token"
)

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	switch lx.cursor.Bump() {
	case '{':
		return lx.emit(token.LBrace, start)
	case '}':
		return lx.emit(token.RBrace, start)
	case '[':
		return lx.emit(token.LBracket, start)
	case ']':
		return lx.emit(token.RBracket, start)
	case ',':
		return lx.emit(token.Comma, start)
	case ':':
		return lx.emit(token.Colon, start)
	case '|':
		return lx.emit(token.Pipe, start)
	}
	lx.cursor.Reset(start)
	return lx.scanInvalid()
}

// scanInvalid заворачивает одну руну (или один битый байт) в Invalid.
func (lx *Lexer) scanInvalid() token.Token {
	start := lx.cursor.Mark()
	r, sz := lx.peekRune()
	var msg string
	if r == utf8.RuneError && sz <= 1 {
		msg = fmt.Sprintf("invalid UTF-8 byte 0x%02X", lx.cursor.Peek())
		lx.cursor.Bump()
	} else {
		msg = fmt.Sprintf("unexpected character %q", r)
		lx.bumpRune()
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnexpectedChar, tok.Span, msg)
	return tok
}
