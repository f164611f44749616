package lexer

import (
	"strings"

	"spin/internal/diag"
	"spin/internal/token"
)

// scanString: "..." без декодирования escape. `\` лишь не даёт следующему
// байту закрыть строку. Незакрытая строка обрывается на конце строки
// (или буфера), чтобы следующие строки сканировались как обычно.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		if lx.cursor.AtLineEnd() {
			return lx.unterminatedString(start)
		}
		switch lx.cursor.Peek() {
		case '"':
			lx.cursor.Bump()
			return lx.emit(token.String, start)
		case '\\':
			lx.cursor.Bump()
			if !lx.cursor.AtLineEnd() {
				lx.cursor.Bump()
			}
			continue
		}
		lx.cursor.Bump()
	}
	return lx.unterminatedString(start)
}

func (lx *Lexer) unterminatedString(start Mark) token.Token {
	tok := lx.emit(token.String, start)
	edit := diag.InsertText(lx.file.ID, tok.Span.End, `"`)
	lx.errLexFix(diag.LexUnterminatedString, tok.Span, "unterminated string literal", `insert closing '"'`, edit)
	return tok
}

// scanVariable: ${...} с учётом вложенных фигурных скобок, только в пределах строки.
func (lx *Lexer) scanVariable() token.Token {
	if b0, b1, ok := lx.cursor.Peek2(); !ok || b0 != '$' || b1 != '{' {
		return lx.scanInvalid()
	}
	start := lx.cursor.Mark()
	lx.cursor.Advance(2)
	depth := 1
	for !lx.cursor.EOF() {
		if lx.cursor.AtLineEnd() {
			return lx.unterminatedVariable(start, depth)
		}
		switch lx.cursor.Peek() {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				lx.cursor.Bump()
				return lx.emit(token.Variable, start)
			}
		}
		lx.cursor.Bump()
	}
	return lx.unterminatedVariable(start, depth)
}

func (lx *Lexer) unterminatedVariable(start Mark, depth int) token.Token {
	tok := lx.emit(token.Variable, start)
	edit := diag.InsertText(lx.file.ID, tok.Span.End, strings.Repeat("}", depth))
	lx.errLexFix(diag.LexUnterminatedInterpolation, tok.Span, "unterminated ${...} interpolation", "insert closing '}'", edit)
	return tok
}
