package lexer

import (
	"spin/internal/token"
)

// scanSymbol распознаёт @[...], @word, #tag и <...>. Если форма не сложилась,
// первый символ уходит в Invalid, а сканирование продолжается со следующего.
func (lx *Lexer) scanSymbol() token.Token {
	start := lx.cursor.Mark()
	switch lx.cursor.Bump() {
	case '@':
		if lx.cursor.Eat('[') {
			if lx.skipUntilOnLine(']') {
				return lx.emit(token.Symbol, start)
			}
			break
		}
		if n, _ := lx.skipWord(); n > 0 {
			return lx.emit(token.Symbol, start)
		}
	case '#':
		if n, _ := lx.skipWord(); n > 0 {
			return lx.emit(token.Symbol, start)
		}
	case '<':
		if lx.cursor.Peek() != '>' && lx.skipUntilOnLine('>') {
			return lx.emit(token.Symbol, start)
		}
	}
	lx.cursor.Reset(start)
	return lx.scanInvalid()
}

// skipUntilOnLine съедает байты до closer включительно; false, если
// раньше встретился '\n' или конец буфера.
func (lx *Lexer) skipUntilOnLine(closer byte) bool {
	for !lx.cursor.EOF() {
		switch lx.cursor.Bump() {
		case closer:
			return true
		case '\n':
			return false
		}
	}
	return false
}
