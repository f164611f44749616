package lexer

import (
	"spin/internal/token"
)

// scanWord сканирует бареворд. Сплошные ASCII-цифры дают Number, остальное
// классифицирует реестр: Keyword → Builtin → FunctionRef → Ident.
// Token.Text — ровно исходный срез.
func (lx *Lexer) scanWord() token.Token {
	start := lx.cursor.Mark()
	_, digitsOnly := lx.skipWord()
	if digitsOnly {
		return lx.emit(token.Number, start)
	}
	tok := lx.emit(token.Ident, start)
	tok.Kind = lx.reg.Classify(tok.Text)
	return tok
}
