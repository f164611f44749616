package lexer

import (
	"spin/internal/token"
)

// collectLeadingTrivia пропускает пробелы и собирает `;` комментарии перед
// значимым токеном. Пробелы в trivia не попадают.
// В режиме CommentsEmit останавливается на ';', чтобы Next выдал Comment.
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isSpaceByte(b) {
			lx.cursor.Bump()
			continue
		}
		if b != ';' {
			return
		}
		switch lx.opts.Comments {
		case CommentsEmit:
			return
		case CommentsDiscard:
			lx.cursor.SkipLine()
		default:
			tok := lx.scanComment()
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaComment,
				Span: tok.Span,
				Text: tok.Text,
			})
		}
	}
}

// scanComment: от ';' до конца строки, '\n' и "\r\n" не входят.
func (lx *Lexer) scanComment() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.SkipLine()
	return lx.emit(token.Comment, start)
}

// scanShebang распознаёт `#!` только в начале буфера (после BOM, если он есть).
func (lx *Lexer) scanShebang() (token.Token, bool) {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '#' || b1 != '!' {
		return token.Token{}, false
	}
	start := lx.cursor.Mark()
	lx.cursor.SkipLine()
	lx.done = true
	return lx.emit(token.Shebang, start), true
}
