package parser

import (
	"fmt"

	"spin/internal/diag"
	"spin/internal/token"
)

// skipGroup съедает открывающую скобку и всё до парной закрывающей.
// Незакрытая группа дочитывается до EOF без отдельных диагностик.
func (p *Parser) skipGroup() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.advance().Kind {
		case token.LBrace, token.LBracket:
			depth++
		case token.RBrace, token.RBracket:
			depth--
			if depth <= 0 {
				return
			}
		}
	}
}

// maxNesting ограничивает вложенность списков и блоков, чтобы глубокий
// ввод не переполнил стек рекурсивного спуска.
const maxNesting = 1000

// enter открывает ещё один уровень вложенности. За пределом сообщает об
// ошибке, пропускает группу целиком и возвращает false.
func (p *Parser) enter() bool {
	if p.depth >= maxNesting {
		p.errorAt(diag.SynUnexpectedToken, p.peek().Span,
			fmt.Sprintf("nesting exceeds %d levels", maxNesting)).Emit()
		p.skipGroup()
		return false
	}
	p.depth++
	return true
}

func (p *Parser) leave() { p.depth-- }

// skipAny съедает один токен или одну сбалансированную группу.
func (p *Parser) skipAny() {
	if p.at(token.LBrace) || p.at(token.LBracket) {
		p.skipGroup()
		return
	}
	p.advance()
}

// skipToValueSync — panic mode после неудачного значения: до ',' или
// закрывающей скобки текущего уровня. В теле блока останавливается также
// на начале следующего поля (`key:`).
func (p *Parser) skipToValueSync(inBlock bool) {
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.EOF, token.Comma, token.RBrace, token.RBracket:
			return
		case token.LBrace, token.LBracket:
			p.skipGroup()
			continue
		}
		if inBlock && tok.IsKey() && p.peekN(1).Kind == token.Colon {
			return
		}
		p.advance()
	}
}

// resyncTop — восстановление на верхнем уровне: до следующего ключевого
// слова на нулевой глубине или EOF. Всегда съедает хотя бы один токен.
func (p *Parser) resyncTop() {
	p.skipAny()
	for !p.at(token.EOF) && !p.at(token.Keyword) {
		p.skipAny()
	}
}

// resyncToBody — после испорченного заголовка блока ищем '{'. Возвращает
// false, если раньше встретилось ключевое слово или EOF.
func (p *Parser) resyncToBody() bool {
	for {
		switch p.peek().Kind {
		case token.LBrace:
			return true
		case token.EOF, token.Keyword:
			return false
		case token.LBracket:
			p.skipGroup()
		default:
			p.advance()
		}
	}
}
