package parser

import (
	"fmt"

	"spin/internal/ast"
	"spin/internal/diag"
	"spin/internal/source"
	"spin/internal/token"
)

// parseFields разбирает тело `{ ... }` после уже съеденной открывающей скобки.
// В блоках запятые между полями необязательны; commas требует их строго
// между полями, как в метаданных. Возвращает поля и span закрывающей скобки
// (или последнего токена, если тело не закрыто).
func (p *Parser) parseFields(open token.Token, commas bool) ([]*ast.Field, source.Span) {
	var fields []*ast.Field
	seen := make(map[string]*ast.Field)
	afterField := false
	prevOK := false // предыдущее поле разобрано без ошибок

	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.RBrace:
			return fields, p.advance().Span

		case tok.Kind == token.EOF:
			p.unclosed(diag.SynUnclosedBlock, open, "'{' is never closed", "}")
			return fields, p.lastSpan

		case tok.Kind == token.Comma && afterField:
			comma := p.advance()
			afterField = false
			if commas && p.at(token.RBrace) {
				p.errorAt(diag.SynExpectKey, p.peek().Span, "expected a field after ',', trailing comma is not permitted").
					WithFix("remove trailing ','", diag.DeleteSpan(comma.Span, ",")).
					Emit()
			}

		case tok.IsKey():
			if commas && afterField && prevOK {
				p.errorAt(diag.SynUnexpectedToken, tok.Span, "expected ',' between fields, found "+describe(tok)).
					WithFix("insert ','", diag.InsertText(p.file.ID, p.lastSpan.End, ",")).
					Emit()
			}
			f := p.parseField()
			// запятая после испорченного поля тоже допустима
			afterField = true
			prevOK = f != nil
			if f == nil {
				continue
			}
			if first, dup := seen[f.Key.Name]; dup {
				p.errorAt(diag.SynDuplicateKey, f.Key.Span, fmt.Sprintf("duplicate key %q", f.Key.Name)).
					WithNote(first.Key.Span, "first defined here").
					WithFix("remove duplicate field", diag.DeleteSpan(f.Span, p.file.Text(f.Span))).
					Emit()
				continue
			}
			seen[f.Key.Name] = f
			fields = append(fields, f)

		default:
			p.errorAt(diag.SynExpectKey, tok.Span, "expected a field key, found "+describe(tok)).Emit()
			p.skipAny()
			afterField = false
			prevOK = false
		}
	}
}

// Field := (Ident | Keyword | Builtin | FunctionRef) ':' Value
func (p *Parser) parseField() *ast.Field {
	keyTok := p.advance()
	key := ast.Key{Name: keyTok.Text, Span: keyTok.Span, Keyword: keyTok.Kind == token.Keyword}

	if p.at(token.Colon) {
		p.advance()
	} else {
		next := p.peek()
		b := p.errorAt(diag.SynUnexpectedToken, p.diagSpan(),
			fmt.Sprintf("expected ':' after key '%s', found %s", key.Name, describe(next)))
		if !startsValueStrongly(next.Kind) && next.Kind != token.LBrace {
			b.Emit()
			return nil
		}
		b.WithFix("insert ':'", diag.InsertText(p.file.ID, keyTok.Span.End, ":")).Emit()

		if next.Kind == token.LBrace {
			// `health { ... }` без двоеточия читаем как вложенный блок
			if !p.enter() {
				return nil
			}
			defer p.leave()
			open := p.advance()
			nb := &ast.Block{Keyword: key}
			var end source.Span
			nb.Fields, end = p.parseFields(open, false)
			nb.Span = keyTok.Span.Cover(end)
			return &ast.Field{Span: nb.Span, Key: key, Value: &ast.Nested{Span: nb.Span, Block: nb}}
		}
	}

	v, ok := p.parseValue(true)
	if !ok {
		p.skipToValueSync(true)
		return nil
	}
	return &ast.Field{Span: keyTok.Span.Cover(v.Loc()), Key: key, Value: v}
}

func (p *Parser) unclosed(code diag.Code, open token.Token, msg, closer string) {
	p.fatal = true
	p.errorAt(code, open.Span, msg).
		WithFix("insert missing '"+closer+"'", diag.InsertText(p.file.ID, p.file.Len(), closer)).
		Emit()
}
