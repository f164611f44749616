package parser

import (
	"fmt"
	"strconv"

	"spin/internal/ast"
	"spin/internal/diag"
	"spin/internal/token"
)

// Value := Primary ('|' Primary)*
// inBlock включает правило «бареворд перед ':' — ключ следующего поля».
func (p *Parser) parseValue(inBlock bool) (ast.Value, bool) {
	first, ok := p.parsePrimary(inBlock)
	if !ok {
		return nil, false
	}
	if !p.at(token.Pipe) {
		return first, true
	}
	alt := &ast.Alternation{Span: first.Loc(), Options: []ast.Value{first}}
	for p.at(token.Pipe) {
		p.advance()
		next, ok := p.parsePrimary(inBlock)
		if !ok {
			return nil, false
		}
		alt.Options = append(alt.Options, next)
		alt.Span = alt.Span.Cover(next.Loc())
	}
	return alt, true
}

// Primary := String | Number | List | Variable | Symbol | Block | Word
func (p *Parser) parsePrimary(inBlock bool) (ast.Value, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.String:
		p.advance()
		return &ast.Str{Span: tok.Span, Value: tok.StringValue()}, true

	case token.Number:
		p.advance()
		n, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			p.errorAt(diag.SynExpectValue, tok.Span, "integer literal out of range: "+tok.Text).Emit()
			return nil, false
		}
		return &ast.Int{Span: tok.Span, Value: n, Raw: tok.Text}, true

	case token.Variable:
		p.advance()
		return &ast.Interpolation{Span: tok.Span, Name: tok.VariableName()}, true

	case token.Symbol:
		p.advance()
		return &ast.SymbolRef{Span: tok.Span, Form: tok.SymbolForm(), Body: tok.SymbolName()}, true

	case token.LBracket:
		if !p.enter() {
			return nil, false
		}
		defer p.leave()
		return p.parseList()

	case token.Keyword:
		if p.peekN(1).Kind == token.LBrace || (p.peekN(1).Kind == token.String && p.peekN(2).Kind == token.LBrace) {
			if !p.enter() {
				return nil, false
			}
			defer p.leave()
			b := p.parseBlock()
			return &ast.Nested{Span: b.Span, Block: b}, true
		}
		fallthrough

	case token.Builtin, token.FunctionRef, token.Ident:
		if inBlock && p.peekN(1).Kind == token.Colon {
			// значение пропущено, дальше уже следующее поле
			p.errorAt(diag.SynExpectValue, p.lastSpan.ZeroideToEnd(),
				fmt.Sprintf("expected a value, found key '%s'", tok.Text)).Emit()
			return nil, false
		}
		p.advance()
		return &ast.Word{Span: tok.Span, Name: tok.Text, Kind: tok.Kind}, true

	case token.LBrace:
		p.errorAt(diag.SynExpectKey, tok.Span, "nested block requires a keyword label before '{'").Emit()
		if !p.enter() {
			return nil, false
		}
		defer p.leave()
		open := p.advance()
		p.parseFields(open, false) // только ради восстановления
		return nil, false

	default:
		p.errorAt(diag.SynExpectValue, p.diagSpan(), "expected a value, found "+describe(tok)).Emit()
		return nil, false
	}
}

// List := '[' [Value (',' Value)*] ']'
func (p *Parser) parseList() (ast.Value, bool) {
	open := p.advance()
	list := &ast.List{Span: open.Span}
	if p.at(token.RBracket) {
		list.Span = list.Span.Cover(p.advance().Span)
		return list, true
	}

	wantItem := true
	for {
		if p.at(token.EOF) {
			p.unclosed(diag.SynUnclosedList, open, "'[' is never closed", "]")
			list.Span = list.Span.Cover(p.lastSpan)
			return list, true
		}

		if wantItem {
			if v, ok := p.parseValue(false); ok {
				list.Items = append(list.Items, v)
				list.Span = list.Span.Cover(v.Loc())
			} else {
				p.skipToValueSync(false)
			}
		}
		wantItem = true

		tok := p.peek()
		switch tok.Kind {
		case token.RBracket:
			list.Span = list.Span.Cover(p.advance().Span)
			return list, true

		case token.Comma:
			comma := p.advance()
			if p.at(token.RBracket) {
				p.errorAt(diag.SynExpectValue, p.peek().Span, "expected a value after ',', trailing comma is not permitted").
					WithFix("remove trailing ','", diag.DeleteSpan(comma.Span, ",")).
					Emit()
				list.Span = list.Span.Cover(p.advance().Span)
				return list, true
			}

		case token.EOF:
			// обработается в начале цикла

		case token.RBrace:
			p.errorAt(diag.SynUnclosedList, open.Span, "'[' is not closed before '}'").
				WithFix("insert missing ']'", diag.InsertText(p.file.ID, tok.Span.Start, "]")).
				Emit()
			return list, true

		default:
			if startsValue(tok.Kind) {
				p.errorAt(diag.SynUnexpectedToken, tok.Span, "expected ',' or ']' between list items, found "+describe(tok)).
					WithFix("insert ','", diag.InsertText(p.file.ID, p.lastSpan.End, ",")).
					Emit()
				continue
			}
			p.errorAt(diag.SynUnexpectedToken, tok.Span, "expected ',' or ']', found "+describe(tok)).Emit()
			p.skipToValueSync(false)
			// стоим на ',' или закрывающей скобке: значение здесь не ищем
			wantItem = false
		}
	}
}

func startsValue(k token.Kind) bool {
	return startsValueStrongly(k) || k.IsBareword()
}

// startsValueStrongly — токены, которые не могут быть ключом.
func startsValueStrongly(k token.Kind) bool {
	switch k {
	case token.String, token.Number, token.LBracket, token.Variable, token.Symbol:
		return true
	}
	return false
}
