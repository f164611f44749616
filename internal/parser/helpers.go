package parser

import (
	"fmt"

	"spin/internal/diag"
	"spin/internal/source"
	"spin/internal/token"
)

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

// peekN смотрит на n токенов вперёд; за концом потока всегда EOF.
func (p *Parser) peekN(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

// advance — съедает следующий токен и обновляет lastSpan. EOF не съедается.
func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
	if !tok.IsEOF() {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

// diagSpan — лучший span для диагностики: на EOF указываем сразу за
// последним съеденным токеном.
func (p *Parser) diagSpan() source.Span {
	tok := p.peek()
	if tok.Kind == token.EOF && p.lastSpan.End > 0 {
		return p.lastSpan.ZeroideToEnd()
	}
	return tok.Span
}

func (p *Parser) errorAt(code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	return p.report(code, diag.SevError, sp, msg)
}

// report возвращает builder, привязанный к bag; после лимита ошибок — nil
// (Emit на nil безопасен).
func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) *diag.ReportBuilder {
	if sev == diag.SevError {
		p.errors++
	}
	if p.opts.MaxErrors != 0 && p.errors > p.opts.MaxErrors {
		return nil
	}
	return diag.NewReportBuilder(diag.ReporterFunc(p.collect), sev, code, sp, msg)
}

// collect кладёт диагностику в bag и пересылает наружу.
func (p *Parser) collect(d diag.Diagnostic) {
	p.bag.Add(d)
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes, d.Fixes)
	}
}

// describe renders a token for messages: `'}'`, `string "x"`, `end of input`.
func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of input"
	case token.String:
		return "string " + tok.Text
	case token.Number:
		return "number " + tok.Text
	case token.Keyword:
		return fmt.Sprintf("keyword '%s'", tok.Text)
	case token.Builtin, token.FunctionRef, token.Ident:
		return fmt.Sprintf("'%s'", tok.Text)
	case token.Variable:
		return "interpolation " + tok.Text
	case token.Symbol:
		return "symbol " + tok.Text
	case token.Shebang:
		return "shebang"
	default:
		return fmt.Sprintf("'%s'", tok.Text)
	}
}
