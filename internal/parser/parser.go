package parser

import (
	"strings"

	"spin/internal/ast"
	"spin/internal/diag"
	"spin/internal/source"
	"spin/internal/token"
)

type Options struct {
	// KeepPartial returns the best-effort document even when the input
	// ends inside an open block or list.
	KeepPartial bool
	// MaxErrors caps reported errors; 0 means unlimited.
	MaxErrors uint
	// Reporter, если задан, получает копию каждой диагностики.
	Reporter diag.Reporter
}

// Result of one parse call. Document is nil when Fatal is set and
// KeepPartial was not requested.
type Result struct {
	Document    *ast.Document
	Diagnostics []diag.Diagnostic
	Fatal       bool
}

// Parser — состояние парсера на один файл
type Parser struct {
	file     *source.File
	toks     []token.Token
	pos      int
	opts     Options
	bag      *diag.Bag
	errors   uint
	lastSpan source.Span // span последнего съеденного токена
	fatal    bool
	depth    int // открытые списки и вложенные блоки
}

// Parse builds the document from the scanner output. Invalid and Comment
// tokens are skipped; the scanner has already reported them.
func Parse(file *source.File, toks []token.Token, opts Options) Result {
	p := &Parser{
		file: file,
		toks: significant(file, toks),
		opts: opts,
		bag:  diag.NewBag(0),
	}
	doc := p.parseDocument()
	p.bag.Sort()

	res := Result{Diagnostics: p.bag.Items(), Fatal: p.fatal}
	if !p.fatal || opts.KeepPartial {
		res.Document = doc
	}
	return res
}

func significant(file *source.File, toks []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks)+1)
	for _, t := range toks {
		switch t.Kind {
		case token.Invalid, token.Comment:
			continue
		case token.EOF:
			return append(out, t)
		}
		out = append(out, t)
	}
	// поток без EOF: дописываем сами
	end := file.Len()
	return append(out, token.Token{Kind: token.EOF, Span: source.Span{File: file.ID, Start: end, End: end}})
}

// Document := [Shebang] [MetadataBlock] Block*
func (p *Parser) parseDocument() *ast.Document {
	doc := &ast.Document{Span: source.Span{File: p.file.ID, Start: 0, End: p.file.Len()}}

	if p.at(token.Shebang) {
		tok := p.advance()
		text := strings.TrimPrefix(tok.Text, "#!")
		doc.Shebang = &ast.Shebang{Span: tok.Span, Text: strings.TrimLeft(text, " \t")}
	}
	if p.at(token.LBrace) {
		doc.Meta = p.parseMetadata()
	}

	for !p.at(token.EOF) {
		tok := p.peek()
		switch tok.Kind {
		case token.Keyword:
			if b := p.parseBlock(); b != nil {
				doc.Blocks = append(doc.Blocks, b)
			}
		case token.LBrace:
			p.errorAt(diag.SynExpectKey, tok.Span, "block requires a keyword label before '{'").Emit()
			open := p.advance()
			p.parseFields(open, false) // только ради восстановления
		default:
			p.errorAt(diag.SynUnexpectedToken, tok.Span, "unexpected "+describe(tok)+" at top level, expected a block keyword").Emit()
			p.resyncTop()
		}
	}
	return doc
}

// MetadataBlock := '{' Field (',' Field)* '}'
func (p *Parser) parseMetadata() *ast.Metadata {
	open := p.advance()
	fields, end := p.parseFields(open, true)
	return &ast.Metadata{Span: open.Span.Cover(end), Fields: fields}
}

// Block := Keyword [String] '{' (Field ','?)* '}'
func (p *Parser) parseBlock() *ast.Block {
	kw := p.advance()
	b := &ast.Block{
		Span:    kw.Span,
		Keyword: ast.Key{Name: kw.Text, Span: kw.Span, Keyword: true},
	}
	if p.at(token.String) {
		lbl := p.advance()
		b.Label = &ast.Str{Span: lbl.Span, Value: lbl.StringValue()}
	}

	if !p.at(token.LBrace) {
		got := p.peek()
		p.errorAt(diag.SynUnexpectedToken, p.diagSpan(), "expected '{' after "+describeHeader(b)+", found "+describe(got)).Emit()
		if !p.resyncToBody() {
			return nil
		}
	}
	open := p.advance()
	var end source.Span
	b.Fields, end = p.parseFields(open, false)
	b.Span = b.Span.Cover(end)
	return b
}

func describeHeader(b *ast.Block) string {
	if b.Label != nil {
		return "'" + b.Keyword.Name + " \"" + b.Label.Value + "\"'"
	}
	return "'" + b.Keyword.Name + "'"
}
