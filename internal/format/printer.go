package format

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"spin/internal/ast"
	"spin/internal/diag"
	"spin/internal/lexer"
	"spin/internal/parser"
	"spin/internal/source"
	"spin/internal/token"
)

// ErrHasErrors is returned by Source for input that does not parse cleanly.
var ErrHasErrors = errors.New("format: source has errors")

type Options struct {
	Indent  int  // ширина отступа, 0 → 2
	UseTabs bool // отступ табами, Indent игнорируется
	// MaxInline is the widest list, alternation or metadata block kept on one
	// line; 0 means 80.
	MaxInline int
}

func (o Options) withDefaults() Options {
	if o.Indent <= 0 {
		o.Indent = 2
	}
	if o.MaxInline <= 0 {
		o.MaxInline = 80
	}
	return o
}

type printer struct {
	w   *Writer
	opt Options
	src []byte
	// comments ещё не напечатаны; упорядочены по смещению в src
	comments []token.Trivia
}

// Document renders doc canonically: shebang, metadata, then blocks separated
// by blank lines, one field per line. The output ends with a newline unless
// the document is empty. The tree carries no comments; Source keeps them.
func Document(doc *ast.Document, opt Options) []byte {
	return render(doc, nil, nil, opt)
}

func render(doc *ast.Document, src []byte, comments []token.Trivia, opt Options) []byte {
	opt = opt.withDefaults()
	p := printer{w: NewWriter(opt), opt: opt, src: src, comments: comments}
	p.printDocument(doc)
	return p.w.Bytes()
}

// Source scans, parses and formats file. Files with any error diagnostic are
// refused: the canonical form would drop whatever the parser skipped.
// Comments are kept: on their own line before the node that followed them,
// or at the end of the line they trailed.
func Source(file *source.File, opt Options) ([]byte, error) {
	doc, comments, diags := parseOnce(file)
	if n := countErrors(diags); n > 0 || doc == nil {
		return nil, fmt.Errorf("%s: %w (%d)", file.Path, ErrHasErrors, n)
	}
	return render(doc, file.Content, comments, opt), nil
}

// CheckRoundTrip formats the file, re-parses the result and compares both
// trees ignoring spans.
func CheckRoundTrip(file *source.File, opt Options) (ok bool, msg string) {
	orig, comments, diags := parseOnce(file)
	if orig == nil || countErrors(diags) > 0 {
		return false, "fmt-check: initial parse has errors"
	}
	formatted := render(orig, file.Content, comments, opt)

	fs := source.NewFileSet()
	rebuilt := fs.Get(fs.AddVirtual(file.Path, formatted))
	again, kept, diags := parseOnce(rebuilt)
	if again == nil || countErrors(diags) > 0 {
		return false, "fmt-check: reparse failed"
	}
	if !ast.Equal(orig, again) {
		return false, "fmt-check: tree differs after round-trip"
	}
	if len(kept) != len(comments) {
		return false, fmt.Sprintf("fmt-check: %d of %d comments lost", len(comments)-len(kept), len(comments))
	}
	return true, "fmt-check: OK"
}

func parseOnce(file *source.File) (*ast.Document, []token.Trivia, []diag.Diagnostic) {
	toks, lexDiags := lexer.Scan(file, lexer.Options{Comments: lexer.CommentsAttach})
	var comments []token.Trivia
	for _, tok := range toks {
		for _, tv := range tok.Leading {
			if tv.Kind == token.TriviaComment {
				comments = append(comments, tv)
			}
		}
	}
	res := parser.Parse(file, toks, parser.Options{})
	return res.Document, comments, append(lexDiags, res.Diagnostics...)
}

func countErrors(ds []diag.Diagnostic) int {
	n := 0
	for _, d := range ds {
		if d.Severity == diag.SevError {
			n++
		}
	}
	return n
}

func (p *printer) printDocument(doc *ast.Document) {
	if doc == nil {
		return
	}
	if doc.Shebang != nil {
		line := "#!"
		if doc.Shebang.Text != "" {
			line += " " + doc.Shebang.Text
		}
		p.w.WriteString(line)
		p.w.Newline()
	}
	if doc.Meta != nil {
		p.flushComments(doc.Meta.Span.Start)
		p.printMetadata(doc.Meta)
		p.trailing(doc.Meta.Span.End)
		p.w.Newline()
	}
	for _, b := range doc.Blocks {
		p.w.BlankLine()
		p.flushComments(b.Span.Start)
		p.printBlock(b)
		p.trailing(b.Span.End)
		p.w.Newline()
	}
	if len(p.comments) > 0 {
		p.w.BlankLine()
		p.flushComments(math.MaxUint32)
	}
}

func (p *printer) printMetadata(m *ast.Metadata) {
	if s, ok := inlineFields(m.Fields); ok && len(s) <= p.opt.MaxInline && !p.pendingBefore(m.Span.End) {
		p.w.WriteString(s)
		return
	}
	p.printBody(m.Fields, m.Span.End, true)
}

func (p *printer) printBlock(b *ast.Block) {
	p.w.WriteString(blockHeader(b))
	p.w.WriteString(" ")
	p.printBody(b.Fields, b.Span.End, false)
}

// printBody печатает `{ ... }` по полю на строку; пустое тело — `{}`.
// end — конец тела в исходнике: комментарии до него остаются внутри.
func (p *printer) printBody(fields []*ast.Field, end uint32, commas bool) {
	if len(fields) == 0 && !p.pendingBefore(end) {
		p.w.WriteString("{}")
		return
	}
	p.w.WriteString("{")
	p.w.Newline()
	p.w.IndentPush()
	for i, f := range fields {
		p.flushComments(f.Span.Start)
		p.printField(f)
		if commas && i < len(fields)-1 {
			p.w.WriteString(",")
		}
		p.trailing(f.Span.End)
		p.w.Newline()
	}
	p.flushComments(end)
	p.w.IndentPop()
	p.w.WriteString("}")
}

func (p *printer) printField(f *ast.Field) {
	p.w.WriteString(f.Key.Name + ": ")
	p.printValue(f.Value)
}

func (p *printer) printValue(v ast.Value) {
	if s, ok := inline(v); ok && len(s) <= p.opt.MaxInline && !p.pendingBefore(v.Loc().End) {
		p.w.WriteString(s)
		return
	}
	switch v := v.(type) {
	case *ast.Nested:
		p.printBlock(v.Block)
	case *ast.List:
		p.w.WriteString("[")
		p.w.Newline()
		p.w.IndentPush()
		for i, item := range v.Items {
			p.flushComments(item.Loc().Start)
			p.printValue(item)
			if i < len(v.Items)-1 {
				p.w.WriteString(",")
			}
			p.trailing(item.Loc().End)
			p.w.Newline()
		}
		p.flushComments(v.Span.End)
		p.w.IndentPop()
		p.w.WriteString("]")
	case *ast.Alternation:
		for i, opt := range v.Options {
			if i > 0 {
				p.w.WriteString(" |")
				if !p.pendingBefore(opt.Loc().Start) {
					p.w.WriteString(" ")
				}
			}
			p.flushComments(opt.Loc().Start)
			p.printValue(opt)
		}
	default:
		// скалярам некуда переноситься
		s, _ := inline(v)
		p.w.WriteString(s)
	}
}

// pendingBefore reports whether an unprinted comment starts before off.
func (p *printer) pendingBefore(off uint32) bool {
	return len(p.comments) > 0 && p.comments[0].Span.Start < off
}

// flushComments печатает комментарии, начавшиеся до off, каждый до конца
// строки. Посреди строки комментарий отделяется пробелом.
func (p *printer) flushComments(off uint32) {
	for p.pendingBefore(off) {
		c := p.comments[0]
		p.comments = p.comments[1:]
		if !p.w.AtLineStart() {
			p.w.WriteString(" ")
		}
		p.w.WriteString(commentText(c))
		p.w.Newline()
	}
}

// trailing дописывает комментарий, стоявший в исходнике на той же строке
// сразу после end (через пробелы и запятые).
func (p *printer) trailing(end uint32) {
	if len(p.comments) == 0 || p.src == nil {
		return
	}
	c := p.comments[0]
	if c.Span.Start < end || int(c.Span.Start) > len(p.src) {
		return
	}
	if strings.Trim(string(p.src[end:c.Span.Start]), " \t,") != "" {
		return
	}
	p.comments = p.comments[1:]
	p.w.WriteString(" " + commentText(c))
}

func commentText(c token.Trivia) string {
	return strings.TrimRight(c.Text, " \t\r")
}

func blockHeader(b *ast.Block) string {
	if b.Label == nil {
		return b.Keyword.Name
	}
	return b.Keyword.Name + ` "` + b.Label.Value + `"`
}

// inline renders v on one line. It fails for values containing a non-empty
// nested block.
func inline(v ast.Value) (string, bool) {
	switch v := v.(type) {
	case *ast.Str:
		return `"` + v.Value + `"`, true
	case *ast.Int:
		if v.Raw != "" {
			return v.Raw, true
		}
		return strconv.FormatInt(v.Value, 10), true
	case *ast.Interpolation:
		return "${" + v.Name + "}", true
	case *ast.SymbolRef:
		return symbolText(v), true
	case *ast.Word:
		return v.Name, true
	case *ast.Nested:
		if len(v.Block.Fields) > 0 {
			return "", false
		}
		return blockHeader(v.Block) + " {}", true
	case *ast.List:
		return joinInline(v.Items, ", ", "[", "]")
	case *ast.Alternation:
		return joinInline(v.Options, " | ", "", "")
	default:
		return "", false
	}
}

func joinInline(items []ast.Value, sep, open, closer string) (string, bool) {
	parts := make([]string, len(items))
	for i, item := range items {
		s, ok := inline(item)
		if !ok {
			return "", false
		}
		parts[i] = s
	}
	return open + strings.Join(parts, sep) + closer, true
}

func inlineFields(fields []*ast.Field) (string, bool) {
	if len(fields) == 0 {
		return "{}", true
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		s, ok := inline(f.Value)
		if !ok {
			return "", false
		}
		parts[i] = f.Key.Name + ": " + s
	}
	return "{ " + strings.Join(parts, ", ") + " }", true
}

func symbolText(s *ast.SymbolRef) string {
	switch s.Form {
	case token.SymbolBracketRef:
		return "@[" + s.Body + "]"
	case token.SymbolTag:
		return "#" + s.Body
	case token.SymbolAngle:
		return "<" + s.Body + ">"
	default:
		return "@" + s.Body
	}
}
