package parser

import (
	"fmt"
	"strings"
	"testing"

	"spin/internal/ast"
	"spin/internal/diag"
	"spin/internal/lexer"
	"spin/internal/source"
)

const landingManifest = `#! spn 1.0
{ name: "my-webapp" }

app "web" {
  type: "node"
  port: 3000
  needs: [postgres, redis]
}`

type parsed struct {
	file  *source.File
	lex   []diag.Diagnostic
	res   Result
	input string
}

func parseString(t *testing.T, input string, opts Options) parsed {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.spn", []byte(input)))
	toks, lexDiags := lexer.Scan(file, lexer.Options{})
	return parsed{file: file, lex: lexDiags, res: Parse(file, toks, opts), input: input}
}

func diagnosticsSummary(ds []diag.Diagnostic) string {
	if len(ds) == 0 {
		return "<none>"
	}
	lines := make([]string, len(ds))
	for i, d := range ds {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

// mustParse требует отсутствия любых диагностик.
func mustParse(t *testing.T, input string) *ast.Document {
	t.Helper()
	p := parseString(t, input, Options{})
	if len(p.lex) != 0 || len(p.res.Diagnostics) != 0 {
		t.Fatalf("input %q\nlexer: %s\nparser: %s", input, diagnosticsSummary(p.lex), diagnosticsSummary(p.res.Diagnostics))
	}
	if p.res.Document == nil || p.res.Fatal {
		t.Fatalf("input %q: no document", input)
	}
	return p.res.Document
}

// expectCodes сравнивает коды диагностик парсера по порядку.
func expectCodes(t *testing.T, p parsed, codes ...diag.Code) {
	t.Helper()
	got := p.res.Diagnostics
	ok := len(got) == len(codes)
	for i := 0; ok && i < len(codes); i++ {
		ok = got[i].Code == codes[i]
	}
	if !ok {
		want := make([]string, len(codes))
		for i, c := range codes {
			want[i] = c.ID()
		}
		t.Fatalf("input %q\nwant codes %v\n got %s", p.input, want, diagnosticsSummary(got))
	}
}

func (p parsed) text(sp source.Span) string { return p.file.Text(sp) }
