package testkit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"spin/internal/ast"
	"spin/internal/lexer"
	"spin/internal/parser"
	"spin/internal/source"
	"spin/internal/token"
)

func load(t *testing.T, name, src string) (*source.File, *ast.Document) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name, []byte(src)))
	toks, _ := lexer.Scan(file, lexer.Options{})
	if err := CheckTokenInvariants(toks, file); err != nil {
		t.Fatalf("%s: tokens: %v", name, err)
	}
	res := parser.Parse(file, toks, parser.Options{KeepPartial: true})
	return file, res.Document
}

func TestCorpusHoldsInvariants(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "testdata", "*", "*.spn"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Skip("no testdata")
	}
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		file, doc := load(t, path, string(src))
		if strings.Contains(path, "invalid") {
			continue // спаны частичных документов проверяет фаззер
		}
		if err := CheckSpanInvariants(doc, file); err != nil {
			t.Errorf("%s: %v", path, err)
		}
	}
}

func TestSpanInvariantsCatchBrokenTree(t *testing.T) {
	file, doc := load(t, "x.spn", `app "x" { port: 1, name: "a" }`)
	if err := CheckSpanInvariants(doc, file); err != nil {
		t.Fatalf("clean tree rejected: %v", err)
	}

	fields := doc.Blocks[0].Fields
	fields[0], fields[1] = fields[1], fields[0]
	if err := CheckSpanInvariants(doc, file); err == nil || !strings.Contains(err.Error(), "overlaps") {
		t.Errorf("swapped siblings: err = %v", err)
	}
	fields[0], fields[1] = fields[1], fields[0]

	doc.Blocks[0].Fields[0].Span.End = file.Len() + 5
	if err := CheckSpanInvariants(doc, file); err == nil {
		t.Error("span beyond content must be rejected")
	}

	if err := CheckSpanInvariants(nil, file); err == nil {
		t.Error("nil document must be rejected")
	}
}

func TestTokenInvariantsCatchBrokenStream(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.spn", []byte("app {}")))
	toks, _ := lexer.Scan(file, lexer.Options{})

	if err := CheckTokenInvariants(toks[:len(toks)-1], file); err == nil {
		t.Error("missing EOF must be rejected")
	}
	broken := append([]token.Token(nil), toks...)
	broken[1].Text = "["
	if err := CheckTokenInvariants(broken, file); err == nil {
		t.Error("text mismatch must be rejected")
	}
	if err := CheckTokenInvariants(nil, file); err == nil {
		t.Error("empty stream must be rejected")
	}
}
