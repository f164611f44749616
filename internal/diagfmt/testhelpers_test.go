package diagfmt

import (
	"os"
	"path/filepath"
	"testing"

	"spin/internal/ast"
	"spin/internal/diag"
	"spin/internal/lexer"
	"spin/internal/parser"
	"spin/internal/source"
	"spin/internal/token"
)

const dupInput = "app \"x\" {\n  port: 3000\n  port: 4000\n}"

const landingManifest = `#! spn 1.0
{ name: "my-webapp" }

app "web" {
  type: "node"
  port: 3000
  needs: [postgres, redis]
}
`

type analyzed struct {
	fs   *source.FileSet
	file *source.File
	toks []token.Token
	doc  *ast.Document
	bag  *diag.Bag
}

func analyze(t *testing.T, name, input string) analyzed {
	t.Helper()
	fs := source.NewFileSet()
	return analyzeFile(t, fs, fs.Get(fs.AddVirtual(name, []byte(input))))
}

func analyzeDisk(t *testing.T, name, input string) analyzed {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(input), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return analyzeFile(t, fs, fs.Get(id))
}

func analyzeFile(t *testing.T, fs *source.FileSet, file *source.File) analyzed {
	t.Helper()
	bag := diag.NewBag(0)
	toks, lexDiags := lexer.Scan(file, lexer.Options{})
	for _, d := range lexDiags {
		bag.Add(d)
	}
	res := parser.Parse(file, toks, parser.Options{KeepPartial: true})
	for _, d := range res.Diagnostics {
		bag.Add(d)
	}
	bag.Sort()
	return analyzed{fs: fs, file: file, toks: toks, doc: res.Document, bag: bag}
}
