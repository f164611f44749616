package driver

import (
	"fmt"
	"io"

	"spin/internal/ast"
	"spin/internal/diag"
	"spin/internal/lexer"
	"spin/internal/parser"
	"spin/internal/source"
	"spin/internal/token"
)

type ParseResult struct {
	FileSet  *source.FileSet
	File     *source.File
	Tokens   []token.Token
	Document *ast.Document // nil when Fatal and KeepPartial is off
	Fatal    bool
	// Bag holds scanner and parser diagnostics, sorted.
	Bag *diag.Bag
}

// Parse loads path, scans and parses it.
func Parse(path string, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return parseFile(fs, fs.Get(fileID), opts)
}

// ParseSource parses an in-memory manifest registered under name.
func ParseSource(name string, src []byte, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	return parseFile(fs, fs.Get(fs.AddVirtual(name, src)), opts)
}

// ParseReader reads r to the end and parses it; used for stdin.
func ParseReader(name string, r io.Reader, opts Options) (*ParseResult, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return ParseSource(name, src, opts)
}

func parseFile(fs *source.FileSet, file *source.File, opts Options) (*ParseResult, error) {
	bag, rep, done := opts.diagnostics()
	popts, err := opts.parserOptions(rep)
	if err != nil {
		return nil, err
	}
	toks, _ := lexer.Scan(file, opts.lexerOptions(rep))
	res := parser.Parse(file, toks, popts)
	done()

	return &ParseResult{
		FileSet:  fs,
		File:     file,
		Tokens:   toks,
		Document: res.Document,
		Fatal:    res.Fatal,
		Bag:      bag,
	}, nil
}
