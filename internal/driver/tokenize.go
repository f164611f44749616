package driver

import (
	"spin/internal/diag"
	"spin/internal/lexer"
	"spin/internal/source"
	"spin/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize loads path and scans it.
func Tokenize(path string, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return tokenizeFile(fs, fs.Get(fileID), opts), nil
}

// TokenizeSource scans an in-memory manifest registered under name.
func TokenizeSource(name string, src []byte, opts Options) *TokenizeResult {
	fs := source.NewFileSet()
	return tokenizeFile(fs, fs.Get(fs.AddVirtual(name, src)), opts)
}

func tokenizeFile(fs *source.FileSet, file *source.File, opts Options) *TokenizeResult {
	bag, rep, done := opts.diagnostics()
	toks, _ := lexer.Scan(file, opts.lexerOptions(rep))
	done()
	return &TokenizeResult{FileSet: fs, File: file, Tokens: toks, Bag: bag}
}
