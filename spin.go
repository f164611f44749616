// Package spin scans and parses SPN service manifests.
//
// It is the entry point for tools that consume manifests in-process; the
// spn command covers the same ground from the shell.
package spin

import (
	"spin/internal/ast"
	"spin/internal/diag"
	"spin/internal/driver"
	"spin/internal/lexer"
	"spin/internal/source"
	"spin/internal/token"
)

type (
	Token      = token.Token
	Kind       = token.Kind
	Registry   = token.Registry
	Document   = ast.Document
	Diagnostic = diag.Diagnostic
	Span       = source.Span
	Location   = source.Location
	// CommentMode selects what Scan does with `;` comments.
	CommentMode = lexer.CommentMode
)

const (
	CommentsAttach  = lexer.CommentsAttach  // comments become leading trivia (default)
	CommentsDiscard = lexer.CommentsDiscard // comments are dropped
	CommentsEmit    = lexer.CommentsEmit    // comments are Comment tokens
)

// NewRegistry returns the default word registry extended with extra
// service names and actions.
func NewRegistry(builtins, functions []string) *Registry {
	return token.DefaultRegistry().Extend(builtins, functions)
}

// Options tune Scan and Parse. The zero value uses the default registry,
// attaches comments as trivia and keeps every diagnostic.
type Options struct {
	Registry       *Registry
	MaxDiagnostics int
	Comments       CommentMode
	// KeepPartial returns the best-effort document of unterminated input.
	// Scan ignores it.
	KeepPartial bool
}

func (o Options) driver() driver.Options {
	return driver.Options{
		Registry:       o.Registry,
		MaxDiagnostics: o.MaxDiagnostics,
		Comments:       o.Comments,
		KeepPartial:    o.KeepPartial,
	}
}

// Result is the outcome of Scan or Parse. Diagnostics are sorted by position.
type Result struct {
	Tokens      []Token
	Document    *Document // nil for Scan, and for fatal input unless KeepPartial
	Diagnostics []Diagnostic
	Fatal       bool

	file *source.File
}

// HasErrors reports whether any diagnostic is an error.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == diag.SevError {
			return true
		}
	}
	return false
}

// Locate resolves a span of this result to lines and columns.
func (r *Result) Locate(sp Span) Location {
	return r.file.Locate(sp)
}

// Scan tokenizes src. Spans are byte offsets into src as given.
func Scan(name string, src []byte, opts Options) *Result {
	res := driver.TokenizeSource(name, src, opts.driver())
	return &Result{Tokens: res.Tokens, Diagnostics: res.Bag.Items(), file: res.File}
}

// Parse scans and parses src. Malformed input is reported through
// Diagnostics; the error is only for invalid options.
func Parse(name string, src []byte, opts Options) (*Result, error) {
	res, err := driver.ParseSource(name, src, opts.driver())
	if err != nil {
		return nil, err
	}
	return &Result{
		Tokens:      res.Tokens,
		Document:    res.Document,
		Diagnostics: res.Bag.Items(),
		Fatal:       res.Fatal,
		file:        res.File,
	}, nil
}
