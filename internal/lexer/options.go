package lexer

import (
	"spin/internal/diag"
	"spin/internal/source"
	"spin/internal/token"
)

// CommentMode selects what the scanner does with `;` comments.
type CommentMode uint8

const (
	// CommentsAttach keeps comments as leading trivia of the next token.
	CommentsAttach CommentMode = iota
	// CommentsDiscard drops comments entirely.
	CommentsDiscard
	// CommentsEmit yields comments as token.Comment tokens.
	CommentsEmit
)

func (m CommentMode) String() string {
	switch m {
	case CommentsDiscard:
		return "discard"
	case CommentsEmit:
		return "emit"
	default:
		return "attach"
	}
}

type Options struct {
	Reporter diag.Reporter   // может быть nil — тогда ошибки игнорируем (но продолжаем лексить)
	Registry *token.Registry // nil — token.DefaultRegistry()
	Comments CommentMode
}

func (o Options) registry() *token.Registry {
	if o.Registry != nil {
		return o.Registry
	}
	return token.DefaultRegistry()
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, nil)
	}
}

func (lx *Lexer) errLexFix(code diag.Code, sp source.Span, msg, title string, edit diag.FixEdit) {
	if lx.opts.Reporter == nil {
		return
	}
	diag.ReportError(lx.opts.Reporter, code, sp, msg).WithFix(title, edit).Emit()
}
