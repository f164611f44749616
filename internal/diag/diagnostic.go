package diag

import (
	"spin/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type FixEdit struct {
	Span    source.Span
	NewText string
	OldText string // если не пусто, движок проверяет текущее содержимое
}

type Fix struct {
	Title string
	Edits []FixEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(title string, edits ...FixEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Edits: edits})
	return d
}

// InsertText builds an edit that inserts text at offset.
func InsertText(file source.FileID, at uint32, text string) FixEdit {
	return FixEdit{Span: source.Span{File: file, Start: at, End: at}, NewText: text}
}

// DeleteSpan builds an edit that removes span, guarded by its old content.
func DeleteSpan(span source.Span, old string) FixEdit {
	return FixEdit{Span: span, OldText: old}
}
