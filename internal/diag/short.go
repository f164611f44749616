package diag

import (
	"fmt"
	"path/filepath"
	"strings"

	"spin/internal/source"
)

type shortLine struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatShortDiagnostics renders diagnostics into a stable, single-line-per-entry
// representation used by golden tests and `--format short`:
//
//	error SYN2004 app.spn:3:3 duplicate key "port"
//
// Entries keep the order produced by Bag.Sort; notes follow their diagnostic.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	lines := make([]shortLine, 0, len(diags))
	for i := range diags {
		lines = appendShort(lines, &diags[i], fs, includeNotes)
	}

	var b strings.Builder
	for i, l := range lines {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", l.Severity, l.Code, l.Path, l.Line, l.Column, l.Message)
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func appendShort(out []shortLine, d *Diagnostic, fs *source.FileSet, includeNotes bool) []shortLine {
	if path, lc, ok := resolveSpan(fs, d.Primary); ok {
		out = append(out, shortLine{
			Severity: d.Severity.Label(),
			Code:     d.Code.ID(),
			Path:     path,
			Line:     lc.Line,
			Column:   lc.Col,
			Message:  sanitizeMessage(d.Message),
		})
	}
	if !includeNotes {
		return out
	}
	for _, note := range d.Notes {
		path, lc, ok := resolveSpan(fs, note.Span)
		if !ok {
			continue
		}
		out = append(out, shortLine{
			Severity: "note",
			Code:     d.Code.ID(),
			Path:     path,
			Line:     lc.Line,
			Column:   lc.Col,
			Message:  sanitizeMessage(note.Msg),
		})
	}
	return out
}

func resolveSpan(fs *source.FileSet, span source.Span) (string, source.LineCol, bool) {
	file := fs.Get(span.File)
	if file == nil {
		return "", source.LineCol{}, false
	}
	start, _ := file.Resolve(span)
	return normalizePath(file.FormatPath("relative", fs.BaseDir())), start, true
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
