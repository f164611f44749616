package diagfmt

import (
	"io"

	"spin/internal/diag"
	"spin/internal/source"
)

// Short печатает по строке на диагностику: `error SYN2004 app.spn:3:5 msg`.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) error {
	out := diag.FormatShortDiagnostics(bag.Items(), fs, includeNotes)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
