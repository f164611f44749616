package driver

import (
	"bytes"
	"context"
	"errors"
	"os"

	"spin/internal/format"
	"spin/internal/source"
	"spin/internal/trace"
)

// FormatOptions configures FormatPaths.
type FormatOptions struct {
	// Check reports files that would change without touching them.
	Check bool
	// Stdout returns formatted content in results instead of writing files.
	Stdout  bool
	Options format.Options
}

// FormatResult captures the result of formatting a single file.
type FormatResult struct {
	Path      string
	Changed   bool
	Err       error
	Formatted []byte
}

// FormatPaths formats files and directories (recursively collecting *.spn).
// Files with error diagnostics are reported with format.ErrHasErrors and
// left alone.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]FormatResult, error) {
	sp, ctx := trace.BeginCtx(ctx, trace.ScopePass, "format")
	defer sp.End("")

	files, err := ExpandPaths(ctx, paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("format: no manifests found")
	}

	results := make([]FormatResult, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result := FormatResult{Path: path}
		formatted, changed, err := formatSingleFile(path, opts.Options)
		switch {
		case err != nil:
			result.Err = err
		case opts.Check:
			result.Changed = changed
		case opts.Stdout:
			result.Formatted = formatted
			result.Changed = changed
		case changed:
			mode := os.FileMode(0o644)
			if info, statErr := os.Stat(path); statErr == nil {
				mode = info.Mode()
			}
			if err := os.WriteFile(path, formatted, mode.Perm()); err != nil {
				result.Err = err
			} else {
				result.Changed = true
			}
		}
		results = append(results, result)
	}
	return results, nil
}

// FormatSource formats an in-memory manifest; used for stdin.
func FormatSource(name string, src []byte, opt format.Options) ([]byte, error) {
	fs := source.NewFileSet()
	return format.Source(fs.Get(fs.AddVirtual(name, src)), opt)
}

func formatSingleFile(path string, opt format.Options) (formatted []byte, changed bool, err error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, false, err
	}
	file := fs.Get(id)
	formatted, err = format.Source(file, opt)
	if err != nil {
		return nil, false, err
	}
	// Content хранит байты с диска, так что BOM и CRLF тоже дают разницу
	return formatted, !bytes.Equal(file.Content, formatted), nil
}
