package main

import (
	"fmt"
	"io"
	"slices"

	"spin/internal/config"
	"spin/internal/diag"
	"spin/internal/diagfmt"
	"spin/internal/source"
	"spin/internal/version"
)

// reportOptions controls how writeDiagnostics renders a bag.
type reportOptions struct {
	format string // pretty|short|json|sarif
	color  bool
	notes  bool
	fixes  bool
	args   []string // попадают в SARIF invocation
}

func checkReportFormat(format string) error {
	if !slices.Contains(config.Formats, format) {
		return fmt.Errorf("unknown diagnostics format %q (expected pretty|short|json|sarif)", format)
	}
	return nil
}

func writeDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts reportOptions) error {
	switch opts.format {
	case "pretty":
		if bag.Len() == 0 {
			return nil
		}
		if err := diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     opts.color,
			Context:   1,
			PathMode:  diagfmt.PathModeRelative,
			ShowNotes: true,
			ShowFixes: opts.fixes,
		}); err != nil {
			return err
		}
		if bag.Dropped() > 0 {
			_, err := fmt.Fprintf(w, "... %d more diagnostics not shown\n", bag.Dropped())
			return err
		}
		return nil
	case "short":
		return diagfmt.Short(w, bag, fs, opts.notes)
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			IncludeNotes:     opts.notes,
			IncludeFixes:     opts.fixes,
		})
	case "sarif":
		return diagfmt.Sarif(w, bag, fs, diagfmt.SarifRunMeta{
			ToolName:       "spn",
			ToolVersion:    version.Version,
			InvocationArgs: opts.args,
		})
	default:
		return checkReportFormat(opts.format)
	}
}
