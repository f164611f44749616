package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spin/internal/diagfmt"
	"spin/internal/driver"
)

func newParseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] <file.spn|->",
		Short: "Parse an SPN manifest and output its AST",
		Long:  `Parse structures an SPN manifest into blocks and fields and prints the syntax tree; "-" reads standard input`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(a, cmd, args[0])
		},
	}
	cmd.Flags().String("format", "tree", "output format (tree|json|yaml)")
	cmd.Flags().Bool("keep-partial", false, "print the partial tree of unterminated input")
	return cmd
}

func runParse(a *app, cmd *cobra.Command, path string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "tree", "json", "yaml":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	keepPartial, err := cmd.Flags().GetBool("keep-partial")
	if err != nil {
		return fmt.Errorf("failed to get keep-partial flag: %w", err)
	}

	opts := a.driverOptions()
	opts.KeepPartial = keepPartial

	idx := a.timer.Begin("parse")
	var result *driver.ParseResult
	if path == stdinPath {
		result, err = driver.ParseReader("<stdin>", cmd.InOrStdin(), opts)
	} else {
		// Проверяем, что это не директория
		if st, statErr := os.Stat(path); statErr == nil && st.IsDir() {
			a.timer.End(idx, "")
			return fmt.Errorf("%s is a directory (use spn check)", path)
		}
		result, err = driver.Parse(path, opts)
	}
	a.timer.End(idx, "")
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	errOut := cmd.ErrOrStderr()
	if err := writeDiagnostics(errOut, result.Bag, result.FileSet, reportOptions{format: "pretty", color: a.useColor(errOut)}); err != nil {
		return err
	}

	if result.Document != nil {
		out := cmd.OutOrStdout()
		switch format {
		case "json":
			err = diagfmt.FormatASTJSON(out, result.Document, result.FileSet)
		case "yaml":
			err = diagfmt.FormatASTYAML(out, result.Document, result.FileSet)
		default:
			err = diagfmt.FormatASTTree(out, result.Document, result.FileSet)
		}
		if err != nil {
			return err
		}
	}

	if result.Bag.HasErrors() {
		return findings("")
	}
	return nil
}
