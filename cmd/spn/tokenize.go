package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"spin/internal/diagfmt"
	"spin/internal/driver"
	"spin/internal/lexer"
)

func newTokenizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] <file.spn|->",
		Short: "Tokenize an SPN manifest",
		Long:  `Tokenize breaks an SPN manifest down into its tokens; "-" reads standard input`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokenize(a, cmd, args[0])
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().String("comments", "attach", "comment handling (attach|discard|emit)")
	return cmd
}

func runTokenize(a *app, cmd *cobra.Command, path string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	commentsFlag, err := cmd.Flags().GetString("comments")
	if err != nil {
		return fmt.Errorf("failed to get comments flag: %w", err)
	}
	comments, err := readCommentMode(commentsFlag)
	if err != nil {
		return err
	}

	opts := a.driverOptions()
	opts.Comments = comments

	idx := a.timer.Begin("tokenize")
	var result *driver.TokenizeResult
	if path == stdinPath {
		var src []byte
		src, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		result = driver.TokenizeSource("<stdin>", src, opts)
	} else {
		result, err = driver.Tokenize(path, opts)
	}
	a.timer.End(idx, "")
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим диагностику в stderr, если есть
	errOut := cmd.ErrOrStderr()
	if err := writeDiagnostics(errOut, result.Bag, result.FileSet, reportOptions{format: "pretty", color: a.useColor(errOut)}); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		err = diagfmt.FormatTokensJSON(out, result.Tokens, result.FileSet)
	default:
		err = diagfmt.FormatTokensPretty(out, result.Tokens, result.FileSet)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return findings("")
	}
	return nil
}

func readCommentMode(value string) (lexer.CommentMode, error) {
	switch value {
	case "attach":
		return lexer.CommentsAttach, nil
	case "discard":
		return lexer.CommentsDiscard, nil
	case "emit":
		return lexer.CommentsEmit, nil
	default:
		return lexer.CommentsAttach, fmt.Errorf("invalid --comments value %q (expected attach|discard|emit)", value)
	}
}
