package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"spin/internal/driver"
)

func newFixCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [flags] <path> [path...]",
		Short: "Apply suggested fixes to SPN manifests",
		Long:  "Parse manifests, apply the machine-applicable fixes of their diagnostics and write the files back.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(a, cmd, args)
		},
	}
	cmd.Flags().Bool("dry-run", false, "list the fixes without modifying files")
	cmd.Flags().Bool("stdout", false, "with --dry-run, print the fixed content to stdout")
	return cmd
}

func runFix(a *app, cmd *cobra.Command, args []string) error {
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	toStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return err
	}
	if toStdout && !dryRun {
		return fmt.Errorf("fix: --stdout requires --dry-run")
	}

	idx := a.timer.Begin("fix")
	results, err := driver.FixPaths(cmd.Context(), args, driver.FixOptions{
		Options: a.driverOptions(),
		DryRun:  dryRun,
	})
	a.timer.End(idx, "")
	if err != nil {
		return err
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	failed := false
	for _, res := range results {
		if res.Err != nil {
			failed = true
			fmt.Fprintf(errOut, "fix: %s: %v\n", res.Path, res.Err)
			continue
		}
		if toStdout {
			if res.Content != nil {
				_, _ = out.Write(res.Content)
			}
			continue
		}
		if !a.quiet {
			renderFixResult(out, res, dryRun)
		}
	}
	if failed {
		return findings("fix: failed to fix some files")
	}
	return nil
}

func renderFixResult(out io.Writer, res driver.FixResult, dryRun bool) {
	verb := "fixed"
	if dryRun {
		verb = "would fix"
	}
	for _, applied := range res.Applied {
		fmt.Fprintf(out, "%s %s: %s (%s)\n", verb, res.Path, applied.Title, applied.Code.ID())
	}
	for _, skipped := range res.Skipped {
		fmt.Fprintf(out, "skipped %s: %s (%s)\n", res.Path, skipped.Title, skipped.Reason)
	}
}
