package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"spin/internal/diag"
	"spin/internal/driver"
)

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] [path...]",
		Short: "Check SPN manifests for syntax problems",
		Long: `Check scans and parses manifests and reports their diagnostics.
Directories are searched recursively for *.spn files; "-" reads standard input.
Without arguments the current directory is checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(a, cmd, args)
		},
	}
	cmd.Flags().String("format", "", "diagnostics format (pretty|short|json|sarif, default from spn.toml)")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().Bool("cache", false, "reuse diagnostics of unchanged files from the disk cache")
	cmd.Flags().String("cache-dir", "", "disk cache directory (default $XDG_CACHE_HOME/spn)")
	cmd.Flags().Bool("clear-cache", false, "drop every cache entry before checking")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in short and json output")
	cmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	return cmd
}

type checkFlags struct {
	report     reportOptions
	jobs       int
	cache      bool
	cacheDir   string
	clearCache bool
	ui         toggle
}

func readCheckFlags(a *app, cmd *cobra.Command) (checkFlags, error) {
	var f checkFlags
	flags := cmd.Flags()

	f.report.format = a.cfg.Diagnostics.Format
	if flags.Changed("format") {
		format, err := flags.GetString("format")
		if err != nil {
			return f, fmt.Errorf("failed to get format flag: %w", err)
		}
		f.report.format = format
	}
	if err := checkReportFormat(f.report.format); err != nil {
		return f, err
	}

	var err error
	if f.report.notes, err = flags.GetBool("with-notes"); err != nil {
		return f, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if f.report.fixes, err = flags.GetBool("suggest"); err != nil {
		return f, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if f.jobs, err = a.checkJobs(cmd); err != nil {
		return f, err
	}

	f.cache, f.cacheDir = a.cfg.Check.Cache, a.cfg.Check.CacheDir
	if flags.Changed("cache") {
		if f.cache, err = flags.GetBool("cache"); err != nil {
			return f, fmt.Errorf("failed to get cache flag: %w", err)
		}
	}
	if flags.Changed("cache-dir") {
		if f.cacheDir, err = flags.GetString("cache-dir"); err != nil {
			return f, fmt.Errorf("failed to get cache-dir flag: %w", err)
		}
	}
	if f.clearCache, err = flags.GetBool("clear-cache"); err != nil {
		return f, fmt.Errorf("failed to get clear-cache flag: %w", err)
	}

	uiFlag, err := flags.GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = parseToggle("ui", uiFlag); err != nil {
		return f, err
	}
	return f, nil
}

func runCheck(a *app, cmd *cobra.Command, args []string) error {
	f, err := readCheckFlags(a, cmd)
	if err != nil {
		return err
	}
	f.report.args = append([]string{"spn", "check"}, args...)

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	f.report.color = a.useColor(out)

	if slices.Contains(args, stdinPath) {
		if len(args) != 1 {
			return fmt.Errorf("check: %q cannot be combined with other paths", stdinPath)
		}
		return checkStdin(a, cmd, f.report)
	}
	if len(args) == 0 {
		args = []string{"."}
	}

	opts := driver.CheckOptions{Options: a.driverOptions(), Jobs: f.jobs, Timer: a.timer}
	if f.cache || f.clearCache {
		cache, err := driver.OpenDiskCache(f.cacheDir)
		if err != nil {
			return err
		}
		if f.clearCache {
			if err := cache.DropAll(); err != nil {
				return err
			}
		}
		if f.cache {
			opts.Cache = cache
		}
	}

	base, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	var res *driver.CheckResult
	if f.ui.on(errOut) {
		files, err := driver.ExpandPaths(cmd.Context(), args)
		if err != nil {
			return fmt.Errorf("check: %w", err)
		}
		res, err = runCheckWithUI(cmd.Context(), errOut, fmt.Sprintf("checking %d manifests", len(files)), base, files, opts)
		if err != nil {
			return fmt.Errorf("check: %w", err)
		}
	} else {
		res, err = driver.CheckPaths(cmd.Context(), base, args, opts)
		if err != nil {
			return fmt.Errorf("check: %w", err)
		}
	}

	all := diag.NewBag(0)
	for i := range res.Files {
		all.Merge(res.Files[i].Bag)
	}
	all.Sort()
	if err := writeDiagnostics(out, all, res.FileSet, f.report); err != nil {
		return err
	}

	if !a.quiet && (f.report.format == "pretty" || f.report.format == "short") {
		printCheckSummary(errOut, res)
	}
	if res.HasErrors() {
		return findings("")
	}
	return nil
}

func checkStdin(a *app, cmd *cobra.Command, report reportOptions) error {
	idx := a.timer.Begin("check")
	result, err := driver.ParseReader("<stdin>", cmd.InOrStdin(), a.driverOptions())
	a.timer.End(idx, "stdin")
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}
	if err := writeDiagnostics(cmd.OutOrStdout(), result.Bag, result.FileSet, report); err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return findings("")
	}
	return nil
}

func printCheckSummary(w io.Writer, res *driver.CheckResult) {
	if len(res.Files) == 0 {
		fmt.Fprintln(w, "no manifests found")
		return
	}
	errs, warnings := res.Counts()
	cached := 0
	for i := range res.Files {
		if res.Files[i].Cached {
			cached++
		}
	}
	fmt.Fprintf(w, "checked %d %s: %d %s, %d %s",
		len(res.Files), plural(len(res.Files), "file", "files"),
		errs, plural(errs, "error", "errors"),
		warnings, plural(warnings, "warning", "warnings"))
	if cached > 0 {
		fmt.Fprintf(w, " (%d cached)", cached)
	}
	fmt.Fprintln(w)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
