package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"spin/internal/version"
)

// Коды выхода: 1 — найдены проблемы в манифестах, 2 — сбой самой команды.
const (
	exitOK       = 0
	exitFindings = 1
	exitFailure  = 2
)

// findingsError means the command ran to the end but the manifests have
// problems; the report is already printed.
type findingsError struct{ msg string }

func (e *findingsError) Error() string { return e.msg }

func findings(format string, args ...any) error {
	return &findingsError{msg: fmt.Sprintf(format, args...)}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the CLI with the given arguments and returns the exit code.
func execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	a.finish(errOut)
	return exitCode(errOut, err)
}

func exitCode(errOut io.Writer, err error) int {
	if err == nil {
		return exitOK
	}
	var fe *findingsError
	if errors.As(err, &fe) {
		if fe.msg != "" {
			fmt.Fprintln(errOut, fe.msg)
		}
		return exitFindings
	}
	fmt.Fprintf(errOut, "spn: %v\n", err)
	return exitFailure
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "spn",
		Short: "SPN manifest toolkit",
		Long:  `spn scans, parses, checks and formats SPN (.spn) service manifests`,
		// ошибки печатает exitCode, usage только по --help
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 0, "maximum number of diagnostics per file (default from spn.toml)")
	pf.String("config", "", "path to spn.toml (default: discovered from the working directory)")
	pf.String("trace", "", "write trace events to file (- for stderr, .ndjson for NDJSON)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-format", "auto", "trace output format (auto|text|ndjson)")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")

	root.AddCommand(
		newTokenizeCmd(a),
		newParseCmd(a),
		newCheckCmd(a),
		newFmtCmd(a),
		newFixCmd(a),
		newLSPCmd(a),
		newVersionCmd(),
	)
	return root
}

// isTerminal проверяет, является ли w терминалом
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
