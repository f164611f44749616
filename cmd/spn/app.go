package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"spin/internal/config"
	"spin/internal/driver"
	"spin/internal/format"
	"spin/internal/observ"
)

// stdinPath names standard input on the command line.
const stdinPath = "-"

// app is the state shared by the subcommands of one invocation.
type app struct {
	cfg     config.Config
	color   toggle
	quiet   bool
	timer   *observ.Timer // nil без --timings
	cleanup []func()
}

// setup reads the global flags, loads spn.toml and starts tracing.
func (a *app) setup(cmd *cobra.Command) error {
	pf := cmd.Root().PersistentFlags()

	colorFlag, err := pf.GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	if a.color, err = parseToggle("color", colorFlag); err != nil {
		return err
	}

	if a.quiet, err = pf.GetBool("quiet"); err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if pf.Changed("max-diagnostics") {
		maxDiagnostics, err := pf.GetInt("max-diagnostics")
		if err != nil {
			return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
		if maxDiagnostics < 0 {
			return fmt.Errorf("--max-diagnostics must be >= 0, got %d", maxDiagnostics)
		}
		cfg.Diagnostics.Max = maxDiagnostics
	}
	a.cfg = cfg

	showTimings, err := pf.GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	if showTimings {
		a.timer = observ.NewTimer()
	}

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	a.cleanup = append(a.cleanup, stopProfiling)

	stopTracing, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	a.cleanup = append(a.cleanup, stopTracing)
	return nil
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get working directory: %w", err)
	}
	return config.Discover(wd)
}

// finish prints timings, closes the tracer and stops the profilers.
func (a *app) finish(errOut io.Writer) {
	if a.timer != nil {
		printTimings(errOut, a.timer)
	}
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
	a.cleanup = nil
}

// toggle is the value of an auto|on|off flag (--color, --ui).
type toggle string

const (
	toggleAuto toggle = "auto"
	toggleOn   toggle = "on"
	toggleOff  toggle = "off"
)

func parseToggle(flag, value string) (toggle, error) {
	switch t := toggle(strings.ToLower(strings.TrimSpace(value))); t {
	case "":
		return toggleAuto, nil
	case toggleAuto, toggleOn, toggleOff:
		return t, nil
	}
	return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
}

// on resolves the toggle for output written to w; auto means "w is a terminal".
func (t toggle) on(w io.Writer) bool {
	switch t {
	case toggleOn:
		return true
	case toggleOff:
		return false
	}
	return isTerminal(w)
}

// useColor decides whether output written to w gets ANSI colours.
func (a *app) useColor(w io.Writer) bool {
	if a.color == toggleAuto && os.Getenv("NO_COLOR") != "" {
		return false
	}
	return a.color.on(w)
}

func (a *app) driverOptions() driver.Options {
	return driver.Options{
		Registry:       a.cfg.TokenRegistry(),
		MaxDiagnostics: a.cfg.Diagnostics.Max,
	}
}

func (a *app) formatOptions() format.Options {
	return format.Options{
		Indent:    a.cfg.Format.Indent,
		UseTabs:   a.cfg.Format.Tabs,
		MaxInline: a.cfg.Format.MaxInline,
	}
}

func (a *app) checkJobs(cmd *cobra.Command) (int, error) {
	if !cmd.Flags().Changed("jobs") {
		return a.cfg.Check.Jobs, nil
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return 0, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if jobs < 0 {
		return 0, fmt.Errorf("--jobs must be >= 0, got %d", jobs)
	}
	return jobs, nil
}
