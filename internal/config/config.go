package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"spin/internal/lexer"
	"spin/internal/token"
)

// Formats accepted by diagnostics.format.
var Formats = []string{"pretty", "short", "json", "sarif"}

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	// Path is the file the configuration was read from, "" for defaults.
	Path string `toml:"-"`

	Registry    RegistryConfig    `toml:"registry"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Format      FormatConfig      `toml:"format"`
	Check       CheckConfig       `toml:"check"`
}

// RegistryConfig extends the default service and action registries.
type RegistryConfig struct {
	Builtins  []string `toml:"builtins"`
	Functions []string `toml:"functions"`
}

type DiagnosticsConfig struct {
	Max    int    `toml:"max"`    // лимит на файл, 0 — без лимита
	Format string `toml:"format"` // pretty|short|json|sarif
}

type FormatConfig struct {
	Indent    int  `toml:"indent"`
	Tabs      bool `toml:"tabs"`
	MaxInline int  `toml:"max_inline"`
}

// CheckConfig drives `spn check` on directories.
type CheckConfig struct {
	Jobs     int    `toml:"jobs"`  // 0 — GOMAXPROCS
	Cache    bool   `toml:"cache"` // кэш диагностик на диске
	CacheDir string `toml:"cache_dir"`
}

// Default returns the configuration used when no spn.toml exists.
func Default() Config {
	return Config{
		Diagnostics: DiagnosticsConfig{Max: 100, Format: "pretty"},
		Format:      FormatConfig{Indent: 2, MaxInline: 80},
	}
}

// ValidationError names the file and key of a rejected setting.
type ValidationError struct {
	Path string
	Key  string
	Msg  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Key, e.Msg)
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

// Load parses path on top of the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, &ValidationError{Path: path, Key: undecoded[0].String(), Msg: "unknown key"}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Discover loads the nearest spn.toml at or above startDir, falling back to
// Default when none exists.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks value ranges and registry names.
func (c *Config) Validate() error {
	path := c.Path
	if path == "" {
		path = FileName
	}
	invalid := func(key, format string, args ...any) error {
		return &ValidationError{Path: path, Key: key, Msg: fmt.Sprintf(format, args...)}
	}

	if c.Diagnostics.Max < 0 {
		return invalid("diagnostics.max", "must be >= 0, got %d", c.Diagnostics.Max)
	}
	if !slices.Contains(Formats, c.Diagnostics.Format) {
		return invalid("diagnostics.format", "unknown format %q (want %s)", c.Diagnostics.Format, strings.Join(Formats, "|"))
	}
	if c.Format.Indent < 1 || c.Format.Indent > 8 {
		return invalid("format.indent", "must be between 1 and 8, got %d", c.Format.Indent)
	}
	if c.Format.MaxInline < 0 {
		return invalid("format.max_inline", "must be >= 0, got %d", c.Format.MaxInline)
	}
	if c.Check.Jobs < 0 {
		return invalid("check.jobs", "must be >= 0, got %d", c.Check.Jobs)
	}
	lists := []struct {
		key   string
		names []string
	}{
		{"registry.builtins", c.Registry.Builtins},
		{"registry.functions", c.Registry.Functions},
	}
	for _, l := range lists {
		for _, name := range l.names {
			if !lexer.IsBareword(name) {
				return invalid(l.key, "%q is not a bareword", name)
			}
			if token.IsKeyword(name) {
				return invalid(l.key, "%q is a reserved keyword", name)
			}
		}
	}
	return nil
}

// TokenRegistry returns the default registry extended with the configured names.
func (c *Config) TokenRegistry() *token.Registry {
	return token.DefaultRegistry().Extend(c.Registry.Builtins, c.Registry.Functions)
}
