package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spin/internal/token"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFull(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[registry]
builtins  = ["cassandra"]
functions = ["warm-cache"]

[diagnostics]
max    = 10
format = "sarif"

[format]
indent = 4

[check]
jobs  = 3
cache = true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, []string{"cassandra"}, cfg.Registry.Builtins)
	assert.Equal(t, []string{"warm-cache"}, cfg.Registry.Functions)
	assert.Equal(t, 10, cfg.Diagnostics.Max)
	assert.Equal(t, "sarif", cfg.Diagnostics.Format)
	assert.Equal(t, 4, cfg.Format.Indent)
	assert.Equal(t, 80, cfg.Format.MaxInline, "unset keys keep defaults")
	assert.Equal(t, 3, cfg.Check.Jobs)
	assert.True(t, cfg.Check.Cache)

	reg := cfg.TokenRegistry()
	assert.Equal(t, token.Builtin, reg.Classify("cassandra"))
	assert.Equal(t, token.FunctionRef, reg.Classify("warm-cache"))
	assert.Equal(t, token.Builtin, reg.Classify("postgres"), "defaults survive extension")
}

func TestLoadEmptyFileGivesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, t.TempDir(), ""))
	require.NoError(t, err)
	def := Default()
	def.Path = cfg.Path
	assert.Equal(t, def, cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		key  string
	}{
		{"bad format", "[diagnostics]\nformat = \"xml\"", "diagnostics.format"},
		{"negative max", "[diagnostics]\nmax = -1", "diagnostics.max"},
		{"indent range", "[format]\nindent = 0", "format.indent"},
		{"negative jobs", "[check]\njobs = -2", "check.jobs"},
		{"keyword as builtin", "[registry]\nbuiltins = [\"app\"]", "registry.builtins"},
		{"not a bareword", "[registry]\nfunctions = [\"warm cache\"]", "registry.functions"},
		{"digits only", "[registry]\nbuiltins = [\"123\"]", "registry.builtins"},
		{"unknown key", "[diagnostics]\ncolour = true", "diagnostics.colour"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %T: %v", err, err)
			assert.Equal(t, tt.key, verr.Key)
			assert.Equal(t, path, verr.Path)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), path)
		})
	}
}

func TestLoadSyntaxError(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[diagnostics\nmax = 1")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse TOML")
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[format]\nindent = 3\n")
	nested := filepath.Join(root, "services", "api")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Format.Indent)

	dir, ok, err := FindProjectRoot(nested)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, root, dir)
}

func TestDiscoverWithoutFile(t *testing.T) {
	dir := t.TempDir()
	path, ok, err := Find(dir)
	require.NoError(t, err)
	if ok {
		// где-то выше временной директории лежит настоящий spn.toml
		t.Skipf("found %s above the temp dir", path)
	}
	cfg, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
}
