package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spin/internal/diagfmt"
	"spin/internal/version"
)

const (
	cleanManifest = "app \"web\" {\n  port: 3000\n  needs: [postgres, redis]\n}\n"
	dupManifest   = "app \"web\" {\n  port: 1\n  port: 2\n}\n"
)

type runOutput struct {
	code   int
	stdout string
	stderr string
}

// runCLI executes spn with a fresh command tree.
func runCLI(t *testing.T, stdin string, args ...string) runOutput {
	t.Helper()
	var out, errOut bytes.Buffer
	var in io.Reader = strings.NewReader(stdin)
	code := execute(context.Background(), args, in, &out, &errOut)
	return runOutput{code: code, stdout: out.String(), stderr: errOut.String()}
}

// workspace creates a project directory with an empty spn.toml, so config
// discovery stops there, and makes it the working directory.
func workspace(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	if _, ok := files["spn.toml"]; !ok {
		files["spn.toml"] = ""
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	t.Chdir(dir)
	return dir
}

func TestVersionJSON(t *testing.T) {
	res := runCLI(t, "", "version", "--format", "json")
	require.Equal(t, exitOK, res.code, res.stderr)

	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &payload))
	assert.Equal(t, "spn", payload.Tool)
	assert.Equal(t, version.Version, payload.Version)
}

func TestVersionIgnoresBrokenConfig(t *testing.T) {
	workspace(t, map[string]string{"spn.toml": "[diagnostics\n"})
	res := runCLI(t, "", "version", "--color", "off")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, version.String(false)+"\n", res.stdout)
}

func TestTokenizeStdinJSON(t *testing.T) {
	workspace(t, map[string]string{})
	res := runCLI(t, `app "web" {}`, "tokenize", "--format", "json", "-")
	require.Equal(t, exitOK, res.code, res.stderr)

	var toks []diagfmt.TokenOutput
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &toks))
	require.NotEmpty(t, toks)
	assert.Equal(t, "Keyword", toks[0].Kind)
	assert.Equal(t, "app", toks[0].Text)
	assert.Equal(t, "EOF", toks[len(toks)-1].Kind)
}

func TestTokenizeBadFlags(t *testing.T) {
	workspace(t, map[string]string{})
	res := runCLI(t, "", "tokenize", "--comments", "keep", "-")
	assert.Equal(t, exitFailure, res.code)
	assert.Contains(t, res.stderr, "invalid --comments value")

	res = runCLI(t, "", "tokenize", "--format", "xml", "-")
	assert.Equal(t, exitFailure, res.code)
	assert.Contains(t, res.stderr, "unknown format: xml")
}

func TestParseJSON(t *testing.T) {
	workspace(t, map[string]string{"web.spn": cleanManifest})
	res := runCLI(t, "", "parse", "--format", "json", "web.spn")
	require.Equal(t, exitOK, res.code, res.stderr)

	var doc diagfmt.DocumentOutput
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &doc))
	require.Len(t, doc.Blocks, 1)
	assert.Equal(t, "app", doc.Blocks[0].Keyword)
	assert.Equal(t, "web", doc.Blocks[0].Label)
	assert.Len(t, doc.Blocks[0].Fields, 2)
}

func TestParseYAMLAndTree(t *testing.T) {
	workspace(t, map[string]string{"web.spn": cleanManifest})

	res := runCLI(t, "", "parse", "--format", "yaml", "web.spn")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "keyword: app")

	res = runCLI(t, "", "parse", "web.spn")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, `Block app "web"`)
}

func TestParseUnclosed(t *testing.T) {
	workspace(t, map[string]string{})
	res := runCLI(t, "app \"web\" {\n  port: 3000\n", "parse", "--color", "off", "-")
	assert.Equal(t, exitFindings, res.code)
	assert.Contains(t, res.stderr, "SYN2005")
	assert.Empty(t, res.stdout, "fatal parse prints no tree without --keep-partial")

	res = runCLI(t, "app \"web\" {\n  port: 3000\n", "parse", "--keep-partial", "--color", "off", "-")
	assert.Equal(t, exitFindings, res.code)
	assert.Contains(t, res.stdout, `Block app "web"`)
}

func TestParseRejectsDirectory(t *testing.T) {
	dir := workspace(t, map[string]string{"web.spn": cleanManifest})
	res := runCLI(t, "", "parse", dir)
	assert.Equal(t, exitFailure, res.code)
	assert.Contains(t, res.stderr, "is a directory")
}

func TestCheckClean(t *testing.T) {
	workspace(t, map[string]string{"web.spn": cleanManifest, "svc/db.spn": "app \"db\" {}\n"})
	res := runCLI(t, "", "check", "--format", "short")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "checked 2 files: 0 errors, 0 warnings")
}

func TestCheckReportsDuplicate(t *testing.T) {
	workspace(t, map[string]string{"web.spn": cleanManifest, "dup.spn": dupManifest})
	res := runCLI(t, "", "check", "--format", "short", "--with-notes", ".")
	assert.Equal(t, exitFindings, res.code)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 2, res.stdout)
	assert.Equal(t, `error SYN2004 dup.spn:3:3 duplicate key "port"`, lines[0])
	assert.Equal(t, "note SYN2004 dup.spn:2:3 first defined here", lines[1])
	assert.Contains(t, res.stderr, "checked 2 files: 1 error, 0 warnings")
}

func TestCheckQuiet(t *testing.T) {
	workspace(t, map[string]string{"dup.spn": dupManifest})
	res := runCLI(t, "", "--quiet", "check", "--format", "short")
	assert.Equal(t, exitFindings, res.code)
	assert.Empty(t, res.stderr)
}

func TestCheckStdinJSON(t *testing.T) {
	workspace(t, map[string]string{})
	res := runCLI(t, dupManifest, "check", "--format", "json", "-")
	assert.Equal(t, exitFindings, res.code)

	var out diagfmt.DiagnosticsOutput
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out), res.stdout)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "SYN2004", out.Diagnostics[0].Code)
	assert.Equal(t, "<stdin>", out.Diagnostics[0].Location.File)
}

func TestCheckSarif(t *testing.T) {
	workspace(t, map[string]string{"dup.spn": dupManifest})
	res := runCLI(t, "", "check", "--format", "sarif")
	assert.Equal(t, exitFindings, res.code)

	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Results []struct {
				RuleID string `json:"ruleId"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &log))
	assert.Equal(t, "2.1.0", log.Version)
	require.Len(t, log.Runs, 1)
	require.Len(t, log.Runs[0].Results, 1)
	assert.Equal(t, "SYN2004", log.Runs[0].Results[0].RuleID)
}

func TestCheckStdinMixed(t *testing.T) {
	workspace(t, map[string]string{"web.spn": cleanManifest})
	res := runCLI(t, "", "check", "-", "web.spn")
	assert.Equal(t, exitFailure, res.code)
	assert.Contains(t, res.stderr, "cannot be combined")
}

func TestCheckUsesConfigFormat(t *testing.T) {
	workspace(t, map[string]string{
		"spn.toml": "[diagnostics]\nformat = \"short\"\n",
		"dup.spn":  dupManifest,
	})
	res := runCLI(t, "", "check")
	assert.Equal(t, exitFindings, res.code)
	assert.True(t, strings.HasPrefix(res.stdout, "error SYN2004 dup.spn:3:3"), res.stdout)
}

func TestCheckConfigRegistry(t *testing.T) {
	workspace(t, map[string]string{
		"spn.toml": "[registry]\nbuiltins = [\"cassandra\"]\n",
		"web.spn":  "app \"web\" { needs: [cassandra] }\n",
	})
	res := runCLI(t, "", "tokenize", "--format", "json", "web.spn")
	require.Equal(t, exitOK, res.code, res.stderr)

	var toks []diagfmt.TokenOutput
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &toks))
	var kind string
	for _, tok := range toks {
		if tok.Text == "cassandra" {
			kind = tok.Kind
		}
	}
	assert.Equal(t, "Builtin", kind)
}

func TestCheckCache(t *testing.T) {
	workspace(t, map[string]string{"web.spn": cleanManifest, "dup.spn": dupManifest})
	cacheDir := t.TempDir()

	first := runCLI(t, "", "check", "--format", "short", "--cache", "--cache-dir", cacheDir)
	assert.Equal(t, exitFindings, first.code)
	assert.NotContains(t, first.stderr, "cached")

	second := runCLI(t, "", "check", "--format", "short", "--cache", "--cache-dir", cacheDir)
	assert.Equal(t, exitFindings, second.code)
	assert.Equal(t, first.stdout, second.stdout)
	assert.Contains(t, second.stderr, "(2 cached)")

	third := runCLI(t, "", "check", "--format", "short", "--cache", "--clear-cache", "--cache-dir", cacheDir)
	assert.NotContains(t, third.stderr, "cached")
}

func TestCheckEmptyDir(t *testing.T) {
	workspace(t, map[string]string{})
	res := runCLI(t, "", "check")
	assert.Equal(t, exitOK, res.code)
	assert.Contains(t, res.stderr, "no manifests found")
}

func TestGlobalFlagErrors(t *testing.T) {
	workspace(t, map[string]string{"web.spn": cleanManifest})
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"format", []string{"check", "--format", "xml"}, "unknown diagnostics format"},
		{"color", []string{"--color", "maybe", "check"}, "invalid --color value"},
		{"ui", []string{"check", "--ui", "fancy"}, "invalid --ui value"},
		{"jobs", []string{"check", "--jobs", "-2"}, "--jobs must be >= 0"},
		{"max-diagnostics", []string{"--max-diagnostics", "-1", "check"}, "--max-diagnostics must be >= 0"},
		{"trace-level", []string{"--trace-level", "loud", "check"}, "invalid trace level"},
		{"unknown command", []string{"deploy"}, "unknown command"},
		{"missing path", []string{"check", "nope.spn"}, "check:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, "", tt.args...)
			assert.Equal(t, exitFailure, res.code)
			assert.Contains(t, res.stderr, tt.want)
		})
	}
}

func TestInvalidConfig(t *testing.T) {
	workspace(t, map[string]string{"spn.toml": "[diagnostics]\nformat = \"xml\"\n", "web.spn": cleanManifest})
	res := runCLI(t, "", "check")
	assert.Equal(t, exitFailure, res.code)
	assert.Contains(t, res.stderr, "diagnostics.format")
}

func TestExplicitConfigFlag(t *testing.T) {
	workspace(t, map[string]string{"dup.spn": dupManifest})
	cfg := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[diagnostics]\nformat = \"short\"\n"), 0o600))

	res := runCLI(t, "", "--config", cfg, "check")
	assert.Equal(t, exitFindings, res.code)
	assert.True(t, strings.HasPrefix(res.stdout, "error SYN2004"), res.stdout)
}

func TestFmtCheckAndWrite(t *testing.T) {
	dir := workspace(t, map[string]string{"web.spn": "app \"web\" {port: 3000}\n"})

	res := runCLI(t, "", "fmt", "--check", ".")
	assert.Equal(t, exitFindings, res.code)
	assert.Equal(t, "web.spn\n", res.stdout)
	assert.Contains(t, res.stderr, "formatting changes required")

	res = runCLI(t, "", "fmt", ".")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "reformatted web.spn\n", res.stdout)

	data, err := os.ReadFile(filepath.Join(dir, "web.spn"))
	require.NoError(t, err)
	assert.Equal(t, "app \"web\" {\n  port: 3000\n}\n", string(data))

	res = runCLI(t, "", "fmt", "--check", ".")
	assert.Equal(t, exitOK, res.code, res.stdout)
}

func TestFmtStdoutAndErrors(t *testing.T) {
	workspace(t, map[string]string{
		"spn.toml":   "[format]\nindent = 4\n",
		"web.spn":    "app \"web\" {port: 3000}\n",
		"broken.spn": "app \"web\" {\n",
	})

	res := runCLI(t, "", "fmt", "--stdout", "web.spn")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "app \"web\" {\n    port: 3000\n}\n", res.stdout)

	res = runCLI(t, "", "fmt", "broken.spn")
	assert.Equal(t, exitFindings, res.code)
	assert.Contains(t, res.stderr, "fmt: broken.spn:")

	res = runCLI(t, "", "fmt", "--stdout", "--check", "web.spn")
	assert.Equal(t, exitFailure, res.code)
}

func TestFmtStdin(t *testing.T) {
	workspace(t, map[string]string{})
	res := runCLI(t, "app \"web\" {port: 3000}", "fmt", "-")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "app \"web\" {\n  port: 3000\n}\n", res.stdout)

	res = runCLI(t, "app \"web\" {", "fmt", "-")
	assert.Equal(t, exitFindings, res.code)
	assert.Contains(t, res.stderr, "fmt: <stdin>:")
}

func TestFmtJSON(t *testing.T) {
	workspace(t, map[string]string{"web.spn": cleanManifest})
	res := runCLI(t, "", "fmt", "--format", "json", "--check", "web.spn")
	require.Equal(t, exitOK, res.code, res.stderr)

	var payload []struct {
		Path    string `json:"path"`
		Changed bool   `json:"changed"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &payload))
	require.Len(t, payload, 1)
	assert.Equal(t, "web.spn", payload[0].Path)
	assert.False(t, payload[0].Changed)
}

func TestFixDryRunThenWrite(t *testing.T) {
	dir := workspace(t, map[string]string{"dup.spn": dupManifest})
	path := filepath.Join(dir, "dup.spn")

	res := runCLI(t, "", "fix", "--dry-run", ".")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "would fix dup.spn: remove duplicate field (SYN2004)\n", res.stdout)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, dupManifest, string(data), "dry run must not touch the file")

	res = runCLI(t, "", "fix", "--dry-run", "--stdout", "dup.spn")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.NotContains(t, res.stdout, "port: 2")

	res = runCLI(t, "", "fix", ".")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "fixed dup.spn: remove duplicate field (SYN2004)\n", res.stdout)

	res = runCLI(t, "", "check", "--format", "short")
	assert.Equal(t, exitOK, res.code, res.stdout)

	res = runCLI(t, "", "fix", "--stdout", ".")
	assert.Equal(t, exitFailure, res.code)
}

func TestTimingsAndTrace(t *testing.T) {
	dir := workspace(t, map[string]string{"web.spn": cleanManifest})
	tracePath := filepath.Join(dir, "trace.ndjson")

	res := runCLI(t, "", "--timings", "--trace", tracePath, "--trace-level", "detail", "check", "--format", "short")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stderr, "timings:")
	assert.Contains(t, res.stderr, "discover")

	data, err := os.ReadFile(tracePath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.True(t, json.Valid([]byte(line)), line)
	}
	assert.Contains(t, string(data), `"name":"check"`)
	assert.Contains(t, string(data), `"name":"file:web.spn"`)
}

func TestParseToggle(t *testing.T) {
	for in, want := range map[string]toggle{"": toggleAuto, "AUTO": toggleAuto, " on ": toggleOn, "off": toggleOff} {
		got, err := parseToggle("ui", in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseToggle("ui", "sometimes")
	assert.EqualError(t, err, `invalid --ui value "sometimes" (expected auto|on|off)`)

	var buf bytes.Buffer
	assert.True(t, toggleOn.on(&buf))
	assert.False(t, toggleAuto.on(&buf), "a buffer is not a terminal")
	assert.False(t, toggleOff.on(&buf))

	a := &app{color: toggleOn}
	assert.True(t, a.useColor(&buf))
	a.color = toggleAuto
	t.Setenv("NO_COLOR", "1")
	assert.False(t, a.useColor(&buf))
}

func TestProfilingFlags(t *testing.T) {
	dir := workspace(t, map[string]string{"web.spn": cleanManifest})
	memPath := filepath.Join(dir, "mem.pprof")

	res := runCLI(t, "", "--mem-profile", memPath, "check", "--format", "short", "web.spn")
	require.Equal(t, exitOK, res.code, res.stderr)
	info, err := os.Stat(memPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	res = runCLI(t, "", "--cpu-profile", filepath.Join(dir, "missing", "cpu.pprof"), "check", "web.spn")
	assert.Equal(t, exitFailure, res.code)
	assert.Contains(t, res.stderr, "cpu profile")
}

func lspFrame(t *testing.T, msgs ...string) string {
	t.Helper()
	var b strings.Builder
	for _, m := range msgs {
		fmt.Fprintf(&b, "Content-Length: %d\r\n\r\n%s", len(m), m)
	}
	return b.String()
}

func TestLSPSession(t *testing.T) {
	workspace(t, map[string]string{})
	in := lspFrame(t,
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","method":"textDocument/didOpen","params":{"textDocument":{"uri":"untitled:a","languageId":"spn","version":1,"text":"app \"web\" {\n  port: 1\n  port: 2\n}\n"}}}`,
		`{"jsonrpc":"2.0","id":2,"method":"shutdown"}`,
		`{"jsonrpc":"2.0","method":"exit"}`,
	)
	res := runCLI(t, in, "lsp", "--stdio")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, `"documentFormattingProvider":true`)
	assert.Contains(t, res.stdout, `"code":"SYN2004"`)
	assert.Contains(t, res.stdout, `"id":2`)
}

func TestLSPExitWithoutShutdown(t *testing.T) {
	workspace(t, map[string]string{})
	res := runCLI(t, lspFrame(t, `{"jsonrpc":"2.0","method":"exit"}`), "lsp")
	assert.Equal(t, exitFindings, res.code)
	assert.Empty(t, res.stdout)
}
