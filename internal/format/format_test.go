package format

import (
	"errors"
	"strings"
	"testing"

	"spin/internal/ast"
	"spin/internal/source"
)

const landingManifest = `#! spn 1.0
{ name: "my-webapp" }

app "web" {
  type: "node"
  port: 3000
  needs: [postgres, redis]
}
`

func virtual(input string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("fmt.spn", []byte(input)))
}

func mustFormat(t *testing.T, input string, opt Options) string {
	t.Helper()
	out, err := Source(virtual(input), opt)
	if err != nil {
		t.Fatalf("Source(%q): %v", input, err)
	}
	return string(out)
}

func TestFormatLandingIsCanonical(t *testing.T) {
	if got := mustFormat(t, landingManifest, Options{}); got != landingManifest {
		t.Fatalf("landing manifest changed:\n%s", got)
	}
}

func TestFormatGolden(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "one-line block",
			input: `app "api" { port: 8080, needs: [postgres,redis] }`,
			want:  "app \"api\" {\n  port: 8080\n  needs: [postgres, redis]\n}\n",
		},
		{
			name:  "blank lines between blocks",
			input: "app {}\n\n\n\nbuild { run: \"make\" }",
			want:  "app {}\n\nbuild {\n  run: \"make\"\n}\n",
		},
		{
			name:  "comments kept",
			input: "; header\napp { ; inline\n  port: 1 ; tail\n}\n; eof",
			want:  "; header\napp {\n  ; inline\n  port: 1 ; tail\n}\n\n; eof\n",
		},
		{
			name:  "nested list of blocks",
			input: `workspace "mono" { apps: [app "a" { port: 1 }, app "b" {}] }`,
			want: "workspace \"mono\" {\n" +
				"  apps: [\n" +
				"    app \"a\" {\n" +
				"      port: 1\n" +
				"    },\n" +
				"    app \"b\" {}\n" +
				"  ]\n" +
				"}\n",
		},
		{
			name:  "nested block value",
			input: `app { check: health { port: 8080, mode: "http" } }`,
			want:  "app {\n  check: health {\n    port: 8080\n    mode: \"http\"\n  }\n}\n",
		},
		{
			name:  "values",
			input: `env { url: ${DB_URL}, db: @postgres, ref: @[a.b], tag: #x, ph: <p>, mode: "dev"|"prod" }`,
			want:  "env {\n  url: ${DB_URL}\n  db: @postgres\n  ref: @[a.b]\n  tag: #x\n  ph: <p>\n  mode: \"dev\" | \"prod\"\n}\n",
		},
		{
			name:  "metadata only",
			input: `{name:"x",version:"1.0"}`,
			want:  "{ name: \"x\", version: \"1.0\" }\n",
		},
		{
			name:  "shebang without text",
			input: "#!\napp {}",
			want:  "#!\n\napp {}\n",
		},
		{
			name:  "empty",
			input: "  \n\n",
			want:  "",
		},
		{
			name:  "only a comment",
			input: "  \n; nothing\n",
			want:  "; nothing\n",
		},
		{
			name:  "comment forces metadata onto lines",
			input: "{ name: \"x\", ; why\n version: \"1\" }",
			want:  "{\n  name: \"x\", ; why\n  version: \"1\"\n}\n",
		},
		{
			name:  "comments in list and empty body",
			input: "app { needs: [a, ; b is optional\n b], x: health { ; todo\n } }",
			want: "app {\n" +
				"  needs: [\n" +
				"    a, ; b is optional\n" +
				"    b\n" +
				"  ]\n" +
				"  x: health {\n" +
				"    ; todo\n" +
				"  }\n" +
				"}\n",
		},
		{
			name:  "crlf comment",
			input: "app {\r\n  port: 1 ; tail\r\n}\r\n",
			want:  "app {\n  port: 1 ; tail\n}\n",
		},
		{
			name:  "raw integer kept",
			input: `app { port: 0080 }`,
			want:  "app {\n  port: 0080\n}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustFormat(t, tt.input, Options{}); got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestFormatLongListWraps(t *testing.T) {
	input := `app { needs: [postgres, redis, rabbitmq, mongodb] }`
	got := mustFormat(t, input, Options{MaxInline: 20})
	want := "app {\n  needs: [\n    postgres,\n    redis,\n    rabbitmq,\n    mongodb\n  ]\n}\n"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatIndentOptions(t *testing.T) {
	input := `app { check: health { port: 1 } }`
	if got := mustFormat(t, input, Options{Indent: 4}); got != "app {\n    check: health {\n        port: 1\n    }\n}\n" {
		t.Errorf("indent 4:\n%s", got)
	}
	if got := mustFormat(t, input, Options{UseTabs: true}); got != "app {\n\tcheck: health {\n\t\tport: 1\n\t}\n}\n" {
		t.Errorf("tabs:\n%s", got)
	}
}

func TestFormatIdempotent(t *testing.T) {
	inputs := []string{
		landingManifest,
		`app "api" { needs: [postgres, redis], port: 8080, run: validate-config | optimize-image }`,
		`workspace "mono" { apps: [app "a" { port: 1 }, app "b" {}], matrix: [[1, 2], [3]] }`,
		`{ name: "x", description: "meta" }` + "\nenv { A: ${A}, B: \"b\\\"q\" }",
		`app { check: health { port: 8080 } | build "x" { run: "make" } }`,
		"#!spn   \napp {}",
		"; header\n{ name: \"x\" } ; meta\napp { ; inline\n  port: 1 ; tail\n  run: a | ; why\n b\n}\n; eof",
	}
	for _, opt := range []Options{{}, {MaxInline: 10}, {UseTabs: true}} {
		for _, in := range inputs {
			once := mustFormat(t, in, opt)
			twice := mustFormat(t, once, opt)
			if once != twice {
				t.Errorf("not idempotent for %q:\n%s\n---\n%s", in, once, twice)
			}
			if ok, msg := CheckRoundTrip(virtual(in), opt); !ok {
				t.Errorf("%q: %s", in, msg)
			}
		}
	}
}

func TestFormatPreservesTree(t *testing.T) {
	orig, _, _ := parseOnce(virtual(landingManifest))
	again, _, _ := parseOnce(virtual(string(Document(orig, Options{MaxInline: 5}))))
	if !ast.Equal(orig, again) {
		t.Fatal("tree changed by formatting")
	}
}

func TestFormatRefusesBrokenInput(t *testing.T) {
	for _, in := range []string{"app {", "app { port: `1 }", `app { a: 1, a: 2 }`} {
		_, err := Source(virtual(in), Options{})
		if !errors.Is(err, ErrHasErrors) {
			t.Errorf("%q: expected ErrHasErrors, got %v", in, err)
		}
	}
	if ok, msg := CheckRoundTrip(virtual("app {"), Options{}); ok || !strings.Contains(msg, "initial parse") {
		t.Errorf("CheckRoundTrip = %v %q", ok, msg)
	}
}

func TestFormatNilDocument(t *testing.T) {
	if out := Document(nil, Options{}); len(out) != 0 {
		t.Fatalf("nil document produced %q", out)
	}
}
