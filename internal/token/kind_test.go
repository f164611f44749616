package token_test

import (
	"testing"

	"spin/internal/source"
	"spin/internal/token"
)

func tok(k token.Kind, text string) token.Token {
	return token.Token{Kind: k, Text: text, Span: source.Span{Start: 0, End: uint32(len(text))}}
}

func TestCategory(t *testing.T) {
	cases := map[token.Kind]token.Category{
		token.Invalid:     token.CatUnrecognized,
		token.EOF:         token.CatEndOfInput,
		token.Shebang:     token.CatShebang,
		token.Comment:     token.CatComment,
		token.Keyword:     token.CatKeyword,
		token.Builtin:     token.CatBuiltin,
		token.FunctionRef: token.CatFunctionRef,
		token.Ident:       token.CatIdentifier,
		token.String:      token.CatString,
		token.Number:      token.CatNumber,
		token.Variable:    token.CatVariable,
		token.Symbol:      token.CatSymbol,
		token.LBrace:      token.CatPunctuation,
		token.RBracket:    token.CatPunctuation,
		token.Colon:       token.CatPunctuation,
		token.Comma:       token.CatPunctuation,
		token.Pipe:        token.CatOperator,
	}
	for k, want := range cases {
		if got := k.Category(); got != want {
			t.Errorf("%v.Category() = %v, want %v", k, got, want)
		}
	}
}

func TestKindString(t *testing.T) {
	if token.FunctionRef.String() != "FunctionRef" {
		t.Fatalf("got %q", token.FunctionRef.String())
	}
	if token.Kind(200).String() != "Kind(?)" {
		t.Fatalf("unknown kind must not panic")
	}
	if token.CatPunctuation.String() != "Punctuation" {
		t.Fatalf("got %q", token.CatPunctuation.String())
	}
}

func TestSymbolForm(t *testing.T) {
	tests := []struct {
		text string
		form token.SymbolForm
		name string
	}{
		{"@db", token.SymbolRef, "db"},
		{"@[services.api]", token.SymbolBracketRef, "services.api"},
		{"#frontend", token.SymbolTag, "frontend"},
		{"<port>", token.SymbolAngle, "port"},
	}
	for _, tt := range tests {
		tk := tok(token.Symbol, tt.text)
		if got := tk.SymbolForm(); got != tt.form {
			t.Errorf("%q: form %v, want %v", tt.text, got, tt.form)
		}
		if got := tk.SymbolName(); got != tt.name {
			t.Errorf("%q: name %q, want %q", tt.text, got, tt.name)
		}
	}
	if tok(token.Ident, "@x").SymbolForm() != token.SymbolNone {
		t.Error("non-symbol must have no form")
	}
}

func TestStringValue(t *testing.T) {
	tests := []struct {
		text       string
		value      string
		terminated bool
	}{
		{`"web"`, "web", true},
		{`""`, "", true},
		{`"a\"b"`, `a\"b`, true},
		{`"open`, "open", false},
		{`"tail\"`, `tail\"`, false},
		{`"`, "", false},
	}
	for _, tt := range tests {
		tk := tok(token.String, tt.text)
		if got := tk.Terminated(); got != tt.terminated {
			t.Errorf("%s: terminated=%v, want %v", tt.text, got, tt.terminated)
		}
		if got := tk.StringValue(); got != tt.value {
			t.Errorf("%s: value=%q, want %q", tt.text, got, tt.value)
		}
	}
}

func TestVariable(t *testing.T) {
	v := tok(token.Variable, "${DB_URL}")
	if v.VariableName() != "DB_URL" || !v.Terminated() {
		t.Fatalf("got %q terminated=%v", v.VariableName(), v.Terminated())
	}
	open := tok(token.Variable, "${DB")
	if open.Terminated() {
		t.Fatal("unterminated variable reported as closed")
	}
}

func TestIs(t *testing.T) {
	tk := tok(token.Comma, ",")
	if !tk.Is(token.RBracket, token.Comma) || tk.Is(token.Colon) {
		t.Fatal("Is mismatch")
	}
	if !tk.IsPunct() || tok(token.Pipe, "|").IsPunct() {
		t.Fatal("IsPunct mismatch")
	}
	if !tok(token.Builtin, "redis").IsKey() || tok(token.String, `"x"`).IsKey() {
		t.Fatal("IsKey mismatch")
	}
}
