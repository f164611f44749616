package token

import "testing"

func TestClassifyDefault(t *testing.T) {
	r := DefaultRegistry()
	cases := map[string]Kind{
		"app":             Keyword,
		"workspace":       Keyword,
		"description":     Keyword,
		"postgres":        Builtin,
		"consul":          Builtin,
		"validate-config": FunctionRef,
		"exec-scripts":    FunctionRef,
		"web":             Ident,
		"App":             Ident, // регистр важен
		"app-name":        Ident,
		"postgresql":      Ident,
	}
	for word, want := range cases {
		if got := r.Classify(word); got != want {
			t.Errorf("Classify(%q) = %v, want %v", word, got, want)
		}
	}
}

func TestKeywordsDeduplicated(t *testing.T) {
	kws := Keywords()
	if len(kws) != 14 {
		t.Fatalf("expected 14 distinct keywords, got %d: %v", len(kws), kws)
	}
	if kws[0] != "app" || kws[len(kws)-1] != "description" {
		t.Errorf("unexpected order: %v", kws)
	}
}

func TestRegistryExtend(t *testing.T) {
	base := DefaultRegistry()
	ext := base.Extend([]string{"cassandra"}, []string{"warm-cache"})

	if base.Classify("cassandra") != Ident {
		t.Error("Extend must not mutate the receiver")
	}
	if ext.Classify("cassandra") != Builtin || ext.Classify("warm-cache") != FunctionRef {
		t.Error("extended names not classified")
	}
	if ext.Classify("redis") != Builtin {
		t.Error("defaults lost after Extend")
	}
	if base.Fingerprint() == ext.Fingerprint() {
		t.Error("fingerprints must differ")
	}
	if base.Extend(nil, nil) != base {
		t.Error("empty Extend should return receiver")
	}
}

func TestRegistryKeywordWins(t *testing.T) {
	r := NewRegistry([]string{"port", "kafka", "kafka"}, []string{"kafka"})
	if r.Classify("port") != Keyword {
		t.Error("keyword must win over builtin")
	}
	if r.Classify("kafka") != Builtin {
		t.Error("builtin must win over function")
	}
	var nilReg *Registry
	if nilReg.Classify("redis") != Ident || nilReg.Classify("app") != Keyword {
		t.Error("nil registry classifies only keywords")
	}
}
