package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"off", "error", "phase", "detail", "DEBUG"} {
		lvl, err := ParseLevel(name)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", name, err)
		}
		if lvl.String() != strings.ToLower(name) {
			t.Errorf("round-trip %q -> %q", name, lvl)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		kind  Kind
		scope Scope
		want  bool
	}{
		{LevelOff, KindError, ScopeDriver, false},
		{LevelError, KindError, ScopeFile, true},
		{LevelError, KindSpanBegin, ScopeDriver, false},
		{LevelPhase, KindSpanBegin, ScopePass, true},
		{LevelPhase, KindSpanBegin, ScopeFile, false},
		{LevelDetail, KindPoint, ScopeFile, true},
		{LevelDebug, KindPoint, ScopeFile, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.kind, tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s, %s) = %v, want %v", tt.level, tt.kind, tt.scope, got, tt.want)
		}
	}
}

func TestStreamTextSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	root := Begin(tr, ScopeDriver, "check", 0)
	pass := Begin(tr, ScopePass, "parse", root.ID())
	file := Begin(tr, ScopeFile, "file:web.spn", pass.ID()) // ниже уровня
	file.End("")
	pass.WithExtra("files", "2").End("ok")
	root.End("")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "driver") || !strings.HasSuffix(lines[0], "→ check") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasSuffix(lines[2], "← parse (ok) {files=2}") {
		t.Errorf("line 2 = %q", lines[2])
	}
	if file.ID() != 0 {
		t.Error("filtered span must be inert")
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeFile, "cache", "hit")
	Error(tr, ScopeFile, "load", errors.New("permission denied"))

	dec := json.NewDecoder(&buf)
	var first, second jsonEvent
	if err := dec.Decode(&first); err != nil {
		t.Fatal(err)
	}
	if err := dec.Decode(&second); err != nil {
		t.Fatal(err)
	}
	if first.Kind != "point" || first.Scope != "file" || first.Detail != "hit" || first.Seq != 1 {
		t.Errorf("first = %+v", first)
	}
	if second.Kind != "error" || second.Detail != "permission denied" || second.Seq != 2 {
		t.Errorf("second = %+v", second)
	}
}

func TestContextPropagation(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	outer, ctx := BeginCtx(ctx, ScopeDriver, "check")
	if ParentID(ctx) != outer.ID() || outer.ID() == 0 {
		t.Fatalf("ParentID = %d, outer = %d", ParentID(ctx), outer.ID())
	}
	inner, _ := BeginCtx(ctx, ScopeFile, "file:a.spn")
	inner.End("")
	outer.End("")

	var ev jsonEvent
	dec := json.NewDecoder(&buf)
	for dec.More() {
		if err := dec.Decode(&ev); err != nil {
			t.Fatal(err)
		}
		if ev.Name == "file:a.spn" && ev.ParentID != outer.ID() {
			t.Errorf("inner parent = %d, want %d", ev.ParentID, outer.ID())
		}
	}

	if FromContext(context.Background()) != Nop {
		t.Error("missing tracer must yield Nop")
	}
}

func TestNewOff(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Error("off tracer must be disabled")
	}
	sp := Begin(tr, ScopeDriver, "x", 0)
	if sp.End("") != 0 {
		t.Error("inert span must report zero duration")
	}
}
