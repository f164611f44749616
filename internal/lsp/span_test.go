package lsp

import (
	"testing"

	"spin/internal/source"
)

func TestApplyChangesUTF16(t *testing.T) {
	text := "name: \"😀x\"\nport: 1\n"
	// 😀 занимает две единицы UTF-16: x стоит на позиции 9
	got := applyChanges(text, []textDocumentContentChangeEvent{{
		Range: &lspRange{
			Start: position{Line: 0, Character: 9},
			End:   position{Line: 0, Character: 10},
		},
		Text: "y",
	}})
	if want := "name: \"😀y\"\nport: 1\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	got = applyChanges(got, []textDocumentContentChangeEvent{{
		Range: &lspRange{
			Start: position{Line: 1, Character: 6},
			End:   position{Line: 1, Character: 99},
		},
		Text: "2",
	}})
	if want := "name: \"😀y\"\nport: 2\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	if got := applyChanges(got, []textDocumentContentChangeEvent{{Text: "all new"}}); got != "all new" {
		t.Fatalf("full replace: got %q", got)
	}
}

func TestOffsetForPositionPastEnd(t *testing.T) {
	text := "a\nb"
	if got := offsetForPosition(text, position{Line: 5}); got != len(text) {
		t.Fatalf("expected end of text, got %d", got)
	}
	if got := offsetForPosition(text, position{Line: 1, Character: 0}); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := offsetForPosition(text, position{Line: -1}); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestPositionAtRoundTrip(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("a.spn", []byte("env {\n  icon: \"😀\"\n  mode: dev\n}\n")))

	cases := []struct {
		off  uint32
		want position
	}{
		{0, position{Line: 0, Character: 0}},
		{5, position{Line: 0, Character: 5}}, // '\n' ещё на первой строке
		{6, position{Line: 1, Character: 0}},
		{19, position{Line: 1, Character: 11}}, // после 😀: 4 байта, 2 единицы
		{21, position{Line: 2, Character: 0}},
	}
	for _, tc := range cases {
		got := positionAt(file, tc.off)
		if got != tc.want {
			t.Errorf("positionAt(%d) = %+v, want %+v", tc.off, got, tc.want)
		}
		if back := offsetAt(file, got); back != tc.off {
			t.Errorf("offsetAt(%+v) = %d, want %d", got, back, tc.off)
		}
	}

	end := positionAt(file, 1<<20)
	if end.Line != 4 || end.Character != 0 {
		t.Fatalf("offset past end should clamp, got %+v", end)
	}
}

func TestEndOfText(t *testing.T) {
	if got := endOfText("ab\n😀"); got != (position{Line: 1, Character: 2}) {
		t.Fatalf("got %+v", got)
	}
	if got := endOfText(""); got != (position{}) {
		t.Fatalf("got %+v", got)
	}
}
