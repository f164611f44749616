package lexer

import (
	"testing"

	"spin/internal/source"
)

// helper function to create a file
func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.spn", []byte(content))
	return fs.Get(id)
}

func TestCursorSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))
	for _, want := range []byte("a\nb") {
		if cursor.EOF() {
			t.Fatal("unexpected EOF")
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("Bump = %q, want %q", got, want)
		}
	}
	if !cursor.EOF() || cursor.Peek() != 0 || cursor.Bump() != 0 {
		t.Fatal("cursor must stay at EOF")
	}
}

func TestCursorMarkAndSpan(t *testing.T) {
	cursor := NewCursor(createFile("app web"))
	m := cursor.Mark()
	cursor.Advance(3)
	if sp := cursor.SpanFrom(m); sp.Start != 0 || sp.End != 3 {
		t.Fatalf("SpanFrom = %v", sp)
	}
	cursor.Reset(m)
	if cursor.Off != 0 {
		t.Fatal("Reset failed")
	}
	cursor.Advance(100)
	if cursor.Off != cursor.Limit {
		t.Fatal("Advance must clamp to limit")
	}
}

func TestCursorPeekHelpers(t *testing.T) {
	cursor := NewCursor(createFile("${x"))
	b0, b1, ok := cursor.Peek2()
	if !ok || b0 != '$' || b1 != '{' {
		t.Fatalf("Peek2 = %q %q %v", b0, b1, ok)
	}
	if cursor.PeekAt(2) != 'x' || cursor.PeekAt(3) != 0 {
		t.Fatal("PeekAt mismatch")
	}
	if cursor.Eat('{') || !cursor.Eat('$') {
		t.Fatal("Eat mismatch")
	}
}

func TestCursorSkipLine(t *testing.T) {
	cursor := NewCursor(createFile("; c\nx"))
	cursor.SkipLine()
	if cursor.Peek() != '\n' || cursor.Off != 3 {
		t.Fatalf("SkipLine stopped at %d", cursor.Off)
	}
}
