package diag

import (
	"testing"

	"spin/internal/source"
)

func sp(start, end uint32) source.Span {
	return source.Span{File: 0, Start: start, End: end}
}

func TestBagCap(t *testing.T) {
	b := NewBag(2)
	for i := range uint32(4) {
		b.Add(NewError(SynUnexpectedToken, sp(i, i+1), "x"))
	}
	if b.Len() != 2 || b.Dropped() != 2 || !b.Full() {
		t.Fatalf("len=%d dropped=%d full=%v", b.Len(), b.Dropped(), b.Full())
	}

	unlimited := NewBag(0)
	for i := range uint32(300) {
		unlimited.Add(NewError(SynUnexpectedToken, sp(i, i+1), "x"))
	}
	if unlimited.Len() != 300 || unlimited.Full() {
		t.Fatalf("unlimited bag capped at %d", unlimited.Len())
	}
}

func TestBagSortByPositionThenCode(t *testing.T) {
	b := NewBag(0)
	b.Add(NewError(SynExpectValue, sp(10, 11), "later"))
	b.Add(NewError(SynUnexpectedToken, sp(4, 5), "b"))
	b.Add(NewError(LexUnexpectedChar, sp(4, 5), "a"))
	b.Add(New(SevWarning, SynUnexpectedToken, sp(4, 5), "w"))
	b.Sort()

	want := []string{"a", "b", "w", "later"}
	for i, d := range b.Items() {
		if d.Message != want[i] {
			t.Fatalf("position %d: got %q, want %q", i, d.Message, want[i])
		}
	}
}

func TestBagLimitAfterSort(t *testing.T) {
	b := NewBag(0)
	b.Add(NewError(SynExpectValue, sp(12, 13), "late"))
	b.Add(NewError(LexUnexpectedChar, sp(2, 3), "early"))
	b.Add(NewError(SynDuplicateKey, sp(7, 9), "middle"))
	b.Sort()
	b.Limit(2)
	if b.Len() != 2 || b.Items()[0].Message != "early" || b.Items()[1].Message != "middle" {
		t.Fatalf("unexpected items %+v", b.Items())
	}
	if b.Dropped() != 1 || !b.Full() {
		t.Fatalf("dropped=%d full=%v", b.Dropped(), b.Full())
	}
	b.Limit(0)
	if b.Len() != 2 {
		t.Fatal("Limit(0) must keep everything")
	}
}

func TestBagMergeAndErrors(t *testing.T) {
	a := NewBag(1)
	a.Add(New(SevWarning, SynUnexpectedToken, sp(0, 1), "w"))
	if a.HasErrors() {
		t.Fatal("warning-only bag reported errors")
	}
	other := NewBag(0)
	other.Add(NewError(SynExpectKey, sp(2, 3), "e"))
	a.Merge(other)
	if a.Len() != 2 || !a.HasErrors() {
		t.Fatalf("merge failed: len=%d", a.Len())
	}
}

func TestReportBuilder(t *testing.T) {
	b := NewBag(0)
	rb := ReportError(BagReporter{Bag: b}, SynDuplicateKey, sp(5, 9), "duplicate key \"port\"").
		WithNote(sp(1, 5), "first defined here").
		WithFix("remove duplicate field", DeleteSpan(sp(5, 15), "port: 4000"))
	rb.Emit()
	rb.Emit()

	if b.Len() != 1 {
		t.Fatalf("Emit must fire once, got %d", b.Len())
	}
	d := b.Items()[0]
	if len(d.Notes) != 1 || len(d.Fixes) != 1 || d.Fixes[0].Edits[0].OldText != "port: 4000" {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	var nilBuilder *ReportBuilder
	nilBuilder.WithNote(sp(0, 0), "x").Emit()
}

func TestDedupReporter(t *testing.T) {
	var got []Diagnostic
	r := NewDedupReporter(ReporterFunc(func(d Diagnostic) { got = append(got, d) }))
	for range 3 {
		r.Report(LexUnexpectedChar, SevError, sp(0, 1), "unexpected character '&'", nil, nil)
	}
	r.Report(LexUnexpectedChar, SevError, sp(1, 2), "unexpected character '&'", nil, nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 forwarded diagnostics, got %d", len(got))
	}
}
