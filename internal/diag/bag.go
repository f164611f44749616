package diag

import (
	"slices"
)

// Bag collects diagnostics of one file. A max of 0 means unlimited.
type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
}

func NewBag(max int) *Bag {
	return &Bag{max: max}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if b.Full() {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Full reports whether the cap has been reached.
func (b *Bag) Full() bool {
	return b.max > 0 && len(b.items) >= b.max
}

// Dropped counts diagnostics rejected because of the cap.
func (b *Bag) Dropped() int {
	return b.dropped
}

// NoteDropped accounts for n diagnostics dropped before the bag was filled,
// e.g. by a cached run.
func (b *Bag) NoteDropped(n int) {
	if n > 0 {
		b.dropped += n
	}
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез!
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge объединяет диагностики из другого Bag, расширяя лимит при необходимости.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if b.max > 0 && len(b.items)+len(other.items) > b.max {
		b.max = len(b.items) + len(other.items)
	}
	b.items = append(b.items, other.items...)
	b.dropped += other.dropped
}

// Limit keeps the first n diagnostics and counts the rest as dropped; n <= 0
// keeps everything. Sort before limiting to keep the earliest ones.
func (b *Bag) Limit(n int) {
	if n <= 0 {
		return
	}
	b.max = n
	if len(b.items) > n {
		b.dropped += len(b.items) - n
		b.items = b.items[:n]
	}
}

// Sort orders diagnostics by file, start, end, then code (rule priority)
// and severity (desc).
func (b *Bag) Sort() {
	SortDiagnostics(b.items)
}

// SortDiagnostics sorts ds in place with the Bag ordering.
func SortDiagnostics(ds []Diagnostic) {
	slices.SortStableFunc(ds, func(di, dj Diagnostic) int {
		switch {
		case di.Primary.File != dj.Primary.File:
			return cmpInt(int(di.Primary.File), int(dj.Primary.File))
		case di.Primary.Start != dj.Primary.Start:
			return cmpInt(int(di.Primary.Start), int(dj.Primary.Start))
		case di.Primary.End != dj.Primary.End:
			return cmpInt(int(di.Primary.End), int(dj.Primary.End))
		case di.Code != dj.Code:
			return cmpInt(int(di.Code), int(dj.Code))
		default:
			return cmpInt(int(dj.Severity), int(di.Severity))
		}
	})
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
