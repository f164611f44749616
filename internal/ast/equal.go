package ast

// Equal reports whether two documents have the same structure. Spans are
// ignored, so a document and its canonical re-serialization compare equal.
func Equal(a, b *Document) bool {
	if a == nil || b == nil {
		return a == b
	}
	if (a.Shebang == nil) != (b.Shebang == nil) {
		return false
	}
	if a.Shebang != nil && a.Shebang.Text != b.Shebang.Text {
		return false
	}
	if (a.Meta == nil) != (b.Meta == nil) {
		return false
	}
	if a.Meta != nil && !fieldsEqual(a.Meta.Fields, b.Meta.Fields) {
		return false
	}
	if len(a.Blocks) != len(b.Blocks) {
		return false
	}
	for i := range a.Blocks {
		if !BlockEqual(a.Blocks[i], b.Blocks[i]) {
			return false
		}
	}
	return true
}

// BlockEqual compares two blocks ignoring spans.
func BlockEqual(a, b *Block) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Keyword.Name != b.Keyword.Name || a.Keyword.Keyword != b.Keyword.Keyword {
		return false
	}
	if (a.Label == nil) != (b.Label == nil) {
		return false
	}
	if a.Label != nil && a.Label.Value != b.Label.Value {
		return false
	}
	return fieldsEqual(a.Fields, b.Fields)
}

func fieldsEqual(a, b []*Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key.Name != b[i].Key.Name || a[i].Key.Keyword != b[i].Key.Keyword {
			return false
		}
		if !ValueEqual(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}

// ValueEqual compares two values ignoring spans.
func ValueEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *Str:
		y, ok := b.(*Str)
		return ok && x.Value == y.Value
	case *Int:
		y, ok := b.(*Int)
		return ok && x.Value == y.Value
	case *Interpolation:
		y, ok := b.(*Interpolation)
		return ok && x.Name == y.Name
	case *SymbolRef:
		y, ok := b.(*SymbolRef)
		return ok && x.Form == y.Form && x.Body == y.Body
	case *Word:
		y, ok := b.(*Word)
		return ok && x.Name == y.Name && x.Kind == y.Kind
	case *Nested:
		y, ok := b.(*Nested)
		return ok && BlockEqual(x.Block, y.Block)
	case *List:
		y, ok := b.(*List)
		return ok && valuesEqual(x.Items, y.Items)
	case *Alternation:
		y, ok := b.(*Alternation)
		return ok && valuesEqual(x.Options, y.Options)
	}
	return false
}

func valuesEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !ValueEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
