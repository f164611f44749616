package ast

import (
	"spin/internal/source"
	"spin/internal/token"
)

// Value is one of *Str, *Int, *List, *Interpolation, *SymbolRef, *Nested,
// *Word or *Alternation.
type Value interface {
	Node
	valueNode()
}

// Str is a quoted string. Value is the raw content between the quotes;
// escapes are not decoded.
type Str struct {
	Span  source.Span
	Value string
}

// Int is a non-negative decimal integer.
type Int struct {
	Span  source.Span
	Value int64
	Raw   string
}

type List struct {
	Span  source.Span
	Items []Value
}

// Interpolation is a `${name}` reference resolved by a later stage.
type Interpolation struct {
	Span source.Span
	Name string
}

// SymbolRef is `@name`, `@[path]`, `#tag` or `<placeholder>`.
type SymbolRef struct {
	Span source.Span
	Form token.SymbolForm
	Body string
}

// Nested is a block in value position, e.g. `health { port: 8080 }`.
type Nested struct {
	Span  source.Span
	Block *Block
}

// Word is a bare identifier in value position: `postgres`, `validate-config`,
// `web`. Kind keeps the scanner classification.
type Word struct {
	Span source.Span
	Name string
	Kind token.Kind
}

// Alternation is `a | b | ...`; it always has at least two options.
type Alternation struct {
	Span    source.Span
	Options []Value
}

func (*Str) valueNode()           {}
func (*Int) valueNode()           {}
func (*List) valueNode()          {}
func (*Interpolation) valueNode() {}
func (*SymbolRef) valueNode()     {}
func (*Nested) valueNode()        {}
func (*Word) valueNode()          {}
func (*Alternation) valueNode()   {}

func (v *Str) Loc() source.Span           { return v.Span }
func (v *Int) Loc() source.Span           { return v.Span }
func (v *List) Loc() source.Span          { return v.Span }
func (v *Interpolation) Loc() source.Span { return v.Span }
func (v *SymbolRef) Loc() source.Span     { return v.Span }
func (v *Nested) Loc() source.Span        { return v.Span }
func (v *Word) Loc() source.Span          { return v.Span }
func (v *Alternation) Loc() source.Span   { return v.Span }

// KindName returns a short name of the value variant, used by the tree and
// JSON renderers.
func KindName(v Value) string {
	switch v.(type) {
	case *Str:
		return "Str"
	case *Int:
		return "Int"
	case *List:
		return "List"
	case *Interpolation:
		return "Interpolation"
	case *SymbolRef:
		return "SymbolRef"
	case *Nested:
		return "Nested"
	case *Word:
		return "Word"
	case *Alternation:
		return "Alternation"
	default:
		return "?"
	}
}
