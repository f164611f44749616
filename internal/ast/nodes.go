package ast

import (
	"spin/internal/source"
)

// Node is implemented by every tree node.
type Node interface {
	Loc() source.Span
}

type Document struct {
	Span    source.Span
	Shebang *Shebang  // nil если заголовка нет
	Meta    *Metadata // nil если нет безымянного первого блока
	Blocks  []*Block
}

func (d *Document) Loc() source.Span { return d.Span }

// BlocksOf returns the top-level blocks opened by keyword, in source order.
func (d *Document) BlocksOf(keyword string) []*Block {
	var out []*Block
	for _, b := range d.Blocks {
		if b.Keyword.Name == keyword {
			out = append(out, b)
		}
	}
	return out
}

// Block finds the first top-level block with the given keyword and label.
func (d *Document) Block(keyword, label string) *Block {
	for _, b := range d.Blocks {
		if b.Keyword.Name == keyword && b.Name() == label {
			return b
		}
	}
	return nil
}

// Shebang is the `#!` header; Text has the marker and leading blanks removed.
type Shebang struct {
	Span source.Span
	Text string
}

func (s *Shebang) Loc() source.Span { return s.Span }

// Metadata is the unlabeled `{ ... }` block that may follow the shebang.
type Metadata struct {
	Span   source.Span
	Fields []*Field
}

func (m *Metadata) Loc() source.Span { return m.Span }

// Field returns the field with the given key, or nil.
func (m *Metadata) Field(name string) *Field { return lookupField(m.Fields, name) }

// Block is `keyword ["label"] { fields }`.
type Block struct {
	Span    source.Span
	Keyword Key
	Label   *Str // nil для анонимного блока
	Fields  []*Field
}

func (b *Block) Loc() source.Span { return b.Span }

// Name returns the label value, or "" for an anonymous block.
func (b *Block) Name() string {
	if b.Label == nil {
		return ""
	}
	return b.Label.Value
}

// Field returns the field with the given key, or nil.
func (b *Block) Field(name string) *Field { return lookupField(b.Fields, name) }

type Field struct {
	Span  source.Span
	Key   Key
	Value Value
}

func (f *Field) Loc() source.Span { return f.Span }

// Key names a field or a block. Keyword is set when the name is reserved.
type Key struct {
	Name    string
	Span    source.Span
	Keyword bool
}

func lookupField(fields []*Field, name string) *Field {
	for _, f := range fields {
		if f.Key.Name == name {
			return f
		}
	}
	return nil
}
