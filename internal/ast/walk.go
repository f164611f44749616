package ast

// Inspect walks the tree depth-first in source order. If fn returns false
// the children of that node are skipped. Fields are visited before their
// values.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch x := n.(type) {
	case *Document:
		if x.Shebang != nil {
			Inspect(x.Shebang, fn)
		}
		if x.Meta != nil {
			Inspect(x.Meta, fn)
		}
		for _, b := range x.Blocks {
			Inspect(b, fn)
		}
	case *Metadata:
		for _, f := range x.Fields {
			Inspect(f, fn)
		}
	case *Block:
		if x.Label != nil {
			Inspect(x.Label, fn)
		}
		for _, f := range x.Fields {
			Inspect(f, fn)
		}
	case *Field:
		if x.Value != nil {
			Inspect(x.Value, fn)
		}
	case *List:
		for _, v := range x.Items {
			Inspect(v, fn)
		}
	case *Alternation:
		for _, v := range x.Options {
			Inspect(v, fn)
		}
	case *Nested:
		if x.Block != nil {
			Inspect(x.Block, fn)
		}
	}
}
