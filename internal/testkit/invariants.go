package testkit

import (
	"fmt"

	"spin/internal/ast"
	"spin/internal/source"
	"spin/internal/token"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed
// document:
// 1) every span belongs to sf, is not inverted and ends inside the content
// 2) every child span is contained in its parent span (keys in their fields)
// 3) siblings appear in source order and do not overlap
func CheckSpanInvariants(doc *ast.Document, sf *source.File) error {
	if doc == nil || sf == nil {
		return fmt.Errorf("nil document or file")
	}
	if err := checkSpan("document", doc.Span, sf); err != nil {
		return err
	}
	return checkChildren(doc, sf)
}

func checkChildren(n ast.Node, sf *source.File) error {
	parent := n.Loc()
	var prev source.Span
	for i, c := range children(n) {
		sp := c.Loc()
		what := fmt.Sprintf("%T at %v", c, sp)
		if err := checkSpan(what, sp, sf); err != nil {
			return err
		}
		if sp.Start < parent.Start || sp.End > parent.End {
			return fmt.Errorf("%s is outside parent %T %v", what, n, parent)
		}
		if i > 0 && sp.Start < prev.End {
			return fmt.Errorf("%s overlaps previous sibling %v", what, prev)
		}
		prev = sp
		if f, ok := c.(*ast.Field); ok {
			if f.Key.Span.Start < sp.Start || f.Key.Span.End > sp.End {
				return fmt.Errorf("key %q %v is outside its field %v", f.Key.Name, f.Key.Span, sp)
			}
		}
		if err := checkChildren(c, sf); err != nil {
			return err
		}
	}
	return nil
}

func checkSpan(what string, sp source.Span, sf *source.File) error {
	if sp.File != sf.ID {
		return fmt.Errorf("%s points to different file id: got=%d want=%d", what, sp.File, sf.ID)
	}
	if sp.End < sp.Start {
		return fmt.Errorf("%s span is inverted", what)
	}
	if sp.End > sf.Len() {
		return fmt.Errorf("%s ends beyond content: %d > %d", what, sp.End, sf.Len())
	}
	return nil
}

// children — прямые потомки узла в порядке исходника.
func children(n ast.Node) []ast.Node {
	var out []ast.Node
	switch x := n.(type) {
	case *ast.Document:
		if x.Shebang != nil {
			out = append(out, x.Shebang)
		}
		if x.Meta != nil {
			out = append(out, x.Meta)
		}
		for _, b := range x.Blocks {
			out = append(out, b)
		}
	case *ast.Metadata:
		for _, f := range x.Fields {
			out = append(out, f)
		}
	case *ast.Block:
		if x.Label != nil {
			out = append(out, x.Label)
		}
		for _, f := range x.Fields {
			out = append(out, f)
		}
	case *ast.Field:
		if x.Value != nil {
			out = append(out, x.Value)
		}
	case *ast.List:
		for _, v := range x.Items {
			out = append(out, v)
		}
	case *ast.Alternation:
		for _, v := range x.Options {
			out = append(out, v)
		}
	case *ast.Nested:
		if x.Block != nil {
			out = append(out, x.Block)
		}
	}
	return out
}

// CheckTokenInvariants verifies scanner output: tokens are ordered and
// disjoint, each Text is exactly the covered source, and the stream ends
// with one EOF at the end of the buffer.
func CheckTokenInvariants(toks []token.Token, sf *source.File) error {
	if len(toks) == 0 {
		return fmt.Errorf("empty token stream")
	}
	var prevEnd uint32
	for i, t := range toks {
		what := fmt.Sprintf("token %d (%s)", i, t.Kind)
		if err := checkSpan(what, t.Span, sf); err != nil {
			return err
		}
		if t.Span.Start < prevEnd {
			return fmt.Errorf("%s at %v overlaps previous token ending at %d", what, t.Span, prevEnd)
		}
		if got := sf.Text(t.Span); got != t.Text {
			return fmt.Errorf("%s text %q != source %q", what, t.Text, got)
		}
		if t.Kind == token.EOF && i != len(toks)-1 {
			return fmt.Errorf("EOF at index %d before end of stream", i)
		}
		for _, tr := range t.Leading {
			if tr.Span.End > t.Span.Start {
				return fmt.Errorf("%s has trivia %v after its start", what, tr.Span)
			}
		}
		prevEnd = t.Span.End
	}
	last := toks[len(toks)-1]
	if last.Kind != token.EOF {
		return fmt.Errorf("stream ends with %s, want EOF", last.Kind)
	}
	if last.Span.Start != sf.Len() {
		return fmt.Errorf("EOF at %d, want %d", last.Span.Start, sf.Len())
	}
	return nil
}
