package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"spin/internal/ast"
	"spin/internal/source"
)

type treeNode struct {
	label    string
	children []*treeNode
}

// FormatASTTree prints the document as an indented tree:
//
//	app.spn (span: 1:1-8:2)
//	└─ Block app "web" (span: 4:1-8:2)
//	   └─ Field port: Int 3000
func FormatASTTree(w io.Writer, doc *ast.Document, fs *source.FileSet) error {
	if doc == nil {
		return fmt.Errorf("no document")
	}
	var b strings.Builder
	root := buildDocumentTreeNode(doc, fs)
	b.WriteString(root.label)
	b.WriteByte('\n')
	writeTreeChildren(&b, root.children, "")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTreeChildren(b *strings.Builder, children []*treeNode, prefix string) {
	for i, child := range children {
		connector, next := "├─ ", "│  "
		if i == len(children)-1 {
			connector, next = "└─ ", "   "
		}
		b.WriteString(prefix + connector + child.label + "\n")
		writeTreeChildren(b, child.children, prefix+next)
	}
}

func buildDocumentTreeNode(doc *ast.Document, fs *source.FileSet) *treeNode {
	root := &treeNode{
		label: fmt.Sprintf("%s (span: %s)", formatPath(fs, doc.Span.File, PathModeAuto), formatSpan(doc.Span, fs)),
	}
	if doc.Shebang != nil {
		root.children = append(root.children, &treeNode{label: fmt.Sprintf("Shebang: %q", doc.Shebang.Text)})
	}
	if doc.Meta != nil {
		meta := &treeNode{label: fmt.Sprintf("Metadata (span: %s)", formatSpan(doc.Meta.Span, fs))}
		meta.children = fieldTreeNodes(doc.Meta.Fields, fs)
		root.children = append(root.children, meta)
	}
	for _, blk := range doc.Blocks {
		root.children = append(root.children, blockTreeNode(blk, fs))
	}
	return root
}

func blockTreeNode(b *ast.Block, fs *source.FileSet) *treeNode {
	header := "Block " + b.Keyword.Name
	if b.Label != nil {
		header += fmt.Sprintf(" %q", b.Label.Value)
	}
	return &treeNode{
		label:    fmt.Sprintf("%s (span: %s)", header, formatSpan(b.Span, fs)),
		children: fieldTreeNodes(b.Fields, fs),
	}
}

func fieldTreeNodes(fields []*ast.Field, fs *source.FileSet) []*treeNode {
	out := make([]*treeNode, 0, len(fields))
	for _, f := range fields {
		v := valueTreeNode(f.Value, fs)
		v.label = "Field " + f.Key.Name + ": " + v.label
		out = append(out, v)
	}
	return out
}

func valueTreeNode(v ast.Value, fs *source.FileSet) *treeNode {
	switch v := v.(type) {
	case *ast.Str:
		return &treeNode{label: fmt.Sprintf("Str %q", v.Value)}
	case *ast.Int:
		return &treeNode{label: fmt.Sprintf("Int %d", v.Value)}
	case *ast.Interpolation:
		return &treeNode{label: "Interpolation " + v.Name}
	case *ast.SymbolRef:
		return &treeNode{label: fmt.Sprintf("SymbolRef %s %q", v.Form, v.Body)}
	case *ast.Word:
		return &treeNode{label: fmt.Sprintf("Word %s (%s)", v.Name, v.Kind)}
	case *ast.List:
		n := &treeNode{label: fmt.Sprintf("List[%d]", len(v.Items))}
		for _, item := range v.Items {
			n.children = append(n.children, valueTreeNode(item, fs))
		}
		return n
	case *ast.Alternation:
		n := &treeNode{label: "Alternation"}
		for _, opt := range v.Options {
			n.children = append(n.children, valueTreeNode(opt, fs))
		}
		return n
	case *ast.Nested:
		return blockTreeNode(v.Block, fs)
	default:
		return &treeNode{label: "?"}
	}
}
