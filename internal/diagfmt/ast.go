package diagfmt

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"spin/internal/ast"
	"spin/internal/source"
)

// DocumentOutput is the serialisable form of a parsed manifest, shared by the
// json and yaml outputs.
type DocumentOutput struct {
	File     string         `json:"file" yaml:"file"`
	Shebang  string         `json:"shebang,omitempty" yaml:"shebang,omitempty"`
	Metadata []FieldOutput  `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Blocks   []*BlockOutput `json:"blocks" yaml:"blocks"`
}

type BlockOutput struct {
	Keyword string        `json:"keyword" yaml:"keyword"`
	Label   string        `json:"label,omitempty" yaml:"label,omitempty"`
	Span    SpanJSON      `json:"span" yaml:"span"`
	Fields  []FieldOutput `json:"fields" yaml:"fields"`
}

type FieldOutput struct {
	Key   string      `json:"key" yaml:"key"`
	Span  SpanJSON    `json:"span" yaml:"span"`
	Value ValueOutput `json:"value" yaml:"value"`
}

// ValueOutput is a tagged union; Kind selects which of the other fields is set.
type ValueOutput struct {
	Kind      string        `json:"kind" yaml:"kind"`
	Span      SpanJSON      `json:"span" yaml:"span"`
	String    *string       `json:"string,omitempty" yaml:"string,omitempty"`
	Int       *int64        `json:"int,omitempty" yaml:"int,omitempty"`
	Name      string        `json:"name,omitempty" yaml:"name,omitempty"`
	Form      string        `json:"form,omitempty" yaml:"form,omitempty"`
	TokenKind string        `json:"token_kind,omitempty" yaml:"token_kind,omitempty"`
	Items     []ValueOutput `json:"items,omitempty" yaml:"items,omitempty"`
	Block     *BlockOutput  `json:"block,omitempty" yaml:"block,omitempty"`
}

// BuildDocumentOutput converts doc without serialising it.
func BuildDocumentOutput(doc *ast.Document, fs *source.FileSet) DocumentOutput {
	out := DocumentOutput{
		File:   formatPath(fs, doc.Span.File, PathModeAuto),
		Blocks: make([]*BlockOutput, 0, len(doc.Blocks)),
	}
	if doc.Shebang != nil {
		out.Shebang = doc.Shebang.Text
	}
	if doc.Meta != nil {
		out.Metadata = fieldsOutput(doc.Meta.Fields, fs)
	}
	for _, b := range doc.Blocks {
		out.Blocks = append(out.Blocks, blockOutput(b, fs))
	}
	return out
}

func blockOutput(b *ast.Block, fs *source.FileSet) *BlockOutput {
	return &BlockOutput{
		Keyword: b.Keyword.Name,
		Label:   b.Name(),
		Span:    makeSpan(b.Span, fs),
		Fields:  fieldsOutput(b.Fields, fs),
	}
}

func fieldsOutput(fields []*ast.Field, fs *source.FileSet) []FieldOutput {
	out := make([]FieldOutput, 0, len(fields))
	for _, f := range fields {
		out = append(out, FieldOutput{Key: f.Key.Name, Span: makeSpan(f.Span, fs), Value: valueOutput(f.Value, fs)})
	}
	return out
}

func valueOutput(v ast.Value, fs *source.FileSet) ValueOutput {
	out := ValueOutput{Kind: ast.KindName(v), Span: makeSpan(v.Loc(), fs)}
	switch v := v.(type) {
	case *ast.Str:
		s := v.Value
		out.String = &s
	case *ast.Int:
		n := v.Value
		out.Int = &n
	case *ast.Interpolation:
		out.Name = v.Name
	case *ast.SymbolRef:
		out.Name = v.Body
		out.Form = v.Form.String()
	case *ast.Word:
		out.Name = v.Name
		out.TokenKind = v.Kind.String()
	case *ast.List:
		out.Items = valuesOutput(v.Items, fs)
	case *ast.Alternation:
		out.Items = valuesOutput(v.Options, fs)
	case *ast.Nested:
		out.Block = blockOutput(v.Block, fs)
	}
	return out
}

func valuesOutput(vs []ast.Value, fs *source.FileSet) []ValueOutput {
	out := make([]ValueOutput, 0, len(vs))
	for _, v := range vs {
		out = append(out, valueOutput(v, fs))
	}
	return out
}

// FormatASTJSON prints the document as indented JSON.
func FormatASTJSON(w io.Writer, doc *ast.Document, fs *source.FileSet) error {
	if doc == nil {
		return fmt.Errorf("no document")
	}
	return encodeJSON(w, BuildDocumentOutput(doc, fs))
}

// FormatASTYAML prints the document as YAML with two-space indentation.
func FormatASTYAML(w io.Writer, doc *ast.Document, fs *source.FileSet) error {
	if doc == nil {
		return fmt.Errorf("no document")
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(BuildDocumentOutput(doc, fs)); err != nil {
		return err
	}
	return enc.Close()
}
