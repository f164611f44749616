package lsp

import (
	"encoding/json"
	"sort"
	"strings"

	"spin/internal/ast"
	"spin/internal/diag"
	"spin/internal/driver"
	"spin/internal/source"
)

func (s *Server) handleFormatting(msg *rpcMessage) error {
	var params documentFormattingParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	d := s.lookup(params.TextDocument.URI)
	if d == nil {
		return s.sendResponse(msg.ID, []textEdit{})
	}
	opt := s.opts.Format
	if opt.Indent == 0 && params.Options.TabSize > 0 {
		opt.Indent = params.Options.TabSize
		opt.UseTabs = !params.Options.InsertSpaces
	}
	formatted, err := driver.FormatSource(displayName(d.uri), []byte(d.text), opt)
	if err != nil {
		// документ с ошибками не форматируем, ошибки уже опубликованы
		s.logf("format %s: %v", d.uri, err)
		return s.sendResponse(msg.ID, []textEdit{})
	}
	if string(formatted) == d.text {
		return s.sendResponse(msg.ID, []textEdit{})
	}
	return s.sendResponse(msg.ID, []textEdit{{
		Range:   lspRange{End: endOfText(d.text)},
		NewText: string(formatted),
	}})
}

// endOfText is the position just past the last character of text.
func endOfText(text string) position {
	line := strings.Count(text, "\n")
	last := text[strings.LastIndexByte(text, '\n')+1:]
	units := 0
	for _, r := range last {
		units += utf16Len(r)
	}
	return position{Line: line, Character: units}
}

func (s *Server) handleFoldingRange(msg *rpcMessage) error {
	var params foldingRangeParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	d := s.lookup(params.TextDocument.URI)
	if d == nil || d.result == nil || d.result.Document == nil {
		return s.sendResponse(msg.ID, []foldingRange{})
	}
	return s.sendResponse(msg.ID, foldingRanges(d.result.File, d.result.Document))
}

// foldingRanges folds every multi-line block, nested block and list from
// its opening line to the line holding the closing bracket.
func foldingRanges(file *source.File, doc *ast.Document) []foldingRange {
	ranges := []foldingRange{}
	add := func(span source.Span) {
		if span.Empty() {
			return
		}
		start := positionAt(file, span.Start).Line
		end := positionAt(file, span.End-1).Line
		if start < end {
			ranges = append(ranges, foldingRange{StartLine: start, EndLine: end})
		}
	}
	ast.Inspect(doc, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.Metadata, *ast.Block, *ast.List:
			add(x.Loc())
		case *ast.Shebang:
			return false
		}
		return true
	})
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].StartLine == ranges[j].StartLine {
			return ranges[i].EndLine < ranges[j].EndLine
		}
		return ranges[i].StartLine < ranges[j].StartLine
	})
	return ranges
}

func (s *Server) handleDocumentSymbol(msg *rpcMessage) error {
	var params documentSymbolParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	d := s.lookup(params.TextDocument.URI)
	if d == nil || d.result == nil || d.result.Document == nil {
		return s.sendResponse(msg.ID, []documentSymbol{})
	}
	return s.sendResponse(msg.ID, documentSymbols(d.result.File, d.result.Document))
}

// documentSymbols builds the outline: metadata and top-level blocks, with
// their fields as children.
func documentSymbols(file *source.File, doc *ast.Document) []documentSymbol {
	out := []documentSymbol{}
	if doc.Meta != nil {
		out = append(out, documentSymbol{
			Name:           "metadata",
			Kind:           symbolNamespace,
			Range:          rangeOf(file, doc.Meta.Span),
			SelectionRange: rangeOf(file, doc.Meta.Span),
			Children:       fieldSymbols(file, doc.Meta.Fields),
		})
	}
	for _, b := range doc.Blocks {
		out = append(out, blockSymbol(file, b))
	}
	return out
}

func blockSymbol(file *source.File, b *ast.Block) documentSymbol {
	sel := b.Keyword.Span
	if b.Label != nil {
		sel = sel.Cover(b.Label.Span)
	}
	return documentSymbol{
		Name:           blockTitle(b),
		Kind:           symbolStruct,
		Range:          rangeOf(file, b.Span),
		SelectionRange: rangeOf(file, sel),
		Children:       fieldSymbols(file, b.Fields),
	}
}

func blockTitle(b *ast.Block) string {
	if b.Label == nil {
		return b.Keyword.Name
	}
	return b.Keyword.Name + ` "` + b.Label.Value + `"`
}

func fieldSymbols(file *source.File, fields []*ast.Field) []documentSymbol {
	var out []documentSymbol
	for _, f := range fields {
		if nested, ok := f.Value.(*ast.Nested); ok && nested.Block != nil {
			sym := blockSymbol(file, nested.Block)
			sym.Range = rangeOf(file, f.Span)
			out = append(out, sym)
			continue
		}
		sym := documentSymbol{
			Name:           f.Key.Name,
			Kind:           symbolProperty,
			Range:          rangeOf(file, f.Span),
			SelectionRange: rangeOf(file, f.Key.Span),
		}
		if f.Value != nil {
			sym.Detail = ast.KindName(f.Value)
		}
		out = append(out, sym)
	}
	return out
}

func (s *Server) handleCodeAction(msg *rpcMessage) error {
	var params codeActionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	d := s.lookup(params.TextDocument.URI)
	if d == nil || d.file() == nil {
		return s.sendResponse(msg.ID, []codeAction{})
	}
	return s.sendResponse(msg.ID, quickFixes(d, params.Range))
}

// quickFixes offers the fixes attached to diagnostics that overlap rng.
// A fix whose guarded text no longer matches the buffer is not offered.
func quickFixes(d *document, rng lspRange) []codeAction {
	file := d.file()
	from, to := offsetAt(file, rng.Start), offsetAt(file, rng.End)
	actions := []codeAction{}
	items := d.result.Bag.Items()
	for i := range items {
		dg := &items[i]
		if dg.Primary.Start > to || dg.Primary.End < from {
			continue
		}
		for _, fx := range dg.Fixes {
			edits, ok := fixEdits(file, fx)
			if !ok {
				continue
			}
			actions = append(actions, codeAction{
				Title:       fx.Title,
				Kind:        "quickfix",
				Diagnostics: []lspDiagnostic{toLSPDiagnostic(d.uri, file, dg)},
				Edit:        workspaceEdit{Changes: map[string][]textEdit{d.uri: edits}},
			})
		}
	}
	return actions
}

func fixEdits(file *source.File, fx diag.Fix) ([]textEdit, bool) {
	edits := make([]textEdit, 0, len(fx.Edits))
	for _, e := range fx.Edits {
		if e.OldText != "" && file.Text(e.Span) != e.OldText {
			return nil, false
		}
		edits = append(edits, textEdit{Range: rangeOf(file, e.Span), NewText: e.NewText})
	}
	return edits, len(edits) > 0
}
