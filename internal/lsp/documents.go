package lsp

import (
	"encoding/json"

	"spin/internal/diag"
	"spin/internal/driver"
	"spin/internal/source"
)

// document is an open editor buffer with the result of its last parse.
type document struct {
	uri     string
	version int
	text    string
	result  *driver.ParseResult // nil if the parse itself failed
}

func (d *document) file() *source.File {
	if d == nil || d.result == nil {
		return nil
	}
	return d.result.File
}

// analyze re-parses the buffer. Parsing a manifest is cheap enough to run
// on every keystroke, so there is no debounce.
func (s *Server) analyze(d *document) {
	res, err := driver.ParseSource(displayName(d.uri), []byte(d.text), s.opts.Driver)
	if err != nil {
		s.logf("parse %s: %v", d.uri, err)
		d.result = nil
		return
	}
	d.result = res
}

func (s *Server) publish(d *document) error {
	version := d.version
	return s.sendPublish(d.uri, &version, toLSPDiagnostics(d))
}

// update stores text for uri, re-parses it and publishes diagnostics.
func (s *Server) update(uri string, version int, text string) error {
	s.mu.Lock()
	d := s.docs[uri]
	if d == nil {
		d = &document{uri: uri}
		s.docs[uri] = d
	}
	d.version = version
	d.text = text
	s.analyze(d)
	s.mu.Unlock()
	return s.publish(d)
}

// lookup returns the open document for uri, or nil.
func (s *Server) lookup(uri string) *document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[uri]
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	if params.TextDocument.URI == "" {
		return nil
	}
	return s.update(params.TextDocument.URI, params.TextDocument.Version, params.TextDocument.Text)
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := params.TextDocument.URI
	if uri == "" {
		return nil
	}
	var text string
	if d := s.lookup(uri); d != nil {
		text = d.text
	}
	return s.update(uri, params.TextDocument.Version, applyChanges(text, params.ContentChanges))
}

func (s *Server) handleDidSave(msg *rpcMessage) error {
	var params didSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	d := s.lookup(params.TextDocument.URI)
	if d == nil || params.Text == nil {
		return nil
	}
	return s.update(d.uri, d.version, *params.Text)
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := params.TextDocument.URI
	s.mu.Lock()
	_, open := s.docs[uri]
	delete(s.docs, uri)
	s.mu.Unlock()
	if !open {
		return nil
	}
	return s.sendPublish(uri, nil, nil)
}

// toLSPDiagnostics converts the parse diagnostics of d. Notes become related
// information pointing into the same document.
func toLSPDiagnostics(d *document) []lspDiagnostic {
	file := d.file()
	if file == nil {
		return nil
	}
	items := d.result.Bag.Items()
	out := make([]lspDiagnostic, 0, len(items))
	for i := range items {
		out = append(out, toLSPDiagnostic(d.uri, file, &items[i]))
	}
	return out
}

func toLSPDiagnostic(uri string, file *source.File, d *diag.Diagnostic) lspDiagnostic {
	ld := lspDiagnostic{
		Range:    rangeOf(file, d.Primary),
		Severity: lspSeverity(d.Severity),
		Code:     d.Code.ID(),
		Source:   "spn",
		Message:  d.Message,
	}
	for _, n := range d.Notes {
		ld.RelatedInformation = append(ld.RelatedInformation, diagnosticRelatedInformation{
			Location: location{URI: uri, Range: rangeOf(file, n.Span)},
			Message:  n.Msg,
		})
	}
	return ld
}

// lspSeverity maps to DiagnosticSeverity: 1 error, 2 warning, 3 information.
func lspSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SevError:
		return 1
	case diag.SevWarning:
		return 2
	default:
		return 3
	}
}
