package lsp

import (
	"net/url"
	"path/filepath"
)

// uriToPath maps a file:// URI to a local path; other schemes give "".
func uriToPath(uri string) string {
	if uri == "" {
		return ""
	}
	u, err := url.Parse(uri)
	if err != nil || (u.Scheme != "" && u.Scheme != "file") {
		return ""
	}
	p := u.Path
	if u.Scheme == "" {
		p = uri
	}
	if unescaped, err := url.PathUnescape(p); err == nil {
		p = unescaped
	}
	return filepath.FromSlash(p)
}

func pathToURI(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// displayName is the file name diagnostics are registered under: the local
// path for file URIs, the URI itself for untitled buffers.
func displayName(uri string) string {
	if p := uriToPath(uri); p != "" {
		return p
	}
	return uri
}
