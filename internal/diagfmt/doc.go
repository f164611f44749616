// Package diagfmt renders diagnostics, token streams and parsed documents
// for the CLI: pretty, short, json and sarif for diagnostics; pretty and json
// for tokens; tree, json and yaml for documents.
package diagfmt
