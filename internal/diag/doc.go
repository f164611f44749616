// Package diag defines the diagnostic model shared by the scanner, the parser
// and the driver.
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error.
//   - Code – numeric identifier with a stable ID ("LEX1001", "SYN2004"), a
//     symbolic Name ("DuplicateKey") and a human Title.
//   - Message – short and actionable.
//   - Primary – the source.Span the finding points at.
//   - Notes – secondary spans, e.g. where a duplicated key was first defined.
//   - Fixes – machine-applicable text edits consumed by internal/fix.
//
// Producers emit through a Reporter, usually via ReportError(...).Emit().
// BagReporter collects into a Bag which supports sorting and a cap;
// DedupReporter in front of it drops exact repeats. Package diag performs no IO; rendering lives in
// internal/diagfmt.
//
// Malformed manifests are never Go errors: they are Diagnostics. Go errors
// are reserved for IO, configuration and CLI failures.
package diag
