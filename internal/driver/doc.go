// Package driver wires the scanner, parser, serializer and fix engine into
// the operations behind the spn commands: single-file tokenize and parse,
// parallel directory checks with an optional on-disk cache, fmt and fix.
package driver
