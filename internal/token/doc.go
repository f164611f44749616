// Package token defines lexical token kinds, trivia and the bareword registry
// for SPN manifests.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Whitespace never produces tokens; comments become leading Trivia unless
//     the scanner is asked to emit or discard them.
//   - Barewords are classified by exact match: Keyword, then Builtin, then
//     FunctionRef, otherwise Ident.
package token
