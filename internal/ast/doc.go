// Package ast holds the syntax tree of one SPN manifest.
//
// The tree is a pure ownership tree: a Document owns its Blocks, a Block owns
// its Fields and every Value belongs to exactly one Field or List. Nodes are
// built once by the parser and treated as immutable afterwards.
//
// Value is a closed sum type; the unexported valueNode method keeps other
// packages from adding variants, so a type switch over the variants listed
// in values.go is exhaustive.
package ast
