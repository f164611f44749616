package token

import (
	"strings"

	"spin/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// Is reports whether the token has any of the given kinds.
func (t Token) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// IsPunct reports whether the token is one of the single-char punctuators.
func (t Token) IsPunct() bool {
	return t.Kind.Category() == CatPunctuation
}

// IsKey reports whether the token may name a field.
func (t Token) IsKey() bool { return t.Kind.IsBareword() }

// IsEOF reports whether the token terminates the stream.
func (t Token) IsEOF() bool { return t.Kind == EOF }

// SymbolForm distinguishes the surface forms of a Symbol token.
type SymbolForm uint8

const (
	SymbolNone       SymbolForm = iota
	SymbolRef                   // @word
	SymbolBracketRef            // @[path]
	SymbolTag                   // #tag
	SymbolAngle                 // <placeholder>
)

func (f SymbolForm) String() string {
	switch f {
	case SymbolRef:
		return "ref"
	case SymbolBracketRef:
		return "bracket-ref"
	case SymbolTag:
		return "tag"
	case SymbolAngle:
		return "angle"
	default:
		return "none"
	}
}

// SymbolForm derives the symbol form from the lexeme.
func (t Token) SymbolForm() SymbolForm {
	if t.Kind != Symbol || t.Text == "" {
		return SymbolNone
	}
	switch {
	case strings.HasPrefix(t.Text, "@["):
		return SymbolBracketRef
	case t.Text[0] == '@':
		return SymbolRef
	case t.Text[0] == '#':
		return SymbolTag
	case t.Text[0] == '<':
		return SymbolAngle
	default:
		return SymbolNone
	}
}

// SymbolName returns the symbol lexeme stripped of its sigils.
func (t Token) SymbolName() string {
	switch t.SymbolForm() {
	case SymbolRef, SymbolTag:
		return t.Text[1:]
	case SymbolBracketRef:
		return strings.TrimSuffix(t.Text[2:], "]")
	case SymbolAngle:
		return strings.TrimSuffix(t.Text[1:], ">")
	default:
		return ""
	}
}

// StringValue returns the contents of a String token without the quotes.
// No escape decoding is performed; an unterminated string simply lacks the
// closing quote.
func (t Token) StringValue() string {
	if t.Kind != String || t.Text == "" {
		return ""
	}
	if t.Terminated() {
		return t.Text[1 : len(t.Text)-1]
	}
	return t.Text[1:]
}

// Terminated reports whether a String or Variable token was properly closed.
func (t Token) Terminated() bool {
	switch t.Kind {
	case String:
		// обратный слэш экранирует следующий байт только для поиска конца
		for i := 1; i < len(t.Text); i++ {
			switch t.Text[i] {
			case '\\':
				i++
			case '"':
				return i == len(t.Text)-1
			}
		}
		return false
	case Variable:
		return len(t.Text) >= 3 && t.Text[len(t.Text)-1] == '}'
	default:
		return true
	}
}

// VariableName returns the text between `${` and `}`.
func (t Token) VariableName() string {
	if t.Kind != Variable || len(t.Text) < 2 {
		return ""
	}
	return strings.TrimSuffix(t.Text[2:], "}")
}
