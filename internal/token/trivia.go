package token

import "spin/internal/source"

type TriviaKind uint8

const (
	// TriviaComment is a `;` line comment.
	TriviaComment TriviaKind = iota
)

// Trivia is attached to the token that follows it.
type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string // для комментария включает ';'
}

func (k TriviaKind) String() string {
	if k == TriviaComment {
		return "Comment"
	}
	return "Trivia(?)"
}
