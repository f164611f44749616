package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"spin/internal/source"
	"spin/internal/token"
)

// SpanJSON is a span resolved to byte offset, length and 1-based position.
type SpanJSON struct {
	Offset uint32 `json:"offset" yaml:"offset"`
	Length uint32 `json:"length" yaml:"length"`
	Line   uint32 `json:"line" yaml:"line"`
	Col    uint32 `json:"col" yaml:"col"`
}

func makeSpan(sp source.Span, fs *source.FileSet) SpanJSON {
	start, _ := fs.Resolve(sp)
	return SpanJSON{Offset: sp.Start, Length: sp.Len(), Line: start.Line, Col: start.Col}
}

type TriviaOutput struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

type TokenOutput struct {
	Kind     string         `json:"kind"`
	Category string         `json:"category"`
	Text     string         `json:"text,omitempty"`
	Span     SpanJSON       `json:"span"`
	Leading  []TriviaOutput `json:"leading,omitempty"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)

		var leading []string
		for _, trivia := range tok.Leading {
			leading = append(leading, fmt.Sprintf("%s %q", trivia.Kind, trivia.Text))
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%3d: %-12s", i+1, tok.Kind.String())
		if tok.Text != "" {
			fmt.Fprintf(&b, " %q", tok.Text)
		}
		fmt.Fprintf(&b, " at %d:%d-%d:%d", startPos.Line, startPos.Col, endPos.Line, endPos.Col)
		if len(leading) > 0 {
			fmt.Fprintf(&b, " (leading: %s)", strings.Join(leading, ", "))
		}
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out := TokenOutput{
			Kind:     tok.Kind.String(),
			Category: tok.Kind.Category().String(),
			Text:     tok.Text,
			Span:     makeSpan(tok.Span, fs),
		}
		for _, trivia := range tok.Leading {
			out.Leading = append(out.Leading, TriviaOutput{Kind: trivia.Kind.String(), Text: trivia.Text})
		}
		output = append(output, out)
		if tok.Kind == token.EOF {
			break
		}
	}
	return encodeJSON(w, output)
}
