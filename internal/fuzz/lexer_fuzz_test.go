package fuzztests

import (
	"testing"

	"spin/internal/lexer"
	"spin/internal/source"
	"spin/internal/testkit"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.spn", clampInput(input)))

		for _, mode := range []lexer.CommentMode{lexer.CommentsAttach, lexer.CommentsDiscard, lexer.CommentsEmit} {
			toks, _ := lexer.Scan(file, lexer.Options{Comments: mode})
			if err := testkit.CheckTokenInvariants(toks, file); err != nil {
				t.Fatalf("%s mode: %v\ninput: %q", mode, err, input)
			}
		}
	})
}
