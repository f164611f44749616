package driver

import (
	"fmt"

	"fortio.org/safecast"

	"spin/internal/diag"
	"spin/internal/lexer"
	"spin/internal/parser"
	"spin/internal/token"
)

// Options shared by every driver entry point.
type Options struct {
	Registry       *token.Registry // nil — token.DefaultRegistry()
	MaxDiagnostics int             // cap per file, 0 — без лимита
	Comments       lexer.CommentMode
	// KeepPartial keeps the best-effort document of unterminated input.
	KeepPartial bool
}

func (o Options) registry() *token.Registry {
	if o.Registry != nil {
		return o.Registry
	}
	return token.DefaultRegistry()
}

func (o Options) lexerOptions(rep diag.Reporter) lexer.Options {
	return lexer.Options{Reporter: rep, Registry: o.registry(), Comments: o.Comments}
}

// parserOptions не передаёт лимит парсеру: MaxDiagnostics применяется к
// уже отсортированному набору, см. diagnostics.
func (o Options) parserOptions(rep diag.Reporter) (parser.Options, error) {
	if _, err := safecast.Conv[uint](o.MaxDiagnostics); err != nil {
		return parser.Options{}, fmt.Errorf("max diagnostics %d: %w", o.MaxDiagnostics, err)
	}
	return parser.Options{KeepPartial: o.KeepPartial, Reporter: rep}, nil
}

// diagnostics returns an uncapped bag with a reporter that feeds it and
// drops exact repeats. Callers finish with done, which sorts the bag and
// only then cuts it to MaxDiagnostics, so the earliest findings survive
// whichever phase produced them.
func (o Options) diagnostics() (bag *diag.Bag, rep diag.Reporter, done func()) {
	bag = diag.NewBag(0)
	rep = diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	return bag, rep, func() {
		bag.Sort()
		bag.Limit(o.MaxDiagnostics)
	}
}
