package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"spin/internal/diag"
	"spin/internal/source"
)

type palette struct {
	sev    map[diag.Severity]*color.Color
	path   *color.Color
	gutter *color.Color
	note   *color.Color
	fix    *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgCyan, color.Bold),
		},
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		note:   color.New(color.FgCyan),
		fix:    color.New(color.FgGreen),
	}
	all := []*color.Color{p.path, p.gutter, p.note, p.fix}
	for _, c := range p.sev {
		all = append(all, c)
	}
	// глобальный color.NoColor зависит от tty stdout; здесь решает опция
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := prettyOne(w, d, fs, opts, pal); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) error {
	var b strings.Builder
	start, end := fs.Resolve(d.Primary)
	sevColor := pal.sev[d.Severity]

	fmt.Fprintf(&b, "%s: %s %s: %s\n",
		pal.path.Sprintf("%s:%d:%d", formatPath(fs, d.Primary.File, opts.PathMode), start.Line, start.Col),
		sevColor.Sprint(d.Severity.String()),
		sevColor.Sprint(d.Code.ID()),
		d.Message)

	if f := fs.Get(d.Primary.File); f != nil {
		writeSnippet(&b, f, start, end, opts, pal, sevColor)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			ns, _ := fs.Resolve(n.Span)
			fmt.Fprintf(&b, "  %s %s:%d:%d: %s\n", pal.note.Sprint("note:"),
				formatPath(fs, n.Span.File, opts.PathMode), ns.Line, ns.Col, n.Msg)
		}
	}
	if opts.ShowFixes {
		for _, fx := range d.Fixes {
			fmt.Fprintf(&b, "  %s %s\n", pal.fix.Sprint("fix:"), fx.Title)
			for _, e := range fx.Edits {
				fmt.Fprintf(&b, "    %s\n", describeEdit(fs, e))
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// writeSnippet печатает строку с ошибкой (и Context строк вокруг) и
// подчёркивание. Многострочный span подчёркивается до конца первой строки.
func writeSnippet(b *strings.Builder, f *source.File, start, end source.LineCol, opts PrettyOpts, pal palette, sevColor *color.Color) {
	first := start.Line
	if ctx := uint32(max(opts.Context, 0)); first > ctx {
		first -= ctx
	} else {
		first = 1
	}
	last := min(start.Line+uint32(max(opts.Context, 0)), f.LineCount())
	gutterWidth := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := f.GetLine(ln)
		if opts.Width > 0 && runewidth.StringWidth(text) > opts.Width {
			text = runewidth.Truncate(text, opts.Width, "...")
		}
		fmt.Fprintf(b, "%s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, ln), text)
		if ln != start.Line {
			continue
		}
		line := f.GetLine(ln)
		lo := min(int(start.Col)-1, len(line))
		hi := len(line)
		if end.Line == start.Line {
			hi = min(max(int(end.Col)-1, lo), len(line))
		}
		fmt.Fprintf(b, "%s %s%s\n", pal.gutter.Sprintf("%*s |", gutterWidth, ""),
			caretPadding(line[:lo]), sevColor.Sprint(underline(line[lo:hi])))
	}
}

// caretPadding повторяет ширину префикса строки; табы сохраняются, чтобы
// терминал выровнял их так же, как в исходной строке.
func caretPadding(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

func underline(text string) string {
	w := runewidth.StringWidth(strings.ReplaceAll(text, "\t", " "))
	if w <= 1 {
		return "^"
	}
	return "^" + strings.Repeat("~", w-1)
}

func describeEdit(fs *source.FileSet, e diag.FixEdit) string {
	pos, _ := fs.Resolve(e.Span)
	switch {
	case e.Span.Empty():
		return fmt.Sprintf("insert %q at %d:%d", e.NewText, pos.Line, pos.Col)
	case e.NewText == "":
		return fmt.Sprintf("delete %q at %d:%d", e.OldText, pos.Line, pos.Col)
	default:
		return fmt.Sprintf("replace at %d:%d with %q", pos.Line, pos.Col, e.NewText)
	}
}
