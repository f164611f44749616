package lexer

import (
	"spin/internal/diag"
	"spin/internal/source"
	"spin/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	reg    *token.Registry
	look   *token.Token   // 1 элементный буфер для токена
	hold   []token.Trivia // накопленные leading trivia
	done   bool
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		reg:    opts.registry(),
	}
}

// Scan tokenizes the whole file. The returned slice always ends with EOF;
// diagnostics are sorted by position. Scan never fails.
func Scan(file *source.File, opts Options) ([]token.Token, []diag.Diagnostic) {
	bag := diag.NewBag(0)
	inner := opts.Reporter
	opts.Reporter = diag.ReporterFunc(func(d diag.Diagnostic) {
		bag.Add(d)
		if inner != nil {
			inner.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes, d.Fixes)
		}
	})

	lx := New(file, opts)
	toks := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.IsEOF() {
			break
		}
	}
	bag.Sort()
	return toks, bag.Items()
}

// Next возвращает следующий **значимый** токен с уже собранным Leading.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	if !lx.done && lx.cursor.Off == 0 {
		// BOM остаётся в буфере: спаны считаются по исходным байтам
		lx.cursor.Advance(source.BOMLen(lx.file.Content))
		if tok, ok := lx.scanShebang(); ok {
			return tok
		}
	}

	lx.collectLeadingTrivia()

	if lx.cursor.EOF() {
		// хвостовые комментарии приклеиваем к EOF, чтобы не терять их
		tok := token.Token{Kind: token.EOF, Span: lx.emptySpan(), Leading: lx.takeHold()}
		lx.done = true
		return tok
	}

	var tok token.Token
	ch := lx.cursor.Peek()
	switch {
	case ch == ';':
		// сюда попадаем только в режиме CommentsEmit
		tok = lx.scanComment()
	case ch == '"':
		tok = lx.scanString()
	case ch == '$':
		tok = lx.scanVariable()
	case ch == '@' || ch == '#' || ch == '<':
		tok = lx.scanSymbol()
	case isPunctByte(ch):
		tok = lx.scanPunct()
	case isWordStartByte(ch):
		tok = lx.scanWord()
	case ch >= utf8RuneSelf && lx.atWordStartRune():
		tok = lx.scanWord()
	default:
		tok = lx.scanInvalid()
	}

	tok.Leading = lx.takeHold()
	lx.done = true
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) takeHold() []token.Trivia {
	if len(lx.hold) == 0 {
		return nil
	}
	h := lx.hold
	lx.hold = nil
	return h
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) emit(k token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: k, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
