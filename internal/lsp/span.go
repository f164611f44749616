package lsp

import (
	"sort"
	"unicode/utf8"

	"fortio.org/safecast"

	"spin/internal/source"
)

// positionAt converts a byte offset in file to an LSP position. Columns are
// counted in UTF-16 code units as the protocol requires.
func positionAt(file *source.File, off uint32) position {
	if file == nil {
		return position{}
	}
	off = min(off, file.Len())
	// LineIdx хранит смещения '\n'; строка = число переводов строки до off
	line := sort.Search(len(file.LineIdx), func(i int) bool { return file.LineIdx[i] >= off })
	var lineStart uint32
	if line > 0 {
		lineStart = file.LineIdx[line-1] + 1
	}
	units := 0
	for b := file.Content[lineStart:off]; len(b) > 0; {
		r, size := utf8.DecodeRune(b)
		units += utf16Len(r)
		b = b[size:]
	}
	return position{Line: line, Character: units}
}

func rangeOf(file *source.File, span source.Span) lspRange {
	return lspRange{Start: positionAt(file, span.Start), End: positionAt(file, span.End)}
}

// wholeRange covers the entire buffer; used for full-document edits.
func wholeRange(file *source.File) lspRange {
	return lspRange{End: positionAt(file, file.Len())}
}

// offsetAt is the inverse of positionAt over the parsed file.
func offsetAt(file *source.File, pos position) uint32 {
	if file == nil {
		return 0
	}
	off := offsetForPosition(string(file.Content), pos)
	v, err := safecast.Conv[uint32](off)
	if err != nil {
		return file.Len()
	}
	return v
}
