package lsp

import "unicode/utf8"

// applyChanges replays incremental edits over text. A change without a
// range replaces the whole buffer.
func applyChanges(text string, changes []textDocumentContentChangeEvent) string {
	for _, ch := range changes {
		if ch.Range == nil {
			text = ch.Text
			continue
		}
		start := offsetForPosition(text, ch.Range.Start)
		end := max(offsetForPosition(text, ch.Range.End), start)
		text = text[:start] + ch.Text + text[end:]
	}
	return text
}

// offsetForPosition converts an LSP position (UTF-16 columns) to a byte
// offset in text, clamped to the end of the line or buffer.
func offsetForPosition(text string, pos position) int {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	i := 0
	for line := 0; line < pos.Line; i++ {
		if i >= len(text) {
			return len(text)
		}
		if text[i] == '\n' {
			line++
		}
	}
	units := 0
	for i < len(text) && text[i] != '\n' {
		r, size := utf8.DecodeRuneInString(text[i:])
		need := utf16Len(r)
		if units+need > pos.Character {
			break
		}
		units += need
		i += size
	}
	return i
}

func utf16Len(r rune) int {
	if r > 0xFFFF {
		return 2
	}
	return 1
}
