package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"
)

const utf8RuneSelf = 0x80

// ===== Работа с рунами поверх Cursor =====

// peekRune читает текущую позицию как руну
func (lx *Lexer) peekRune() (r rune, size int) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	b := lx.cursor.Peek()
	if b < utf8.RuneSelf { // fast-path ASCII
		return rune(b), 1
	}
	return utf8.DecodeRune(lx.file.Content[lx.cursor.Off:lx.cursor.Limit])
}

// bumpRune перемещает курсор на размер текущей руны
func (lx *Lexer) bumpRune() {
	_, sz := lx.peekRune()
	if sz == 0 {
		return
	}
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("bumpRune overflow: %w", err))
	}
	lx.cursor.Advance(usz)
}

func (lx *Lexer) atWordStartRune() bool {
	r, sz := lx.peekRune()
	return sz > 0 && r != utf8.RuneError && isWordStartRune(r)
}

// ===== Классификаторы =====

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

// Бареворд: буквы, цифры, '_' и '-'; '-' не может начинать слово.
func isWordStartByte(b byte) bool {
	return b == '_' || isDec(b) || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isWordContinueByte(b byte) bool {
	return isWordStartByte(b) || b == '-'
}

func isWordStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isWordContinueRune(r rune) bool {
	return isWordStartRune(r) || r == '-'
}

func isPunctByte(b byte) bool {
	switch b {
	case '{', '}', '[', ']', ',', ':', '|':
		return true
	}
	return false
}

// skipWord съедает бареворд (ASCII и Unicode) и сообщает, были ли в нём
// только ASCII-цифры.
func (lx *Lexer) skipWord() (n int, digitsOnly bool) {
	digitsOnly = true
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isWordContinueByte(b) {
				break
			}
			if !isDec(b) {
				digitsOnly = false
			}
			lx.cursor.Bump()
			n++
			continue
		}
		r, sz := lx.peekRune()
		if r == utf8.RuneError || !isWordContinueRune(r) {
			break
		}
		digitsOnly = false
		lx.bumpRune()
		n += sz
	}
	return n, digitsOnly && n > 0
}

// IsBareword reports whether s scans as exactly one bareword token (and not
// as a Number).
func IsBareword(s string) bool {
	if s == "" {
		return false
	}
	digitsOnly := true
	for i, r := range s {
		if r == utf8.RuneError {
			return false
		}
		if i == 0 && !isWordStartRune(r) {
			return false
		}
		if !isWordContinueRune(r) {
			return false
		}
		if r < '0' || r > '9' {
			digitsOnly = false
		}
	}
	return !digitsOnly
}
