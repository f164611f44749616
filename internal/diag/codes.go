package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexUnexpectedChar            Code = 1001
	LexUnterminatedString        Code = 1002
	LexUnterminatedInterpolation Code = 1003

	// Парсерные
	SynUnexpectedToken Code = 2001
	SynExpectValue     Code = 2002
	SynExpectKey       Code = 2003
	SynDuplicateKey    Code = 2004
	SynUnclosedBlock   Code = 2005
	SynUnclosedList    Code = 2006

	// Ввод-вывод
	IOLoadFileError Code = 4001
)

type codeInfo struct {
	name  string
	title string
}

var codeTable = map[Code]codeInfo{
	UnknownCode:                  {"Unknown", "unknown error"},
	LexUnexpectedChar:            {"UnexpectedCharacter", "unexpected character"},
	LexUnterminatedString:        {"UnterminatedString", "unterminated string literal"},
	LexUnterminatedInterpolation: {"UnterminatedInterpolation", "unterminated ${...} interpolation"},
	SynUnexpectedToken:           {"UnexpectedToken", "unexpected token"},
	SynExpectValue:               {"ExpectedValue", "expected a value"},
	SynExpectKey:                 {"ExpectedKey", "expected a key"},
	SynDuplicateKey:              {"DuplicateKey", "duplicate key"},
	SynUnclosedBlock:             {"UnclosedBlock", "unclosed block"},
	SynUnclosedList:              {"UnclosedList", "unclosed list"},
	IOLoadFileError:              {"LoadFileError", "failed to load file"},
}

// ID returns the stable textual code, e.g. "LEX1001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

// Name returns the symbolic name, e.g. "UnexpectedCharacter".
func (c Code) Name() string {
	if info, ok := codeTable[c]; ok {
		return info.name
	}
	return codeTable[UnknownCode].name
}

func (c Code) Title() string {
	if info, ok := codeTable[c]; ok {
		return info.title
	}
	return codeTable[UnknownCode].title
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// IsLexical reports codes produced by the scanner.
func (c Code) IsLexical() bool { return c >= 1000 && c < 2000 }

// IsSyntax reports codes produced by the parser.
func (c Code) IsSyntax() bool { return c >= 2000 && c < 3000 }

// Codes returns every known code in numeric order.
func Codes() []Code {
	return []Code{
		LexUnexpectedChar, LexUnterminatedString, LexUnterminatedInterpolation,
		SynUnexpectedToken, SynExpectValue, SynExpectKey, SynDuplicateKey,
		SynUnclosedBlock, SynUnclosedList,
		IOLoadFileError,
	}
}

// ParseCode accepts either the ID ("SYN2004") or the symbolic name ("DuplicateKey").
func ParseCode(s string) (Code, bool) {
	for _, c := range Codes() {
		if c.ID() == s || c.Name() == s {
			return c, true
		}
	}
	return UnknownCode, false
}
