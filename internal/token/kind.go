package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid carries one rejected character.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Shebang is the `#!` header line, recognised only at the start of the buffer
	// (after an optional BOM).
	Shebang
	// Comment is a `;` line comment (emitted only in CommentsEmit mode).
	Comment

	// Keyword is one of the reserved block keywords.
	Keyword
	// Builtin names a known backing service (postgres, redis, ...).
	Builtin
	// FunctionRef names a known action (validate-config, ...).
	FunctionRef
	// Ident is any other bareword.
	Ident

	String   // "..."
	Number   // 3000
	Variable // ${...}
	Symbol   // @word, @[..], #tag, <..>

	LBrace   // {
	RBrace   // }
	LBracket // [
	RBracket // ]
	Comma    // ,
	Colon    // :
	Pipe     // |
)

var kindNames = [...]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Shebang:     "Shebang",
	Comment:     "Comment",
	Keyword:     "Keyword",
	Builtin:     "Builtin",
	FunctionRef: "FunctionRef",
	Ident:       "Ident",
	String:      "String",
	Number:      "Number",
	Variable:    "Variable",
	Symbol:      "Symbol",
	LBrace:      "LBrace",
	RBrace:      "RBrace",
	LBracket:    "LBracket",
	RBracket:    "RBracket",
	Comma:       "Comma",
	Colon:       "Colon",
	Pipe:        "Pipe",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Category groups kinds the way manifests are described to users.
type Category uint8

const (
	CatUnrecognized Category = iota
	CatEndOfInput
	CatShebang
	CatComment
	CatKeyword
	CatBuiltin
	CatFunctionRef
	CatString
	CatNumber
	CatPunctuation
	CatOperator
	CatVariable
	CatSymbol
	CatIdentifier
)

var categoryNames = [...]string{
	CatUnrecognized: "Unrecognized",
	CatEndOfInput:   "EndOfInput",
	CatShebang:      "Shebang",
	CatComment:      "Comment",
	CatKeyword:      "Keyword",
	CatBuiltin:      "Builtin",
	CatFunctionRef:  "FunctionRef",
	CatString:       "String",
	CatNumber:       "Number",
	CatPunctuation:  "Punctuation",
	CatOperator:     "Operator",
	CatVariable:     "Variable",
	CatSymbol:       "Symbol",
	CatIdentifier:   "Identifier",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "Category(?)"
}

// Category maps a fine-grained kind onto its category.
func (k Kind) Category() Category {
	switch k {
	case EOF:
		return CatEndOfInput
	case Shebang:
		return CatShebang
	case Comment:
		return CatComment
	case Keyword:
		return CatKeyword
	case Builtin:
		return CatBuiltin
	case FunctionRef:
		return CatFunctionRef
	case Ident:
		return CatIdentifier
	case String:
		return CatString
	case Number:
		return CatNumber
	case Variable:
		return CatVariable
	case Symbol:
		return CatSymbol
	case LBrace, RBrace, LBracket, RBracket, Comma, Colon:
		return CatPunctuation
	case Pipe:
		return CatOperator
	default:
		return CatUnrecognized
	}
}

// IsBareword reports kinds produced from a bareword lexeme.
func (k Kind) IsBareword() bool {
	switch k {
	case Keyword, Builtin, FunctionRef, Ident:
		return true
	default:
		return false
	}
}
