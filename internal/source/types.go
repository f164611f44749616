package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // не с диска
	// FileHasBOM marks content that starts with a UTF-8 BOM. The BOM stays
	// in Content; the lexer skips it.
	FileHasBOM
	// FileHasCRLF marks content with at least one "\r\n" line ending.
	FileHasCRLF
)

// File captures metadata and content for a single manifest buffer.
type File struct {
	ID      FileID
	Path    string
	Content []byte // exactly the bytes the caller supplied
	LineIdx []uint32 // offsets of every '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}

// Location is a fully resolved span: both ends as line/column plus the raw
// byte offset and length. It is what diagnostics print and serialise.
type Location struct {
	Start  LineCol
	End    LineCol
	Offset uint32
	Length uint32
}
