package source

type (
	// FileID identifies a script inside a FileSet.
	FileID uint32
	// FileFlags records how the content was read.
	FileFlags uint8
)

const (
	// FileVirtual marks content that was added from memory (tests, stdin, generated text).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	// FileCRLF is set when the first line break in the content is "\r\n".
	FileCRLF
)

// File holds one script together with its line index and content hash.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of every '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based position.
type LineCol struct {
	Line uint32
	Col  uint32
}
