package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet owns the scripts read during one run and resolves spans to positions.
type FileSet struct {
	files []File
	index map[string]FileID
}

func NewFileSet() *FileSet {
	return &FileSet{
		index: make(map[string]FileID),
	}
}

// Add stores content and returns its id. Line breaks are kept as-is so that
// templates with "\r\n" survive a round trip; only a leading BOM is removed.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) (FileID, error) {
	content, hadBOM := removeBOM(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		return 0, fmt.Errorf("%s: file too large: %w", path, err)
	}
	if i := indexLF(content); i > 0 && content[i-1] == '\r' {
		flags |= FileCRLF
	}
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		return 0, fmt.Errorf("too many files: %w", err)
	}
	id := FileID(n)
	path = filepath.ToSlash(filepath.Clean(path))
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.index[path] = id
	return id, nil
}

// AddVirtual adds in-memory text.
func (fs *FileSet) AddVirtual(name, text string) FileID {
	id, err := fs.Add(name, []byte(text), FileVirtual)
	if err != nil {
		panic(err)
	}
	return id
}

// Load reads a script from disk.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path comes from the project manifest or the command line
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return fs.Add(path, content, 0)
}

func (fs *FileSet) Get(id FileID) *File {
	return &fs.files[id]
}

// Lookup returns the most recently added file with the given path.
func (fs *FileSet) Lookup(path string) (*File, bool) {
	id, ok := fs.index[filepath.ToSlash(filepath.Clean(path))]
	if !ok {
		return nil, false
	}
	return &fs.files[id], true
}

func (fs *FileSet) Len() int {
	return len(fs.files)
}

// Resolve converts a span into start and end positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	if int(span.File) >= len(fs.files) {
		return LineCol{}, LineCol{}
	}
	f := &fs.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Text returns the content as a string.
func (f *File) Text() string {
	return string(f.Content)
}

// Line returns the 1-based line without its terminator, or "" when out of range.
func (f *File) Line(n uint32) string {
	if n == 0 || int(n) > len(f.LineIdx)+1 {
		return ""
	}
	var start uint32
	if n > 1 {
		start = f.LineIdx[n-2] + 1
	}
	end := uint32(len(f.Content)) // #nosec G115 -- checked in Add
	if int(n) <= len(f.LineIdx) {
		end = f.LineIdx[n-1]
	}
	line := f.Content[start:end]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	return string(line)
}

func indexLF(b []byte) int {
	for i, c := range b {
		if c == '\n' {
			return i
		}
	}
	return -1
}
