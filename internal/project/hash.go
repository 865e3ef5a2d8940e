package project

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// Digest - sha256 файла модуля, показывается в титрах
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// HashBytes digests b.
func HashBytes(b []byte) Digest { return sha256.Sum256(b) }

// HashFile digests the file at path without loading it whole.
func HashFile(path string) (Digest, error) {
	var out Digest
	f, err := os.Open(path)
	if err != nil {
		return out, fmt.Errorf("hash %s: %w", path, err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return out, fmt.Errorf("hash %s: %w", path, err)
	}
	copy(out[:], h.Sum(nil))
	return out, nil
}

// hash groups alternate between these two colors
var hashColors = [2]string{"|cffffcc00", "|cff4682b4"}

const hashGroup = 8

// ColoredHash renders the hex digest in groups of eight characters with
// alternating color codes, so a player can compare it at a glance.
func ColoredHash(d Digest) string {
	s := d.String()
	var b strings.Builder
	b.Grow(len(s) + (len(s)/hashGroup)*12)
	for i := 0; i < len(s); i += hashGroup {
		b.WriteString(hashColors[(i/hashGroup)%2])
		b.WriteString(s[i:min(i+hashGroup, len(s))])
		b.WriteString("|r")
	}
	return b.String()
}
