package symbol

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/xxh3"
)

// Fingerprint is a stable content hash used as the cache validity key.
type Fingerprint string

// FingerprintOf hashes content with xxh3-64. Equal content always yields an
// equal fingerprint regardless of which path it was read from.
func FingerprintOf(content []byte) Fingerprint {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], xxh3.Hash(content))
	return Fingerprint(hex.EncodeToString(buf[:]))
}

// SourceFile is the unit of indexing: a path, its bytes, and their
// fingerprint.
type SourceFile struct {
	Path        string
	Content     []byte
	Fingerprint Fingerprint
}

// NewSourceFile builds a SourceFile and computes its fingerprint.
func NewSourceFile(path string, content []byte) SourceFile {
	return SourceFile{
		Path:        path,
		Content:     content,
		Fingerprint: FingerprintOf(content),
	}
}

// Size returns the content length in bytes.
func (f SourceFile) Size() int {
	return len(f.Content)
}
