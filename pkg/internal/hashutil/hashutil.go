package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Prefix marks the algorithm of every checksum produced here
const Prefix = "sha256:"

// New returns the hash used for artifact checksums
func New() hash.Hash {
	return sha256.New()
}

// Format renders a digest as a prefixed checksum string
func Format(sum []byte) string {
	return fmt.Sprintf("%s%x", Prefix, sum)
}

// CalculateChecksum calculates the SHA256 checksum of everything read from r
func CalculateChecksum(r io.Reader) (string, error) {
	h := New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return Format(h.Sum(nil)), nil
}

// PathKey returns a short stable key for a filesystem path, usable as a
// file name. Paths that differ only by cleaning map to the same key.
func PathKey(path string) string {
	clean := filepath.Clean(path)
	if os.PathSeparator == '\\' {
		clean = strings.ToLower(clean)
	}
	sum := sha256.Sum256([]byte(clean))
	return hex.EncodeToString(sum[:])[:16]
}
