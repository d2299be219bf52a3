package core

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// FileHash is the content hash of one source workbook, used for cache invalidation.
type FileHash Hash

func (h FileHash) String() string { return Hash(h).String() }

// Equals checks if two file hashes are equal
func (h FileHash) Equals(other FileHash) bool { return h == other }

// HashFile computes the SHA-256 content hash of a file on disk.
// The file is streamed so large workbooks are not read into memory twice.
func HashFile(path string) (FileHash, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", err
	}
	return FileHash(hex.EncodeToString(hasher.Sum(nil))), nil
}
