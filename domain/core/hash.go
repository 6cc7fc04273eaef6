package core

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
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

// Domain-specific hash types
type (
	EnvHash      Hash
	ContentHash  Hash
	NotebookHash Hash
)

// Constructors
func NewEnvHash(data []byte) EnvHash           { return EnvHash(NewHash(data)) }
func NewContentHash(data []byte) ContentHash   { return ContentHash(NewHash(data)) }
func NewNotebookHash(data []byte) NotebookHash { return NotebookHash(NewHash(data)) }

// String conversions
func (h EnvHash) String() string      { return Hash(h).String() }
func (h ContentHash) String() string  { return Hash(h).String() }
func (h NotebookHash) String() string { return Hash(h).String() }

// ComputeEnvHash fingerprints a dependency set. The input is deduplicated and
// sorted before hashing, so the result is a pure function of the set itself,
// independent of generation order.
func ComputeEnvHash(requirements []string) EnvHash {
	seen := make(map[string]bool, len(requirements))
	unique := make([]string, 0, len(requirements))
	for _, req := range requirements {
		if !seen[req] {
			seen[req] = true
			unique = append(unique, req)
		}
	}
	sort.Strings(unique)
	return NewEnvHash([]byte(strings.Join(unique, "\n")))
}
