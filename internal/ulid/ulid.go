// Package ulid provides prefixed, lexicographically sortable identifiers
// for store records, built on github.com/oklog/ulid/v2.
package ulid

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Prefixes for the different record kinds in the store
const (
	// PrefixWorkspace is used for workspace IDs
	PrefixWorkspace = "ws"

	// PrefixFile is used for file IDs
	PrefixFile = "file"

	// PrefixChunk is used for chunk IDs
	PrefixChunk = "chunk"

	// PrefixSeparator separates the prefix from the ULID
	PrefixSeparator = "-"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// New generates a new ULID string with the given prefix
func New(prefix string) string {
	entropyLock.Lock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	entropyLock.Unlock()

	if prefix == "" {
		return id.String()
	}
	return prefix + PrefixSeparator + id.String()
}

// WorkspaceID generates a new workspace ID
func WorkspaceID() string {
	return New(PrefixWorkspace)
}

// FileID generates a new file ID
func FileID() string {
	return New(PrefixFile)
}

// ChunkID generates a new chunk ID
func ChunkID() string {
	return New(PrefixChunk)
}

// Prefix returns the prefix portion of a prefixed ULID, or an empty
// string when the ID carries no prefix.
func Prefix(id string) string {
	idx := strings.Index(id, PrefixSeparator)
	if idx < 0 {
		return ""
	}
	return id[:idx]
}

// IsValid reports whether the ULID portion of id parses
func IsValid(id string) bool {
	raw := id
	if idx := strings.Index(id, PrefixSeparator); idx >= 0 {
		raw = id[idx+len(PrefixSeparator):]
	}
	_, err := ulid.Parse(raw)
	return err == nil
}
