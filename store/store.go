// Package store defines the on-disk schema of a blocklist store and the
// read-side access to it. The schema is shared with the external update
// process that produces the files: regular entries are keyed by the
// 16-byte MD5 digest of a canonical URI string, and a small fixed set of
// reserved keys holds store metadata.
package store

import (
	"crypto/md5"
	"errors"
)

var (
	ErrStoreUnavailable = errors.New("blocklist store unavailable")
	ErrNotFound         = errors.New("store entry not found")
)

// HashSize is the length in bytes of a content-hash key.
const HashSize = md5.Size

// ReservedKey names one of the fixed metadata entries. The byte length
// of every reserved key differs from HashSize, so metadata can never
// collide with a content hash.
type ReservedKey string

const (
	MajorVersion ReservedKey = "__major-version__"
	MinorVersion ReservedKey = "__minor-version__"
	Timestamp    ReservedKey = "__timestamp__"
	LastAttempt  ReservedKey = "__last-update-attempt__"
	ClientKey    ReservedKey = "__client-key__"
	WrappedKey   ReservedKey = "__wrapped-key__"
	ErrorCount   ReservedKey = "__error-count__"
)

// ReservedKeys returns the complete metadata key set, in schema order.
func ReservedKeys() []ReservedKey {
	return []ReservedKey{
		MajorVersion,
		MinorVersion,
		Timestamp,
		LastAttempt,
		ClientKey,
		WrappedKey,
		ErrorCount,
	}
}

// Digest returns the content-hash key for a canonical URI string.
func Digest(canonical string) []byte {
	sum := md5.Sum([]byte(canonical))
	return sum[:]
}

// Map is a read-only byte-keyed view of a blocklist store. Lookup
// reports key existence; Get reads a value, returning ErrNotFound for
// absent keys. Implementations need not be safe for concurrent use.
type Map interface {
	Lookup(key []byte) (bool, error)
	Get(key []byte) ([]byte, error)
	Close() error
}
