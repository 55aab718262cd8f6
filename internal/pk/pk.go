// Package pk generates and validates the 24-character hexadecimal record
// identifiers used as primary keys across all ClutchZone collections.
// The format (4 timestamp bytes followed by 8 random bytes, hex encoded)
// is kept compatible with the identifiers already present in legacy URLs,
// so old bookmarked links keep resolving.
package pk

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// Length is the number of hex characters in a primary key.
const Length = 24

// New returns a fresh primary key: the current Unix timestamp in the first
// four bytes, cryptographically random bytes in the remaining eight.
func New() string {
	var raw [12]byte
	binary.BigEndian.PutUint32(raw[:4], uint32(time.Now().Unix()))
	if _, err := rand.Read(raw[4:]); err != nil {
		// crypto/rand never fails on supported platforms.
		panic("pk: rand.Read: " + err.Error())
	}
	return hex.EncodeToString(raw[:])
}

// Valid reports whether s has the primary-key shape: exactly 24 hex
// characters. Upper-case hex is accepted because legacy links were not
// normalized.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
