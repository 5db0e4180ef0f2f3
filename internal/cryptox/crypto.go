// Package cryptox holds the content fingerprinting used to check that a
// file's bytes did not change between submission and re-submission.
package cryptox

import (
	"crypto/subtle"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"
)

// DigestSize is the length in bytes of a Digest result.
const DigestSize = blake2b.Size256

// Digest returns the BLAKE2b-256 sum of everything read from r.
func Digest(r io.Reader) ([]byte, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return nil, fmt.Errorf("blake2b init: %w", err)
	}
	if _, err := io.Copy(h, r); err != nil {
		return nil, fmt.Errorf("digest read: %w", err)
	}
	return h.Sum(nil), nil
}

// DigestBytes is Digest for an in-memory buffer.
func DigestBytes(b []byte) []byte {
	sum := blake2b.Sum256(b)
	return sum[:]
}

// Equal compares two digests in constant time. Empty digests never match.
func Equal(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
