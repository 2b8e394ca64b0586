// Package cryptox provides the password-handling primitives used by the
// Moodly client: secure random generation, SHA-256 digests, PBKDF2 key
// derivation, base64 codecs, and constant-time comparison.
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// DefaultIterations is the PBKDF2 iteration count used for password
// derivation. Tunable: raising it makes offline brute force of a leaked
// derived key proportionally more expensive.
const DefaultIterations = 100000

// keyLength is the PBKDF2 output size in bytes (256-bit keys).
const keyLength = 32

// ErrUnsupportedEnvironment indicates that no cryptographically secure
// random source is available on this platform.
var ErrUnsupportedEnvironment = errors.New("secure random source unavailable")

// RandomBytes returns n cryptographically secure random bytes.
//
// It returns ErrUnsupportedEnvironment (wrapped) if the platform RNG
// cannot be read.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedEnvironment, err)
	}
	return b, nil
}

// Hash returns the base64-encoded SHA-256 digest of input.
// Deterministic and one-way; not suitable on its own for password storage,
// use DeriveKey for that.
func Hash(input []byte) string {
	sum := sha256.Sum256(input)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// DeriveKey derives a 256-bit key from password and salt using
// PBKDF2-HMAC-SHA256 and returns it base64-encoded.
//
// iterations <= 0 selects DefaultIterations.
func DeriveKey(password, salt []byte, iterations int) string {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	key := pbkdf2.Key(password, salt, iterations, keyLength, sha256.New)
	return base64.StdEncoding.EncodeToString(key)
}

// ConstantTimeEqual compares two strings without leaking, via timing, the
// position of the first differing byte. Length mismatch returns false
// immediately; equal-length inputs are always compared in full.
func ConstantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Base64Encode encodes b using standard base64.
func Base64Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Base64Decode reverses Base64Encode.
func Base64Decode(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// Wipe overwrites b with zeros. Used to remove plaintext passwords from
// memory on every exit path; a nil slice is a no-op.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
