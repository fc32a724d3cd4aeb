// Package auth provides password hashing for stored submissions.
package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the fixed bcrypt work factor for every stored hash.
const Cost = 10

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

// ErrInvalidHash indicates the stored hash is not a bcrypt hash.
var ErrInvalidHash = errors.New("invalid hash format")

// HashPassword returns a salted bcrypt hash of password.
// Passwords of any length are accepted.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), Cost)
	if err != nil {
		return "", fmt.Errorf("generate hash: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword checks if the password matches the hash.
// A mismatch is reported as (false, nil); only malformed hashes return an error.
func VerifyPassword(password, encodedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), bcryptInput(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, ErrInvalidHash
	}
}

// bcryptInput returns password unchanged when bcrypt can take it whole.
// Longer passwords are reduced to the base64 SHA-256 digest (44 bytes) so
// every byte still counts.
func bcryptInput(password string) []byte {
	if len(password) <= maxPasswordBytes {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
