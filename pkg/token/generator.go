// Package token provides random token generation.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// DefaultLength is the default token length in bytes (256 bits).
const DefaultLength = 32

// MinLength is the smallest accepted token length in bytes (128 bits).
const MinLength = 16

// Generate returns a Base64 RawURL encoded token of DefaultLength random bytes.
func Generate() string {
	return GenerateWithLength(DefaultLength)
}

// GenerateWithLength returns a Base64 RawURL encoded token of length random bytes.
// Lengths below MinLength are raised to MinLength.
func GenerateWithLength(length int) string {
	if length < MinLength {
		length = MinLength
	}
	return base64.RawURLEncoding.EncodeToString(GenerateBytes(length))
}

// GenerateBytes returns length random bytes.
//
// It panics if the system entropy source fails.
func GenerateBytes(length int) []byte {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("token: entropy source failed: %v", err))
	}
	return b
}

// EncodedLength returns the length of a token generated from length bytes.
func EncodedLength(length int) int {
	return base64.RawURLEncoding.EncodedLen(length)
}
