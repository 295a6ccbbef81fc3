// Package domain defines the core domain models for reviewgate.
package domain

import (
	"encoding/base64"
	"strings"

	"github.com/yndnr/reviewgate/pkg/token"
)

// Access token constants.
const (
	// AccessTokenPrefix is the prefix for access tokens.
	AccessTokenPrefix = "rgtk_"

	// AccessTokenBytes is the number of random bytes behind each token.
	AccessTokenBytes = 32

	// AccessTokenBodyLength is the Base64 RawURL encoded length (32 bytes -> 43 chars).
	AccessTokenBodyLength = 43

	// AccessTokenLength is the total token length (prefix + body).
	AccessTokenLength = len(AccessTokenPrefix) + AccessTokenBodyLength
)

// AccessToken is an opaque bearer credential identifying a live session.
// It carries no payload and is only ever compared for equality.
type AccessToken string

// NewAccessToken generates a cryptographically random access token.
//
// It panics if the entropy source fails.
func NewAccessToken() AccessToken {
	return AccessToken(AccessTokenPrefix + token.GenerateWithLength(AccessTokenBytes))
}

// String returns the raw token. Use Mask for logging.
func (t AccessToken) String() string {
	return string(t)
}

// Mask returns a log-safe rendering of the token.
func (t AccessToken) Mask() string {
	return MaskToken(string(t))
}

// ValidAccessTokenFormat reports whether s has the access token shape:
// prefix rgtk_ followed by 43 characters of Base64 RawURL.
func ValidAccessTokenFormat(s string) bool {
	if len(s) != AccessTokenLength {
		return false
	}
	if !strings.HasPrefix(s, AccessTokenPrefix) {
		return false
	}
	_, err := base64.RawURLEncoding.DecodeString(s[len(AccessTokenPrefix):])
	return err == nil
}

// MaskToken masks a token for safe logging.
// Example: rgtk_ABC...xyz
func MaskToken(s string) string {
	if !strings.HasPrefix(s, AccessTokenPrefix) {
		return "***REDACTED***"
	}
	body := s[len(AccessTokenPrefix):]
	if len(body) <= 6 {
		return AccessTokenPrefix + "***"
	}
	return AccessTokenPrefix + body[:3] + "..." + body[len(body)-3:]
}
