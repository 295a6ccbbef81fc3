package domain

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Session constants.
const (
	// SessionIDPrefix is the prefix for session IDs.
	SessionIDPrefix = "rgss-"

	// DefaultSessionTTL is the lifetime of a session created at login.
	DefaultSessionTTL = 30 * 24 * time.Hour
)

// Session binds an access token to a user until ExpiresAt.
//
// A session is created once per successful login and never extended.
// The store owns the canonical copy; everyone else works on clones.
type Session struct {
	// ID is a log-safe identifier: rgss-{ulid_lowercase}, 31 characters.
	ID string `json:"id"`

	// AccessToken is the bearer credential. Never log it unmasked.
	AccessToken AccessToken `json:"-"`

	// UserID is the owner of the session (immutable).
	UserID UserID `json:"user_id"`

	// Role is the account role reported at login.
	Role Role `json:"role"`

	// Permissions is the capability set derived from Role at creation.
	Permissions PermissionSet `json:"-"`

	// CreatedAt is the creation instant.
	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is CreatedAt + TTL, set once.
	ExpiresAt time.Time `json:"expires_at"`
}

// NewSession creates a session for userID that expires ttl after now.
func NewSession(tok AccessToken, userID UserID, role Role, ttl time.Duration, now time.Time) (*Session, error) {
	s := &Session{
		ID:          NewSessionID(now),
		AccessToken: tok,
		UserID:      userID,
		Role:        role,
		Permissions: PermissionsFor(role),
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		return nil, ErrBadRequest.WithDetails("session ttl must be positive")
	}
	return s, nil
}

// NewSessionID generates a session ID whose ULID timestamp is now.
func NewSessionID(now time.Time) string {
	id := ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy())
	return SessionIDPrefix + strings.ToLower(id.String())
}

// IsValidSessionID checks if a string is a valid session ID.
func IsValidSessionID(id string) bool {
	id = strings.ToLower(id)
	if !strings.HasPrefix(id, SessionIDPrefix) {
		return false
	}
	// rgss- (5) + ULID (26) = 31 characters
	if len(id) != len(SessionIDPrefix)+ulid.EncodedSize {
		return false
	}
	_, err := ulid.ParseStrict(strings.ToUpper(id[len(SessionIDPrefix):]))
	return err == nil
}

// ExpiredAt reports whether the session is expired at now.
// A session is valid strictly before ExpiresAt; at ExpiresAt it is expired.
func (s *Session) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Remaining returns the time left before expiry at now, or 0 if expired.
func (s *Session) Remaining(now time.Time) time.Duration {
	if s.ExpiredAt(now) {
		return 0
	}
	return s.ExpiresAt.Sub(now)
}

// Validate validates the session fields.
func (s *Session) Validate() error {
	var violations []string

	if s.UserID == "" {
		violations = append(violations, "user_id is required")
	}
	if len(s.UserID) > MaxUserIDLength {
		violations = append(violations, "user_id exceeds 128 characters")
	}
	if s.AccessToken == "" {
		violations = append(violations, "access_token is required")
	}

	if len(violations) > 0 {
		return ErrBadRequest.WithDetails(strings.Join(violations, "; "))
	}
	return nil
}

// Clone creates a deep copy of the session.
func (s *Session) Clone() *Session {
	clone := *s
	if s.Permissions != nil {
		clone.Permissions = s.Permissions.Clone()
	}
	return &clone
}
