package service

import (
	"context"
	"errors"
	"time"

	"github.com/yndnr/reviewgate/internal/core/domain"
)

// ErrCredentialsRejected is wrapped by AccountService implementations when
// the username/password pair is wrong, as opposed to the service failing.
var ErrCredentialsRejected = errors.New("credentials rejected")

// AccountService verifies login credentials.
type AccountService interface {
	// VerifyCredentials returns the account's ID and role, or an error
	// wrapping ErrCredentialsRejected for a wrong username or password.
	VerifyCredentials(ctx context.Context, username, password string) (domain.UserID, domain.Role, error)
}

// ProfileService fetches user profiles.
type ProfileService interface {
	FetchProfile(ctx context.Context, userID domain.UserID) (domain.UserInfo, error)
}

// SubmissionRepository lists the submissions a user has permissions on.
type SubmissionRepository interface {
	QuerySubmissionIDs(ctx context.Context, userID domain.UserID) ([]domain.SubID, error)
}

// SessionStore holds live sessions keyed by access token.
//
// Implementations must make each call atomic per token and evict expired
// sessions on Lookup and RemoveOwned.
type SessionStore interface {
	Create(userID domain.UserID, role domain.Role, ttl time.Duration) (*domain.Session, error)
	Lookup(tok domain.AccessToken) (*domain.Session, error)
	RemoveOwned(tok domain.AccessToken, userID domain.UserID) error
	CountLive() int
}

// InfoCache memoizes user profiles.
type InfoCache interface {
	Get(userID domain.UserID) (domain.UserInfo, bool)
	Put(userID domain.UserID, info domain.UserInfo)
}
