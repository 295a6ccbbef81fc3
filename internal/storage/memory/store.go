package memory

import (
	"time"

	"github.com/yndnr/reviewgate/internal/core/domain"
	"github.com/yndnr/reviewgate/pkg/cmap"
)

// Store holds live sessions keyed by access token.
//
// Every operation on a token runs under the owning shard's exclusive lock,
// so Create, Lookup and RemoveOwned on the same token are linearizable.
// Lookup may evict and is therefore never a read-only path.
type Store struct {
	sessions *cmap.Map[domain.AccessToken, *domain.Session]

	now      func() time.Time
	newToken func() domain.AccessToken
}

// Option configures the Store.
type Option func(*Store)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithTokenGenerator replaces the access token generator.
func WithTokenGenerator(gen func() domain.AccessToken) Option {
	return func(s *Store) {
		s.newToken = gen
	}
}

// WithShardCount sets the number of map shards (power of 2).
func WithShardCount(n int) Option {
	return func(s *Store) {
		s.sessions = cmap.NewWithShards[domain.AccessToken, *domain.Session](n)
	}
}

// New creates an empty session store.
func New(opts ...Option) *Store {
	s := &Store{
		sessions: cmap.New[domain.AccessToken, *domain.Session](),
		now:      time.Now,
		newToken: domain.NewAccessToken,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create mints a token and stores a session for userID expiring ttl from now.
//
// The insert only happens if the token is absent. A collision returns
// ErrTokenCollision and leaves the existing session untouched.
func (s *Store) Create(userID domain.UserID, role domain.Role, ttl time.Duration) (*domain.Session, error) {
	session, err := domain.NewSession(s.newToken(), userID, role, ttl, s.now())
	if err != nil {
		return nil, err
	}

	if !s.sessions.SetIfAbsent(session.AccessToken, session) {
		return nil, domain.ErrTokenCollision.WithDetails("session id " + session.ID)
	}

	return session.Clone(), nil
}

// Lookup returns a copy of the live session bound to tok.
//
// An expired session is removed in the same critical section and reported
// as ErrSessionExpired; later lookups see ErrSessionNotFound.
func (s *Store) Lookup(tok domain.AccessToken) (*domain.Session, error) {
	now := s.now()
	session, exists, evicted := s.sessions.RemoveIf(tok, func(v *domain.Session) bool {
		return v.ExpiredAt(now)
	})

	switch {
	case !exists:
		return nil, domain.ErrSessionNotFound
	case evicted:
		return nil, domain.ErrSessionExpired
	}
	return session.Clone(), nil
}

// Remove deletes the session bound to tok. It reports whether one existed.
func (s *Store) Remove(tok domain.AccessToken) bool {
	_, ok := s.sessions.Pop(tok)
	return ok
}

// RemoveOwned deletes the session bound to tok only if it belongs to userID.
//
// An expired session is evicted and reported as ErrSessionExpired regardless
// of owner. A live session owned by someone else is kept and
// ErrSessionOwnerMismatch is returned.
func (s *Store) RemoveOwned(tok domain.AccessToken, userID domain.UserID) error {
	now := s.now()
	var expired bool
	session, exists, removed := s.sessions.RemoveIf(tok, func(v *domain.Session) bool {
		expired = v.ExpiredAt(now)
		return expired || v.UserID == userID
	})

	switch {
	case !exists:
		return domain.ErrSessionNotFound
	case expired:
		return domain.ErrSessionExpired
	case !removed:
		return domain.ErrSessionOwnerMismatch.WithDetails("session id " + session.ID)
	}
	return nil
}

// Count returns the number of stored sessions, including expired ones not
// yet evicted.
func (s *Store) Count() int {
	return s.sessions.Count()
}

// CountLive returns the number of sessions that have not expired.
func (s *Store) CountLive() int {
	now := s.now()
	return s.sessions.CountWhere(func(_ domain.AccessToken, v *domain.Session) bool {
		return !v.ExpiredAt(now)
	})
}

// CleanupExpired evicts every expired session and returns how many were removed.
func (s *Store) CleanupExpired() int {
	now := s.now()
	return s.sessions.DeleteWhere(func(_ domain.AccessToken, v *domain.Session) bool {
		return v.ExpiredAt(now)
	})
}
