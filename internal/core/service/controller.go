package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yndnr/reviewgate/internal/core/domain"
	"github.com/yndnr/reviewgate/internal/telemetry/logger"
)

// SessionController coordinates login, session verification and the
// token-gated reads.
type SessionController struct {
	store       SessionStore
	cache       InfoCache
	accounts    AccountService
	profiles    ProfileService
	submissions SubmissionRepository

	ttl      time.Duration
	logger   logger.Logger
	observer Observer
}

// Option configures a SessionController.
type Option func(*SessionController)

// WithSessionTTL sets the lifetime of sessions created at login.
// Non-positive values keep the default.
func WithSessionTTL(ttl time.Duration) Option {
	return func(c *SessionController) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLogger sets the controller logger.
func WithLogger(l logger.Logger) Option {
	return func(c *SessionController) {
		c.logger = l
	}
}

// WithObserver sets the metrics observer.
func WithObserver(o Observer) Option {
	return func(c *SessionController) {
		c.observer = o
	}
}

// NewSessionController creates a controller over the given store, cache
// and collaborators.
func NewSessionController(
	store SessionStore,
	cache InfoCache,
	accounts AccountService,
	profiles ProfileService,
	submissions SubmissionRepository,
	opts ...Option,
) *SessionController {
	c := &SessionController{
		store:       store,
		cache:       cache,
		accounts:    accounts,
		profiles:    profiles,
		submissions: submissions,
		ttl:         domain.DefaultSessionTTL,
		logger:      logger.NewNop(),
		observer:    nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoginResult is returned by a successful Login.
type LoginResult struct {
	UserID      domain.UserID
	AccessToken domain.AccessToken
	Role        domain.Role
	SessionID   string
	ExpiresAt   time.Time
}

// Login verifies credentials and opens a new session.
//
// Errors: ErrInvalidCredentials, ErrExternalService, ErrInternal.
func (c *SessionController) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	res, err := c.login(ctx, username, password)
	c.observer.LoginAttempted(err)
	return res, err
}

func (c *SessionController) login(ctx context.Context, username, password string) (*LoginResult, error) {
	log := c.logger.WithContext(ctx)

	// 1. Verify credentials with the account service
	if username == "" {
		return nil, domain.ErrInvalidCredentials.WithDetails("username is required")
	}
	userID, role, err := c.accounts.VerifyCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrCredentialsRejected) {
			log.Info("login rejected", "username", username)
			return nil, domain.ErrInvalidCredentials.WithCause(err)
		}
		log.Warn("account service failed", "username", username, "error", err)
		return nil, domain.ErrExternalService.WithCause(err)
	}

	// 2. Mint the token and store the session
	session, err := c.store.Create(userID, role, c.ttl)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenCollision):
			log.Error("access token collision", "user_id", userID, "error", err)
			return nil, domain.ErrInternal.WithDetails("token collision").WithCause(err)
		case errors.Is(err, domain.ErrBadRequest):
			log.Warn("account service returned an unusable account", "username", username, "error", err)
			return nil, domain.ErrExternalService.WithCause(err)
		default:
			return nil, domain.ErrInternal.WithCause(err)
		}
	}

	log.Info("login succeeded",
		"user_id", userID,
		"session_id", session.ID,
		"role", role,
		"expires_at", session.ExpiresAt,
	)

	return &LoginResult{
		UserID:      session.UserID,
		AccessToken: session.AccessToken,
		Role:        session.Role,
		SessionID:   session.ID,
		ExpiresAt:   session.ExpiresAt,
	}, nil
}

// Invalidate ends the session bound to tok if it belongs to userID.
//
// Errors: ErrInvalidAccessToken (unknown or expired token), ErrInvalidUserID
// (token bound to another user; the session is kept).
func (c *SessionController) Invalidate(ctx context.Context, userID domain.UserID, tok domain.AccessToken) error {
	log := c.logger.WithContext(ctx)

	if !domain.ValidAccessTokenFormat(tok.String()) {
		return domain.ErrInvalidAccessToken.WithDetails("malformed access token")
	}

	err := c.store.RemoveOwned(tok, userID)
	switch {
	case err == nil:
		c.observer.SessionsEvicted(EvictReasonLogout, 1)
		log.Info("session invalidated", "user_id", userID, "token", tok)
		return nil
	case errors.Is(err, domain.ErrSessionNotFound):
		return domain.ErrInvalidAccessToken
	case errors.Is(err, domain.ErrSessionExpired):
		c.observer.SessionsEvicted(EvictReasonExpired, 1)
		return domain.ErrInvalidAccessToken.WithDetails("session expired")
	case errors.Is(err, domain.ErrSessionOwnerMismatch):
		log.Warn("invalidate with foreign token", "user_id", userID, "token", tok)
		return domain.ErrInvalidUserID.WithCause(err)
	default:
		return domain.ErrInternal.WithCause(err)
	}
}

// VerifySession returns the user bound to tok if the session is live and
// holds every permission in required. An empty requirement always passes.
//
// Errors: ErrInvalidAccessToken, ErrTokenTimedOut, ErrInvalidPermissions.
func (c *SessionController) VerifySession(ctx context.Context, tok domain.AccessToken, required []domain.Permission) (domain.UserID, error) {
	session, err := c.authenticate(ctx, tok, required)
	if err != nil {
		return "", err
	}
	return session.UserID, nil
}

// GetUserInfo returns the profile of userID to any holder of a live token.
// Profiles are served from the cache, and fetched and cached on a miss.
//
// Errors: ErrTokenInvalid (any verification failure), ErrProfileService.
func (c *SessionController) GetUserInfo(ctx context.Context, userID domain.UserID, tok domain.AccessToken) (domain.UserInfo, error) {
	// 1. Verify the caller's session
	if _, err := c.authenticate(ctx, tok, nil); err != nil {
		return domain.UserInfo{}, domain.ErrTokenInvalid
	}

	// 2. Serve from cache
	if info, ok := c.cache.Get(userID); ok {
		c.observer.InfoCacheLookup(true)
		return info, nil
	}
	c.observer.InfoCacheLookup(false)

	// 3. Fetch and populate on miss
	info, err := c.profiles.FetchProfile(ctx, userID)
	if err != nil {
		c.logger.WithContext(ctx).Warn("profile service failed", "user_id", userID, "error", err)
		return domain.UserInfo{}, domain.ErrProfileService.WithCause(err)
	}
	c.cache.Put(userID, info)

	return info, nil
}

// GetSubmissionsByUser lists the distinct submissions the token's owner
// holds permissions on.
//
// Errors: ErrInvalidAccessToken, ErrTokenTimedOut, ErrInvalidPermissions,
// ErrDatabase.
func (c *SessionController) GetSubmissionsByUser(ctx context.Context, tok domain.AccessToken) ([]domain.SubID, error) {
	// 1. Verify the caller's session
	session, err := c.authenticate(ctx, tok, nil)
	if err != nil {
		return nil, err
	}

	// 2. Query the database
	ids, err := c.submissions.QuerySubmissionIDs(ctx, session.UserID)
	if err != nil {
		c.logger.WithContext(ctx).Error("submission query failed", "user_id", session.UserID, "error", err)
		return nil, domain.ErrDatabase.WithCause(err)
	}

	return domain.DistinctSubIDs(ids), nil
}

// ActiveSessions returns the number of unexpired sessions.
func (c *SessionController) ActiveSessions() int {
	return c.store.CountLive()
}

// authenticate resolves tok to its live session and checks required.
func (c *SessionController) authenticate(ctx context.Context, tok domain.AccessToken, required []domain.Permission) (*domain.Session, error) {
	session, err := c.lookup(tok, required)
	c.observer.SessionVerified(err)
	if err != nil {
		c.logger.WithContext(ctx).Debug("session verification failed", "token", tok, "error", err)
	}
	return session, err
}

func (c *SessionController) lookup(tok domain.AccessToken, required []domain.Permission) (*domain.Session, error) {
	if !domain.ValidAccessTokenFormat(tok.String()) {
		return nil, domain.ErrInvalidAccessToken.WithDetails("malformed access token")
	}

	session, err := c.store.Lookup(tok)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrSessionNotFound):
		return nil, domain.ErrInvalidAccessToken
	case errors.Is(err, domain.ErrSessionExpired):
		c.observer.SessionsEvicted(EvictReasonExpired, 1)
		return nil, domain.ErrTokenTimedOut
	default:
		return nil, domain.ErrInternal.WithCause(err)
	}

	if missing := session.Permissions.Missing(required); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, p := range missing {
			names[i] = string(p)
		}
		return nil, domain.ErrInvalidPermissions.WithDetails("missing " + strings.Join(names, ", "))
	}

	return session, nil
}
