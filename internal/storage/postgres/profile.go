package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/yndnr/reviewgate/internal/core/domain"
)

// ErrProfileNotFound is returned when no profile row exists for a user.
var ErrProfileNotFound = errors.New("profile not found")

const queryProfile = `SELECT a.id, a.username, p.display_name, p.email, a.role, a.created_at
FROM profiles p JOIN accounts a ON a.id = p.user_id
WHERE p.user_id = $1`

// ProfileStore reads user profiles.
type ProfileStore struct {
	db *DB
}

// NewProfileStore creates a profile store.
func NewProfileStore(db *DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// FetchProfile implements service.ProfileService.
func (s *ProfileStore) FetchProfile(ctx context.Context, userID domain.UserID) (domain.UserInfo, error) {
	ctx, cancel := s.db.withTimeout(ctx)
	defer cancel()

	var (
		info domain.UserInfo
		id   string
		role string
	)
	err := s.db.db.QueryRowContext(ctx, queryProfile, userID.String()).
		Scan(&id, &info.Username, &info.DisplayName, &info.Email, &role, &info.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserInfo{}, fmt.Errorf("user %s: %w", userID, ErrProfileNotFound)
	}
	if err != nil {
		return domain.UserInfo{}, fmt.Errorf("query profile: %w", err)
	}

	info.UserID = domain.UserID(id)
	info.Role = domain.Role(strings.ToLower(role))
	return info, nil
}
