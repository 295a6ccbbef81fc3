package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/yndnr/reviewgate/internal/core/domain"
	"github.com/yndnr/reviewgate/internal/core/service"
)

const queryAccountByUsername = `SELECT id, password_hash, role FROM accounts WHERE username = $1`

var (
	_ service.AccountService       = (*AccountStore)(nil)
	_ service.ProfileService       = (*ProfileStore)(nil)
	_ service.SubmissionRepository = (*SubmissionStore)(nil)
)

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// AccountStore verifies credentials against bcrypt hashes in the accounts table.
type AccountStore struct {
	db *DB
}

// NewAccountStore creates an account store.
func NewAccountStore(db *DB) *AccountStore {
	return &AccountStore{db: db}
}

// VerifyCredentials implements service.AccountService.
func (s *AccountStore) VerifyCredentials(ctx context.Context, username, password string) (domain.UserID, domain.Role, error) {
	ctx, cancel := s.db.withTimeout(ctx)
	defer cancel()

	var id, hash, role string
	err := s.db.db.QueryRowContext(ctx, queryAccountByUsername, username).Scan(&id, &hash, &role)
	if errors.Is(err, sql.ErrNoRows) {
		// Burn a comparison so unknown usernames cost the same as wrong passwords.
		bcrypt.CompareHashAndPassword(unknownUserHash(), []byte(password))
		return "", "", fmt.Errorf("unknown user: %w", service.ErrCredentialsRejected)
	}
	if err != nil {
		return "", "", fmt.Errorf("query account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", "", fmt.Errorf("wrong password: %w", service.ErrCredentialsRejected)
		}
		return "", "", fmt.Errorf("compare password hash: %w", err)
	}

	return domain.UserID(id), domain.Role(strings.ToLower(role)), nil
}

func unknownUserHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("reviewgate-unknown-user"), bcrypt.DefaultCost)
	})
	return dummyHash
}
