package postgres

import (
	"context"
	"fmt"

	"github.com/yndnr/reviewgate/internal/core/domain"
)

const querySubmissionIDs = `SELECT DISTINCT sub_id FROM permissions WHERE user_id = $1`

// SubmissionStore lists submissions through the permissions table.
type SubmissionStore struct {
	db *DB
}

// NewSubmissionStore creates a submission store.
func NewSubmissionStore(db *DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

// QuerySubmissionIDs implements service.SubmissionRepository.
func (s *SubmissionStore) QuerySubmissionIDs(ctx context.Context, userID domain.UserID) ([]domain.SubID, error) {
	ctx, cancel := s.db.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.db.QueryContext(ctx, querySubmissionIDs, userID.String())
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	ids := make([]domain.SubID, 0)
	for rows.Next() {
		var id domain.SubID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan submission id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return ids, nil
}
