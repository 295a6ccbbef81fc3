package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxUserIDLength bounds user identifiers accepted by the core.
const MaxUserIDLength = 128

// UserID identifies a user account. The core only compares it for equality.
type UserID string

// String returns the raw identifier.
func (u UserID) String() string {
	return string(u)
}

// UserInfo is a profile snapshot owned by the profile service.
// It is held by value so a cached copy cannot be mutated through aliases.
type UserInfo struct {
	UserID      UserID    `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// SubID identifies a submission. Values are produced by the database.
type SubID = uuid.UUID

// ParseSubID parses the textual form of a submission identifier.
func ParseSubID(s string) (SubID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ErrBadRequest.WithDetails("invalid submission id").WithCause(err)
	}
	return id, nil
}

// DistinctSubIDs returns ids with duplicates removed, keeping first-seen order.
func DistinctSubIDs(ids []SubID) []SubID {
	seen := make(map[SubID]struct{}, len(ids))
	out := make([]SubID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
