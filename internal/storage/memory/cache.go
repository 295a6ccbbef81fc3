package memory

import (
	"github.com/yndnr/reviewgate/internal/core/domain"
	"github.com/yndnr/reviewgate/pkg/cmap"
)

// InfoCache memoizes user profiles by user ID.
//
// Entries have no TTL and are never refreshed; a profile changed upstream
// stays stale until the process restarts. Values are stored by copy.
type InfoCache struct {
	entries *cmap.Map[domain.UserID, domain.UserInfo]
}

// NewInfoCache creates an empty cache.
func NewInfoCache() *InfoCache {
	return &InfoCache{
		entries: cmap.New[domain.UserID, domain.UserInfo](),
	}
}

// Get returns the cached profile for userID.
func (c *InfoCache) Get(userID domain.UserID) (domain.UserInfo, bool) {
	return c.entries.Get(userID)
}

// Put stores info for userID, replacing any previous entry.
func (c *InfoCache) Put(userID domain.UserID, info domain.UserInfo) {
	c.entries.Set(userID, info)
}

// Len returns the number of cached profiles.
func (c *InfoCache) Len() int {
	return c.entries.Count()
}
