package memory

// Stats reports the size of a store and its info cache.
type Stats struct {
	Store *Store
	Cache *InfoCache
}

// ActiveSessions returns the number of unexpired sessions in the store.
func (s Stats) ActiveSessions() int {
	if s.Store == nil {
		return 0
	}
	return s.Store.CountLive()
}

// CachedProfiles returns the number of cached profiles.
func (s Stats) CachedProfiles() int {
	if s.Cache == nil {
		return 0
	}
	return s.Cache.Len()
}
