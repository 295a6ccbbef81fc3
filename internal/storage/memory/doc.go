// Package memory provides the in-memory state of reviewgate.
//
// Store binds access tokens to sessions, InfoCache memoizes user profiles,
// and Sweeper optionally reclaims expired sessions in the background.
// Both maps are sharded (pkg/cmap) and safe for concurrent use.
//
// Expiry is enforced lazily: the first reader to observe an expired
// session evicts it. The sweeper only reclaims memory.
package memory
