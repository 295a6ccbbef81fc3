// Package cmap provides a sharded concurrent map keyed by strings.
//
// Keys are spread over a power-of-two number of shards by a seeded murmur3
// hash, each shard guarded by its own RWMutex. Every single-key operation,
// including the check-then-act ones in atomic.go, runs under one shard
// lock and is therefore linearizable per key.
//
//	m := cmap.New[domain.AccessToken, *domain.Session]()
//	if !m.SetIfAbsent(tok, session) {
//		// collision
//	}
//
// Predicates passed to RemoveIf and DeleteWhere run with the shard lock
// held and must not call back into the map.
package cmap
