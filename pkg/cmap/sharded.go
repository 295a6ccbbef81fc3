package cmap

import (
	"crypto/rand"
	"encoding/binary"
	"sync"

	"github.com/spaolacci/murmur3"
)

// DefaultShardCount is used when no valid shard count is given.
const DefaultShardCount = 16

// Map is a concurrent map split into independently locked shards.
type Map[K ~string, V any] struct {
	shards []shard[K, V]
	mask   uint64
	seed   uint32
}

type shard[K ~string, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// New creates a map with DefaultShardCount shards.
func New[K ~string, V any]() *Map[K, V] {
	return NewWithShards[K, V](DefaultShardCount)
}

// NewWithShards creates a map with n shards. n must be a power of two;
// anything else selects DefaultShardCount.
func NewWithShards[K ~string, V any](n int) *Map[K, V] {
	if n <= 0 || n&(n-1) != 0 {
		n = DefaultShardCount
	}

	m := &Map[K, V]{
		shards: make([]shard[K, V], n),
		mask:   uint64(n - 1),
		seed:   randomSeed(),
	}
	for i := range m.shards {
		m.shards[i].items = make(map[K]V)
	}
	return m
}

// randomSeed returns a per-map hash seed.
func randomSeed() uint32 {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b[:])
}

func (m *Map[K, V]) shardFor(key K) *shard[K, V] {
	h, _ := murmur3.Sum128WithSeed([]byte(key), m.seed)
	return &m.shards[h&m.mask]
}

// update runs fn on the items of key's shard under its write lock.
func (m *Map[K, V]) update(key K, fn func(items map[K]V)) {
	s := m.shardFor(key)
	s.mu.Lock()
	fn(s.items)
	s.mu.Unlock()
}

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	s := m.shardFor(key)
	s.mu.RLock()
	v, ok := s.items[key]
	s.mu.RUnlock()
	return v, ok
}

// Set stores value under key, replacing any previous value.
func (m *Map[K, V]) Set(key K, value V) {
	m.update(key, func(items map[K]V) { items[key] = value })
}

// Count returns the number of entries. Shards are counted one at a time, so
// the result is approximate under concurrent writes.
func (m *Map[K, V]) Count() int {
	n := 0
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.RLock()
		n += len(s.items)
		s.mu.RUnlock()
	}
	return n
}

// CountWhere returns the number of entries for which fn reports true. Each
// shard is scanned under its read lock.
func (m *Map[K, V]) CountWhere(fn func(key K, value V) bool) int {
	n := 0
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.RLock()
		for k, v := range s.items {
			if fn(k, v) {
				n++
			}
		}
		s.mu.RUnlock()
	}
	return n
}

// ShardCount returns the number of shards.
func (m *Map[K, V]) ShardCount() int {
	return len(m.shards)
}

// DeleteWhere removes every entry for which fn reports true and returns the
// number removed. Each shard is swept under its write lock.
func (m *Map[K, V]) DeleteWhere(fn func(key K, value V) bool) int {
	removed := 0
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.Lock()
		for k, v := range s.items {
			if fn(k, v) {
				delete(s.items, k)
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed
}
