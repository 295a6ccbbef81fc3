package cmap

// SetIfAbsent stores value only if key is absent and reports whether it did.
func (m *Map[K, V]) SetIfAbsent(key K, value V) bool {
	inserted := false
	m.update(key, func(items map[K]V) {
		if _, ok := items[key]; !ok {
			items[key] = value
			inserted = true
		}
	})
	return inserted
}

// Pop removes key and returns the value it held.
func (m *Map[K, V]) Pop(key K) (V, bool) {
	var (
		v  V
		ok bool
	)
	m.update(key, func(items map[K]V) {
		if v, ok = items[key]; ok {
			delete(items, key)
		}
	})
	return v, ok
}

// RemoveIf removes key when cond reports true for its value. It returns the
// value seen, whether key existed and whether it was removed. cond runs
// under the shard lock.
func (m *Map[K, V]) RemoveIf(key K, cond func(value V) bool) (val V, exists, removed bool) {
	m.update(key, func(items map[K]V) {
		if val, exists = items[key]; exists && cond(val) {
			delete(items, key)
			removed = true
		}
	})
	return val, exists, removed
}
