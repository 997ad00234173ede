package game

import "time"

type expirer interface {
	Expired(now time.Time) bool
}

// expiringMap is keyed by channel. An item past its deadline is evicted
// the first time anything reads it; there is no background timer apart
// from the optional sweep.
type expiringMap[T expirer] struct {
	items map[int64]T
}

func newExpiringMap[T expirer]() expiringMap[T] {
	return expiringMap[T]{items: make(map[int64]T)}
}

func (m *expiringMap[T]) get(key int64, now time.Time) (T, bool) {
	v, ok := m.items[key]
	if !ok {
		var zero T
		return zero, false
	}
	if v.Expired(now) {
		delete(m.items, key)
		var zero T
		return zero, false
	}
	return v, true
}

func (m *expiringMap[T]) put(key int64, v T) {
	m.items[key] = v
}

func (m *expiringMap[T]) remove(key int64) (T, bool) {
	v, ok := m.items[key]
	delete(m.items, key)
	return v, ok
}

// sweep evicts every expired item and returns how many were dropped.
func (m *expiringMap[T]) sweep(now time.Time) int {
	n := 0
	for k, v := range m.items {
		if v.Expired(now) {
			delete(m.items, k)
			n++
		}
	}
	return n
}

func (m *expiringMap[T]) len() int { return len(m.items) }
