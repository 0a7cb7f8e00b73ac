package track

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"
)

// ErrEmptySeries is returned when matching against a series with no points.
var ErrEmptySeries = errors.New("track series has no points")

// Nearest returns the index of the timestamp closest to q. A query exactly
// halfway between two timestamps resolves to the later one. Queries before
// the first or after the last timestamp clamp to the ends. timestamps must be
// sorted and non-empty.
func Nearest(timestamps []float64, q float64) int {
	n := len(timestamps)
	i := sort.SearchFloat64s(timestamps, q)
	switch {
	case i == 0:
		return 0
	case i == n:
		return n - 1
	case timestamps[i] == q:
		return i
	}
	mid := (timestamps[i-1] + timestamps[i]) / 2
	if q >= mid {
		return i
	}
	return i - 1
}

type matchKey struct {
	series uint64
	ts     float64
}

// Matcher memoizes nearest-point lookups. One Matcher belongs to one run and
// is dropped with it. It is safe for concurrent use.
type Matcher struct {
	mu       sync.RWMutex
	cache    map[matchKey]int
	searches atomic.Int64
}

// NewMatcher returns a Matcher with an empty cache.
func NewMatcher() *Matcher {
	return &Matcher{cache: make(map[matchKey]int)}
}

// Match returns the index of the point in s nearest in time to ts.
// Series are immutable, so cached results never go stale.
func (m *Matcher) Match(s *Series, ts float64) (int, error) {
	if s.Len() == 0 {
		return 0, ErrEmptySeries
	}
	key := matchKey{series: s.id, ts: ts}

	m.mu.RLock()
	idx, ok := m.cache[key]
	m.mu.RUnlock()
	if ok {
		return idx, nil
	}

	idx = Nearest(s.timestamps, ts)
	m.searches.Add(1)

	m.mu.Lock()
	m.cache[key] = idx
	m.mu.Unlock()
	return idx, nil
}

// Searches reports how many lookups missed the cache.
func (m *Matcher) Searches() int64 {
	return m.searches.Load()
}
