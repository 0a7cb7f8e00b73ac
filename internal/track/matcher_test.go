package track

import (
	"math"
	"math/rand"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func scenarioSeries(t *testing.T) *Series {
	t.Helper()
	s, err := NewSeries([]Row{
		{Time: 100, Sample: Sample{Elevation: 10, Longitude: 1.0, Latitude: 2.0}},
		{Time: 200, Sample: Sample{Elevation: 20, Longitude: 1.1, Latitude: 2.1}},
		{Time: 300, Sample: Sample{Elevation: 30, Longitude: 1.2, Latitude: 2.2}},
	})
	require.NoError(t, err)
	return s
}

func TestMatchScenario(t *testing.T) {
	s := scenarioSeries(t)
	m := NewMatcher()

	tests := []struct {
		name string
		q    float64
		want int
	}{
		{"before midpoint", 140, 0},
		{"midpoint tie goes later", 150, 1},
		{"after midpoint", 260, 2},
		{"exact first", 100, 0},
		{"exact middle", 200, 1},
		{"exact last", 300, 2},
		{"second midpoint tie", 250, 2},
		{"just below second midpoint", 249.999, 1},
		{"before range clamps", 50, 0},
		{"after range clamps", 1000, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Match(s, tt.q)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestMatchEmptySeries(t *testing.T) {
	_, err := NewMatcher().Match(Empty(), 123)
	require.ErrorIs(t, err, ErrEmptySeries)
}

func TestMatchSinglePoint(t *testing.T) {
	s, err := NewSeries([]Row{{Time: 42}})
	require.NoError(t, err)
	m := NewMatcher()
	for _, q := range []float64{0, 42, 1e9} {
		got, err := m.Match(s, q)
		require.NoError(t, err)
		require.Equal(t, 0, got)
	}
}

func TestMatchDuplicateTimestamps(t *testing.T) {
	s, err := NewSeries([]Row{{Time: 10}, {Time: 20}, {Time: 20}, {Time: 30}})
	require.NoError(t, err)
	got, err := NewMatcher().Match(s, 20)
	require.NoError(t, err)
	require.Equal(t, 1, got)
}

func TestMatchMemoizes(t *testing.T) {
	s := scenarioSeries(t)
	m := NewMatcher()

	first, err := m.Match(s, 140)
	require.NoError(t, err)
	second, err := m.Match(s, 140)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.EqualValues(t, 1, m.Searches())

	_, err = m.Match(s, 141)
	require.NoError(t, err)
	require.EqualValues(t, 2, m.Searches())
}

func TestMatchCacheKeyedBySeries(t *testing.T) {
	a := scenarioSeries(t)
	b, err := NewSeries([]Row{{Time: 100}, {Time: 120}})
	require.NoError(t, err)
	m := NewMatcher()

	ia, err := m.Match(a, 115)
	require.NoError(t, err)
	ib, err := m.Match(b, 115)
	require.NoError(t, err)

	require.Equal(t, 0, ia)
	require.Equal(t, 1, ib)
	require.EqualValues(t, 2, m.Searches())
}

func TestMatchConcurrent(t *testing.T) {
	s := scenarioSeries(t)
	m := NewMatcher()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for q := 0; q < 400; q++ {
				got, err := m.Match(s, float64(q))
				if err != nil || got != Nearest(s.timestamps, float64(q)) {
					t.Errorf("q=%d: got %d, %v", q, got, err)
					return
				}
			}
		}()
	}
	wg.Wait()
	require.LessOrEqual(t, m.Searches(), int64(8*400))
}

// bruteNearest scans every index; on equal distance the later index wins.
func bruteNearest(ts []float64, q float64) int {
	best := 0
	for j := range ts {
		if math.Abs(ts[j]-q) <= math.Abs(ts[best]-q) {
			best = j
		}
	}
	return best
}

func TestNearestAgreesWithScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 500; iter++ {
		n := 1 + rng.Intn(40)
		ts := make([]float64, n)
		for i := range ts {
			ts[i] = float64(rng.Intn(1000))
		}
		sort.Float64s(ts)

		for k := 0; k < 20; k++ {
			q := ts[0] + float64(rng.Intn(int(ts[n-1]-ts[0])*2+1))/2
			got := Nearest(ts, q)
			want := bruteNearest(ts, q)
			// Duplicated timestamps are interchangeable.
			require.Equal(t, ts[want], ts[got], "ts=%v q=%v", ts, q)
			require.LessOrEqual(t, math.Abs(ts[got]-q), math.Abs(ts[want]-q))
		}
	}
}
