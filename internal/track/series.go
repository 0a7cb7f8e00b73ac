package track

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrUnsorted is returned when track rows are not in chronological order.
var ErrUnsorted = errors.New("track rows are not in non-decreasing time order")

// Sample is the position recorded at one track point.
type Sample struct {
	Elevation float64 // meters
	Longitude float64 // decimal degrees
	Latitude  float64 // decimal degrees
}

// Row is one track point as handed over by a track-log parser.
type Row struct {
	Time float64 // Unix epoch seconds
	Sample
}

var nextSeriesID atomic.Uint64

// Series holds the timestamps of a track and the samples recorded at them.
// It is immutable once built.
type Series struct {
	id         uint64
	timestamps []float64
	samples    []Sample
}

// NewSeries builds a Series from rows already sorted by time. Equal
// timestamps are allowed; a timestamp smaller than its predecessor is not.
func NewSeries(rows []Row) (*Series, error) {
	s := &Series{
		id:         nextSeriesID.Add(1),
		timestamps: make([]float64, len(rows)),
		samples:    make([]Sample, len(rows)),
	}
	for i, r := range rows {
		if i > 0 && r.Time < rows[i-1].Time {
			return nil, fmt.Errorf("%w: row %d (%v) precedes row %d (%v)", ErrUnsorted, i, r.Time, i-1, rows[i-1].Time)
		}
		s.timestamps[i] = r.Time
		s.samples[i] = r.Sample
	}
	return s, nil
}

// Empty returns a Series with no track data.
func Empty() *Series {
	s, _ := NewSeries(nil)
	return s
}

// Len returns the number of track points.
func (s *Series) Len() int { return len(s.timestamps) }

// Timestamp returns the time of point i in epoch seconds.
func (s *Series) Timestamp(i int) float64 { return s.timestamps[i] }

// Sample returns the position recorded at point i.
func (s *Series) Sample(i int) Sample { return s.samples[i] }

// Timestamps returns a copy of all timestamps.
func (s *Series) Timestamps() []float64 {
	return append([]float64(nil), s.timestamps...)
}

// Samples returns a copy of all samples.
func (s *Series) Samples() []Sample {
	return append([]Sample(nil), s.samples...)
}

// Bounds returns the first and last timestamps. Both are zero for an empty series.
func (s *Series) Bounds() (float64, float64) {
	if len(s.timestamps) == 0 {
		return 0, 0
	}
	return s.timestamps[0], s.timestamps[len(s.timestamps)-1]
}
