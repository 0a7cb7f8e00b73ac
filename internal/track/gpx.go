package track

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/tkrajina/gpxgo/gpx"
)

// LoadGPX reads every track point of a GPX file, in file order, into a Series.
//
// A missing file, a file that does not parse as GPX and a file without track
// points all produce an empty Series: callers then see every match fail with
// ErrEmptySeries. The only error returned is ErrUnsorted.
func LoadGPX(path string, logger zerolog.Logger) (*Series, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Warn().Str("path", path).Msg("track log not found")
		return Empty(), nil
	}

	doc, err := gpx.ParseFile(path)
	if err != nil {
		logger.Warn().Str("path", path).Err(err).Msg("track log is not valid GPX")
		return Empty(), nil
	}

	rows := collectRows(doc, logger)
	if len(rows) == 0 {
		logger.Warn().Str("path", path).Int("tracks", len(doc.Tracks)).Msg("track log has no track points")
		return Empty(), nil
	}

	s, err := NewSeries(rows)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	start, end := s.Bounds()
	logger.Info().
		Str("path", path).
		Int("points", s.Len()).
		Time("start", epochTime(start)).
		Time("end", epochTime(end)).
		Msg("track log loaded")
	return s, nil
}

func collectRows(doc *gpx.GPX, logger zerolog.Logger) []Row {
	var rows []Row
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for _, pt := range seg.Points {
				if pt.Timestamp.IsZero() {
					logger.Debug().Float64("lat", pt.Latitude).Float64("lon", pt.Longitude).Msg("skipping track point without time")
					continue
				}
				var ele float64
				if pt.Elevation.NotNull() {
					ele = pt.Elevation.Value()
				}
				rows = append(rows, Row{
					Time: EpochSeconds(pt.Timestamp),
					Sample: Sample{
						Elevation: ele,
						Longitude: pt.Longitude,
						Latitude:  pt.Latitude,
					},
				})
			}
		}
	}
	return rows
}

// EpochSeconds converts t to fractional Unix seconds.
func EpochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func epochTime(sec float64) time.Time {
	return time.Unix(0, int64(sec*float64(time.Second))).UTC()
}
