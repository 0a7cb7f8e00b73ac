package track

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewSeries(t *testing.T) {
	s, err := NewSeries([]Row{
		{Time: 1, Sample: Sample{Elevation: 5, Longitude: 6, Latitude: 7}},
		{Time: 1},
		{Time: 2},
	})
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())
	require.Equal(t, []float64{1, 1, 2}, s.Timestamps())
	require.Equal(t, Sample{Elevation: 5, Longitude: 6, Latitude: 7}, s.Sample(0))

	start, end := s.Bounds()
	require.Equal(t, 1.0, start)
	require.Equal(t, 2.0, end)
}

func TestNewSeriesRejectsUnsorted(t *testing.T) {
	_, err := NewSeries([]Row{{Time: 1}, {Time: 3}, {Time: 2}})
	require.ErrorIs(t, err, ErrUnsorted)
}

func TestSeriesAccessorsCopy(t *testing.T) {
	s, err := NewSeries([]Row{{Time: 1}, {Time: 2}})
	require.NoError(t, err)

	ts := s.Timestamps()
	ts[0] = 99
	require.Equal(t, 1.0, s.Timestamp(0))

	samples := s.Samples()
	samples[0].Latitude = 99
	require.Equal(t, 0.0, s.Sample(0).Latitude)
}

func TestEmptySeries(t *testing.T) {
	s := Empty()
	require.Equal(t, 0, s.Len())
	start, end := s.Bounds()
	require.Zero(t, start)
	require.Zero(t, end)
}

const sampleGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <trkseg>
      <trkpt lat="46.5" lon="7.25"><ele>1500.5</ele><time>2024-05-01T10:00:00Z</time></trkpt>
      <trkpt lat="46.6" lon="7.35"><time>2024-05-01T10:01:00Z</time></trkpt>
    </trkseg>
    <trkseg>
      <trkpt lat="-33.9" lon="-70.1"><ele>-2</ele><time>2024-05-01T10:02:30Z</time></trkpt>
    </trkseg>
  </trk>
</gpx>`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadGPX(t *testing.T) {
	s, err := LoadGPX(writeFile(t, "track.gpx", sampleGPX), zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())

	require.Equal(t, 1714557600.0, s.Timestamp(0))
	require.Equal(t, 1714557660.0, s.Timestamp(1))
	require.Equal(t, 1714557750.0, s.Timestamp(2))

	require.Equal(t, Sample{Elevation: 1500.5, Longitude: 7.25, Latitude: 46.5}, s.Sample(0))
	require.Equal(t, Sample{Elevation: 0, Longitude: 7.35, Latitude: 46.6}, s.Sample(1))
	require.Equal(t, Sample{Elevation: -2, Longitude: -70.1, Latitude: -33.9}, s.Sample(2))
}

func TestLoadGPXMissingFile(t *testing.T) {
	s, err := LoadGPX(filepath.Join(t.TempDir(), "nope.gpx"), zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, 0, s.Len())
}

func TestLoadGPXWithoutTrackPoints(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <wpt lat="1" lon="2"><name>camp</name></wpt>
</gpx>`
	s, err := LoadGPX(writeFile(t, "waypoints.gpx", body), zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, 0, s.Len())
}

func TestLoadGPXNotXML(t *testing.T) {
	s, err := LoadGPX(writeFile(t, "junk.gpx", "not a gpx file"), zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, 0, s.Len())
}

func TestLoadGPXUnsorted(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk><trkseg>
    <trkpt lat="1" lon="1"><time>2024-05-01T10:05:00Z</time></trkpt>
    <trkpt lat="1" lon="1"><time>2024-05-01T10:00:00Z</time></trkpt>
  </trkseg></trk>
</gpx>`
	_, err := LoadGPX(writeFile(t, "backwards.gpx", body), zerolog.Nop())
	require.ErrorIs(t, err, ErrUnsorted)
}
