// Package geotag matches photos against a GPS track and writes the matched
// position into each photo.
package geotag

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/electronjoe/geotag/internal/exifmeta"
	"github.com/electronjoe/geotag/internal/geo"
	"github.com/electronjoe/geotag/internal/photo"
	"github.com/electronjoe/geotag/internal/track"
)

// ErrNoTrackData is returned by Run when the track has no points, in which
// case no image is touched.
var ErrNoTrackData = errors.New("no GPS data available in track log")

// Tagger geotags images against one track. Images are independent of each
// other; a failure on one is recorded in its Result and the batch goes on.
type Tagger struct {
	Series  *track.Series
	Matcher *track.Matcher
	Store   exifmeta.Store
	Format  photo.Format
	Offset  time.Duration // added to every capture time
	Workers int
	// Sniff checks each file's content against Format before reading it.
	Sniff    bool
	Progress io.Writer // progress bar destination, nil for none
	Logger   zerolog.Logger
}

// Result is the outcome for one image.
type Result struct {
	Path     string
	TakenAt  time.Time // DateTimeOriginal as UTC
	Adjusted time.Time // TakenAt plus the offset
	Index    int       // matched track point
	Sample   track.Sample
	Record   geo.GPSRecord
	Err      error
}

// Report summarizes a run. Results are in input order.
type Report struct {
	Results []Result
	Tagged  int
	Failed  int
}

// Run geotags paths. The only errors returned are ErrNoTrackData and a
// cancelled context; per-image failures are in the Report.
func (t *Tagger) Run(ctx context.Context, paths []string) (Report, error) {
	results := make([]Result, len(paths))

	if t.Series.Len() == 0 {
		t.Logger.Error().Int("images", len(paths)).Msg("no GPS data in track log, skipping every image")
		for i, p := range paths {
			results[i] = Result{Path: p, Err: ErrNoTrackData}
		}
		return summarize(results), ErrNoTrackData
	}

	bar := t.progressBar(len(paths))

	var g errgroup.Group
	g.SetLimit(max(t.Workers, 1))
	for i, p := range paths {
		if ctx.Err() != nil {
			results[i] = Result{Path: p, Err: ctx.Err()}
			continue
		}
		g.Go(func() error {
			results[i] = t.tagOne(ctx, p)
			if bar != nil {
				bar.Add(1)
			}
			return nil
		})
	}
	g.Wait()
	if bar != nil {
		bar.Finish()
	}

	report := summarize(results)
	t.Logger.Info().
		Int("total", len(paths)).
		Int("tagged", report.Tagged).
		Int("failed", report.Failed).
		Msg("geotagging finished")
	return report, ctx.Err()
}

func (t *Tagger) progressBar(n int) *progressbar.ProgressBar {
	if t.Progress == nil || n == 0 {
		return nil
	}
	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(t.Progress),
		progressbar.OptionSetDescription("geotagging"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func summarize(results []Result) Report {
	r := Report{Results: results}
	for _, res := range results {
		if res.Err == nil {
			r.Tagged++
		} else {
			r.Failed++
		}
	}
	return r
}

// tagOne runs the read-match-encode-write pipeline for one image. It never
// panics; a panic inside a metadata library becomes the image's error.
func (t *Tagger) tagOne(ctx context.Context, path string) (res Result) {
	res.Path = path
	logger := t.Logger.With().Str("path", path).Logger()

	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("panic while tagging %s: %v", path, r)
		}
		if res.Err != nil {
			logger.Warn().Err(res.Err).Msg("skipping image")
		}
	}()

	if t.Sniff {
		if err := photo.Sniff(path, t.Format); err != nil {
			res.Err = &exifmeta.ReadError{Path: path, Err: err}
			return res
		}
	}

	takenAt, err := t.Store.CaptureTime(ctx, path)
	if err != nil {
		res.Err = err
		return res
	}
	res.TakenAt = takenAt
	res.Adjusted = takenAt.Add(t.Offset)

	idx, err := t.Matcher.Match(t.Series, track.EpochSeconds(res.Adjusted))
	if err != nil {
		res.Err = err
		return res
	}
	res.Index = idx
	res.Sample = t.Series.Sample(idx)
	res.Record = geo.Encode(res.Sample.Elevation, res.Sample.Longitude, res.Sample.Latitude)

	if err := t.Store.WriteGPS(ctx, path, res.Record); err != nil {
		res.Err = err
		return res
	}

	logger.Info().
		Time("taken_at", res.TakenAt).
		Time("adjusted", res.Adjusted).
		Int("index", idx).
		Float64("lat", res.Sample.Latitude).
		Float64("lon", res.Sample.Longitude).
		Float64("ele", res.Sample.Elevation).
		Msg("geotagged")
	return res
}
