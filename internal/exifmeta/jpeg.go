package exifmeta

import (
	"context"
	"fmt"
	"io"
	"time"

	exif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
	jis "github.com/dsoprea/go-jpeg-image-structure/v2"

	"github.com/electronjoe/geotag/internal/geo"
	"github.com/electronjoe/geotag/internal/photo"
)

const gpsIfdPath = "IFD/GPSInfo"

// JPEGStore edits JPEG EXIF segments in-process.
type JPEGStore struct{}

// CaptureTime implements Store.
func (JPEGStore) CaptureTime(_ context.Context, path string) (time.Time, error) {
	return goexifCaptureTime(path)
}

// WriteGPS implements Store. The existing GPS IFD is dropped and rebuilt from
// rec; the other IFDs are carried over unchanged. An image without an EXIF
// segment gets a new one.
func (JPEGStore) WriteGPS(ctx context.Context, path string, rec geo.GPSRecord) error {
	if err := ctx.Err(); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	parsed, err := jis.NewJpegMediaParser().ParseFile(path)
	if err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("parse jpeg: %w", err)}
	}
	sl, ok := parsed.(*jis.SegmentList)
	if !ok {
		return &WriteError{Path: path, Err: fmt.Errorf("unexpected jpeg media context %T", parsed)}
	}

	rootIb, err := sl.ConstructExifBuilder()
	if err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("load exif: %w", err)}
	}
	if _, err := rootIb.DeleteAll(exifcommon.IfdGpsInfoStandardIfdIdentity.TagId()); err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("drop gps ifd: %w", err)}
	}
	gpsIb, err := exif.GetOrCreateIbFromRootIb(rootIb, gpsIfdPath)
	if err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("create gps ifd: %w", err)}
	}
	if err := setGPSTags(gpsIb, rec); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := sl.SetExif(rootIb); err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("set exif: %w", err)}
	}

	err = photo.Replace(path, func(w io.Writer) error {
		return sl.Write(w)
	})
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

func setGPSTags(ib *exif.IfdBuilder, rec geo.GPSRecord) error {
	tags := []struct {
		name  string
		value interface{}
	}{
		{"GPSVersionID", rec.VersionID[:]},
		{"GPSLatitudeRef", string(rec.LatitudeRef)},
		{"GPSLatitude", rationals(rec.Latitude[:])},
		{"GPSLongitudeRef", string(rec.LongitudeRef)},
		{"GPSLongitude", rationals(rec.Longitude[:])},
		{"GPSAltitudeRef", []byte{rec.AltitudeRef}},
		{"GPSAltitude", rationals([]geo.Rational{rec.Altitude})},
	}
	for _, tag := range tags {
		if err := ib.SetStandardWithName(tag.name, tag.value); err != nil {
			return fmt.Errorf("set %s: %w", tag.name, err)
		}
	}
	return nil
}

func rationals(rs []geo.Rational) []exifcommon.Rational {
	out := make([]exifcommon.Rational, len(rs))
	for i, r := range rs {
		out[i] = exifcommon.Rational{Numerator: r.Num, Denominator: r.Den}
	}
	return out
}
