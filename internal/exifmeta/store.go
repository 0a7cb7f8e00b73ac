// Package exifmeta reads capture times from and writes GPS blocks into image
// metadata.
package exifmeta

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/electronjoe/geotag/internal/geo"
	"github.com/electronjoe/geotag/internal/photo"
)

// DateTimeLayout is the EXIF layout of DateTimeOriginal.
const DateTimeLayout = "2006:01:02 15:04:05"

// ErrNoCaptureTime is returned when an image carries no DateTimeOriginal.
var ErrNoCaptureTime = errors.New("no DateTimeOriginal in metadata")

// Store is the metadata collaborator for one image format.
type Store interface {
	// CaptureTime returns DateTimeOriginal read as UTC.
	CaptureTime(ctx context.Context, path string) (time.Time, error)
	// WriteGPS replaces the GPS block of the image with rec and leaves the
	// rest of the metadata alone. The file is either fully updated or left
	// untouched.
	WriteGPS(ctx context.Context, path string, rec geo.GPSRecord) error
}

// ReadError reports a failure to read an image's metadata.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read metadata of %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports a failure to write an image's metadata.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write metadata of %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ForFormat picks the Store for format. JPEG metadata is edited in-process;
// WEBP and TIFF go through the exiftool binary.
func ForFormat(format photo.Format, exiftool string) (Store, error) {
	switch format {
	case photo.JPEG:
		return JPEGStore{}, nil
	case photo.WEBP, photo.TIFF:
		return &ExiftoolStore{Bin: exiftool, Format: format}, nil
	}
	return nil, fmt.Errorf("%w: %v", photo.ErrUnsupportedFormat, format)
}

// ParseCaptureTime parses an EXIF date-time string as UTC.
func ParseCaptureTime(s string) (time.Time, error) {
	s = strings.TrimSpace(strings.TrimRight(s, "\x00"))
	if s == "" {
		return time.Time{}, ErrNoCaptureTime
	}
	t, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse DateTimeOriginal %q: %w", s, err)
	}
	return t, nil
}

// goexifCaptureTime reads DateTimeOriginal from a JPEG or TIFF file.
func goexifCaptureTime(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, &ReadError{Path: path, Err: fmt.Errorf("decode exif: %w", err)}
	}
	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		return time.Time{}, &ReadError{Path: path, Err: ErrNoCaptureTime}
	}
	s, err := tag.StringVal()
	if err != nil {
		return time.Time{}, &ReadError{Path: path, Err: fmt.Errorf("DateTimeOriginal: %w", err)}
	}
	t, err := ParseCaptureTime(s)
	if err != nil {
		return time.Time{}, &ReadError{Path: path, Err: err}
	}
	return t, nil
}
