package exifmeta

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/electronjoe/geotag/internal/photo"
)

// ErrNoGPS is returned when an image carries no GPS position.
var ErrNoGPS = errors.New("no GPS data found")

// Position is a GPS position read back from an image.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
}

// ReadPosition reads the GPS block of an image as decimal degrees.
func ReadPosition(ctx context.Context, path string, format photo.Format, exiftool string) (Position, error) {
	if format == photo.WEBP {
		return exiftoolPosition(ctx, path, exiftool)
	}

	f, err := os.Open(path)
	if err != nil {
		return Position{}, &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return Position{}, &ReadError{Path: path, Err: fmt.Errorf("decoding exif: %w", err)}
	}
	lat, lon, err := x.LatLong()
	if err != nil {
		return Position{}, &ReadError{Path: path, Err: fmt.Errorf("%w: %v", ErrNoGPS, err)}
	}

	pos := Position{Latitude: lat, Longitude: lon}
	if tag, err := x.Get(exif.GPSAltitude); err == nil {
		if r, err := tag.Rat(0); err == nil {
			pos.Altitude, _ = r.Float64()
		}
		if ref, err := x.Get(exif.GPSAltitudeRef); err == nil {
			if v, err := ref.Int(0); err == nil && v == 1 {
				pos.Altitude = -pos.Altitude
			}
		}
	}
	return pos, nil
}

func exiftoolPosition(ctx context.Context, path, bin string) (Position, error) {
	if bin == "" {
		bin = DefaultExiftool
	}
	cmd := exec.CommandContext(ctx, bin, positionArgs(path)...)
	output, err := cmd.Output()
	if err != nil {
		return Position{}, &ReadError{Path: path, Err: fmt.Errorf("exiftool failed: %w", err)}
	}
	pos, err := parseExiftoolPosition(string(output))
	if err != nil {
		return Position{}, &ReadError{Path: path, Err: err}
	}
	return pos, nil
}

// positionArgs asks exiftool for the composite GPS tags, which carry the
// hemisphere and altitude reference in their sign.
func positionArgs(path string) []string {
	return []string{"-n", "-T",
		"-Composite:GPSLatitude",
		"-Composite:GPSLongitude",
		"-Composite:GPSAltitude",
		path,
	}
}

// parseExiftoolPosition parses tab-separated `exiftool -n -T` output of
// signed latitude, longitude and altitude. exiftool prints "-" for missing
// tags.
func parseExiftoolPosition(out string) (Position, error) {
	parts := strings.Split(strings.TrimSpace(out), "\t")
	if len(parts) < 2 || parts[0] == "-" || parts[1] == "-" {
		return Position{}, ErrNoGPS
	}

	var pos Position
	var err error
	if pos.Latitude, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err != nil {
		return Position{}, fmt.Errorf("invalid latitude: %w", err)
	}
	if pos.Longitude, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err != nil {
		return Position{}, fmt.Errorf("invalid longitude: %w", err)
	}
	if len(parts) > 2 && parts[2] != "-" {
		if alt, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64); err == nil {
			pos.Altitude = alt
		}
	}
	return pos, nil
}
