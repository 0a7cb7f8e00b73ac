package exifmeta

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/electronjoe/geotag/internal/geo"
	"github.com/electronjoe/geotag/internal/photo"
)

// DefaultExiftool is the exiftool binary looked up on PATH.
const DefaultExiftool = "exiftool"

// ExiftoolStore reads and writes metadata by running exiftool.
type ExiftoolStore struct {
	Bin    string
	Format photo.Format
}

func (s *ExiftoolStore) bin() string {
	if s.Bin == "" {
		return DefaultExiftool
	}
	return s.Bin
}

// CaptureTime implements Store. TIFF files are parsed directly; WEBP goes
// through exiftool.
func (s *ExiftoolStore) CaptureTime(ctx context.Context, path string) (time.Time, error) {
	if s.Format == photo.TIFF {
		return goexifCaptureTime(path)
	}

	cmd := exec.CommandContext(ctx, s.bin(), "-s3", "-DateTimeOriginal", path)
	output, err := cmd.Output()
	if err != nil {
		return time.Time{}, &ReadError{Path: path, Err: fmt.Errorf("exiftool failed: %w", err)}
	}
	t, err := ParseCaptureTime(string(output))
	if err != nil {
		return time.Time{}, &ReadError{Path: path, Err: err}
	}
	return t, nil
}

// WriteGPS implements Store. exiftool writes the updated image to a sibling
// temporary file, which is then renamed over the original.
func (s *ExiftoolStore) WriteGPS(ctx context.Context, path string, rec geo.GPSRecord) error {
	info, err := os.Stat(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	tmp, err := photo.TempSibling(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	args := append(GPSArgs(rec), "-o", tmp, path)
	cmd := exec.CommandContext(ctx, s.bin(), args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		os.Remove(tmp)
		return &WriteError{Path: path, Err: fmt.Errorf("exiftool failed: %w: %s", err, strings.TrimSpace(string(output)))}
	}

	if err := photo.Install(tmp, path, info.Mode().Perm()); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// GPSArgs renders rec as exiftool tag assignments. The whole GPS group is
// cleared first. Seconds are printed with exactly four decimals, the decimal
// form of SecondsScaled/10000. exiftool picks its own rational for the
// written tag, so the stored denominator may differ from geo.Precision even
// though the value is the same to within its rounding.
func GPSArgs(rec geo.GPSRecord) []string {
	return []string{
		"-GPS:all=",
		fmt.Sprintf("-GPSVersionID=%d.%d.%d.%d", rec.VersionID[0], rec.VersionID[1], rec.VersionID[2], rec.VersionID[3]),
		"-GPSLatitude=" + dmsArg(rec.Latitude),
		"-GPSLatitudeRef=" + string(rec.LatitudeRef),
		"-GPSLongitude=" + dmsArg(rec.Longitude),
		"-GPSLongitudeRef=" + string(rec.LongitudeRef),
		"-GPSAltitude=" + strconv.FormatFloat(rec.Altitude.Float(), 'f', -1, 64),
		fmt.Sprintf("-GPSAltitudeRef#=%d", rec.AltitudeRef),
	}
}

// dmsArg expects the seconds denominator to be geo.Precision.
func dmsArg(dms [3]geo.Rational) string {
	sec := dms[2].Num
	return fmt.Sprintf("%d %d %d.%04d", dms[0].Num, dms[1].Num, sec/geo.Precision, sec%geo.Precision)
}
