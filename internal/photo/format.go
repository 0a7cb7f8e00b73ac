package photo

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for an image format other than JPEG, WEBP or TIFF.
var ErrUnsupportedFormat = errors.New("unsupported image format, expected one of JPG|JPEG|WEBP|TIF|TIFF")

// Format is an image container whose metadata can be geotagged.
type Format int

const (
	JPEG Format = iota + 1
	WEBP
	TIFF
)

// ParseFormat accepts the usual names and extensions, case-insensitively,
// with or without a leading dot.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "jpg", "jpeg":
		return JPEG, nil
	case "webp":
		return WEBP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

func (f Format) String() string {
	switch f {
	case JPEG:
		return "jpeg"
	case WEBP:
		return "webp"
	case TIFF:
		return "tiff"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Extensions lists the lower-case file extensions of the format.
func (f Format) Extensions() []string {
	switch f {
	case JPEG:
		return []string{".jpg", ".jpeg"}
	case WEBP:
		return []string{".webp"}
	case TIFF:
		return []string{".tif", ".tiff"}
	}
	return nil
}

// Matches reports whether path has one of the format's extensions.
func (f Format) Matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range f.Extensions() {
		if ext == e {
			return true
		}
	}
	return false
}
