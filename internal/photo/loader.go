package photo

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Candidates returns the images to geotag under path, in lexical order.
//
// A directory is listed without recursion and only files carrying one of the
// format's extensions are kept. A regular file is returned as the sole
// candidate whatever its extension.
func Candidates(path string, format Format, logger zerolog.Logger) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat images path: %w", err)
	}
	if !info.IsDir() {
		logger.Warn().Str("path", path).Msg("expected a directory of images, processing the single file")
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read images directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !format.Matches(entry.Name()) {
			logger.Debug().Str("file", entry.Name()).Stringer("format", format).Msg("skipping file of another format")
			continue
		}
		paths = append(paths, filepath.Join(path, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Sniff checks that the file content decodes as the expected format without
// decoding the pixels.
func Sniff(path string, format Format) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	_, name, err := image.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("decode config failed for %s: %w", path, err)
	}
	if name != format.String() {
		return fmt.Errorf("%s holds %s data, expected %s", path, name, format)
	}
	return nil
}
