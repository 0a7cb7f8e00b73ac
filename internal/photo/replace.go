package photo

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Replace rewrites path atomically: write receives a temporary file in the
// same directory, which is renamed over path only if write and the flush to
// disk both succeed. The original permissions are kept.
func Replace(path string, write func(w io.Writer) error) (err error) {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return Install(tmpPath, path, info.Mode().Perm())
}

// Install moves the finished temporary file tmp over path with permissions
// perm. tmp is removed if either step fails, leaving path untouched.
func Install(tmp, path string, perm os.FileMode) error {
	if err := os.Chmod(tmp, perm); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// TempSibling returns an unused file name next to path with the same
// extension, for tools that insist on creating their output file themselves.
func TempSibling(path string) (string, error) {
	ext := filepath.Ext(path)
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	name := tmp.Name()
	tmp.Close()
	if err := os.Remove(name); err != nil {
		return "", fmt.Errorf("reserve temp name: %w", err)
	}
	return name, nil
}
