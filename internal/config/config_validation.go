package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bethropolis/richexif/internal/display"
	"github.com/bethropolis/richexif/internal/logger"
)

// validate checks option values and fills the derived Mode. The input file
// is checked separately by ResolveFile.
func (c *Config) validate() error {
	var errs []error

	mode, err := display.ParseMode(c.Display)
	if err != nil {
		errs = append(errs, err)
	}
	c.Mode = mode

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}
	if c.MaxWidth < 0 {
		errs = append(errs, fmt.Errorf("%w: max width must not be negative, got %d", ErrInvalidConfig, c.MaxWidth))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("%w: timeout must not be negative, got %s", ErrInvalidConfig, c.Timeout))
	}
	if c.Exiftool.Path == "" {
		errs = append(errs, fmt.Errorf("%w: exiftool path is empty", ErrInvalidConfig))
	}
	if !slices.Contains(c.Exiftool.Args, "-j") {
		errs = append(errs, fmt.Errorf("%w: exiftool args must include -j, got %v", ErrInvalidConfig, c.Exiftool.Args))
	}

	return errors.Join(errs...)
}

// ResolveFile checks that path names an existing, readable regular file and
// returns its absolute form.
func ResolveFile(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty path", ErrFileNotFound)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path '%s': %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: '%s'", ErrFileNotFound, abs)
		}
		return "", fmt.Errorf("%w: '%s': %w", ErrFileUnreadable, abs, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: '%s'", ErrNotRegularFile, abs)
	}

	f, err := os.Open(abs)
	if err != nil {
		return "", fmt.Errorf("%w: '%s': %w", ErrFileUnreadable, abs, err)
	}
	f.Close()

	return abs, nil
}
