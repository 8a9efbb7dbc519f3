// Package summary reports what a run displayed
package summary

import (
	"time"

	"github.com/bethropolis/richexif/internal/display"
)

// Logger defines the minimal logging interface required
type Logger interface {
	Info(format string, args ...interface{})
}

// Result describes one completed display.
type Result struct {
	Path     string
	Mode     display.Mode
	Fields   int
	Filter   string
	Duration time.Duration
}

// DisplayResults logs the outcome of a run unless quiet is set
func DisplayResults(logger Logger, res Result, quiet bool) {
	if quiet {
		return
	}

	if res.Filter != "" {
		logger.Info("Displayed %d fields matching %q from '%s' as %s.", res.Fields, res.Filter, res.Path, res.Mode)
	} else {
		logger.Info("Displayed %d fields from '%s' as %s.", res.Fields, res.Path, res.Mode)
	}
	if res.Fields == 0 && res.Filter != "" {
		logger.Info("No field names contain %q; the filter is case-sensitive.", res.Filter)
	}
	logger.Info("Done in %v.", res.Duration.Round(time.Millisecond))
}
