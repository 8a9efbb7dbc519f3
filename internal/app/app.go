// Package app runs the fetch, build and print pipeline for one file.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bethropolis/richexif/internal/config"
	"github.com/bethropolis/richexif/internal/exiftool"
	"github.com/bethropolis/richexif/internal/logger"
	"github.com/bethropolis/richexif/internal/metadata"
	"github.com/bethropolis/richexif/internal/printer"
	"github.com/bethropolis/richexif/internal/summary"
	"github.com/fatih/color"
)

// App encapsulates the main application functionality
type App struct {
	cfg     *config.Config
	log     *logger.Logger
	errOut  io.Writer
	starter metadata.Starter

	// Output receives the rendered table or tree. When nil, Run writes to
	// cfg.OutputFile or stdout.
	Output io.Writer
}

// Option is a functional option for configuring the App
type Option func(*App)

// WithStarter replaces the exiftool-backed session starter
func WithStarter(s metadata.Starter) Option {
	return func(a *App) {
		if s != nil {
			a.starter = s
		}
	}
}

// WithOutput sets the destination for rendered output
func WithOutput(w io.Writer) Option {
	return func(a *App) {
		a.Output = w
	}
}

// WithErrOutput sets where log messages go. Defaults to stderr.
func WithErrOutput(w io.Writer) Option {
	return func(a *App) {
		if w != nil {
			a.errOut = w
		}
	}
}

// WithLogger replaces the configured logger
func WithLogger(l *logger.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.log = l
		}
	}
}

// New creates a new App instance
func New(cfg *config.Config, opts ...Option) *App {
	a := &App{
		cfg:    cfg,
		errOut: os.Stderr,
	}
	for _, opt := range opts {
		opt(a)
	}

	// Configure color globally
	color.NoColor = !cfg.LogColors

	if a.log == nil {
		a.log = logger.New(a.errOut, cfg.Verbose, cfg.LogColors)

		// Log level overrides verbose/quiet flags; Load has already validated it
		if cfg.LogLevel != "" {
			_ = a.log.SetLevel(cfg.LogLevel)
		} else if cfg.Quiet {
			a.log.WithLevel(logger.LevelWarn)
		}
	}

	if a.starter == nil {
		a.starter = exiftool.New(
			exiftool.WithBinary(cfg.Exiftool.Path),
			exiftool.WithArgs(cfg.Exiftool.Args),
			exiftool.WithLogger(a.log),
		)
	}
	return a
}

// Run validates the input file, fetches its metadata and prints it.
// Nothing is written to the output unless the fetch succeeded.
func (a *App) Run(ctx context.Context) error {
	startTime := time.Now()

	a.log.Debug("Display: %s", a.cfg.Mode)
	a.log.Debug("Filter: %q", a.cfg.Filter)
	a.log.Debug("ExifTool: %s %v", a.cfg.Exiftool.Path, a.cfg.Exiftool.Args)
	a.log.Debug("Color output: %v", a.cfg.UseColors)

	// --- File validation ---
	path, err := config.ResolveFile(a.cfg.FilePath)
	if err != nil {
		return err
	}

	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	// --- Extraction ---
	fetcher := metadata.NewFetcher(a.starter, metadata.WithLogger(a.log))
	md, err := fetcher.Fetch(ctx, path, a.cfg.Filter)
	if err != nil {
		return err
	}

	// --- Output ---
	out, closeOut, err := a.output()
	if err != nil {
		return err
	}
	defer closeOut()

	p := printer.New().
		WithOutput(out).
		WithColors(a.cfg.UseColors).
		WithMaxWidth(a.cfg.MaxWidth)
	if err := p.Print(a.cfg.Mode, path, md); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	summary.DisplayResults(a.log, summary.Result{
		Path:     path,
		Mode:     a.cfg.Mode,
		Fields:   len(md),
		Filter:   a.cfg.Filter,
		Duration: time.Since(startTime),
	}, a.cfg.Quiet)
	return nil
}

func (a *App) output() (io.Writer, func(), error) {
	if a.Output != nil {
		return a.Output, func() {}, nil
	}
	if a.cfg.OutputFile == "" {
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(a.cfg.OutputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			a.log.Warn("Closing output file '%s': %v", a.cfg.OutputFile, err)
		}
	}, nil
}
