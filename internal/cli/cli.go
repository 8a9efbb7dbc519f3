// Package cli defines the richexif command line.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/bethropolis/richexif/internal/app"
	"github.com/bethropolis/richexif/internal/config"
	"github.com/bethropolis/richexif/internal/display"
	"github.com/bethropolis/richexif/internal/metadata"
	"github.com/spf13/cobra"
)

// Exit codes
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// UsageError marks errors caused by bad arguments or options.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var usage *UsageError
	if errors.As(err, &usage) ||
		errors.Is(err, config.ErrFileNotFound) ||
		errors.Is(err, config.ErrNotRegularFile) ||
		errors.Is(err, config.ErrFileUnreadable) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, display.ErrInvalidMode) {
		return ExitUsage
	}
	return ExitError
}

// Options carries process-level dependencies into the command.
type Options struct {
	Version string

	// Starter overrides the exiftool session starter.
	Starter metadata.Starter

	// Out and Err override stdout and stderr.
	Out io.Writer
	Err io.Writer
}

// NewRootCommand builds the richexif command.
func NewRootCommand(opts Options) *cobra.Command {
	flags := &config.Config{}

	cmd := &cobra.Command{
		Use:   "richexif [flags] FILE",
		Short: "Display rich metadata",
		Long: `Display the metadata ExifTool reports for FILE as a table or a tree.

Examples:
  # Every field as a Field/Value table
  richexif photo.jpg

  # Only EXIF fields, grouped as a tree
  richexif --filter EXIF --display tree photo.jpg`,
		Version:       opts.Version,
		Args:          exactlyOneFile,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.FilePath = args[0]

			cfg, err := config.Load(flags)
			if err != nil {
				return &UsageError{Err: err}
			}
			cfg.Version = opts.Version

			a := app.New(cfg,
				app.WithStarter(opts.Starter),
				app.WithOutput(opts.Out),
				app.WithErrOutput(opts.Err),
			)
			return a.Run(cmd.Context())
		},
	}
	cmd.SetVersionTemplate("richexif version {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})
	if opts.Out != nil {
		cmd.SetOut(opts.Out)
	}
	if opts.Err != nil {
		cmd.SetErr(opts.Err)
	}

	bindFlags(cmd, flags)
	return cmd
}

// bindFlags registers flags with zero defaults so that only flags the user
// set take part in the config merge. Effective defaults come from
// config.Defaults and are spelled out in the usage text.
func bindFlags(cmd *cobra.Command, c *config.Config) {
	f := cmd.Flags()
	f.SortFlags = false

	f.StringVar(&c.Filter, "filter", "", "String to match for displaying")
	f.StringVar(&c.Display, "display", "", "How to display the metadata: table or tree (default \"table\")")
	f.IntVar(&c.MaxWidth, "max-width", 0, "Truncate values wider than this many cells (0 = no limit)")
	f.StringVar(&c.Exiftool.Path, "exiftool", "", "ExifTool executable (default \"exiftool\")")
	f.DurationVar(&c.Timeout, "timeout", 0, "Maximum time to wait for ExifTool (e.g. '30s'; 0 = no limit)")
	f.StringVarP(&c.OutputFile, "output", "o", "", "Write output to a file instead of stdout")
	f.BoolVar(&c.NoColor, "no-color", false, "Disable color output")
	f.BoolVarP(&c.Verbose, "verbose", "v", false, "Enable verbose logging")
	f.BoolVarP(&c.Quiet, "quiet", "q", false, "Only log warnings and errors")
	f.StringVar(&c.LogLevel, "log-level", "", "Set the logging level (debug, info, warn, error, none)")
	f.StringVarP(&c.ConfigFile, "config", "c", "", "YAML config file")
}

func exactlyOneFile(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return &UsageError{Err: fmt.Errorf("expected exactly one FILE argument, got %d", len(args))}
	}
	return nil
}
