// Package exiftool drives a long-running ExifTool process in -stay_open
// mode. Queries are written to its argument stream on stdin; each answer is
// framed on stdout and stderr by a numbered {ready} marker.
package exiftool

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/bethropolis/richexif/internal/metadata"
	"github.com/bethropolis/richexif/internal/utils"
)

// DefaultBinary is looked up in $PATH when no binary path is configured.
const DefaultBinary = "exiftool"

// DefaultArgs are sent with every query: JSON output, group-prefixed tag
// names and numeric values.
var DefaultArgs = []string{"-j", "-G", "-n"}

// ErrSessionClosed is returned by Extract after Close.
var ErrSessionClosed = errors.New("exiftool: session closed")

// Tool starts ExifTool sessions. It implements metadata.Starter.
type Tool struct {
	binary string
	args   []string
	logger utils.Logger
}

// Option is a functional option for configuring the Tool
type Option func(*Tool)

// WithBinary sets the ExifTool executable
func WithBinary(path string) Option {
	return func(t *Tool) {
		if path != "" {
			t.binary = path
		}
	}
}

// WithArgs replaces the per-query common arguments. -j must stay in the set
// since answers are decoded as JSON.
func WithArgs(args []string) Option {
	return func(t *Tool) {
		if len(args) > 0 {
			t.args = append([]string(nil), args...)
		}
	}
}

// WithLogger sets a logger for process lifecycle and ExifTool warnings
func WithLogger(logger utils.Logger) Option {
	return func(t *Tool) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// New creates a Tool with default settings
func New(opts ...Option) *Tool {
	t := &Tool{
		binary: DefaultBinary,
		args:   DefaultArgs,
		logger: utils.NoopLogger{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start launches `exiftool -stay_open True -@ -`. The process lives until
// the returned session is closed. ctx only bounds the launch itself.
func (t *Tool) Start(ctx context.Context) (metadata.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.Command(t.binary, "-stay_open", "True", "-@", "-")

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("exiftool: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("exiftool: stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("exiftool: stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("exiftool: starting %s: %w", t.binary, err)
	}
	t.logger.Debug("exiftool: started %s (pid %d)", t.binary, cmd.Process.Pid)

	kill := func() error {
		return cmd.Process.Kill()
	}
	return newSession(stdin, stdout, stderr, cmd.Wait, kill, t.args, t.logger), nil
}
