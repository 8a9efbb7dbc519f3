package exiftool

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/bethropolis/richexif/internal/metadata"
	"github.com/bethropolis/richexif/internal/utils"
	"golang.org/x/sync/errgroup"
)

// Session is one running ExifTool process. Queries are serialized.
type Session struct {
	mu sync.Mutex

	stdin  io.WriteCloser
	stdout *bufio.Reader
	stderr *bufio.Reader
	wait   func() error
	kill   func() error

	args   []string
	logger utils.Logger

	seq    int
	closed bool
	// broken is set when a query was abandoned midway; the streams are out
	// of sync and the process has been killed.
	broken bool
}

func newSession(
	stdin io.WriteCloser,
	stdout, stderr io.Reader,
	wait, kill func() error,
	args []string,
	logger utils.Logger,
) *Session {
	return &Session{
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
		stderr: bufio.NewReader(stderr),
		wait:   wait,
		kill:   kill,
		args:   args,
		logger: logger,
	}
}

// Extract asks ExifTool for the metadata of paths and returns one record per
// file it produced output for. Files ExifTool cannot read yield no record;
// its messages are logged as warnings.
//
// If ctx is done before the answer is complete the process is killed and
// the session becomes unusable.
func (s *Session) Extract(ctx context.Context, paths ...string) ([]metadata.Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.broken {
		return nil, ErrSessionClosed
	}
	if len(paths) == 0 {
		return nil, nil
	}
	for _, p := range paths {
		if strings.ContainsAny(p, "\r\n") {
			return nil, fmt.Errorf("exiftool: path %q contains a line break", p)
		}
	}

	s.seq++
	marker := fmt.Sprintf("{ready%d}", s.seq)

	if _, err := io.WriteString(s.stdin, s.command(paths)); err != nil {
		s.broken = true
		return nil, fmt.Errorf("exiftool: writing query: %w", err)
	}

	var out, errOut string
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		out, err = readUntil(s.stdout, marker)
		return err
	})
	g.Go(func() error {
		var err error
		errOut, err = readUntil(s.stderr, marker)
		return err
	})

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			s.broken = true
			return nil, fmt.Errorf("exiftool: reading answer: %w", err)
		}
	case <-ctx.Done():
		s.broken = true
		if kerr := s.kill(); kerr != nil {
			s.logger.Warn("exiftool: killing process: %v", kerr)
		}
		<-done
		return nil, ctx.Err()
	}

	for _, line := range strings.Split(strings.TrimSpace(errOut), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			s.logger.Warn("exiftool: %s", line)
		}
	}

	records, err := decodeRecords([]byte(out))
	if err != nil {
		return nil, fmt.Errorf("exiftool: decoding answer: %w", err)
	}
	s.logger.Debug("exiftool: query %d returned %d record(s)", s.seq, len(records))
	return records, nil
}

// command builds one -@ argument block. -echo4 prints the marker on stderr
// once the query is processed and -executeN prints it on stdout.
func (s *Session) command(paths []string) string {
	var b strings.Builder
	for _, a := range s.args {
		b.WriteString(a)
		b.WriteByte('\n')
	}
	for _, p := range paths {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "-echo4\n{ready%d}\n-execute%d\n", s.seq, s.seq)
	return b.String()
}

// Close asks ExifTool to exit and waits for it. It is safe to call more
// than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if !s.broken {
		if _, err := io.WriteString(s.stdin, "-stay_open\nFalse\n"); err != nil {
			errs = append(errs, fmt.Errorf("exiftool: requesting exit: %w", err))
		}
	}
	if err := s.stdin.Close(); err != nil {
		errs = append(errs, fmt.Errorf("exiftool: closing stdin: %w", err))
	}
	// A killed process always reports a failed wait.
	if err := s.wait(); err != nil && !s.broken {
		errs = append(errs, fmt.Errorf("exiftool: waiting for exit: %w", err))
	}
	return errors.Join(errs...)
}

// readUntil returns everything read before the line holding marker.
func readUntil(r *bufio.Reader, marker string) (string, error) {
	var b strings.Builder
	for {
		line, err := r.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")
		if strings.HasSuffix(trimmed, marker) {
			b.WriteString(strings.TrimSuffix(trimmed, marker))
			return b.String(), nil
		}
		b.WriteString(line)
		if err == io.EOF {
			return b.String(), io.ErrUnexpectedEOF
		}
		if err != nil {
			return b.String(), err
		}
	}
}
