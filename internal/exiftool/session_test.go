package exiftool

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bethropolis/richexif/internal/metadata"
	"github.com/bethropolis/richexif/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTool plays the ExifTool side of the -stay_open protocol over pipes.
type fakeTool struct {
	// answer returns stdout and stderr text for one query's argument lines.
	answer func(args []string) (string, string)
	// hang makes the fake never answer queries.
	hang bool

	mu      sync.Mutex
	queries [][]string
	exited  bool

	done chan struct{}
}

func startFake(t *testing.T, f *fakeTool, logger utils.Logger) *Session {
	t.Helper()

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	errR, errW := io.Pipe()
	f.done = make(chan struct{})

	go func() {
		defer close(f.done)
		defer outW.Close()
		defer errW.Close()

		sc := bufio.NewScanner(inR)
		var args []string
		for sc.Scan() {
			line := sc.Text()
			switch {
			case line == "-stay_open":
				if sc.Scan() && sc.Text() == "False" {
					f.mu.Lock()
					f.exited = true
					f.mu.Unlock()
					return
				}
			case strings.HasPrefix(line, "-execute"):
				n := strings.TrimPrefix(line, "-execute")
				f.mu.Lock()
				f.queries = append(f.queries, args)
				f.mu.Unlock()
				if f.hang {
					continue
				}
				stdout, stderr := f.answer(args)
				go fmt.Fprintf(errW, "%s{ready%s}\n", stderr, n)
				fmt.Fprintf(outW, "%s{ready%s}\n", stdout, n)
				args = nil
			default:
				args = append(args, line)
			}
		}
	}()

	kill := func() error {
		inR.CloseWithError(errors.New("killed"))
		outW.CloseWithError(io.EOF)
		errW.CloseWithError(io.EOF)
		return nil
	}
	wait := func() error {
		<-f.done
		if f.hang {
			return errors.New("signal: killed")
		}
		return nil
	}
	if logger == nil {
		logger = utils.NoopLogger{}
	}
	return newSession(inW, outR, errR, wait, kill, DefaultArgs, logger)
}

// recordingLogger keeps warnings for assertions.
type recordingLogger struct {
	utils.NoopLogger
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Warn(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}

func jsonAnswer(t *testing.T, body string) func([]string) (string, string) {
	t.Helper()
	require.True(t, json.Valid([]byte(body)), "fixture must be valid JSON")
	return func([]string) (string, string) { return body + "\n", "" }
}

func TestSession_Extract_PreservesOrder(t *testing.T) {
	f := &fakeTool{answer: jsonAnswer(t, `[{
		"SourceFile": "/tmp/a.jpg",
		"File:FileSize": 10,
		"EXIF:Model": "EOS",
		"EXIF:Make": "Canon",
		"XMP:Subject": ["cat", "dog"]
	}]`)}
	s := startFake(t, f, nil)

	records, err := s.Extract(context.Background(), "/tmp/a.jpg")
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, metadata.Metadata{
		{Key: "SourceFile", Value: "/tmp/a.jpg"},
		{Key: "File:FileSize", Value: json.Number("10")},
		{Key: "EXIF:Model", Value: "EOS"},
		{Key: "EXIF:Make", Value: "Canon"},
		{Key: "XMP:Subject", Value: []any{"cat", "dog"}},
	}, records[0])

	require.NoError(t, s.Close())
	assert.True(t, f.exited)
}

func TestSession_Extract_SendsArgsAndPath(t *testing.T) {
	f := &fakeTool{answer: jsonAnswer(t, `[{"SourceFile":"/tmp/a.jpg"}]`)}
	s := startFake(t, f, nil)
	defer s.Close()

	_, err := s.Extract(context.Background(), "/tmp/a.jpg")
	require.NoError(t, err)

	f.mu.Lock()
	defer f.mu.Unlock()
	require.Len(t, f.queries, 1)
	assert.Equal(t, []string{"-j", "-G", "-n", "/tmp/a.jpg", "-echo4", "{ready1}"}, f.queries[0])
}

func TestSession_Extract_SequentialQueries(t *testing.T) {
	f := &fakeTool{answer: func(args []string) (string, string) {
		path := args[len(args)-3]
		return fmt.Sprintf(`[{"SourceFile":%q}]`, path) + "\n", ""
	}}
	s := startFake(t, f, nil)
	defer s.Close()

	for _, p := range []string{"/a.jpg", "/b.jpg", "/c.jpg"} {
		records, err := s.Extract(context.Background(), p)
		require.NoError(t, err)
		require.Len(t, records, 1)
		v, _ := records[0].Get("SourceFile")
		assert.Equal(t, p, v)
	}
}

func TestSession_Extract_NoOutputMeansNoRecords(t *testing.T) {
	logger := &recordingLogger{}
	f := &fakeTool{answer: func([]string) (string, string) {
		return "", "Error: File not found - /tmp/missing.jpg\n"
	}}
	s := startFake(t, f, logger)
	defer s.Close()

	records, err := s.Extract(context.Background(), "/tmp/missing.jpg")
	require.NoError(t, err)
	assert.Empty(t, records)

	logger.mu.Lock()
	defer logger.mu.Unlock()
	assert.Equal(t, []string{"exiftool: Error: File not found - /tmp/missing.jpg"}, logger.warns)
}

func TestSession_Extract_BadJSON(t *testing.T) {
	f := &fakeTool{answer: func([]string) (string, string) { return "[{\"a\":", "" }}
	s := startFake(t, f, nil)
	defer s.Close()

	_, err := s.Extract(context.Background(), "/tmp/a.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding answer")
}

func TestSession_Extract_RejectsLineBreaks(t *testing.T) {
	f := &fakeTool{answer: jsonAnswer(t, `[]`)}
	s := startFake(t, f, nil)
	defer s.Close()

	_, err := s.Extract(context.Background(), "/tmp/a\n-delete_original")
	require.Error(t, err)

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Empty(t, f.queries)
}

func TestSession_Extract_ContextCancelKillsProcess(t *testing.T) {
	f := &fakeTool{hang: true}
	s := startFake(t, f, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := s.Extract(ctx, "/tmp/a.jpg")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = s.Extract(context.Background(), "/tmp/a.jpg")
	assert.ErrorIs(t, err, ErrSessionClosed)

	assert.NoError(t, s.Close())
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	f := &fakeTool{answer: jsonAnswer(t, `[]`)}
	s := startFake(t, f, nil)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.Extract(context.Background(), "/tmp/a.jpg")
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestReadUntil(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{"marker on own line", "line1\nline2\n{ready3}\nnext", "line1\nline2\n", nil},
		{"marker after text", "]{ready3}\n", "]", nil},
		{"similar marker skipped", "{ready30}\n{ready3}\n", "{ready30}\n", nil},
		{"eof", "partial", "partial", io.ErrUnexpectedEOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readUntil(bufio.NewReader(strings.NewReader(tt.in)), "{ready3}")
			assert.Equal(t, tt.want, got)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSession_Command(t *testing.T) {
	s := newSession(nopWriteCloser{&bytes.Buffer{}}, strings.NewReader(""), strings.NewReader(""),
		nil, nil, []string{"-j", "-G"}, utils.NoopLogger{})
	s.seq = 7

	assert.Equal(t, "-j\n-G\n/x.jpg\n-echo4\n{ready7}\n-execute7\n", s.command([]string{"/x.jpg"}))
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
