package exiftool

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Options(t *testing.T) {
	tool := New()
	assert.Equal(t, DefaultBinary, tool.binary)
	assert.Equal(t, DefaultArgs, tool.args)

	tool = New(WithBinary("/opt/exiftool"), WithArgs([]string{"-j", "-G1"}), WithBinary(""), WithArgs(nil))
	assert.Equal(t, "/opt/exiftool", tool.binary, "empty binary keeps the previous value")
	assert.Equal(t, []string{"-j", "-G1"}, tool.args, "empty args keep the previous value")
}

func TestStart_MissingBinary(t *testing.T) {
	tool := New(WithBinary(filepath.Join(t.TempDir(), "no-such-exiftool")))

	s, err := tool.Start(context.Background())

	require.Error(t, err)
	assert.Nil(t, s)
	assert.Contains(t, err.Error(), "starting")
}

func TestStart_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Start(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

// TestStart_RealExiftool runs against an installed exiftool when available.
func TestStart_RealExiftool(t *testing.T) {
	bin, err := exec.LookPath(DefaultBinary)
	if err != nil {
		t.Skip("exiftool not installed")
	}

	file := filepath.Join(t.TempDir(), "note.txt")
	require.NoError(t, os.WriteFile(file, []byte("hello\n"), 0o644))

	s, err := New(WithBinary(bin)).Start(context.Background())
	require.NoError(t, err)

	records, err := s.Extract(context.Background(), file)
	require.NoError(t, err)
	require.Len(t, records, 1)
	src, ok := records[0].Get("SourceFile")
	assert.True(t, ok)
	assert.Equal(t, file, src)

	missing, err := s.Extract(context.Background(), filepath.Join(t.TempDir(), "missing.jpg"))
	require.NoError(t, err)
	assert.Empty(t, missing)

	require.NoError(t, s.Close())
}
