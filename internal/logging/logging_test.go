package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}

func TestRotatingWriter_Write(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docfind.log")

	w, err := NewRotatingWriter(path, 10, 3)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	n, err := w.Write([]byte("hello\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	require.NoError(t, w.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestRotatingWriter_Rotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docfind.log")

	// 1MB threshold, keep 2 rotated files.
	w, err := NewRotatingWriter(path, 1, 2)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	line := strings.Repeat("x", 64*1024)
	for i := 0; i < 40; i++ {
		_, err := w.Write([]byte(line))
		require.NoError(t, err)
	}

	// Rotation happened at least once and the rotated file exists.
	_, err = os.Stat(path + ".1")
	require.NoError(t, err)

	// Nothing is kept past maxFiles.
	_, err = os.Stat(path + ".3")
	assert.True(t, os.IsNotExist(err))
}

func TestSetup_WritesJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docfind.log")

	cfg := Config{
		Level:         "debug",
		FilePath:      path,
		MaxSizeMB:     1,
		MaxFiles:      2,
		WriteToStderr: false,
	}

	logger, cleanup, err := Setup(cfg)
	require.NoError(t, err)

	logger.Info("scan_started", slog.String("root", "/tmp/docs"))
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"scan_started"`)
	assert.Contains(t, string(data), `"root":"/tmp/docs"`)
}
