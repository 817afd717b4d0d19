package logging

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	logger := slog.New(NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, nil),
	))

	logger.Info("saved project", "name", "clay")

	assert.Contains(t, a.String(), "saved project")
	assert.Contains(t, a.String(), "name=clay")
	assert.Contains(t, b.String(), "saved project")
}

func TestMultiHandlerRespectsLevels(t *testing.T) {
	var warnOnly, all bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&warnOnly, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewTextHandler(&all, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)

	assert.True(t, h.Enabled(t.Context(), slog.LevelDebug),
		"enabled when any handler is enabled")

	slog.New(h).Debug("verbose detail")
	assert.Empty(t, warnOnly.String())
	assert.Contains(t, all.String(), "verbose detail")
}

func TestMultiHandlerSkipsNilHandlers(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(nil, slog.NewTextHandler(&buf, nil), nil)

	require.NotPanics(t, func() {
		slog.New(h).Info("still logs")
	})
	assert.Contains(t, buf.String(), "still logs")
}

func TestMultiHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(slog.NewTextHandler(&buf, nil))

	slog.New(h).With("root", "projects/clay").Info("opened")
	assert.Contains(t, buf.String(), "root=projects/clay")
}

func TestContextHandlerInjectsDynamicAttrs(t *testing.T) {
	var buf bytes.Buffer
	project := "untitled"
	h := NewContextHandler(slog.NewTextHandler(&buf, nil), func() []slog.Attr {
		return []slog.Attr{slog.String("project", project)}
	})
	logger := slog.New(h)

	logger.Info("first")
	project = "clay"
	logger.Info("second")

	out := buf.String()
	assert.Contains(t, out, "project=untitled")
	assert.Contains(t, out, "project=clay",
		"attributes are resolved per record, not at setup")
}

func TestContextHandlerNilProvider(t *testing.T) {
	var buf bytes.Buffer
	h := NewContextHandler(slog.NewTextHandler(&buf, nil), nil)

	require.NotPanics(t, func() {
		slog.New(h).Info("no context")
	})
	assert.Contains(t, buf.String(), "no context")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), "level %q", tt.in)
	}
}

func TestSetupWritesToFile(t *testing.T) {
	var file bytes.Buffer
	m := NewManager()
	require.NoError(t, m.Setup(&file, "debug", "", nil))

	m.Logger().Debug("wired")
	assert.Contains(t, file.String(), "wired")
}

func TestLogFilePath(t *testing.T) {
	start := time.Date(2026, 8, 26, 9, 30, 15, 0, time.UTC)
	got := LogFilePath("komalogs", start)
	assert.Equal(t, filepath.Join("komalogs", "koma.20260826_093015.log"), got)
}
