// Package logging wires slog with the handlers the engine uses: console,
// optional log file, optional GELF/Graylog, all fanned out through the
// multi handler, with dynamic context attributes layered on top.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
)

// Manager manages slog-based logging.
type Manager struct {
	logger *slog.Logger
	gelf   *gelf.Writer
}

// NewManager creates a new logging manager.
func NewManager() *Manager {
	return &Manager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup initializes the logging system. file may be nil; graylogAddr may
// be empty. provider supplies dynamic attributes attached to every record
// (current project name, bound root).
func (m *Manager) Setup(file io.Writer, level, graylogAddr string, provider ContextProvider) error {
	handlerOpts := &slog.HandlerOptions{
		Level: parseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler
	handlers = append(handlers, slog.NewTextHandler(os.Stdout, handlerOpts))

	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, handlerOpts))
	}

	if graylogAddr != "" {
		w, err := gelf.NewWriter(graylogAddr)
		if err != nil {
			return fmt.Errorf("connecting to Graylog at %s: %w", graylogAddr, err)
		}
		m.gelf = w
		handlers = append(handlers, slog.NewJSONHandler(w, handlerOpts))
	}

	var handler slog.Handler = NewMultiHandler(handlers...)
	if provider != nil {
		handler = NewContextHandler(handler, provider)
	}

	m.logger = slog.New(handler)
	m.logger.Info("Logging initialized", "level", level)
	return nil
}

// Logger returns the configured slog.Logger.
func (m *Manager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Close shuts down handlers that hold connections.
func (m *Manager) Close() error {
	if m.gelf != nil {
		return m.gelf.Close()
	}
	return nil
}

// LogFilePath builds a log file path using OS-appropriate separators.
func LogFilePath(logsDir string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("koma.%s.log", sessionStart.Format("20060102_150405")),
	)
}
