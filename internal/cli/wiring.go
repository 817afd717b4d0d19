// internal/cli/wiring.go
//
// Shared wiring for the CLI commands: configuration, logging, storage
// backend selection and document store construction.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/arcatdmz/koma/internal/config"
	"github.com/arcatdmz/koma/internal/document"
	"github.com/arcatdmz/koma/internal/logging"
	"github.com/arcatdmz/koma/internal/metrics"
	"github.com/arcatdmz/koma/internal/storage"
	fsstorage "github.com/arcatdmz/koma/internal/storage/fs"
	memorystorage "github.com/arcatdmz/koma/internal/storage/memory"
	pgstorage "github.com/arcatdmz/koma/internal/storage/postgres"
	sqlitestorage "github.com/arcatdmz/koma/internal/storage/sqlite"
)

type env struct {
	logManager *logging.Manager
	logger     *slog.Logger
	zlog       zerolog.Logger
	metrics    *metrics.Manager
	store      *document.Store
}

// setup loads configuration from the working directory, initializes
// logging and builds the document store.
func setup() (*env, error) {
	if err := config.Load("."); err != nil {
		return nil, err
	}

	e := &env{
		logManager: logging.NewManager(),
		zlog:       zerolog.New(os.Stderr).With().Timestamp().Logger(),
	}

	var logFile *os.File
	if dir := config.GetString("logsDir"); dir != "" {
		// File logging is best-effort, but a misconfigured logsDir should
		// be visible.
		if err := os.MkdirAll(dir, 0o755); err != nil {
			e.zlog.Warn().Err(err).Str("dir", dir).Msg("cannot create logs directory, file logging disabled")
		} else {
			path := logging.LogFilePath(dir, time.Now())
			f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
			if err != nil {
				e.zlog.Warn().Err(err).Str("path", path).Msg("cannot open log file, file logging disabled")
			} else {
				logFile = f
			}
		}
	}

	graylogAddr := ""
	if config.GetBool("graylog.enabled") {
		graylogAddr = config.GetString("graylog.address")
	}

	provider := func() []slog.Attr {
		if e.store == nil {
			return nil
		}
		return []slog.Attr{slog.String("project", e.store.Project().Name)}
	}
	var fileWriter io.Writer
	if logFile != nil {
		fileWriter = logFile
	}
	err := e.logManager.Setup(fileWriter, config.GetString("logLevel"), graylogAddr, provider)
	if err != nil {
		return nil, err
	}
	e.logger = e.logManager.Logger()

	if config.GetBool("influx.enabled") {
		e.metrics = metrics.NewManager(e.zlog)
		if err := e.metrics.Connect(); err != nil {
			e.logger.Warn("metrics disabled", "error", err)
			e.metrics = nil
		}
	}

	store, err := document.New(document.Dependencies{
		Logger:            e.logger,
		CoordinatorLogger: e.logger,
		Metrics:           e.metrics,
		HistoryCapacity:   config.GetInt("history.capacity"),
	})
	if err != nil {
		return nil, err
	}
	e.store = store
	return e, nil
}

func (e *env) close() {
	if e.metrics != nil {
		e.metrics.Close()
	}
	e.logManager.Close()
}

// openRoot creates a storage root of the configured type. location is the
// directory path for the fs backend and the stored project name for the
// database backends.
func (e *env) openRoot(location string) (storage.Root, error) {
	cfg := config.GetStorageConfig()

	switch cfg.Type {
	case "fs", "":
		dir := location
		if dir == "" {
			dir = cfg.FS.Dir
		}
		return fsstorage.New(fsstorage.Config{Dir: dir, Scratch: cfg.FS.Scratch})

	case "memory":
		return memorystorage.New(memorystorage.Config{Name: location, Scratch: true}), nil

	case "sqlite":
		return sqlitestorage.New(sqlitestorage.Config{
			Path:    viper.GetString("storage.sqlite.path"),
			Project: location,
		}, e.zlog)

	case "postgres":
		return pgstorage.New(pgstorage.Config{Project: location}, e.zlog)

	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
