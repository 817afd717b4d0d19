// Package metrics reports persistence measurements (save durations, asset
// counts) to InfluxDB. Disabled by default; the document store treats a
// nil manager as "no metrics".
package metrics

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// BucketName is the InfluxDB bucket persistence measurements go to.
const BucketName = "koma_persistence"

// Manager handles the InfluxDB connection and writes.
type Manager struct {
	Client  influxdb2.Client
	Writer  influxdb2_api.WriteAPI
	IsValid bool
	Logger  zerolog.Logger
}

// NewManager creates a new InfluxDB manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{Logger: log}
}

// Connect establishes a connection to InfluxDB using the influx.*
// configuration keys.
func (m *Manager) Connect() error {
	if !viper.GetBool("influx.enabled") {
		return fmt.Errorf("influx.enabled is false")
	}

	m.Client = influxdb2.NewClientWithOptions(
		fmt.Sprintf(
			"%s://%s:%s",
			viper.GetString("influx.protocol"),
			viper.GetString("influx.host"),
			viper.GetString("influx.port"),
		),
		viper.GetString("influx.token"),
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	running, err := m.Client.Ping(context.Background())
	if err != nil || !running {
		m.IsValid = false
		m.Logger.Warn().Msg("InfluxDB client failed to initialize, metrics disabled")
		return fmt.Errorf("influxDB not reachable: %v", err)
	}
	m.IsValid = true

	m.Writer = m.Client.WriteAPI(viper.GetString("influx.org"), BucketName)
	errorsCh := m.Writer.Errors()
	go func() {
		for writeErr := range errorsCh {
			m.Logger.Error().Err(writeErr).Msg("Error sending data to InfluxDB")
		}
	}()

	m.Logger.Info().Msg("InfluxDB client initialized")
	return nil
}

// RecordSave reports one save run.
func (m *Manager) RecordSave(project string, frames int, d time.Duration, saveErr error) {
	if !m.IsValid {
		return
	}
	point := influxdb2.NewPointWithMeasurement("project_save").
		AddTag("project", project).
		AddField("duration_ms", d.Milliseconds()).
		AddField("frames", frames).
		AddField("success", saveErr == nil).
		SetTime(time.Now())
	m.Writer.WritePoint(point)
}

// Close flushes pending points and shuts the client down.
func (m *Manager) Close() {
	if m.IsValid {
		m.Writer.Flush()
		m.Client.Close()
	}
}
