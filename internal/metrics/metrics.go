// Package metrics writes per-submission measurements to InfluxDB. It is
// optional instrumentation: when influx is disabled or unreachable the
// manager degrades to a no-op and submissions proceed unaffected.
package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/spf13/viper"

	"github.com/shivam675/sky-guardian-planner/pkg/core"
)

// BucketName is the single bucket planner submissions are written to.
const BucketName = "simulation_metrics"

// Manager handles the InfluxDB connection and submission writes.
type Manager struct {
	client  influxdb2.Client
	writer  influxdb2_api.WriteAPI
	isValid bool
	log     *slog.Logger
}

// NewManager creates a disconnected manager. Call Connect before writing;
// an unconnected manager is a valid no-op.
func NewManager(log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{log: log}
}

// Connect establishes the InfluxDB connection from viper configuration.
// Returns an error when influx is disabled or the server does not respond;
// the manager stays usable as a no-op either way.
func (m *Manager) Connect(ctx context.Context) error {
	if !viper.GetBool("influx.enabled") {
		return fmt.Errorf("influx.enabled is false")
	}

	m.client = influxdb2.NewClientWithOptions(
		fmt.Sprintf("%s://%s:%s",
			viper.GetString("influx.protocol"),
			viper.GetString("influx.host"),
			viper.GetString("influx.port"),
		),
		viper.GetString("influx.token"),
		influxdb2.DefaultOptions().
			SetBatchSize(100).
			SetFlushInterval(1000),
	)

	running, err := m.client.Ping(ctx)
	if err != nil || !running {
		m.isValid = false
		m.log.Warn("InfluxDB unreachable, submission metrics disabled", "error", err)
		return fmt.Errorf("influx ping failed: %w", err)
	}

	bucket := viper.GetString("influx.bucket")
	if bucket == "" {
		bucket = BucketName
	}
	m.writer = m.client.WriteAPI(viper.GetString("influx.org"), bucket)
	m.isValid = true
	m.log.Info("InfluxDB client initialized", "bucket", bucket)
	return nil
}

// WriteSubmission records one completed deconfliction run. No-op when the
// manager never connected.
func (m *Manager) WriteSubmission(result core.SimulationResult, duration time.Duration) {
	if !m.isValid {
		return
	}

	point := influxdb2.NewPointWithMeasurement("submission").
		AddTag("status", result.Status).
		AddField("simulation_id", result.ID).
		AddField("total_conflicts", result.TotalConflicts).
		AddField("flight_count", len(result.Flights)).
		AddField("duration_ms", duration.Milliseconds()).
		SetTime(time.Now())
	m.writer.WritePoint(point)
}

// Close flushes pending points and shuts the client down.
func (m *Manager) Close() {
	if m.writer != nil {
		m.writer.Flush()
	}
	if m.client != nil {
		m.client.Close()
	}
}
