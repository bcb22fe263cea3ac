package monitor_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivam675/sky-guardian-planner/internal/api"
	"github.com/shivam675/sky-guardian-planner/internal/monitor"
)

func TestMonitorTracksReachability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"status": "success", "simulations": []any{}})
	}))
	defer srv.Close()

	m := monitor.NewService(monitor.Dependencies{
		Client:   api.New(srv.URL, time.Second),
		Interval: time.Hour,
	})

	assert.False(t, m.IsRunning())
	m.Start()
	defer m.Stop()

	require.True(t, m.IsRunning())
	assert.True(t, m.IsUp(), "first check runs synchronously on Start")

	up, lastCheck, lastErr := m.Status()
	assert.True(t, up)
	assert.False(t, lastCheck.IsZero())
	assert.NoError(t, lastErr)
}

func TestMonitorReportsDown(t *testing.T) {
	m := monitor.NewService(monitor.Dependencies{
		Client:   api.New("http://localhost:59999", 200*time.Millisecond),
		Interval: time.Hour,
	})

	m.Start()
	defer m.Stop()

	assert.False(t, m.IsUp())
	_, _, lastErr := m.Status()
	assert.Error(t, lastErr)
}

func TestMonitorStartStopIdempotent(t *testing.T) {
	m := monitor.NewService(monitor.Dependencies{
		Client:   api.New("http://localhost:59999", 100*time.Millisecond),
		Interval: time.Hour,
	})

	m.Start()
	m.Start()
	m.Stop()
	m.Stop()
	assert.False(t, m.IsRunning())
}
