package analysis_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivam675/sky-guardian-planner/internal/analysis"
	"github.com/shivam675/sky-guardian-planner/internal/api"
	"github.com/shivam675/sky-guardian-planner/internal/builder"
	"github.com/shivam675/sky-guardian-planner/internal/registry"
	memorystore "github.com/shivam675/sky-guardian-planner/internal/store/memory"
	"github.com/shivam675/sky-guardian-planner/pkg/core"
)

func readyBuilder(t *testing.T) *builder.Builder {
	t.Helper()
	b := builder.New(nil, nil)
	require.NoError(t, b.SetMission("M-1", "drone-1", 1, "0", "60"))
	require.NoError(t, b.AddWaypoint(core.Waypoint{X: 0, Y: 0, Z: 10, Time: "0"}))
	require.NoError(t, b.StageFlight("F-1", ""))
	require.NoError(t, b.AddTrajectoryPoint(core.Waypoint{X: 5, Y: 5, Z: 10, Time: "2"}))
	require.NoError(t, b.CommitFlight())
	return b
}

func newService(t *testing.T, baseURL string, b *builder.Builder) (*analysis.Service, *memorystore.Backend) {
	t.Helper()
	client := api.New(baseURL, time.Second)
	fallback := memorystore.New()
	reg := registry.New(client, fallback, nil)
	return analysis.New(client, b, reg, nil, nil, nil), fallback
}

func TestSubmitPreconditionsBeforeNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	tests := []struct {
		name  string
		setup func(t *testing.T) *builder.Builder
	}{
		{
			name: "missing mission id",
			setup: func(t *testing.T) *builder.Builder {
				b := builder.New(nil, nil)
				require.NoError(t, b.StageFlight("F-1", ""))
				require.NoError(t, b.AddTrajectoryPoint(core.Waypoint{X: 0, Y: 0, Z: 0, Time: "0"}))
				require.NoError(t, b.CommitFlight())
				return b
			},
		},
		{
			name: "empty flight set",
			setup: func(t *testing.T) *builder.Builder {
				b := builder.New(nil, nil)
				require.NoError(t, b.SetMission("M-1", "", 1, "0", "60"))
				return b
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t, srv.URL, tt.setup(t))
			_, err := svc.Submit(context.Background(), core.AnalysisParameters{})
			require.Error(t, err)
			assert.True(t, core.IsPrecondition(err))
		})
	}
	assert.Zero(t, hits.Load(), "preconditions must fail before any network activity")
}

func TestSubmitBuildsResultAndFallbackCopy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/run-deconfliction", r.URL.Path)

		var req api.DeconflictionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "M-1", req.PrimaryMission.MissionID)
		assert.Len(t, req.SimulatedFlights, 1)
		assert.Equal(t, 25.0, req.DistanceThreshold)

		json.NewEncoder(w).Encode(map[string]any{
			"simulation_id":   "sim-7",
			"mission_status":  core.StatusConflicted,
			"conflicts_found": true,
			"total_conflicts": 1,
			"conflicts": []core.ConflictRecord{
				{Time: "2", Location: [3]float64{5, 5, 10}, FlightID: "F-1", Type: core.ConflictSpatial},
			},
		})
	}))
	defer srv.Close()

	svc, fallback := newService(t, srv.URL, readyBuilder(t))
	result, err := svc.Submit(context.Background(), core.AnalysisParameters{DistanceThreshold: 25, TimeTolerance: 1})
	require.NoError(t, err)

	assert.Equal(t, "sim-7", result.ID)
	assert.Equal(t, "Mission M-1", result.Name, "runs are named after the mission, not the simulation id")
	assert.Equal(t, core.StatusConflicted, result.Status)
	assert.Equal(t, 1, result.TotalConflicts)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, "F-1", result.Conflicts[0].FlightID)

	rec, err := fallback.Load()
	require.NoError(t, err)
	require.NotNil(t, rec, "submission writes a redundant fallback copy")
	assert.Equal(t, "sim-7", rec.SimulationID)
}

func TestSubmittedStateRoundTripsThroughDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"simulation_id":   "sim-9",
			"mission_status":  core.StatusClear,
			"conflicts_found": false,
			"total_conflicts": 0,
		})
	}))

	b := readyBuilder(t)
	client := api.New(srv.URL, time.Second)
	reg := registry.New(client, memorystore.New(), nil)
	svc := analysis.New(client, b, reg, nil, nil, nil)

	mission, flights := b.Snapshot()
	result, err := svc.Submit(context.Background(), core.AnalysisParameters{})
	require.NoError(t, err)

	// service gone: Detail must still reproduce exactly what was submitted
	srv.Close()

	got, err := reg.Detail(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Equal(t, mission, got.Mission)
	assert.Equal(t, flights, got.Flights)
}

func TestSubmitServiceDownLeavesBuilderIntact(t *testing.T) {
	b := readyBuilder(t)
	svc, fallback := newService(t, "http://localhost:59999", b)

	_, err := svc.Submit(context.Background(), core.AnalysisParameters{})
	require.Error(t, err)
	assert.True(t, core.IsServiceUnavailable(err))

	assert.Equal(t, "M-1", b.Mission().MissionID)
	assert.Equal(t, 1, b.FlightCount(), "failed submission leaves the builder editable for retry")

	rec, err := fallback.Load()
	require.NoError(t, err)
	assert.Nil(t, rec, "no partial result is persisted on failure")
}

func TestSubmitStatusDerivedWhenServiceOmitsIt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"simulation_id":   "sim-8",
			"conflicts_found": false,
			"total_conflicts": 0,
		})
	}))
	defer srv.Close()

	svc, _ := newService(t, srv.URL, readyBuilder(t))
	result, err := svc.Submit(context.Background(), core.AnalysisParameters{})
	require.NoError(t, err)
	assert.Equal(t, core.StatusClear, result.Status)
}

func TestGenerateSampleReplacesWholesale(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate-sample-data", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data": map[string]any{
				"primary_mission": core.Mission{
					MissionID: "sample-mission",
					Waypoints: []core.Waypoint{{X: 0, Y: 0, Z: 20, Time: "0"}},
				},
				"simulated_flights": []core.Flight{
					{FlightID: "sample-1", Waypoints: []core.Waypoint{{X: 9, Y: 9, Z: 20, Time: "3"}}},
					{FlightID: "sample-2", Waypoints: []core.Waypoint{{X: 4, Y: 4, Z: 20, Time: "5"}}},
				},
			},
		})
	}))
	defer srv.Close()

	b := readyBuilder(t)
	svc, _ := newService(t, srv.URL, b)

	require.NoError(t, svc.GenerateSample(context.Background()))
	assert.Equal(t, "sample-mission", b.Mission().MissionID)
	assert.Equal(t, 2, b.FlightCount())
}

func TestGenerateSampleFailureLeavesBuilderUntouched(t *testing.T) {
	b := readyBuilder(t)
	svc, _ := newService(t, "http://localhost:59999", b)

	err := svc.GenerateSample(context.Background())
	require.Error(t, err)
	assert.True(t, core.IsServiceUnavailable(err))
	assert.Equal(t, "M-1", b.Mission().MissionID)
	assert.Equal(t, 1, b.FlightCount())
}
