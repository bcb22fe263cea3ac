package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaypointValidate(t *testing.T) {
	tests := []struct {
		name    string
		wp      Waypoint
		wantErr bool
	}{
		{"rfc3339", Waypoint{X: 10, Y: 20, Z: 30, Time: "2026-08-01T10:00:00Z"}, false},
		{"rfc3339 nano", Waypoint{Time: "2026-08-01T10:00:00.25Z"}, false},
		{"no zone", Waypoint{Time: "2026-08-01T10:00:00"}, false},
		{"space separator", Waypoint{Time: "2026-08-01 10:00:00"}, false},
		{"relative seconds", Waypoint{Time: "42.5"}, false},
		{"relative zero", Waypoint{Time: "0"}, false},
		{"empty", Waypoint{X: 1, Y: 2, Z: 3}, true},
		{"garbage", Waypoint{Time: "not-a-time"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.wp.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseTime_RelativeOffset(t *testing.T) {
	a, err := ParseTime("10")
	require.NoError(t, err)
	b, err := ParseTime("70")
	require.NoError(t, err)
	assert.Equal(t, 60.0, b.Sub(a).Seconds())
}

func TestSummary(t *testing.T) {
	r := &SimulationResult{
		ID:        "7",
		Name:      "Mission M1",
		Timestamp: "2026-08-01T10:00:00Z",
		Mission:   Mission{MissionID: "M1"},
		Flights: []Flight{
			{FlightID: "F1"},
			{FlightID: "F2"},
		},
		Conflicts:      []ConflictRecord{{FlightID: "F1", Type: ConflictSpatial}},
		Status:         StatusConflicted,
		TotalConflicts: 1,
	}

	s := r.Summary()
	assert.Equal(t, "7", s.ID)
	assert.Equal(t, "Mission M1", s.Name)
	assert.True(t, s.ConflictsFound)
	assert.Equal(t, 1, s.TotalConflicts)
	// flight count includes the primary mission
	assert.Equal(t, 3, s.FlightCount)
	assert.Equal(t, "completed", s.Status)
}

func TestSummary_Clear(t *testing.T) {
	r := &SimulationResult{ID: "1", Status: StatusClear}
	s := r.Summary()
	assert.False(t, s.ConflictsFound)
	assert.Equal(t, 1, s.FlightCount)
}

func TestMissionClone_Independent(t *testing.T) {
	m := Mission{
		MissionID: "M1",
		Waypoints: []Waypoint{{X: 1, Time: "0"}},
	}
	c := m.Clone()
	c.Waypoints[0].X = 99
	c.Waypoints = append(c.Waypoints, Waypoint{X: 2, Time: "1"})

	assert.Equal(t, 1.0, m.Waypoints[0].X)
	assert.Len(t, m.Waypoints, 1)
}

func TestCloneFlights_Independent(t *testing.T) {
	fs := []Flight{{FlightID: "F1", Waypoints: []Waypoint{{X: 1, Time: "0"}}}}
	c := CloneFlights(fs)
	c[0].Waypoints[0].X = 5
	assert.Equal(t, 1.0, fs[0].Waypoints[0].X)

	assert.Nil(t, CloneFlights(nil))
}

func TestErrorTaxonomy(t *testing.T) {
	assert.True(t, IsValidation(&ValidationError{Field: "time", Reason: "required"}))
	assert.True(t, IsPrecondition(&PreconditionError{Op: "submit", Reason: "empty mission_id"}))
	assert.True(t, IsServiceUnavailable(&ServiceUnavailableError{Op: "list", Err: assert.AnError}))
	assert.True(t, IsNotFound(&NotFoundError{ID: "42"}))

	assert.False(t, IsNotFound(&ValidationError{}))
	assert.False(t, IsServiceUnavailable(&NotFoundError{}))
}
