// Package core holds the shared entity types for deconfliction planning:
// waypoints, missions, candidate flights, analysis parameters and the
// simulation records returned by the analysis service.
package core

import (
	"fmt"
	"strconv"
	"time"
)

// Waypoint is a single spatial-temporal sample on a trajectory. Positions are
// local Cartesian meters; geographic input is converted on entry (see
// FromGeographic). The client enforces no ordering between waypoints — the
// analysis service owns temporal sorting.
type Waypoint struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
	Time string  `json:"time"`
}

// timeLayouts are the accepted waypoint timestamp forms, tried in order.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTime parses a waypoint timestamp. Absolute timestamps use RFC3339-style
// layouts; a bare number is a mission-relative offset in seconds.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Unix(0, 0).UTC().Add(time.Duration(secs * float64(time.Second))), nil
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

// Validate checks that the waypoint carries a parseable timestamp.
func (w Waypoint) Validate() error {
	if w.Time == "" {
		return &ValidationError{Field: "time", Reason: "timestamp is required"}
	}
	if _, err := ParseTime(w.Time); err != nil {
		return &ValidationError{Field: "time", Reason: err.Error()}
	}
	return nil
}

// Mission is the primary, protected flight plan. Waypoint insertion order is
// flight order.
type Mission struct {
	MissionID string     `json:"mission_id"`
	DroneID   string     `json:"drone_id"`
	Priority  int        `json:"priority"`
	StartTime string     `json:"start_time,omitempty"`
	EndTime   string     `json:"end_time,omitempty"`
	Waypoints []Waypoint `json:"waypoints"`
}

// Flight is a candidate trajectory checked against the Mission.
type Flight struct {
	FlightID  string     `json:"flight_id"`
	DroneID   string     `json:"drone_id,omitempty"`
	Waypoints []Waypoint `json:"waypoints"`
}

// AnalysisParameters tune one deconfliction run. Defaults come from config;
// beyond being numeric they are not validated client-side.
type AnalysisParameters struct {
	DistanceThreshold float64 `json:"distance_threshold"` // meters, safe-separation radius
	TimeTolerance     float64 `json:"time_tolerance"`     // seconds, temporal-overlap slack
	Animate           bool    `json:"animate"`
}

// Conflict types reported by the analysis service.
const (
	ConflictSpatial  = "spatial"
	ConflictTemporal = "temporal"
)

// ConflictRecord is one detected violation. Produced only by the analysis
// service and immutable once received.
type ConflictRecord struct {
	Time        string     `json:"time"`
	Location    [3]float64 `json:"location"`
	FlightID    string     `json:"flight_id"`
	Type        string     `json:"type,omitempty"`
	Explanation string     `json:"explanation,omitempty"`
}

// Mission status values on a SimulationResult.
const (
	StatusClear      = "clear"
	StatusConflicted = "conflicted"
)

// SimulationResult is the outcome of one submission. Never mutated after
// creation — a resimulation produces a new result.
type SimulationResult struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Timestamp      string             `json:"timestamp"`
	Mission        Mission            `json:"primary_mission"`
	Flights        []Flight           `json:"simulated_flights"`
	Conflicts      []ConflictRecord   `json:"conflicts"`
	Status         string             `json:"status"`
	TotalConflicts int                `json:"total_conflicts"`
	Parameters     AnalysisParameters `json:"parameters"`
}

// SimulationSummary is the list-view projection of a SimulationResult.
type SimulationSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Timestamp      string `json:"timestamp"`
	ConflictsFound bool   `json:"conflicts_found"`
	TotalConflicts int    `json:"total_conflicts"`
	FlightCount    int    `json:"flight_count"`
	Status         string `json:"status"`
}

// Summary derives the list-view projection. The flight count includes the
// primary mission, matching the service's own list endpoint.
func (r *SimulationResult) Summary() SimulationSummary {
	return SimulationSummary{
		ID:             r.ID,
		Name:           r.Name,
		Timestamp:      r.Timestamp,
		ConflictsFound: r.TotalConflicts > 0,
		TotalConflicts: r.TotalConflicts,
		FlightCount:    len(r.Flights) + 1,
		Status:         "completed",
	}
}

// StoredSimulation is the locally persisted copy of a simulation result,
// the payload of the single-slot fallback store.
type StoredSimulation struct {
	SimulationID string           `json:"simulation_id"`
	SavedAt      time.Time        `json:"saved_at"`
	Result       SimulationResult `json:"result"`
}

// Clone returns a deep copy of the mission.
func (m Mission) Clone() Mission {
	out := m
	out.Waypoints = append([]Waypoint(nil), m.Waypoints...)
	return out
}

// Clone returns a deep copy of the flight.
func (f Flight) Clone() Flight {
	out := f
	out.Waypoints = append([]Waypoint(nil), f.Waypoints...)
	return out
}

// CloneFlights deep-copies a flight set.
func CloneFlights(flights []Flight) []Flight {
	if flights == nil {
		return nil
	}
	out := make([]Flight, len(flights))
	for i, f := range flights {
		out[i] = f.Clone()
	}
	return out
}
