// Package builder accumulates the in-progress mission and candidate flight
// set for one planning session, ahead of submission.
package builder

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/shivam675/sky-guardian-planner/internal/signal"
	"github.com/shivam675/sky-guardian-planner/pkg/core"
)

// Builder owns the session's mutable planning state: the primary mission, a
// staging slot for the flight being authored, and the committed flight set.
// Committed flights are immutable; they can only be removed by index before
// submission. State changes only through these methods, never implicitly.
type Builder struct {
	mu      sync.RWMutex
	mission core.Mission
	current core.Flight
	flights []core.Flight

	signals *signal.Queue
	logger  *slog.Logger
}

// New creates an empty builder. signals may be nil when no interface layer
// is attached (tests).
func New(logger *slog.Logger, signals *signal.Queue) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		logger:  logger,
		signals: signals,
	}
}

func (b *Builder) confirm(format string, args ...any) {
	if b.signals != nil {
		b.signals.Info(fmt.Sprintf(format, args...))
	}
}

func (b *Builder) warn(err error) {
	if b.signals != nil {
		b.signals.Warn(err.Error())
	}
}

// SetMission sets the primary mission's metadata. Waypoints already added are
// kept. An empty mission id fails validation.
func (b *Builder) SetMission(missionID, droneID string, priority int, startTime, endTime string) error {
	if missionID == "" {
		err := &core.ValidationError{Field: "mission_id", Reason: "must not be empty"}
		b.warn(err)
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.mission.MissionID = missionID
	b.mission.DroneID = droneID
	b.mission.Priority = priority
	b.mission.StartTime = startTime
	b.mission.EndTime = endTime

	b.logger.Debug("mission metadata set", "mission", missionID, "drone", droneID, "priority", priority)
	b.confirm("mission %s updated", missionID)
	return nil
}

// AddWaypoint appends a waypoint to the primary mission. On validation
// failure the mission is left untouched.
func (b *Builder) AddWaypoint(wp core.Waypoint) error {
	if err := wp.Validate(); err != nil {
		b.warn(err)
		return err
	}

	b.mu.Lock()
	b.mission.Waypoints = append(b.mission.Waypoints, wp)
	n := len(b.mission.Waypoints)
	b.mu.Unlock()

	b.confirm("mission waypoint %d added", n)
	return nil
}

// StageFlight sets the identity of the flight currently being authored.
// Trajectory points already staged are kept.
func (b *Builder) StageFlight(flightID, droneID string) error {
	if flightID == "" {
		err := &core.ValidationError{Field: "flight_id", Reason: "must not be empty"}
		b.warn(err)
		return err
	}

	b.mu.Lock()
	b.current.FlightID = flightID
	b.current.DroneID = droneID
	b.mu.Unlock()

	b.confirm("staging flight %s", flightID)
	return nil
}

// AddTrajectoryPoint appends a waypoint to the staged flight. Same contract
// as AddWaypoint: no mutation on failure.
func (b *Builder) AddTrajectoryPoint(wp core.Waypoint) error {
	if err := wp.Validate(); err != nil {
		b.warn(err)
		return err
	}

	b.mu.Lock()
	b.current.Waypoints = append(b.current.Waypoints, wp)
	n := len(b.current.Waypoints)
	b.mu.Unlock()

	b.confirm("trajectory point %d added", n)
	return nil
}

// CommitFlight moves the staged flight into the flight set and resets the
// staging slot. Requires a flight id and at least one trajectory point.
func (b *Builder) CommitFlight() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current.FlightID == "" {
		err := &core.ValidationError{Field: "flight_id", Reason: "must not be empty"}
		b.warn(err)
		return err
	}
	if len(b.current.Waypoints) == 0 {
		err := &core.ValidationError{Field: "waypoints", Reason: "flight needs at least one trajectory point"}
		b.warn(err)
		return err
	}

	b.flights = append(b.flights, b.current.Clone())
	committed := b.current.FlightID
	b.current = core.Flight{}

	b.logger.Debug("flight committed", "flight", committed, "flightCount", len(b.flights))
	b.confirm("flight %s committed (%d total)", committed, len(b.flights))
	return nil
}

// RemoveFlight removes a committed flight by position. Out-of-range indexes
// leave the set unchanged and never panic.
func (b *Builder) RemoveFlight(index int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if index < 0 || index >= len(b.flights) {
		return
	}
	removed := b.flights[index].FlightID
	b.flights = append(b.flights[:index], b.flights[index+1:]...)
	b.confirm("flight %s removed (%d remaining)", removed, len(b.flights))
}

// Snapshot returns deep copies of the mission and committed flight set for
// submission. The builder stays editable while a request is in flight.
func (b *Builder) Snapshot() (core.Mission, []core.Flight) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.mission.Clone(), core.CloneFlights(b.flights)
}

// Replace overwrites the mission and flight set wholesale. Used by sample
// generation; the staging slot is cleared too.
func (b *Builder) Replace(mission core.Mission, flights []core.Flight) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mission = mission.Clone()
	b.flights = core.CloneFlights(flights)
	b.current = core.Flight{}
	b.confirm("loaded mission %s with %d candidate flights", mission.MissionID, len(flights))
}

// ResetMission clears the primary mission only. Explicit user action, never
// called implicitly.
func (b *Builder) ResetMission() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mission = core.Mission{}
	b.confirm("mission cleared")
}

// ResetAll clears mission, staged flight and flight set.
func (b *Builder) ResetAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mission = core.Mission{}
	b.current = core.Flight{}
	b.flights = nil
	b.confirm("session cleared")
}

// Mission returns a copy of the primary mission.
func (b *Builder) Mission() core.Mission {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.mission.Clone()
}

// Flights returns a copy of the committed flight set.
func (b *Builder) Flights() []core.Flight {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return core.CloneFlights(b.flights)
}

// CurrentFlight returns a copy of the staging slot.
func (b *Builder) CurrentFlight() core.Flight {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current.Clone()
}

// FlightCount returns the number of committed flights.
func (b *Builder) FlightCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.flights)
}

// SessionAttrs exposes live session state for the logging context handler.
func (b *Builder) SessionAttrs() []slog.Attr {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return []slog.Attr{
		slog.String("mission", b.mission.MissionID),
		slog.Int("flights", len(b.flights)),
	}
}
