// Package handlers implements the planner's command surface: each method
// takes the raw argument list from the dispatcher and returns a printable
// result. All session state lives in the injected services.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shivam675/sky-guardian-planner/internal/analysis"
	"github.com/shivam675/sky-guardian-planner/internal/builder"
	"github.com/shivam675/sky-guardian-planner/internal/geo"
	"github.com/shivam675/sky-guardian-planner/internal/registry"
	"github.com/shivam675/sky-guardian-planner/internal/util"
	"github.com/shivam675/sky-guardian-planner/internal/visual"
	"github.com/shivam675/sky-guardian-planner/pkg/core"
)

// Dependencies holds everything the handlers act on.
type Dependencies struct {
	Builder  *builder.Builder
	Analysis *analysis.Service
	Registry *registry.Registry
	Visual   *visual.Dispatcher
	Defaults core.AnalysisParameters
	Origin   *core.Origin
	Logger   *slog.Logger
}

// Service provides handler methods for the planner commands.
type Service struct {
	deps Dependencies
}

// NewService creates a new handler service.
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{deps: deps}
}

// Sample replaces the session with service-generated example data.
func (s *Service) Sample(ctx context.Context, args []string) (string, error) {
	if err := s.deps.Analysis.GenerateSample(ctx); err != nil {
		return "", err
	}
	m := s.deps.Builder.Mission()
	return fmt.Sprintf("loaded sample mission %s with %d candidate flights",
		m.MissionID, s.deps.Builder.FlightCount()), nil
}

// SetMission sets the primary mission metadata.
// Usage: mission <mission_id> [drone_id] [priority] [start] [end]
func (s *Service) SetMission(args []string) (string, error) {
	if len(args) < 1 {
		return "", &core.ValidationError{Field: "mission_id", Reason: "usage: mission <mission_id> [drone_id] [priority] [start] [end]"}
	}
	var (
		droneID          string
		priority         int
		startTime, endTs string
	)
	if len(args) > 1 {
		droneID = args[1]
	}
	if len(args) > 2 {
		p, err := strconv.Atoi(args[2])
		if err != nil {
			return "", &core.ValidationError{Field: "priority", Reason: "not an integer: " + args[2]}
		}
		priority = p
	}
	if len(args) > 3 {
		startTime = util.TrimQuotes(args[3])
	}
	if len(args) > 4 {
		endTs = util.TrimQuotes(args[4])
	}

	if err := s.deps.Builder.SetMission(args[0], droneID, priority, startTime, endTs); err != nil {
		return "", err
	}
	return "mission " + args[0] + " set", nil
}

// AddWaypoint appends a waypoint to the primary mission.
// Usage: add-waypoint <x,y,z,time> | add-waypoint geo <lat,lon,alt,time>
func (s *Service) AddWaypoint(args []string) (string, error) {
	wp, err := s.parsePoint(args, "add-waypoint")
	if err != nil {
		return "", err
	}
	if err := s.deps.Builder.AddWaypoint(wp); err != nil {
		return "", err
	}
	return fmt.Sprintf("waypoint %d added to mission", len(s.deps.Builder.Mission().Waypoints)), nil
}

// AddPoint appends a trajectory point to the staged flight, staging it first
// when a flight id is given.
// Usage: add-point [flight_id] <x,y,z,time> | add-point [flight_id] geo <lat,lon,alt,time>
func (s *Service) AddPoint(args []string) (string, error) {
	// a leading arg without commas is the flight id
	if len(args) > 0 && !strings.Contains(args[0], ",") && args[0] != "geo" {
		if err := s.deps.Builder.StageFlight(args[0], ""); err != nil {
			return "", err
		}
		args = args[1:]
	}

	wp, err := s.parsePoint(args, "add-point")
	if err != nil {
		return "", err
	}
	if err := s.deps.Builder.AddTrajectoryPoint(wp); err != nil {
		return "", err
	}
	cur := s.deps.Builder.CurrentFlight()
	return fmt.Sprintf("point %d added to flight %s", len(cur.Waypoints), cur.FlightID), nil
}

func (s *Service) parsePoint(args []string, cmd string) (core.Waypoint, error) {
	if len(args) == 0 {
		return core.Waypoint{}, &core.ValidationError{Field: "waypoint", Reason: "usage: " + cmd + " [geo] <x,y,z,time>"}
	}
	if args[0] == "geo" {
		if len(args) < 2 {
			return core.Waypoint{}, &core.ValidationError{Field: "waypoint", Reason: "usage: " + cmd + " geo <lat,lon,alt,time>"}
		}
		if s.deps.Origin == nil {
			return core.Waypoint{}, &core.ValidationError{Field: "origin", Reason: "no origin configured for geographic entry"}
		}
		return util.ParseGeoWaypoint(args[1], *s.deps.Origin)
	}
	return util.ParseWaypoint(strings.Join(args, " "))
}

// CommitFlight moves the staged flight into the flight set.
func (s *Service) CommitFlight(args []string) (string, error) {
	if err := s.deps.Builder.CommitFlight(); err != nil {
		return "", err
	}
	return fmt.Sprintf("flight committed, %d total", s.deps.Builder.FlightCount()), nil
}

// RemoveFlight removes a committed flight by index.
// Usage: remove-flight <index>
func (s *Service) RemoveFlight(args []string) (string, error) {
	if len(args) < 1 {
		return "", &core.ValidationError{Field: "index", Reason: "usage: remove-flight <index>"}
	}
	i, err := util.ParseIndex(args[0])
	if err != nil {
		return "", err
	}
	s.deps.Builder.RemoveFlight(i)
	return fmt.Sprintf("%d flights remain", s.deps.Builder.FlightCount()), nil
}

// Show renders the current session state with trajectory previews.
func (s *Service) Show(args []string) (string, error) {
	mission, flights := s.deps.Builder.Snapshot()

	var b strings.Builder
	fmt.Fprintf(&b, "mission %s (priority %d, %d waypoints)\n",
		orUnset(mission.MissionID), mission.Priority, len(mission.Waypoints))
	if length, err := geo.PathLength(mission.Waypoints); err == nil {
		fmt.Fprintf(&b, "  path length: %.1f\n", length)
	}

	staged := s.deps.Builder.CurrentFlight()
	if staged.FlightID != "" {
		fmt.Fprintf(&b, "staged flight %s (%d points)\n", staged.FlightID, len(staged.Waypoints))
	}

	fmt.Fprintf(&b, "%d committed flights\n", len(flights))
	for i, f := range flights {
		fmt.Fprintf(&b, "  [%d] %s: %d points", i, f.FlightID, len(f.Waypoints))
		if sep, err := geo.MinSeparation(mission.Waypoints, f.Waypoints, time.Second); err == nil {
			fmt.Fprintf(&b, ", min separation %.1f", sep)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// Submit runs deconfliction over the current session state.
// Usage: submit [distance_threshold] [time_tolerance]
func (s *Service) Submit(ctx context.Context, args []string) (string, error) {
	params := s.deps.Defaults
	if len(args) > 0 {
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return "", &core.ValidationError{Field: "distance_threshold", Reason: "not a number: " + args[0]}
		}
		params.DistanceThreshold = v
	}
	if len(args) > 1 {
		v, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return "", &core.ValidationError{Field: "time_tolerance", Reason: "not a number: " + args[1]}
		}
		params.TimeTolerance = v
	}

	result, err := s.deps.Analysis.Submit(ctx, params)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "simulation %s: %s (%d conflicts)", result.ID, result.Status, result.TotalConflicts)
	for _, c := range result.Conflicts {
		fmt.Fprintf(&b, "\n  t=%s flight=%s at (%.1f, %.1f, %.1f) %s",
			c.Time, c.FlightID, c.Location[0], c.Location[1], c.Location[2], c.Explanation)
	}
	return b.String(), nil
}

// List prints known simulations, newest first as the service orders them.
func (s *Service) List(ctx context.Context, args []string) (string, error) {
	summaries := s.deps.Registry.List(ctx)
	if len(summaries) == 0 {
		return "no simulations", nil
	}

	var b strings.Builder
	for _, sum := range summaries {
		fmt.Fprintf(&b, "%s  %-20s %s  flights=%d conflicts=%d\n",
			sum.ID, sum.Name, sum.Timestamp, sum.FlightCount, sum.TotalConflicts)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// Detail prints the full record for one simulation.
// Usage: detail <id>
func (s *Service) Detail(ctx context.Context, args []string) (string, error) {
	if len(args) < 1 {
		return "", &core.ValidationError{Field: "id", Reason: "usage: detail <id>"}
	}
	result, err := s.deps.Registry.Detail(ctx, args[0])
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\nstatus: %s, %d conflicts\nmission %s with %d flights",
		result.ID, result.Timestamp, result.Status, result.TotalConflicts,
		result.Mission.MissionID, len(result.Flights))
	for _, c := range result.Conflicts {
		fmt.Fprintf(&b, "\n  t=%s flight=%s type=%s", c.Time, c.FlightID, c.Type)
	}
	return b.String(), nil
}

// Resimulate recomputes an existing simulation.
// Usage: resimulate <id>
func (s *Service) Resimulate(ctx context.Context, args []string) (string, error) {
	if len(args) < 1 {
		return "", &core.ValidationError{Field: "id", Reason: "usage: resimulate <id>"}
	}
	newID, err := s.deps.Registry.Resimulate(ctx, args[0])
	if err != nil {
		return "", err
	}
	if newID != args[0] {
		return fmt.Sprintf("resimulated %s as new record %s", args[0], newID), nil
	}
	return "resimulated " + newID, nil
}

// View2D opens the top-down visualization for a simulation.
// Usage: view2d <id>
func (s *Service) View2D(ctx context.Context, args []string) (string, error) {
	return s.view(ctx, args, "view2d", s.deps.Visual.Open2D)
}

// View4D opens the space-time visualization for a simulation.
// Usage: view4d <id>
func (s *Service) View4D(ctx context.Context, args []string) (string, error) {
	return s.view(ctx, args, "view4d", s.deps.Visual.Open4D)
}

func (s *Service) view(ctx context.Context, args []string, cmd string, open func(context.Context, string) error) (string, error) {
	if len(args) < 1 {
		return "", &core.ValidationError{Field: "id", Reason: "usage: " + cmd + " <id>"}
	}
	if err := open(ctx, args[0]); err != nil {
		return "", err
	}
	return "opened " + args[0], nil
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}
