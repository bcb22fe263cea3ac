// Package analysis orchestrates submissions to the deconfliction service:
// precondition checks, the network call, result construction, and the
// redundant fallback copy.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shivam675/sky-guardian-planner/internal/api"
	"github.com/shivam675/sky-guardian-planner/internal/builder"
	"github.com/shivam675/sky-guardian-planner/internal/metrics"
	"github.com/shivam675/sky-guardian-planner/internal/registry"
	"github.com/shivam675/sky-guardian-planner/internal/signal"
	"github.com/shivam675/sky-guardian-planner/pkg/core"
)

// Service submits the builder's current state for conflict analysis.
type Service struct {
	client   *api.Client
	builder  *builder.Builder
	registry *registry.Registry
	metrics  *metrics.Manager
	signals  *signal.Queue
	log      *slog.Logger

	mu       sync.Mutex
	inFlight bool
}

// New creates the submission service. metrics and signals may be nil.
func New(client *api.Client, b *builder.Builder, reg *registry.Registry, m *metrics.Manager, signals *signal.Queue, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		client:   client,
		builder:  b,
		registry: reg,
		metrics:  m,
		signals:  signals,
		log:      log,
	}
}

// Submit runs deconfliction over a snapshot of the builder's mission and
// flight set. Preconditions fail before any network activity; a transport or
// service failure surfaces as ServiceUnavailableError and leaves the builder
// untouched so the user can retry. Rapid repeated submissions are rejected
// while one is in flight.
func (s *Service) Submit(ctx context.Context, params core.AnalysisParameters) (*core.SimulationResult, error) {
	mission, flights := s.builder.Snapshot()

	if mission.MissionID == "" {
		return nil, s.precondition("mission_id must be set before submission")
	}
	if len(flights) == 0 {
		return nil, s.precondition("at least one flight must be committed before submission")
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, s.precondition("a submission is already in flight")
	}
	s.inFlight = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	start := time.Now()
	resp, err := s.client.RunDeconfliction(ctx, api.DeconflictionRequest{
		PrimaryMission:    mission,
		SimulatedFlights:  flights,
		DistanceThreshold: params.DistanceThreshold,
		TimeTolerance:     params.TimeTolerance,
		Animate:           params.Animate,
	})
	if err != nil {
		s.warn("submission failed: %v", err)
		return nil, err
	}
	duration := time.Since(start)

	id := resp.SimulationID
	if id == "" {
		// service accepted the run but minted no id; keep the record addressable
		id = fmt.Sprintf("local-%d", time.Now().UnixNano())
	}

	result := &core.SimulationResult{
		ID:             id,
		Name:           "Mission " + mission.MissionID,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		Mission:        mission,
		Flights:        flights,
		Conflicts:      resp.Conflicts,
		Status:         resp.MissionStatus,
		TotalConflicts: resp.TotalConflicts,
		Parameters:     params,
	}
	if result.Status == "" {
		if resp.ConflictsFound {
			result.Status = core.StatusConflicted
		} else {
			result.Status = core.StatusClear
		}
	}

	if err := s.registry.SaveFallback(*result); err != nil {
		s.log.Warn("failed to save fallback copy", "id", id, "error", err)
	}
	if s.metrics != nil {
		s.metrics.WriteSubmission(*result, duration)
	}

	s.log.Info("deconfliction completed", "id", id, "status", result.Status,
		"conflicts", result.TotalConflicts, "durationMs", duration.Milliseconds())
	s.confirm("simulation %s: %s (%d conflicts)", id, result.Status, result.TotalConflicts)
	return result, nil
}

// GenerateSample fetches a service-generated example mission and flight set
// and overwrites the builder wholesale. On failure the builder keeps its
// current state.
func (s *Service) GenerateSample(ctx context.Context) error {
	mission, flights, err := s.client.GenerateSample(ctx)
	if err != nil {
		s.warn("sample generation failed: %v", err)
		return err
	}

	s.builder.Replace(mission, flights)
	s.log.Info("sample data loaded", "mission", mission.MissionID, "flights", len(flights))
	return nil
}

func (s *Service) precondition(reason string) error {
	err := &core.PreconditionError{Op: "submit", Reason: reason}
	s.warn("%s", reason)
	return err
}

func (s *Service) confirm(format string, args ...any) {
	if s.signals != nil {
		s.signals.Info(fmt.Sprintf(format, args...))
	}
}

func (s *Service) warn(format string, args ...any) {
	if s.signals != nil {
		s.signals.Warn(fmt.Sprintf(format, args...))
	}
}
