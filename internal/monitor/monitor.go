// Package monitor tracks analysis-service reachability in the background so
// the console can report degraded mode before a command fails.
package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shivam675/sky-guardian-planner/internal/api"
)

// Dependencies holds what the monitor needs.
type Dependencies struct {
	Client   *api.Client
	Logger   *slog.Logger
	Interval time.Duration
}

// Service polls the analysis service and records the outcome.
type Service struct {
	deps Dependencies

	mu        sync.RWMutex
	isRunning bool
	up        bool
	lastCheck time.Time
	lastErr   error

	stopChan chan struct{}
}

// NewService creates a stopped monitor.
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Interval <= 0 {
		deps.Interval = 30 * time.Second
	}
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the poll loop is active.
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// IsUp reports the last observed service reachability.
func (s *Service) IsUp() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.up
}

// Status returns the last check time and error, if any.
func (s *Service) Status() (up bool, lastCheck time.Time, lastErr error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.up, s.lastCheck, s.lastErr
}

// Start launches the poll loop. Calling Start on a running monitor is a
// no-op.
func (s *Service) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.mu.Unlock()

	s.check()
	go s.loop()
}

// Stop terminates the poll loop.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	s.isRunning = false
	close(s.stopChan)
}

func (s *Service) loop() {
	ticker := time.NewTicker(s.deps.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.check()
		}
	}
}

func (s *Service) check() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.deps.Client.ListSimulations(ctx)

	s.mu.Lock()
	wasUp := s.up
	s.up = err == nil
	s.lastCheck = time.Now()
	s.lastErr = err
	s.mu.Unlock()

	if wasUp && err != nil {
		s.deps.Logger.Warn("analysis service became unreachable", "error", err)
	} else if !wasUp && err == nil {
		s.deps.Logger.Info("analysis service reachable")
	}
}
