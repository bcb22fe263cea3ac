// Package registry mediates between the analysis service's simulation
// collection and the local fallback slot. The service is authoritative;
// the fallback exists so a session with no reachable service can still show
// the last submitted outcome.
package registry

import (
	"context"
	"log/slog"
	"time"

	"github.com/shivam675/sky-guardian-planner/internal/api"
	"github.com/shivam675/sky-guardian-planner/internal/store"
	"github.com/shivam675/sky-guardian-planner/pkg/core"
)

// Registry resolves simulation listings and details, degrading to the
// fallback store when the service is unreachable.
type Registry struct {
	client   *api.Client
	fallback store.Backend
	log      *slog.Logger
}

// New creates a registry over the given service client and fallback store.
func New(client *api.Client, fallback store.Backend, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{client: client, fallback: fallback, log: log}
}

// List returns known simulation summaries in service order. When the service
// is unreachable it degrades to the fallback slot, yielding at most one
// summary, never an error.
func (r *Registry) List(ctx context.Context) []core.SimulationSummary {
	summaries, err := r.client.ListSimulations(ctx)
	if err == nil {
		return summaries
	}

	r.log.Warn("simulation service unreachable, listing from fallback", "error", err)
	rec, loadErr := r.fallback.Load()
	if loadErr != nil {
		r.log.Warn("fallback store unreadable", "error", loadErr)
		return nil
	}
	if rec == nil {
		return nil
	}
	return []core.SimulationSummary{rec.Result.Summary()}
}

// Detail returns the full simulation result for id. The service is consulted
// first; on failure or a service-side miss the fallback slot is checked.
// NotFoundError means neither source knows the id.
func (r *Registry) Detail(ctx context.Context, id string) (*core.SimulationResult, error) {
	result, err := r.client.GetSimulation(ctx, id)
	if err == nil {
		return result, nil
	}
	if !core.IsNotFound(err) {
		r.log.Warn("simulation service unreachable, checking fallback", "id", id, "error", err)
	}

	rec, loadErr := r.fallback.Load()
	if loadErr != nil {
		r.log.Warn("fallback store unreadable", "error", loadErr)
	}
	if rec != nil && rec.SimulationID == id {
		res := rec.Result
		return &res, nil
	}
	return nil, &core.NotFoundError{ID: id}
}

// Resimulate asks the service to recompute simulation id. On success the
// refreshed result is fetched and saved into the fallback slot: a reused id
// supersedes the previous record there, and a newly minted id becomes the
// most recent one. Returns the id of the resulting record.
func (r *Registry) Resimulate(ctx context.Context, id string) (string, error) {
	resp, err := r.client.Resimulate(ctx, id)
	if err != nil {
		return "", err
	}

	newID := resp.SimulationID
	if newID == "" {
		newID = id
	}

	if result, err := r.client.GetSimulation(ctx, newID); err == nil {
		if err := r.SaveFallback(*result); err != nil {
			r.log.Warn("failed to refresh fallback slot", "id", newID, "error", err)
		}
	} else {
		r.log.Warn("failed to fetch resimulated record", "id", newID, "error", err)
	}

	r.log.Info("resimulation completed", "id", id, "resultId", newID,
		"conflicts", resp.TotalConflicts)
	return newID, nil
}

// SaveFallback overwrites the fallback slot with result.
func (r *Registry) SaveFallback(result core.SimulationResult) error {
	return r.fallback.Save(core.StoredSimulation{
		SimulationID: result.ID,
		SavedAt:      time.Now().UTC(),
		Result:       result,
	})
}
