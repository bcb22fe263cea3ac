// Package api implements the HTTP client for the external deconfliction
// analysis service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shivam675/sky-guardian-planner/pkg/core"
)

// Client handles communication with the analysis service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new analysis service client.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// DeconflictionRequest is the body of POST /api/run-deconfliction.
type DeconflictionRequest struct {
	PrimaryMission    core.Mission  `json:"primary_mission"`
	SimulatedFlights  []core.Flight `json:"simulated_flights"`
	DistanceThreshold float64       `json:"distance_threshold"`
	TimeTolerance     float64       `json:"time_tolerance"`
	Animate           bool          `json:"animate"`
}

// DeconflictionResponse is the body returned by a successful run.
type DeconflictionResponse struct {
	SimulationID   string                `json:"simulation_id"`
	MissionStatus  string                `json:"mission_status"`
	ConflictsFound bool                  `json:"conflicts_found"`
	TotalConflicts int                   `json:"total_conflicts"`
	Conflicts      []core.ConflictRecord `json:"conflicts"`
}

type sampleDataResponse struct {
	Status string `json:"status"`
	Data   struct {
		PrimaryMission   core.Mission  `json:"primary_mission"`
		SimulatedFlights []core.Flight `json:"simulated_flights"`
	} `json:"data"`
	Message string `json:"message"`
}

type simulationsResponse struct {
	Status      string                   `json:"status"`
	Simulations []core.SimulationSummary `json:"simulations"`
}

type simulationDetailResponse struct {
	Status     string                `json:"status"`
	Simulation core.SimulationResult `json:"simulation"`
}

// ResimulateResponse carries the id of the recomputed run when the service
// reports one.
type ResimulateResponse struct {
	Status         string `json:"status"`
	SimulationID   string `json:"simulation_id"`
	ConflictsFound bool   `json:"conflicts_found"`
	TotalConflicts int    `json:"total_conflicts"`
}

// GenerateSample requests a service-generated example mission and flight set.
func (c *Client) GenerateSample(ctx context.Context) (core.Mission, []core.Flight, error) {
	const op = "generate-sample"

	var resp sampleDataResponse
	if err := c.post(ctx, "/api/generate-sample-data", nil, &resp); err != nil {
		return core.Mission{}, nil, &core.ServiceUnavailableError{Op: op, Err: err}
	}
	return resp.Data.PrimaryMission, resp.Data.SimulatedFlights, nil
}

// RunDeconfliction submits a mission and flight set for conflict analysis.
func (c *Client) RunDeconfliction(ctx context.Context, req DeconflictionRequest) (DeconflictionResponse, error) {
	const op = "run-deconfliction"

	var resp DeconflictionResponse
	if err := c.post(ctx, "/api/run-deconfliction", req, &resp); err != nil {
		return DeconflictionResponse{}, &core.ServiceUnavailableError{Op: op, Err: err}
	}
	return resp, nil
}

// ListSimulations fetches summaries of all known runs, in service order.
func (c *Client) ListSimulations(ctx context.Context) ([]core.SimulationSummary, error) {
	const op = "list-simulations"

	var resp simulationsResponse
	if err := c.get(ctx, "/api/simulations", &resp); err != nil {
		return nil, &core.ServiceUnavailableError{Op: op, Err: err}
	}
	return resp.Simulations, nil
}

// GetSimulation fetches the full record for one run. A service 404 maps to
// NotFoundError so callers can distinguish "unknown id" from "unreachable".
func (c *Client) GetSimulation(ctx context.Context, id string) (*core.SimulationResult, error) {
	const op = "get-simulation"

	var resp simulationDetailResponse
	err := c.get(ctx, "/api/simulation/"+id, &resp)
	if err != nil {
		var se statusError
		if asStatusError(err, &se) && se.code == http.StatusNotFound {
			return nil, &core.NotFoundError{ID: id}
		}
		return nil, &core.ServiceUnavailableError{Op: op, Err: err}
	}
	return &resp.Simulation, nil
}

// Resimulate asks the service to recompute an existing run end to end.
func (c *Client) Resimulate(ctx context.Context, id string) (ResimulateResponse, error) {
	const op = "resimulate"

	var resp ResimulateResponse
	err := c.post(ctx, "/api/resimulate/"+id, nil, &resp)
	if err != nil {
		var se statusError
		if asStatusError(err, &se) && se.code == http.StatusNotFound {
			return ResimulateResponse{}, &core.NotFoundError{ID: id}
		}
		return ResimulateResponse{}, &core.ServiceUnavailableError{Op: op, Err: err}
	}
	return resp, nil
}

// VisualizeURL resolves the external view URL for a simulation. mode is "2d"
// or "4d". The view is opened in a browser, never parsed here.
func (c *Client) VisualizeURL(id, mode string) string {
	return fmt.Sprintf("%s/api/visualize-%s/%s", c.baseURL, mode, id)
}

// statusError marks a non-2xx response so callers can inspect the code.
type statusError struct {
	code int
	body string
}

func (e statusError) Error() string {
	return fmt.Sprintf("service returned status %d: %s", e.code, e.body)
}

func asStatusError(err error, target *statusError) bool {
	se, ok := err.(statusError)
	if ok {
		*target = se
	}
	return ok
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError{code: resp.StatusCode, body: strings.TrimSpace(string(raw))}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
