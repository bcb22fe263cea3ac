// Package visual resolves a simulation id to the service's rendered view and
// opens it in the system browser.
package visual

import (
	"context"
	"log/slog"

	"github.com/pkg/browser"

	"github.com/shivam675/sky-guardian-planner/internal/api"
	"github.com/shivam675/sky-guardian-planner/internal/registry"
)

// Dispatcher opens 2D and 4D visualizations for known simulations. The
// opener is injectable for tests; by default it launches the system browser.
type Dispatcher struct {
	client   *api.Client
	registry *registry.Registry
	open     func(url string) error
	log      *slog.Logger
}

// New creates a dispatcher using browser.OpenURL as the opener.
func New(client *api.Client, reg *registry.Registry, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		client:   client,
		registry: reg,
		open:     browser.OpenURL,
		log:      log,
	}
}

// SetOpener replaces the URL opener. Test hook.
func (d *Dispatcher) SetOpener(open func(url string) error) {
	d.open = open
}

// Open2D opens the top-down view for simulation id.
func (d *Dispatcher) Open2D(ctx context.Context, id string) error {
	return d.openView(ctx, id, "2d")
}

// Open4D opens the space-time view for simulation id.
func (d *Dispatcher) Open4D(ctx context.Context, id string) error {
	return d.openView(ctx, id, "4d")
}

// openView checks that id resolves to a known simulation, then hands the
// view URL to the opener. Whether the external view actually renders is not
// validated here.
func (d *Dispatcher) openView(ctx context.Context, id, mode string) error {
	if _, err := d.registry.Detail(ctx, id); err != nil {
		return err
	}

	url := d.client.VisualizeURL(id, mode)
	d.log.Info("opening visualization", "id", id, "mode", mode, "url", url)
	return d.open(url)
}
