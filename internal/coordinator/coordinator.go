// Package coordinator bundles a frozen application, topology and placement and
// hands the bundle to a simulation kernel.
package coordinator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vk/fogplace/internal/appgraph"
	"github.com/vk/fogplace/internal/ctxlog"
	"github.com/vk/fogplace/internal/metrics"
	"github.com/vk/fogplace/internal/placement"
	"github.com/vk/fogplace/internal/topology"
)

// Kernel is the submission interface of a simulation kernel. The kernel is
// trusted to reject malformed bundles.
type Kernel interface {
	Name() string
	SubmitApplication(ctx context.Context, b *Bundle) error
}

// Bundle is the unit handed to a Kernel.
type Bundle struct {
	ID          string
	CreatedAt   time.Time
	Application *appgraph.Application
	Topology    *topology.Topology
	Placement   *placement.Placement
}

// Coordinator forwards bundles to one kernel.
type Coordinator struct {
	kernel Kernel
	now    func() time.Time
	newID  func() string
}

// New returns a Coordinator submitting to k.
func New(k Kernel) *Coordinator {
	return &Coordinator{
		kernel: k,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// Submit bundles the three structures and forwards them to the kernel as-is.
// It does not check that the placement matches the application or topology.
func (c *Coordinator) Submit(ctx context.Context, app *appgraph.Application, topo *topology.Topology, p *placement.Placement) (*Bundle, error) {
	b := &Bundle{
		ID:          c.newID(),
		CreatedAt:   c.now(),
		Application: app,
		Topology:    topo,
		Placement:   p,
	}
	logger := ctxlog.FromContext(ctx).With("bundle", b.ID, "kernel", c.kernel.Name())
	logger.Info("Submitting bundle to kernel.")

	err := c.kernel.SubmitApplication(ctx, b)
	metrics.RecordSubmission(c.kernel.Name(), err)
	if err != nil {
		logger.Error("Kernel refused bundle.", "error", err)
		return nil, fmt.Errorf("kernel %s refused bundle %s: %w", c.kernel.Name(), b.ID, err)
	}
	logger.Info("Bundle accepted.")
	return b, nil
}

// Deploy resolves app onto topo with policy and submits the result. It is the
// counterpart of a kernel entry point that takes an application together with
// a placement strategy.
func (c *Coordinator) Deploy(ctx context.Context, app *appgraph.Application, topo *topology.Topology, policy placement.Policy) (*Bundle, error) {
	p, err := policy.Resolve(ctx, app, topo)
	if err != nil {
		return nil, fmt.Errorf("resolving %q with %s placement: %w", app.ID(), policy.Name(), err)
	}
	ctxlog.FromContext(ctx).Info("Placement resolved.", "application", app.ID(), "policy", policy.Name(), "assignments", p.Len())
	return c.Submit(ctx, app, topo, p)
}
