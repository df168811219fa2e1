package placement

import (
	"context"
	"slices"
	"time"

	"github.com/vk/fogplace/internal/appgraph"
	"github.com/vk/fogplace/internal/ctxlog"
	"github.com/vk/fogplace/internal/topology"
)

// EdgewardName is the policy name reported by Edgeward.
const EdgewardName = "edgeward"

// Edgeward places endpoint-bound modules on every hub whose sensors or
// actuators use them, then places each interior module, per hub, on the first
// device of the hub's path to the root with enough remaining memory.
//
// Hubs are visited in ascending id order and modules in declaration order.
// Nothing is reconsidered once placed, so the result is deterministic.
type Edgeward struct {
	overrides   ModuleMapping
	boundedRoot bool
}

// Option configures an Edgeward policy.
type Option func(*Edgeward)

// WithOverrides pins the listed modules to the given devices without a
// capacity check. Their memory still counts against those devices.
func WithOverrides(m ModuleMapping) Option {
	return func(e *Edgeward) { e.overrides = cloneMapping(m) }
}

// WithBoundedRoot makes the root honor its memory capacity like any other
// device. By default the root accepts anything.
func WithBoundedRoot() Option {
	return func(e *Edgeward) { e.boundedRoot = true }
}

// NewEdgeward returns an Edgeward policy.
func NewEdgeward(opts ...Option) *Edgeward {
	e := &Edgeward{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements Policy.
func (e *Edgeward) Name() string { return EdgewardName }

// resolution holds the per-call working state.
type resolution struct {
	app       *appgraph.Application
	topo      *topology.Topology
	remaining map[topology.DeviceID]int
	root      topology.DeviceID
	bounded   bool
	placement *Placement
}

func (r *resolution) fits(d topology.DeviceID, memory int) bool {
	if d == r.root && !r.bounded {
		return true
	}
	return r.remaining[d] >= memory
}

func (r *resolution) place(m appgraph.Module, d topology.DeviceID) {
	if r.placement.add(m.Name, d) {
		r.remaining[d] -= m.Memory
	}
}

// Resolve implements Policy.
func (e *Edgeward) Resolve(ctx context.Context, app *appgraph.Application, topo *topology.Topology) (p *Placement, err error) {
	start := time.Now()
	defer func() { record(EdgewardName, start, p, topo, err) }()

	logger := ctxlog.FromContext(ctx).With("policy", EdgewardName)
	r := &resolution{
		app:       app,
		topo:      topo,
		remaining: make(map[topology.DeviceID]int, topo.Len()),
		root:      topo.Root().ID,
		bounded:   e.boundedRoot,
		placement: newPlacement(EdgewardName),
	}
	for _, d := range topo.Devices() {
		r.remaining[d.ID] = d.RAM
	}

	modules := app.Modules()
	hubs := r.hubsUsing(app)
	logger.Debug("Resolve: Starting.", "modules", len(modules), "hubs", len(hubs))

	pinned := make(map[string]bool)
	for _, m := range modules {
		targets, ok := e.overrides[m.Name]
		if !ok || len(targets) == 0 {
			continue
		}
		for _, name := range targets {
			d, ok := topo.DeviceByName(name)
			if !ok {
				return nil, &topology.UnknownDeviceError{ID: topology.NoParent, Name: name}
			}
			r.place(m, d.ID)
			logger.Debug("Resolve: Module pinned.", "module", m.Name, "device", d.Name)
		}
		pinned[m.Name] = true
	}

	for _, m := range modules {
		if pinned[m.Name] || !app.IsEndpointBound(m.Name) {
			continue
		}
		if err := r.placeAtHubs(ctx, m, hubs); err != nil {
			return nil, err
		}
	}

	for _, m := range modules {
		if pinned[m.Name] || app.IsEndpointBound(m.Name) {
			continue
		}
		if err := r.placeAlongPaths(ctx, m, hubs); err != nil {
			return nil, err
		}
	}

	logger.Debug("Resolve: Finished.", "assignments", r.placement.Len())
	return r.placement, nil
}

// placeAtHubs puts an endpoint-bound module on every hub whose endpoints use it.
func (r *resolution) placeAtHubs(ctx context.Context, m appgraph.Module, hubs []topology.DeviceID) error {
	logger := ctxlog.FromContext(ctx)
	placed := false
	for _, hub := range hubs {
		if !r.hubUses(hub, m.Name) {
			continue
		}
		d, _ := r.topo.Device(hub)
		if !r.fits(hub, m.Memory) {
			return &InsufficientResourceError{Module: m.Name, Memory: m.Memory, Path: []string{d.Name}}
		}
		r.place(m, hub)
		placed = true
		logger.Debug("Resolve: Endpoint module placed at hub.", "module", m.Name, "hub", d.Name)
	}
	if !placed {
		return &InsufficientResourceError{Module: m.Name, Memory: m.Memory, Unused: true}
	}
	return nil
}

// placeAlongPaths ascends from every hub and places m at the first device
// that already hosts it or has room for it.
func (r *resolution) placeAlongPaths(ctx context.Context, m appgraph.Module, hubs []topology.DeviceID) error {
	logger := ctxlog.FromContext(ctx)
	for _, hub := range hubs {
		path := r.topo.PathToRoot(hub)
		placed := false
		for _, id := range path {
			if r.hosts(id, m.Name) {
				placed = true
				break
			}
			if r.fits(id, m.Memory) {
				r.place(m, id)
				placed = true
				d, _ := r.topo.Device(id)
				logger.Debug("Resolve: Interior module placed.", "module", m.Name, "device", d.Name, "hub", hub)
				break
			}
		}
		if !placed {
			return &InsufficientResourceError{Module: m.Name, Memory: m.Memory, Path: r.names(path)}
		}
	}
	if len(hubs) == 0 {
		return &InsufficientResourceError{Module: m.Name, Memory: m.Memory, Unused: true}
	}
	return nil
}

// hubsUsing returns, in id order, the hubs with at least one endpoint whose
// label appears on an edge of app.
func (r *resolution) hubsUsing(app *appgraph.Application) []topology.DeviceID {
	var out []topology.DeviceID
	for _, hub := range r.topo.Hubs() {
		for _, m := range app.Modules() {
			if r.hubUses(hub, m.Name) {
				out = append(out, hub)
				break
			}
		}
	}
	return out
}

// hubUses reports whether a sensor or actuator at hub is wired to module.
func (r *resolution) hubUses(hub topology.DeviceID, module string) bool {
	for _, s := range r.topo.SensorsAt(hub) {
		if slices.Contains(r.app.ModulesFedBySensor(s.TupleType), module) {
			return true
		}
	}
	for _, a := range r.topo.ActuatorsAt(hub) {
		if slices.Contains(r.app.ModulesDrivingActuator(a.ActuatorType), module) {
			return true
		}
	}
	return false
}

func (r *resolution) hosts(d topology.DeviceID, module string) bool {
	return slices.Contains(r.placement.ModulesOn(d), module)
}

func (r *resolution) names(path []topology.DeviceID) []string {
	out := make([]string, 0, len(path))
	for _, id := range path {
		d, _ := r.topo.Device(id)
		out = append(out, d.Name)
	}
	return out
}
