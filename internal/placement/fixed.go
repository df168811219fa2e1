package placement

import (
	"context"
	"time"

	"github.com/vk/fogplace/internal/appgraph"
	"github.com/vk/fogplace/internal/ctxlog"
	"github.com/vk/fogplace/internal/metrics"
	"github.com/vk/fogplace/internal/topology"
)

// FixedName is the policy name reported by Fixed.
const FixedName = "fixed"

// Fixed places every module exactly where its ModuleMapping says. Capacity is
// not checked.
type Fixed struct {
	mapping ModuleMapping
}

// NewFixed returns a Fixed policy over a copy of mapping.
func NewFixed(mapping ModuleMapping) *Fixed {
	return &Fixed{mapping: cloneMapping(mapping)}
}

// Name implements Policy.
func (f *Fixed) Name() string { return FixedName }

// Resolve implements Policy.
func (f *Fixed) Resolve(ctx context.Context, app *appgraph.Application, topo *topology.Topology) (p *Placement, err error) {
	start := time.Now()
	defer func() { record(FixedName, start, p, topo, err) }()

	logger := ctxlog.FromContext(ctx).With("policy", FixedName)
	p = newPlacement(FixedName)
	for _, m := range app.Modules() {
		targets := f.mapping[m.Name]
		if len(targets) == 0 {
			return nil, &UnmappedModuleError{Module: m.Name}
		}
		for _, name := range targets {
			d, ok := topo.DeviceByName(name)
			if !ok {
				return nil, &topology.UnknownDeviceError{ID: topology.NoParent, Name: name}
			}
			p.add(m.Name, d.ID)
			logger.Debug("Resolve: Module mapped.", "module", m.Name, "device", d.Name)
		}
	}
	return p, nil
}

func cloneMapping(m ModuleMapping) ModuleMapping {
	out := make(ModuleMapping, len(m))
	for k, v := range m {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// record publishes the outcome of a resolve call.
func record(policy string, start time.Time, p *Placement, topo *topology.Topology, err error) {
	metrics.RecordResolution(policy, time.Since(start).Seconds(), err)
	if err == nil && p != nil {
		metrics.SetAssignedModules(p.countsByName(topo))
	}
}
