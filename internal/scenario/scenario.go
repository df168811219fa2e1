// Package scenario turns a config.Model into the frozen application, the
// frozen topology and the placement policy that a deployment needs.
package scenario

import (
	"context"
	"fmt"

	"github.com/vk/fogplace/internal/appgraph"
	"github.com/vk/fogplace/internal/config"
	"github.com/vk/fogplace/internal/ctxlog"
	"github.com/vk/fogplace/internal/placement"
	"github.com/vk/fogplace/internal/topology"
)

// Scenario is a fully built deployment scenario.
type Scenario struct {
	Application *appgraph.Application
	Topology    *topology.Topology
	Policy      placement.Policy
}

// Build validates m and builds every part of the scenario. Nothing partial is
// returned on error.
func Build(ctx context.Context, m *config.Model) (*Scenario, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx).With("application", m.Application.ID)
	ctx = ctxlog.WithLogger(ctx, logger)

	app, err := BuildApplication(ctx, m.Application)
	if err != nil {
		return nil, fmt.Errorf("building application %q: %w", m.Application.ID, err)
	}
	topo, err := BuildTopology(ctx, m.Devices)
	if err != nil {
		return nil, fmt.Errorf("building topology: %w", err)
	}
	policy, err := BuildPolicy(m.Placement)
	if err != nil {
		return nil, err
	}
	logger.Debug("Scenario built.", "modules", len(app.Modules()), "devices", topo.Len(), "policy", policy.Name())
	return &Scenario{Application: app, Topology: topo, Policy: policy}, nil
}

// BuildApplication feeds a config application through an appgraph.Builder.
func BuildApplication(ctx context.Context, a *config.Application) (*appgraph.Application, error) {
	b := appgraph.NewBuilder(a.ID)
	for _, m := range a.Modules {
		if err := b.AddModule(m.Name, m.Memory); err != nil {
			return nil, err
		}
	}
	for _, e := range a.Edges {
		edge := appgraph.Edge{
			Source:      e.Source,
			Destination: e.Destination,
			Cost:        e.Cost,
			DataSize:    e.DataSize,
			TupleType:   e.TupleType,
		}
		if e.Direction != "" {
			dir, err := appgraph.ParseDirection(e.Direction)
			if err != nil {
				return nil, err
			}
			edge.Direction = dir
		}
		if e.Role != "" {
			role, err := appgraph.ParseRole(e.Role)
			if err != nil {
				return nil, err
			}
			edge.Role = role
		}
		if err := b.AddEdge(edge); err != nil {
			return nil, err
		}
	}
	for _, tm := range a.TupleMappings {
		if err := b.AddTupleMapping(tm.Module, tm.Input, tm.Output, tm.Selectivity); err != nil {
			return nil, err
		}
	}
	for _, l := range a.Loops {
		if err := b.AddLoop(l.Modules); err != nil {
			return nil, err
		}
	}
	return b.Build(ctx)
}

// BuildTopology creates every device, attaches each under its named parent
// and binds sensors and actuators to their device.
func BuildTopology(ctx context.Context, devices []*config.Device) (*topology.Topology, error) {
	b := topology.NewBuilder()
	handles := make(map[string]*topology.Device, len(devices))
	for _, d := range devices {
		h, err := b.CreateDevice(deviceSpec(d))
		if err != nil {
			return nil, err
		}
		handles[d.Name] = h
	}

	for _, d := range devices {
		if d.Parent == "" {
			continue
		}
		parent, ok := handles[d.Parent]
		if !ok {
			return nil, fmt.Errorf("device %q: parent: %w", d.Name, &topology.UnknownDeviceError{ID: topology.NoParent, Name: d.Parent})
		}
		if err := b.AttachChild(parent.ID, handles[d.Name], d.UplinkLatency); err != nil {
			return nil, err
		}
	}

	for _, d := range devices {
		hub := handles[d.Name].ID
		for _, s := range d.Sensors {
			spec := topology.SensorSpec{
				Name:         s.Name,
				TupleType:    s.TupleType,
				Latency:      s.Latency,
				Distribution: distribution(s.Distribution),
			}
			if _, err := b.AttachSensor(spec, hub); err != nil {
				return nil, err
			}
		}
		for _, a := range d.Actuators {
			spec := topology.ActuatorSpec{Name: a.Name, ActuatorType: a.ActuatorType, Latency: a.Latency}
			if _, err := b.AttachActuator(spec, hub); err != nil {
				return nil, err
			}
		}
	}
	return b.Build(ctx)
}

// BuildPolicy maps the placement section onto a policy. A nil section means
// edgeward with no pinned modules.
func BuildPolicy(p *config.Placement) (placement.Policy, error) {
	mapping := placement.ModuleMapping{}
	if p != nil {
		for _, entry := range p.Mapping {
			mapping.Add(entry.Module, entry.Devices...)
		}
	}

	switch p.PolicyName() {
	case config.PolicyFixed:
		return placement.NewFixed(mapping), nil
	case config.PolicyEdgeward:
		var opts []placement.Option
		if len(mapping) > 0 {
			opts = append(opts, placement.WithOverrides(mapping))
		}
		if p != nil && p.BoundedRoot {
			opts = append(opts, placement.WithBoundedRoot())
		}
		return placement.NewEdgeward(opts...), nil
	default:
		return nil, fmt.Errorf("unknown placement policy %q: must be %q or %q", p.PolicyName(), config.PolicyEdgeward, config.PolicyFixed)
	}
}

func deviceSpec(d *config.Device) topology.DeviceSpec {
	return topology.DeviceSpec{
		Name:           d.Name,
		MIPS:           d.MIPS,
		RAM:            d.RAM,
		UpBW:           d.UpBW,
		DownBW:         d.DownBW,
		RatePerMIPS:    d.RatePerMIPS,
		BusyPower:      d.BusyPower,
		IdlePower:      d.IdlePower,
		Storage:        d.Storage,
		Cost:           d.Cost,
		CostPerMemory:  d.CostPerMemory,
		CostPerStorage: d.CostPerStorage,
		CostPerBW:      d.CostPerBW,
	}
}

func distribution(d *config.Distribution) topology.Distribution {
	if d == nil {
		return nil
	}
	switch d.Kind {
	case "normal":
		return topology.Normal{Mu: d.Mu, Sigma: d.Sigma}
	case "uniform":
		return topology.Uniform{Min: d.Min, Max: d.Max}
	default:
		return topology.Deterministic{Value: d.Value}
	}
}
