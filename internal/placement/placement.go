package placement

import (
	"context"
	"slices"

	"github.com/vk/fogplace/internal/appgraph"
	"github.com/vk/fogplace/internal/topology"
)

// Policy computes a Placement for a frozen application and topology. Resolve
// never mutates either input and keeps all capacity bookkeeping local to the
// call, so one Policy may be used concurrently.
type Policy interface {
	Name() string
	Resolve(ctx context.Context, app *appgraph.Application, topo *topology.Topology) (*Placement, error)
}

// Assignment places one instance of a module on a device.
type Assignment struct {
	Module string
	Device topology.DeviceID
}

// Placement is the result of one resolution. Every module of the application
// has at least one assignment; modules serving several hubs may have one per
// hub. It holds no identity across runs.
type Placement struct {
	policy      string
	assignments []Assignment
}

func newPlacement(policy string) *Placement {
	return &Placement{policy: policy}
}

// add records module on device unless that exact pair is already present.
func (p *Placement) add(module string, device topology.DeviceID) bool {
	a := Assignment{Module: module, Device: device}
	if slices.Contains(p.assignments, a) {
		return false
	}
	p.assignments = append(p.assignments, a)
	return true
}

// Policy returns the name of the policy that produced p.
func (p *Placement) Policy() string { return p.policy }

// Len returns the number of assignments.
func (p *Placement) Len() int { return len(p.assignments) }

// Assignments returns the assignments in resolution order.
func (p *Placement) Assignments() []Assignment {
	return append([]Assignment(nil), p.assignments...)
}

// DevicesFor returns the devices hosting module, in resolution order.
func (p *Placement) DevicesFor(module string) []topology.DeviceID {
	var out []topology.DeviceID
	for _, a := range p.assignments {
		if a.Module == module {
			out = append(out, a.Device)
		}
	}
	return out
}

// ModulesOn returns the modules hosted by device, in resolution order.
func (p *Placement) ModulesOn(device topology.DeviceID) []string {
	var out []string
	for _, a := range p.assignments {
		if a.Device == device {
			out = append(out, a.Module)
		}
	}
	return out
}

// Equal reports whether p and other hold the same assignments in the same order.
func (p *Placement) Equal(other *Placement) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.policy == other.policy && slices.Equal(p.assignments, other.assignments)
}

// countsByName returns the number of assignments per device name.
func (p *Placement) countsByName(topo *topology.Topology) map[string]int {
	counts := make(map[string]int)
	for _, a := range p.assignments {
		if d, ok := topo.Device(a.Device); ok {
			counts[d.Name]++
		}
	}
	return counts
}
