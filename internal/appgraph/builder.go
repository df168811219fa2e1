package appgraph

import (
	"context"
	"fmt"
	"math"

	"github.com/vk/fogplace/internal/ctxlog"
)

// Builder accumulates the pieces of an application. It is not safe for
// concurrent use; build one application per goroutine.
type Builder struct {
	appID    string
	modules  []Module
	index    map[string]ModuleID
	edges    []Edge
	mappings []TupleMapping
	loops    []Loop
	frozen   bool
}

// NewBuilder returns an empty builder for the application appID.
func NewBuilder(appID string) *Builder {
	return &Builder{
		appID: appID,
		index: make(map[string]ModuleID),
	}
}

// AddModule declares a module and its memory requirement.
func (b *Builder) AddModule(name string, memory int) error {
	if b.frozen {
		return ErrFrozen
	}
	if _, exists := b.index[name]; exists {
		return &DuplicateModuleError{Module: name}
	}
	if memory < 0 {
		return fmt.Errorf("module %q: %w", name, ErrNegativeRequirement)
	}
	id := ModuleID(len(b.modules))
	b.modules = append(b.modules, Module{ID: id, Name: name, Memory: memory})
	b.index[name] = id
	return nil
}

// AddEdge records a directed edge. Endpoints on the physical side of the
// edge's role (the source of a sensor-source edge, the destination of an
// actuator-sink edge) are labels, not modules. The edge is rejected only when
// neither endpoint resolves; the remaining references are checked by Build so
// edges may be declared before their modules.
func (b *Builder) AddEdge(e Edge) error {
	if b.frozen {
		return ErrFrozen
	}
	if e.Source == "" || e.Destination == "" {
		return &UnknownEndpointError{Source: e.Source, Destination: e.Destination, Role: e.Role}
	}
	_, srcDeclared := b.index[e.Source]
	_, dstDeclared := b.index[e.Destination]
	if !srcDeclared && !dstDeclared && !e.ExternalSource() && !e.ExternalDestination() {
		return &UnknownEndpointError{Source: e.Source, Destination: e.Destination, Role: e.Role}
	}
	b.edges = append(b.edges, e)
	return nil
}

// AddTupleMapping records that module turns input tuples into output tuples
// at the given selectivity.
func (b *Builder) AddTupleMapping(module, input, output string, selectivity float64) error {
	if b.frozen {
		return ErrFrozen
	}
	if _, ok := b.index[module]; !ok {
		return &UnknownModuleReferenceError{Module: module, Referrer: "tuple mapping"}
	}
	if math.IsNaN(selectivity) || selectivity < 0 || selectivity > 1 {
		return &InvalidSelectivityError{Module: module, Input: input, Output: output, Selectivity: selectivity}
	}
	b.mappings = append(b.mappings, TupleMapping{
		Module:      module,
		Input:       input,
		Output:      output,
		Selectivity: selectivity,
	})
	return nil
}

// AddLoop stores a monitored module path verbatim.
func (b *Builder) AddLoop(modules []string) error {
	if b.frozen {
		return ErrFrozen
	}
	if len(modules) == 0 {
		return ErrEmptyLoop
	}
	b.loops = append(b.loops, Loop{Modules: append([]string(nil), modules...)})
	return nil
}

// Build validates the whole graph and returns the frozen Application. On
// failure no Application is returned and the builder stays open.
func (b *Builder) Build(ctx context.Context) (*Application, error) {
	if b.frozen {
		return nil, ErrFrozen
	}
	logger := ctxlog.FromContext(ctx).With("app_id", b.appID)
	logger.Debug("Build: Starting application validation.", "modules", len(b.modules), "edges", len(b.edges))

	if err := b.resolveEdges(); err != nil {
		return nil, err
	}
	logger.Debug("Build: Edge endpoints resolved.")

	if err := b.resolveLoops(); err != nil {
		return nil, err
	}
	logger.Debug("Build: Loop references resolved.", "loops", len(b.loops))

	app := b.snapshot()
	if err := app.checkReachability(); err != nil {
		return nil, err
	}
	logger.Debug("Build: Reachability check passed.")

	b.frozen = true
	logger.Debug("Build: Application frozen.")
	return app, nil
}

// resolveEdges checks every module-side endpoint against the registry.
func (b *Builder) resolveEdges() error {
	for _, e := range b.edges {
		if !e.ExternalSource() {
			if _, ok := b.index[e.Source]; !ok {
				return &UnknownModuleReferenceError{Module: e.Source, Referrer: fmt.Sprintf("edge %s", e)}
			}
		}
		if !e.ExternalDestination() {
			if _, ok := b.index[e.Destination]; !ok {
				return &UnknownModuleReferenceError{Module: e.Destination, Referrer: fmt.Sprintf("edge %s", e)}
			}
		}
	}
	return nil
}

// resolveLoops accepts module names and physical endpoint labels.
func (b *Builder) resolveLoops() error {
	labels := make(map[string]struct{})
	for _, e := range b.edges {
		if e.ExternalSource() {
			labels[e.Source] = struct{}{}
		}
		if e.ExternalDestination() {
			labels[e.Destination] = struct{}{}
		}
	}
	for _, l := range b.loops {
		for _, name := range l.Modules {
			if _, ok := b.index[name]; ok {
				continue
			}
			if _, ok := labels[name]; ok {
				continue
			}
			return &UnknownModuleReferenceError{Module: name, Referrer: fmt.Sprintf("loop [%s]", l)}
		}
	}
	return nil
}

// snapshot copies the builder state into a new Application with its lookup indexes.
func (b *Builder) snapshot() *Application {
	app := &Application{
		id:        b.appID,
		modules:   append([]Module(nil), b.modules...),
		index:     make(map[string]ModuleID, len(b.index)),
		edges:     append([]Edge(nil), b.edges...),
		mappings:  append([]TupleMapping(nil), b.mappings...),
		loops:     make([]Loop, len(b.loops)),
		succ:      make(map[ModuleID][]ModuleID),
		sensors:   make(map[string][]ModuleID),
		actuators: make(map[string][]ModuleID),
	}
	for name, id := range b.index {
		app.index[name] = id
	}
	for i, l := range b.loops {
		app.loops[i] = Loop{Modules: append([]string(nil), l.Modules...)}
	}
	for _, e := range app.edges {
		switch e.Role {
		case SensorSource:
			app.sensors[e.Source] = appendUnique(app.sensors[e.Source], app.index[e.Destination])
		case ActuatorSink:
			app.actuators[e.Destination] = appendUnique(app.actuators[e.Destination], app.index[e.Source])
		default:
			from, to := app.index[e.Source], app.index[e.Destination]
			app.succ[from] = appendUnique(app.succ[from], to)
		}
	}
	return app
}

func appendUnique(ids []ModuleID, id ModuleID) []ModuleID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
