package appgraph

import "sort"

// Application is the frozen result of Builder.Build. All accessors return
// copies, so an Application can be shared read-only between goroutines.
type Application struct {
	id       string
	modules  []Module
	index    map[string]ModuleID
	edges    []Edge
	mappings []TupleMapping
	loops    []Loop

	// succ holds module-to-module adjacency.
	succ map[ModuleID][]ModuleID
	// sensors maps a sensor type label to the modules it feeds.
	sensors map[string][]ModuleID
	// actuators maps an actuator type label to the modules that drive it.
	actuators map[string][]ModuleID
}

// ID returns the application identifier given to NewBuilder.
func (a *Application) ID() string { return a.id }

// Modules returns all modules in declaration order.
func (a *Application) Modules() []Module {
	return append([]Module(nil), a.modules...)
}

// Module looks a module up by name.
func (a *Application) Module(name string) (Module, bool) {
	id, ok := a.index[name]
	if !ok {
		return Module{}, false
	}
	return a.modules[id], true
}

// Edges returns all edges in declaration order.
func (a *Application) Edges() []Edge {
	return append([]Edge(nil), a.edges...)
}

// TupleMappings returns all tuple mappings in declaration order.
func (a *Application) TupleMappings() []TupleMapping {
	return append([]TupleMapping(nil), a.mappings...)
}

// MappingsFor returns the tuple mappings of one module.
func (a *Application) MappingsFor(module string) []TupleMapping {
	var out []TupleMapping
	for _, m := range a.mappings {
		if m.Module == module {
			out = append(out, m)
		}
	}
	return out
}

// Loops returns a deep copy of the monitored loops.
func (a *Application) Loops() []Loop {
	out := make([]Loop, len(a.loops))
	for i, l := range a.loops {
		out[i] = Loop{Modules: append([]string(nil), l.Modules...)}
	}
	return out
}

// Successors returns the modules fed by module over module-to-module edges.
func (a *Application) Successors(module string) []string {
	id, ok := a.index[module]
	if !ok {
		return nil
	}
	return a.names(a.succ[id])
}

// SensorLabels returns the sorted sensor type labels used by sensor-source edges.
func (a *Application) SensorLabels() []string { return sortedKeys(a.sensors) }

// ActuatorLabels returns the sorted actuator type labels used by actuator-sink edges.
func (a *Application) ActuatorLabels() []string { return sortedKeys(a.actuators) }

// ModulesFedBySensor returns the modules wired to sensors of the given type label.
func (a *Application) ModulesFedBySensor(label string) []string {
	return a.names(a.sensors[label])
}

// ModulesDrivingActuator returns the modules wired to actuators of the given type label.
func (a *Application) ModulesDrivingActuator(label string) []string {
	return a.names(a.actuators[label])
}

// IsEndpointBound reports whether module is directly wired to a sensor-source
// or actuator-sink edge.
func (a *Application) IsEndpointBound(module string) bool {
	id, ok := a.index[module]
	if !ok {
		return false
	}
	for _, ids := range a.sensors {
		if containsID(ids, id) {
			return true
		}
	}
	for _, ids := range a.actuators {
		if containsID(ids, id) {
			return true
		}
	}
	return false
}

// checkReachability walks module-to-module edges from every module fed by a sensor.
func (a *Application) checkReachability() error {
	if len(a.sensors) == 0 {
		return &UnreachableModuleError{Reason: "no sensor-source edge declared"}
	}
	if len(a.actuators) == 0 {
		return &UnreachableModuleError{Reason: "no actuator-sink edge declared"}
	}

	visited := make(map[ModuleID]bool, len(a.modules))
	var queue []ModuleID
	for _, label := range a.SensorLabels() {
		for _, id := range a.sensors[label] {
			if !visited[id] {
				visited[id] = true
				queue = append(queue, id)
			}
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range a.succ[id] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	for _, m := range a.modules {
		if !visited[m.ID] {
			return &UnreachableModuleError{Module: m.Name, Reason: "no path from any sensor-source edge"}
		}
	}
	// Every actuator-sink source is a declared, now visited, module.
	return nil
}

func (a *Application) names(ids []ModuleID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = a.modules[id].Name
	}
	return out
}

func containsID(ids []ModuleID, id ModuleID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string][]ModuleID) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
