package appgraph

import (
	"fmt"
	"strings"
)

// Direction tags the flow of tuples along an edge relative to the device tree.
type Direction int

const (
	Upstream Direction = iota
	Downstream
)

func (d Direction) String() string {
	switch d {
	case Upstream:
		return "upstream"
	case Downstream:
		return "downstream"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection accepts "upstream"/"up" and "downstream"/"down".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "upstream", "up":
		return Upstream, nil
	case "downstream", "down":
		return Downstream, nil
	}
	return 0, fmt.Errorf("invalid edge direction %q: must be 'upstream' or 'downstream'", s)
}

// Role says which ends of an edge are physical endpoints.
type Role int

const (
	// ModuleToModule connects two declared modules.
	ModuleToModule Role = iota
	// SensorSource starts at a sensor type label and ends at a module.
	SensorSource
	// ActuatorSink starts at a module and ends at an actuator type label.
	ActuatorSink
)

func (r Role) String() string {
	switch r {
	case ModuleToModule:
		return "module-to-module"
	case SensorSource:
		return "sensor-source"
	case ActuatorSink:
		return "actuator-sink"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ParseRole accepts the canonical role names plus the short forms "module", "sensor" and "actuator".
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(s) {
	case "module-to-module", "module":
		return ModuleToModule, nil
	case "sensor-source", "sensor":
		return SensorSource, nil
	case "actuator-sink", "actuator":
		return ActuatorSink, nil
	}
	return 0, fmt.Errorf("invalid edge role %q: must be 'module-to-module', 'sensor-source' or 'actuator-sink'", s)
}

// ModuleID is the registry index of a module inside one Application.
type ModuleID int

// Module is a unit of application logic with a resident memory requirement.
type Module struct {
	ID     ModuleID
	Name   string
	Memory int
}

// Edge is a directed, typed data link between two graph nodes.
type Edge struct {
	Source      string
	Destination string
	Cost        float64
	DataSize    float64
	TupleType   string
	Direction   Direction
	Role        Role
}

// ExternalSource reports whether Source is a sensor type label rather than a module.
func (e Edge) ExternalSource() bool { return e.Role == SensorSource }

// ExternalDestination reports whether Destination is an actuator type label rather than a module.
func (e Edge) ExternalDestination() bool { return e.Role == ActuatorSink }

func (e Edge) String() string {
	return fmt.Sprintf("%s -[%s/%s]-> %s", e.Source, e.TupleType, e.Role, e.Destination)
}

// TupleMapping says that Module, on consuming an Input tuple, emits an Output
// tuple with probability Selectivity.
type TupleMapping struct {
	Module      string
	Input       string
	Output      string
	Selectivity float64
}

// Loop is an ordered module path monitored for end-to-end latency.
type Loop struct {
	Modules []string
}

func (l Loop) String() string {
	return strings.Join(l.Modules, " -> ")
}
