package appgraph

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyLoop is returned by AddLoop for a loop without modules.
	ErrEmptyLoop = errors.New("loop must name at least one module")
	// ErrNegativeRequirement is returned by AddModule for a negative memory requirement.
	ErrNegativeRequirement = errors.New("module memory requirement must not be negative")
	// ErrFrozen is returned by any Builder method called after a successful Build.
	ErrFrozen = errors.New("application builder is frozen after build")
)

// DuplicateModuleError reports a second AddModule with an existing name.
type DuplicateModuleError struct {
	Module string
}

func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("module %q is already declared", e.Module)
}

// UnknownEndpointError reports an edge where no endpoint resolves to a
// declared module or a physical endpoint label.
type UnknownEndpointError struct {
	Source      string
	Destination string
	Role        Role
}

func (e *UnknownEndpointError) Error() string {
	return fmt.Sprintf("%s edge %q -> %q: no endpoint is a declared module or physical endpoint", e.Role, e.Source, e.Destination)
}

// UnknownModuleReferenceError reports a reference to a module that was never declared.
type UnknownModuleReferenceError struct {
	Module string
	// Referrer describes where the reference came from, e.g. an edge or loop.
	Referrer string
}

func (e *UnknownModuleReferenceError) Error() string {
	if e.Referrer == "" {
		return fmt.Sprintf("reference to undeclared module %q", e.Module)
	}
	return fmt.Sprintf("%s references undeclared module %q", e.Referrer, e.Module)
}

// InvalidSelectivityError reports a selectivity outside [0,1].
type InvalidSelectivityError struct {
	Module      string
	Input       string
	Output      string
	Selectivity float64
}

func (e *InvalidSelectivityError) Error() string {
	return fmt.Sprintf("tuple mapping %s: %s -> %s has selectivity %v outside [0,1]", e.Module, e.Input, e.Output, e.Selectivity)
}

// UnreachableModuleError reports a graph that is not wired from sensors to actuators.
// Module is empty when the failure concerns the graph as a whole.
type UnreachableModuleError struct {
	Module string
	Reason string
}

func (e *UnreachableModuleError) Error() string {
	if e.Module == "" {
		return fmt.Sprintf("unreachable application graph: %s", e.Reason)
	}
	return fmt.Sprintf("module %q is unreachable: %s", e.Module, e.Reason)
}
