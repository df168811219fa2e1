package placement

import (
	"fmt"
	"strings"
)

// UnmappedModuleError reports a module with no entry in a fixed mapping.
type UnmappedModuleError struct {
	Module string
}

func (e *UnmappedModuleError) Error() string {
	return fmt.Sprintf("module %q has no entry in the module mapping", e.Module)
}

// InsufficientResourceError reports a module that fits on no device along
// the path that was searched. Path lists device names from the hub upward.
//
// Unused is set when no hub's sensors or actuators reach the module, so there
// was no path to search at all. Path is empty in that case.
type InsufficientResourceError struct {
	Module string
	Memory int
	Path   []string
	Unused bool
}

func (e *InsufficientResourceError) Error() string {
	if e.Unused {
		return fmt.Sprintf("module %q is not used by any hub's sensors or actuators", e.Module)
	}
	return fmt.Sprintf("module %q (memory %d) fits on no device along %s", e.Module, e.Memory, strings.Join(e.Path, " -> "))
}
