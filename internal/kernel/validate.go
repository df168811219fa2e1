package kernel

import (
	"fmt"

	"github.com/vk/fogplace/internal/coordinator"
)

// MalformedBundleError reports a bundle whose parts do not fit together.
type MalformedBundleError struct {
	BundleID string
	Reason   string
}

func (e *MalformedBundleError) Error() string {
	return fmt.Sprintf("malformed bundle %s: %s", e.BundleID, e.Reason)
}

// Validate checks that every part is present, that every assigned module is
// declared by the application, that every assigned device exists in the
// topology and that every module is placed.
func Validate(b *coordinator.Bundle) error {
	if b == nil {
		return &MalformedBundleError{Reason: "bundle is nil"}
	}
	malformed := func(format string, args ...any) error {
		return &MalformedBundleError{BundleID: b.ID, Reason: fmt.Sprintf(format, args...)}
	}
	switch {
	case b.Application == nil:
		return malformed("application is missing")
	case b.Topology == nil:
		return malformed("topology is missing")
	case b.Placement == nil:
		return malformed("placement is missing")
	}

	placed := make(map[string]bool)
	for _, a := range b.Placement.Assignments() {
		if _, ok := b.Application.Module(a.Module); !ok {
			return malformed("module %q is not declared by application %q", a.Module, b.Application.ID())
		}
		if _, ok := b.Topology.Device(a.Device); !ok {
			return malformed("module %q is assigned to unknown device #%d", a.Module, a.Device)
		}
		placed[a.Module] = true
	}
	for _, m := range b.Application.Modules() {
		if !placed[m.Name] {
			return malformed("module %q has no assignment", m.Name)
		}
	}
	return nil
}
