package topology

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFrozen is returned by any Builder method called after a successful Build.
var ErrFrozen = errors.New("topology builder is frozen after build")

// UnknownDeviceError reports a device id or name that does not resolve.
type UnknownDeviceError struct {
	ID   DeviceID
	Name string
}

func (e *UnknownDeviceError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("unknown device %q", e.Name)
	}
	return fmt.Sprintf("unknown device #%d", e.ID)
}

// LevelViolationError reports an attachment that would break the tree or
// the parent/child level invariant.
type LevelViolationError struct {
	Device string
	Reason string
}

func (e *LevelViolationError) Error() string {
	return fmt.Sprintf("device %q: %s", e.Device, e.Reason)
}

// MultipleRootsError reports more than one device without a parent.
type MultipleRootsError struct {
	Roots []string
}

func (e *MultipleRootsError) Error() string {
	return fmt.Sprintf("topology has %d roots: %s", len(e.Roots), strings.Join(e.Roots, ", "))
}

// NoRootError reports a topology without any parentless device.
type NoRootError struct{}

func (e *NoRootError) Error() string { return "topology has no root device" }

// DuplicateDeviceError reports a second device with an existing name.
type DuplicateDeviceError struct {
	Name string
}

func (e *DuplicateDeviceError) Error() string {
	return fmt.Sprintf("device %q is already declared", e.Name)
}

// InvalidDeviceSpecError wraps a struct validation failure of a device,
// sensor or actuator spec.
type InvalidDeviceSpecError struct {
	Name string
	Err  error
}

func (e *InvalidDeviceSpecError) Error() string {
	return fmt.Sprintf("invalid spec %q: %v", e.Name, e.Err)
}

func (e *InvalidDeviceSpecError) Unwrap() error { return e.Err }
