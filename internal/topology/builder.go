package topology

import (
	"context"
	"fmt"

	"github.com/vk/fogplace/internal/ctxlog"
)

// Builder assembles a device tree. Devices are created detached and then
// attached exactly once under a parent. It is not safe for concurrent use.
type Builder struct {
	devices   []*Device
	attached  map[DeviceID]bool
	byName    map[string]DeviceID
	sensors   []Sensor
	actuators []Actuator
	frozen    bool
}

// NewBuilder returns an empty topology builder.
func NewBuilder() *Builder {
	return &Builder{
		attached: make(map[DeviceID]bool),
		byName:   make(map[string]DeviceID),
	}
}

// CreateDevice allocates a new device id and returns a handle to the
// detached device. The handle may be edited until Build, which checks the
// spec and name uniqueness again.
func (b *Builder) CreateDevice(spec DeviceSpec) (*Device, error) {
	if b.frozen {
		return nil, ErrFrozen
	}
	if err := checkSpec(spec.Name, spec); err != nil {
		return nil, err
	}
	if _, exists := b.byName[spec.Name]; exists {
		return nil, &DuplicateDeviceError{Name: spec.Name}
	}
	d := &Device{
		DeviceSpec: spec,
		ID:         DeviceID(len(b.devices)),
		Parent:     NoParent,
	}
	b.devices = append(b.devices, d)
	b.byName[spec.Name] = d.ID
	return d, nil
}

// AttachChild hangs child below parent. The child's level becomes the
// parent's level plus one, and so do the levels of anything already attached
// below the child. A device attaches at most once.
func (b *Builder) AttachChild(parent DeviceID, child *Device, uplinkLatency float64) error {
	if b.frozen {
		return ErrFrozen
	}
	p, err := b.lookup(parent)
	if err != nil {
		return err
	}
	if child == nil {
		return &UnknownDeviceError{ID: NoParent}
	}
	c, err := b.lookup(child.ID)
	if err != nil || c != child {
		return &UnknownDeviceError{ID: child.ID, Name: child.Name}
	}
	if b.attached[c.ID] {
		return &LevelViolationError{
			Device: c.Name,
			Reason: fmt.Sprintf("already attached under #%d, re-parenting to %q is not allowed", c.Parent, p.Name),
		}
	}
	if b.isDescendant(p.ID, c.ID) {
		return &LevelViolationError{Device: c.Name, Reason: fmt.Sprintf("attaching under %q would create a cycle", p.Name)}
	}

	c.Parent = p.ID
	c.UplinkLatency = uplinkLatency
	b.attached[c.ID] = true
	b.relevel(c.ID, p.Level+1)
	return nil
}

// AttachSensor binds a sensor to the hub device.
func (b *Builder) AttachSensor(spec SensorSpec, hub DeviceID) (Sensor, error) {
	if b.frozen {
		return Sensor{}, ErrFrozen
	}
	if _, err := b.lookup(hub); err != nil {
		return Sensor{}, err
	}
	if err := checkSpec(spec.Name, spec); err != nil {
		return Sensor{}, err
	}
	s := Sensor{SensorSpec: spec, Gateway: hub}
	b.sensors = append(b.sensors, s)
	return s, nil
}

// AttachActuator binds an actuator to the hub device.
func (b *Builder) AttachActuator(spec ActuatorSpec, hub DeviceID) (Actuator, error) {
	if b.frozen {
		return Actuator{}, ErrFrozen
	}
	if _, err := b.lookup(hub); err != nil {
		return Actuator{}, err
	}
	if err := checkSpec(spec.Name, spec); err != nil {
		return Actuator{}, err
	}
	a := Actuator{ActuatorSpec: spec, Gateway: hub}
	b.actuators = append(b.actuators, a)
	return a, nil
}

// Build re-validates every device spec and name, verifies there is exactly
// one root at level 0 and that every attached device sits one level below its
// parent, then returns the frozen Topology.
func (b *Builder) Build(ctx context.Context) (*Topology, error) {
	if b.frozen {
		return nil, ErrFrozen
	}
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting topology validation.", "devices", len(b.devices), "sensors", len(b.sensors), "actuators", len(b.actuators))

	byName := make(map[string]DeviceID, len(b.devices))
	var roots []string
	root := NoParent
	for _, d := range b.devices {
		if err := checkSpec(d.Name, d.DeviceSpec); err != nil {
			return nil, err
		}
		if _, exists := byName[d.Name]; exists {
			return nil, &DuplicateDeviceError{Name: d.Name}
		}
		byName[d.Name] = d.ID
		if d.Parent == NoParent {
			roots = append(roots, d.Name)
			root = d.ID
		}
	}
	switch {
	case len(roots) == 0:
		return nil, &NoRootError{}
	case len(roots) > 1:
		return nil, &MultipleRootsError{Roots: roots}
	}
	if r := b.devices[root]; r.Level != 0 {
		return nil, &LevelViolationError{Device: r.Name, Reason: fmt.Sprintf("root at level %d, expected 0", r.Level)}
	}
	logger.Debug("Build: Root found.", "root", b.devices[root].Name)

	topo := &Topology{
		devices:   make([]Device, len(b.devices)),
		byName:    byName,
		children:  make(map[DeviceID][]DeviceID),
		root:      root,
		sensors:   append([]Sensor(nil), b.sensors...),
		actuators: append([]Actuator(nil), b.actuators...),
	}
	for i, d := range b.devices {
		topo.devices[i] = *d
	}
	for _, d := range topo.devices {
		if d.Parent == NoParent {
			continue
		}
		if int(d.Parent) >= len(topo.devices) || d.Parent < 0 {
			return nil, &UnknownDeviceError{ID: d.Parent}
		}
		if want := topo.devices[d.Parent].Level + 1; d.Level != want {
			return nil, &LevelViolationError{
				Device: d.Name,
				Reason: fmt.Sprintf("level %d, expected %d below %q", d.Level, want, topo.devices[d.Parent].Name),
			}
		}
		topo.children[d.Parent] = append(topo.children[d.Parent], d.ID)
	}

	b.frozen = true
	logger.Debug("Build: Topology frozen.", "hubs", len(topo.Hubs()))
	return topo, nil
}

func (b *Builder) lookup(id DeviceID) (*Device, error) {
	if id < 0 || int(id) >= len(b.devices) {
		return nil, &UnknownDeviceError{ID: id}
	}
	return b.devices[id], nil
}

// isDescendant reports whether candidate is ancestor itself or sits below it.
func (b *Builder) isDescendant(candidate, ancestor DeviceID) bool {
	for id := candidate; id != NoParent; id = b.devices[id].Parent {
		if id == ancestor {
			return true
		}
	}
	return false
}

// relevel assigns level to id and pushes the change down its attached subtree.
func (b *Builder) relevel(id DeviceID, level int) {
	b.devices[id].Level = level
	for _, d := range b.devices {
		if d.Parent == id {
			b.relevel(d.ID, level+1)
		}
	}
}
