package topology

import "sort"

// Topology is the frozen device tree returned by Builder.Build. Accessors
// return copies, so it is safe to share read-only between goroutines.
type Topology struct {
	devices   []Device
	byName    map[string]DeviceID
	children  map[DeviceID][]DeviceID
	root      DeviceID
	sensors   []Sensor
	actuators []Actuator
}

// Root returns the single parentless device.
func (t *Topology) Root() Device { return t.devices[t.root] }

// Len returns the number of devices.
func (t *Topology) Len() int { return len(t.devices) }

// Devices returns every device ordered by id.
func (t *Topology) Devices() []Device {
	return append([]Device(nil), t.devices...)
}

// Device looks a device up by id.
func (t *Topology) Device(id DeviceID) (Device, bool) {
	if id < 0 || int(id) >= len(t.devices) {
		return Device{}, false
	}
	return t.devices[id], true
}

// DeviceByName looks a device up by its unique name.
func (t *Topology) DeviceByName(name string) (Device, bool) {
	id, ok := t.byName[name]
	if !ok {
		return Device{}, false
	}
	return t.devices[id], true
}

// Children returns the ids of the devices directly below id.
func (t *Topology) Children(id DeviceID) []DeviceID {
	return append([]DeviceID(nil), t.children[id]...)
}

// IsLeaf reports whether id has no children.
func (t *Topology) IsLeaf(id DeviceID) bool { return len(t.children[id]) == 0 }

// PathToRoot returns id followed by each ancestor up to and including the root.
func (t *Topology) PathToRoot(id DeviceID) []DeviceID {
	if _, ok := t.Device(id); !ok {
		return nil
	}
	var path []DeviceID
	for cur := id; cur != NoParent; cur = t.devices[cur].Parent {
		path = append(path, cur)
	}
	return path
}

// Sensors returns all sensors in attachment order.
func (t *Topology) Sensors() []Sensor { return append([]Sensor(nil), t.sensors...) }

// Actuators returns all actuators in attachment order.
func (t *Topology) Actuators() []Actuator { return append([]Actuator(nil), t.actuators...) }

// SensorsAt returns the sensors bound to the hub id.
func (t *Topology) SensorsAt(id DeviceID) []Sensor {
	var out []Sensor
	for _, s := range t.sensors {
		if s.Gateway == id {
			out = append(out, s)
		}
	}
	return out
}

// ActuatorsAt returns the actuators bound to the hub id.
func (t *Topology) ActuatorsAt(id DeviceID) []Actuator {
	var out []Actuator
	for _, a := range t.actuators {
		if a.Gateway == id {
			out = append(out, a)
		}
	}
	return out
}

// Hubs returns, ordered by id, every device with at least one sensor or actuator.
func (t *Topology) Hubs() []DeviceID {
	seen := make(map[DeviceID]struct{})
	for _, s := range t.sensors {
		seen[s.Gateway] = struct{}{}
	}
	for _, a := range t.actuators {
		seen[a.Gateway] = struct{}{}
	}
	hubs := make([]DeviceID, 0, len(seen))
	for id := range seen {
		hubs = append(hubs, id)
	}
	sort.Slice(hubs, func(i, j int) bool { return hubs[i] < hubs[j] })
	return hubs
}
