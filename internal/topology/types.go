package topology

import "fmt"

// DeviceID indexes a device in the table of one Builder or Topology.
type DeviceID int

// NoParent is the Parent of the root and of devices not yet attached.
const NoParent DeviceID = -1

// DeviceSpec holds the static characteristics of a device. Only RAM is read
// by placement; the rest is carried for the simulation kernel.
type DeviceSpec struct {
	Name           string  `validate:"required"`
	MIPS           float64 `validate:"gte=0"`
	RAM            int     `validate:"gte=0"`
	UpBW           float64 `validate:"gte=0"`
	DownBW         float64 `validate:"gte=0"`
	RatePerMIPS    float64 `validate:"gte=0"`
	BusyPower      float64 `validate:"gte=0"`
	IdlePower      float64 `validate:"gte=0"`
	Storage        int64   `validate:"gte=0"`
	Cost           float64 `validate:"gte=0"`
	CostPerMemory  float64 `validate:"gte=0"`
	CostPerStorage float64 `validate:"gte=0"`
	CostPerBW      float64 `validate:"gte=0"`
}

// Device is a compute node in the hierarchy.
type Device struct {
	DeviceSpec
	ID            DeviceID
	Level         int
	Parent        DeviceID
	UplinkLatency float64
}

// IsRoot reports whether d has no parent.
func (d Device) IsRoot() bool { return d.Parent == NoParent }

func (d Device) String() string {
	return fmt.Sprintf("%s(#%d, level %d)", d.Name, d.ID, d.Level)
}

// Distribution describes the emission cadence of a sensor. It is opaque to
// placement and forwarded to the kernel.
type Distribution interface {
	Kind() string
	Mean() float64
}

// Deterministic emits at a fixed interval.
type Deterministic struct {
	Value float64
}

func (d Deterministic) Kind() string  { return "deterministic" }
func (d Deterministic) Mean() float64 { return d.Value }

// Normal draws intervals from a normal distribution.
type Normal struct {
	Mu    float64
	Sigma float64
}

func (n Normal) Kind() string  { return "normal" }
func (n Normal) Mean() float64 { return n.Mu }

// Uniform draws intervals uniformly from [Min, Max].
type Uniform struct {
	Min float64
	Max float64
}

func (u Uniform) Kind() string  { return "uniform" }
func (u Uniform) Mean() float64 { return (u.Min + u.Max) / 2 }

// SensorSpec describes a sensor before it is bound to a hub. TupleType is
// the label used by sensor-source edges of the application.
type SensorSpec struct {
	Name         string  `validate:"required"`
	TupleType    string  `validate:"required"`
	Latency      float64 `validate:"gte=0"`
	Distribution Distribution
}

// Sensor is a SensorSpec bound to its gateway device.
type Sensor struct {
	SensorSpec
	Gateway DeviceID
}

// ActuatorSpec describes an actuator before it is bound to a hub.
// ActuatorType is the label used by actuator-sink edges of the application.
type ActuatorSpec struct {
	Name         string  `validate:"required"`
	ActuatorType string  `validate:"required"`
	Latency      float64 `validate:"gte=0"`
}

// Actuator is an ActuatorSpec bound to its gateway device.
type Actuator struct {
	ActuatorSpec
	Gateway DeviceID
}
