package config

// Policy names accepted in the placement section.
const (
	PolicyEdgeward = "edgeward"
	PolicyFixed    = "fixed"
)

// Model is the unified representation of a scenario.
type Model struct {
	Application *Application `validate:"required"`
	Devices     []*Device    `validate:"required,min=1,dive"`
	Placement   *Placement
}

// Application is the format-agnostic representation of an `application` block.
type Application struct {
	ID            string          `validate:"required"`
	Modules       []*Module       `validate:"required,min=1,dive"`
	Edges         []*Edge         `validate:"dive"`
	TupleMappings []*TupleMapping `validate:"dive"`
	Loops         []*Loop         `validate:"dive"`
}

// Module is one processing module of the application.
type Module struct {
	Name   string `validate:"required"`
	Memory int    `validate:"gte=0"`
}

// Edge keeps direction and role as the raw strings found in the file; they
// are parsed when the application graph is built.
type Edge struct {
	Source      string  `validate:"required"`
	Destination string  `validate:"required"`
	Cost        float64 `validate:"gte=0"`
	DataSize    float64 `validate:"gte=0"`
	TupleType   string  `validate:"required"`
	Direction   string
	Role        string
}

type TupleMapping struct {
	Module      string `validate:"required"`
	Input       string `validate:"required"`
	Output      string `validate:"required"`
	Selectivity float64
}

type Loop struct {
	Modules []string `validate:"required,min=1"`
}

// Device is one expanded `device` instance. An empty Parent marks the root.
type Device struct {
	Name           string `validate:"required"`
	Parent         string
	MIPS           float64 `validate:"gte=0"`
	RAM            int     `validate:"gte=0"`
	UpBW           float64 `validate:"gte=0"`
	DownBW         float64 `validate:"gte=0"`
	UplinkLatency  float64 `validate:"gte=0"`
	RatePerMIPS    float64 `validate:"gte=0"`
	BusyPower      float64 `validate:"gte=0"`
	IdlePower      float64 `validate:"gte=0"`
	Storage        int64   `validate:"gte=0"`
	Cost           float64 `validate:"gte=0"`
	CostPerMemory  float64 `validate:"gte=0"`
	CostPerStorage float64 `validate:"gte=0"`
	CostPerBW      float64 `validate:"gte=0"`

	Sensors   []*Sensor   `validate:"dive"`
	Actuators []*Actuator `validate:"dive"`
}

type Sensor struct {
	Name         string  `validate:"required"`
	TupleType    string  `validate:"required"`
	Latency      float64 `validate:"gte=0"`
	Distribution *Distribution
}

// Distribution describes a sensor's emission cadence. Which fields apply
// depends on Kind.
type Distribution struct {
	Kind  string `validate:"required,oneof=deterministic normal uniform"`
	Value float64
	Mu    float64
	Sigma float64 `validate:"gte=0"`
	Min   float64
	Max   float64 `validate:"gtefield=Min"`
}

type Actuator struct {
	Name         string  `validate:"required"`
	ActuatorType string  `validate:"required"`
	Latency      float64 `validate:"gte=0"`
}

// Placement selects the policy. Mapping is the full table for the fixed
// policy and the set of pinned modules for the edgeward policy.
type Placement struct {
	Policy      string `validate:"omitempty,oneof=edgeward fixed"`
	BoundedRoot bool
	Mapping     []*MappingEntry `validate:"dive"`
}

type MappingEntry struct {
	Module  string   `validate:"required"`
	Devices []string `validate:"required,min=1,dive,required"`
}

// PolicyName returns the configured policy, defaulting to edgeward.
func (p *Placement) PolicyName() string {
	if p == nil || p.Policy == "" {
		return PolicyEdgeward
	}
	return p.Policy
}
