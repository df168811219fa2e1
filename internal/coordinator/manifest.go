package coordinator

import (
	"time"

	"github.com/vk/fogplace/internal/topology"
)

// Manifest is the serializable view of a Bundle shipped to remote kernels and
// written to disk.
type Manifest struct {
	ID          string              `json:"id" yaml:"id"`
	CreatedAt   string              `json:"created_at" yaml:"created_at"`
	Application ApplicationManifest `json:"application" yaml:"application"`
	Devices     []DeviceManifest    `json:"devices" yaml:"devices"`
	Sensors     []SensorManifest    `json:"sensors" yaml:"sensors"`
	Actuators   []ActuatorManifest  `json:"actuators" yaml:"actuators"`
	Placement   PlacementManifest   `json:"placement" yaml:"placement"`
}

type ApplicationManifest struct {
	ID            string                 `json:"id" yaml:"id"`
	Modules       []ModuleManifest       `json:"modules" yaml:"modules"`
	Edges         []EdgeManifest         `json:"edges" yaml:"edges"`
	TupleMappings []TupleMappingManifest `json:"tuple_mappings" yaml:"tuple_mappings"`
	Loops         [][]string             `json:"loops" yaml:"loops"`
}

type ModuleManifest struct {
	Name   string `json:"name" yaml:"name"`
	Memory int    `json:"memory" yaml:"memory"`
}

type EdgeManifest struct {
	Source      string  `json:"source" yaml:"source"`
	Destination string  `json:"destination" yaml:"destination"`
	Cost        float64 `json:"cost" yaml:"cost"`
	DataSize    float64 `json:"data_size" yaml:"data_size"`
	TupleType   string  `json:"tuple_type" yaml:"tuple_type"`
	Direction   string  `json:"direction" yaml:"direction"`
	Role        string  `json:"role" yaml:"role"`
}

type TupleMappingManifest struct {
	Module      string  `json:"module" yaml:"module"`
	Input       string  `json:"input" yaml:"input"`
	Output      string  `json:"output" yaml:"output"`
	Selectivity float64 `json:"selectivity" yaml:"selectivity"`
}

type DeviceManifest struct {
	ID             int     `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	Parent         int     `json:"parent" yaml:"parent"`
	Level          int     `json:"level" yaml:"level"`
	MIPS           float64 `json:"mips" yaml:"mips"`
	RAM            int     `json:"ram" yaml:"ram"`
	UpBW           float64 `json:"up_bw" yaml:"up_bw"`
	DownBW         float64 `json:"down_bw" yaml:"down_bw"`
	UplinkLatency  float64 `json:"uplink_latency" yaml:"uplink_latency"`
	RatePerMIPS    float64 `json:"rate_per_mips" yaml:"rate_per_mips"`
	BusyPower      float64 `json:"busy_power" yaml:"busy_power"`
	IdlePower      float64 `json:"idle_power" yaml:"idle_power"`
	Storage        int64   `json:"storage" yaml:"storage"`
	Cost           float64 `json:"cost" yaml:"cost"`
	CostPerMemory  float64 `json:"cost_per_memory" yaml:"cost_per_memory"`
	CostPerStorage float64 `json:"cost_per_storage" yaml:"cost_per_storage"`
	CostPerBW      float64 `json:"cost_per_bw" yaml:"cost_per_bw"`
}

type DistributionManifest struct {
	Kind string  `json:"kind" yaml:"kind"`
	Mean float64 `json:"mean" yaml:"mean"`
}

type SensorManifest struct {
	Name         string                `json:"name" yaml:"name"`
	TupleType    string                `json:"tuple_type" yaml:"tuple_type"`
	Gateway      int                   `json:"gateway" yaml:"gateway"`
	Latency      float64               `json:"latency" yaml:"latency"`
	Distribution *DistributionManifest `json:"distribution,omitempty" yaml:"distribution,omitempty"`
}

type ActuatorManifest struct {
	Name         string  `json:"name" yaml:"name"`
	ActuatorType string  `json:"actuator_type" yaml:"actuator_type"`
	Gateway      int     `json:"gateway" yaml:"gateway"`
	Latency      float64 `json:"latency" yaml:"latency"`
}

type PlacementManifest struct {
	Policy      string               `json:"policy" yaml:"policy"`
	Assignments []AssignmentManifest `json:"assignments" yaml:"assignments"`
}

// AssignmentManifest names the device when the id resolves in the topology
// and leaves DeviceName empty otherwise.
type AssignmentManifest struct {
	Module     string `json:"module" yaml:"module"`
	DeviceID   int    `json:"device_id" yaml:"device_id"`
	DeviceName string `json:"device_name,omitempty" yaml:"device_name,omitempty"`
}

// Manifest flattens b. Nil parts produce empty sections.
func (b *Bundle) Manifest() Manifest {
	m := Manifest{ID: b.ID, CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339)}

	if app := b.Application; app != nil {
		m.Application.ID = app.ID()
		for _, mod := range app.Modules() {
			m.Application.Modules = append(m.Application.Modules, ModuleManifest{Name: mod.Name, Memory: mod.Memory})
		}
		for _, e := range app.Edges() {
			m.Application.Edges = append(m.Application.Edges, EdgeManifest{
				Source:      e.Source,
				Destination: e.Destination,
				Cost:        e.Cost,
				DataSize:    e.DataSize,
				TupleType:   e.TupleType,
				Direction:   e.Direction.String(),
				Role:        e.Role.String(),
			})
		}
		for _, tm := range app.TupleMappings() {
			m.Application.TupleMappings = append(m.Application.TupleMappings, TupleMappingManifest(tm))
		}
		for _, l := range app.Loops() {
			m.Application.Loops = append(m.Application.Loops, l.Modules)
		}
	}

	if topo := b.Topology; topo != nil {
		for _, d := range topo.Devices() {
			m.Devices = append(m.Devices, DeviceManifest{
				ID:             int(d.ID),
				Name:           d.Name,
				Parent:         int(d.Parent),
				Level:          d.Level,
				MIPS:           d.MIPS,
				RAM:            d.RAM,
				UpBW:           d.UpBW,
				DownBW:         d.DownBW,
				UplinkLatency:  d.UplinkLatency,
				RatePerMIPS:    d.RatePerMIPS,
				BusyPower:      d.BusyPower,
				IdlePower:      d.IdlePower,
				Storage:        d.Storage,
				Cost:           d.Cost,
				CostPerMemory:  d.CostPerMemory,
				CostPerStorage: d.CostPerStorage,
				CostPerBW:      d.CostPerBW,
			})
		}
		for _, s := range topo.Sensors() {
			sm := SensorManifest{Name: s.Name, TupleType: s.TupleType, Gateway: int(s.Gateway), Latency: s.Latency}
			if s.Distribution != nil {
				sm.Distribution = &DistributionManifest{Kind: s.Distribution.Kind(), Mean: s.Distribution.Mean()}
			}
			m.Sensors = append(m.Sensors, sm)
		}
		for _, a := range topo.Actuators() {
			m.Actuators = append(m.Actuators, ActuatorManifest{Name: a.Name, ActuatorType: a.ActuatorType, Gateway: int(a.Gateway), Latency: a.Latency})
		}
	}

	if p := b.Placement; p != nil {
		m.Placement.Policy = p.Policy()
		for _, a := range p.Assignments() {
			m.Placement.Assignments = append(m.Placement.Assignments, AssignmentManifest{
				Module:     a.Module,
				DeviceID:   int(a.Device),
				DeviceName: deviceName(b.Topology, a.Device),
			})
		}
	}
	return m
}

// deviceName returns "" when id does not resolve in topo.
func deviceName(topo *topology.Topology, id topology.DeviceID) string {
	if topo == nil {
		return ""
	}
	d, _ := topo.Device(id)
	return d.Name
}
