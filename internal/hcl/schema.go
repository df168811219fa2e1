package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes every top-level block a scenario file may contain.
type fileRoot struct {
	Applications []*applicationBlock `hcl:"application,block"`
	Devices      []*deviceBlock      `hcl:"device,block"`
	Placements   []*placementBlock   `hcl:"placement,block"`
}

type applicationBlock struct {
	ID            string               `hcl:"id,label"`
	Modules       []*moduleBlock       `hcl:"module,block"`
	Edges         []*edgeBlock         `hcl:"edge,block"`
	TupleMappings []*tupleMappingBlock `hcl:"tuple_mapping,block"`
	Loops         []*loopBlock         `hcl:"loop,block"`
}

type moduleBlock struct {
	Name   string `hcl:"name,label"`
	Memory int    `hcl:"memory"`
}

type edgeBlock struct {
	Source      string  `hcl:"source"`
	Destination string  `hcl:"destination"`
	Cost        float64 `hcl:"cost,optional"`
	DataSize    float64 `hcl:"data_size,optional"`
	TupleType   string  `hcl:"tuple_type"`
	Direction   string  `hcl:"direction,optional"`
	Role        string  `hcl:"role,optional"`
}

type tupleMappingBlock struct {
	Module      string  `hcl:"module"`
	Input       string  `hcl:"input"`
	Output      string  `hcl:"output"`
	Selectivity float64 `hcl:"selectivity"`
}

type loopBlock struct {
	Modules []string `hcl:"modules"`
}

// deviceBlock defers its body so it can be decoded once per instance.
type deviceBlock struct {
	Label string         `hcl:"name,label"`
	Count hcl.Expression `hcl:"count,optional"`
	Body  hcl.Body       `hcl:",remain"`
}

type deviceAttrs struct {
	Name           *string `hcl:"name,optional"`
	Parent         *string `hcl:"parent,optional"`
	MIPS           float64 `hcl:"mips,optional"`
	Memory         int     `hcl:"memory"`
	UpBW           float64 `hcl:"up_bw,optional"`
	DownBW         float64 `hcl:"down_bw,optional"`
	UplinkLatency  float64 `hcl:"uplink_latency,optional"`
	RatePerMIPS    float64 `hcl:"rate_per_mips,optional"`
	BusyPower      float64 `hcl:"busy_power,optional"`
	IdlePower      float64 `hcl:"idle_power,optional"`
	Storage        int64   `hcl:"storage,optional"`
	Cost           float64 `hcl:"cost,optional"`
	CostPerMemory  float64 `hcl:"cost_per_memory,optional"`
	CostPerStorage float64 `hcl:"cost_per_storage,optional"`
	CostPerBW      float64 `hcl:"cost_per_bw,optional"`

	Sensors   []*endpointBlock `hcl:"sensor,block"`
	Actuators []*endpointBlock `hcl:"actuator,block"`
}

// endpointBlock is a sensor or actuator block, deferred like deviceBlock.
type endpointBlock struct {
	Label string         `hcl:"name,label"`
	Count hcl.Expression `hcl:"count,optional"`
	Body  hcl.Body       `hcl:",remain"`
}

type sensorAttrs struct {
	Name         *string            `hcl:"name,optional"`
	TupleType    string             `hcl:"tuple_type"`
	Latency      float64            `hcl:"latency,optional"`
	Distribution *distributionBlock `hcl:"distribution,block"`
}

type distributionBlock struct {
	Kind  string  `hcl:"kind"`
	Value float64 `hcl:"value,optional"`
	Mu    float64 `hcl:"mu,optional"`
	Sigma float64 `hcl:"sigma,optional"`
	Min   float64 `hcl:"min,optional"`
	Max   float64 `hcl:"max,optional"`
}

type actuatorAttrs struct {
	Name         *string `hcl:"name,optional"`
	ActuatorType string  `hcl:"actuator_type"`
	Latency      float64 `hcl:"latency,optional"`
}

type placementBlock struct {
	Policy      string          `hcl:"policy,optional"`
	BoundedRoot bool            `hcl:"bounded_root,optional"`
	Mappings    []*mappingBlock `hcl:"mapping,block"`
}

type mappingBlock struct {
	Module  string   `hcl:"module"`
	Devices []string `hcl:"devices"`
}
