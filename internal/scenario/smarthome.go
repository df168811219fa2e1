package scenario

import (
	"context"
	"fmt"

	"github.com/vk/fogplace/internal/config"
)

// SmartHomeOptions sizes the built-in home automation scenario.
type SmartHomeOptions struct {
	Houses          int
	SensorsPerHub   int
	ActuatorsPerHub int
	// Cloud keeps the data cache in the cloud and uses the fixed policy.
	// Otherwise the edgeward policy runs with the dashboard and the
	// classifier pinned to the cloud, and the sensor, actuator and data
	// cache modules pinned to every hub.
	Cloud bool
	// FloatEndpoints drops the hub pins in edgeward mode so those modules
	// go through the capacity search instead.
	FloatEndpoints bool
}

// DefaultSmartHomeOptions returns three houses with three sensors and three
// actuators each, resolved edgeward.
func DefaultSmartHomeOptions() SmartHomeOptions {
	return SmartHomeOptions{Houses: 3, SensorsPerHub: 3, ActuatorsPerHub: 3}
}

const (
	smartHomeSensor   = "GenericSensor"
	smartHomeActuator = "GenericActuator"
)

// SmartHome builds the home automation scenario.
func SmartHome(ctx context.Context, opts SmartHomeOptions) (*Scenario, error) {
	if opts.Houses < 1 {
		return nil, fmt.Errorf("smart home needs at least one house, got %d", opts.Houses)
	}
	return Build(ctx, SmartHomeModel(opts))
}

// SmartHomeModel returns the home automation scenario as a config.Model.
func SmartHomeModel(opts SmartHomeOptions) *config.Model {
	return &config.Model{
		Application: smartHomeApplication(),
		Devices:     smartHomeDevices(opts),
		Placement:   smartHomePlacement(opts),
	}
}

func smartHomeApplication() *config.Application {
	app := &config.Application{ID: "Moody"}
	for _, name := range []string{"Sensor", "DataCache", "WebApp", "Classifier", "Actuator"} {
		memory := 10
		if name == "Sensor" || name == "Actuator" {
			memory = 1
		}
		app.Modules = append(app.Modules, &config.Module{Name: name, Memory: memory})
	}

	edge := func(src, dst, tuple, dir, role string) *config.Edge {
		return &config.Edge{Source: src, Destination: dst, Cost: 100, DataSize: 100, TupleType: tuple, Direction: dir, Role: role}
	}
	app.Edges = []*config.Edge{
		edge(smartHomeSensor, "Sensor", "GenericSensorData", "upstream", "sensor-source"),
		edge("Sensor", "DataCache", "SensorData", "upstream", "module-to-module"),
		edge("DataCache", "WebApp", "DataEvent", "upstream", "module-to-module"),
		edge("DataCache", "Classifier", "DataTable", "upstream", "module-to-module"),
		edge("Classifier", "DataCache", "SituationIdentifier", "downstream", "module-to-module"),
		edge("DataCache", "Actuator", "Situation", "downstream", "module-to-module"),
		edge("Actuator", smartHomeActuator, "GenericActuatorData", "downstream", "actuator-sink"),
	}

	app.TupleMappings = []*config.TupleMapping{
		{Module: "Sensor", Input: "GenericSensorData", Output: "SensorData", Selectivity: 1},
		{Module: "DataCache", Input: "SensorData", Output: "DataEvent", Selectivity: 0.9},
		{Module: "DataCache", Input: "SensorData", Output: "DataTable", Selectivity: 0.9},
		{Module: "Classifier", Input: "DataTable", Output: "SituationIdentifier", Selectivity: 1},
		{Module: "DataCache", Input: "SituationIdentifier", Output: "Situation", Selectivity: 1},
		{Module: "Sensor", Input: "Situation", Output: "GenericActuatorData", Selectivity: 1},
	}
	app.Loops = []*config.Loop{
		{Modules: []string{"Sensor", "DataCache", "WebApp"}},
		{Modules: []string{"Sensor", "DataCache", "Classifier", "Actuator"}},
	}
	return app
}

func smartHomeDevices(opts SmartHomeOptions) []*config.Device {
	devices := []*config.Device{
		{
			Name: "cloud", MIPS: 6000, RAM: 17100, UpBW: 3000, DownBW: 1000,
			RatePerMIPS: 0.001, BusyPower: 103.16, IdlePower: 83.25, Storage: 420000 - 1,
			Cost: 3.0, CostPerMemory: 0.05, CostPerStorage: 0.001,
		},
		{
			Name: "ISP-gateway", Parent: "cloud", MIPS: 3000, RAM: 4000, UpBW: 10000, DownBW: 10000,
			UplinkLatency: 1000, BusyPower: 100, IdlePower: 83, Storage: 10000,
			Cost: 3.0, CostPerMemory: 0.05, CostPerStorage: 0.001,
		},
	}
	for i := 0; i < opts.Houses; i++ {
		hub := &config.Device{
			Name: fmt.Sprintf("hub-%d", i), Parent: "ISP-gateway", MIPS: 6000, RAM: 8000, UpBW: 1000, DownBW: 20,
			UplinkLatency: 5, BusyPower: 3, IdlePower: 1.4, Storage: 64000,
			Cost: 3.0, CostPerMemory: 0.05, CostPerStorage: 0.001,
		}
		for j := 0; j < opts.SensorsPerHub; j++ {
			hub.Sensors = append(hub.Sensors, &config.Sensor{
				Name:         fmt.Sprintf("sens#%d%d", j, i),
				TupleType:    smartHomeSensor,
				Latency:      10,
				Distribution: &config.Distribution{Kind: "deterministic", Value: 5},
			})
		}
		for j := 0; j < opts.ActuatorsPerHub; j++ {
			hub.Actuators = append(hub.Actuators, &config.Actuator{
				Name:         fmt.Sprintf("act#%d%d", j, i),
				ActuatorType: smartHomeActuator,
				Latency:      10,
			})
		}
		devices = append(devices, hub)
	}
	return devices
}

func smartHomePlacement(opts SmartHomeOptions) *config.Placement {
	hubs := make([]string, 0, opts.Houses)
	for i := 0; i < opts.Houses; i++ {
		hubs = append(hubs, fmt.Sprintf("hub-%d", i))
	}
	if !opts.Cloud {
		mapping := []*config.MappingEntry{
			{Module: "Classifier", Devices: []string{"cloud"}},
			{Module: "WebApp", Devices: []string{"cloud"}},
		}
		if !opts.FloatEndpoints {
			mapping = append(mapping,
				&config.MappingEntry{Module: "Sensor", Devices: hubs},
				&config.MappingEntry{Module: "Actuator", Devices: hubs},
				&config.MappingEntry{Module: "DataCache", Devices: hubs},
			)
		}
		return &config.Placement{Policy: config.PolicyEdgeward, Mapping: mapping}
	}
	return &config.Placement{
		Policy: config.PolicyFixed,
		Mapping: []*config.MappingEntry{
			{Module: "Classifier", Devices: []string{"cloud"}},
			{Module: "WebApp", Devices: []string{"cloud"}},
			{Module: "DataCache", Devices: []string{"cloud"}},
			{Module: "Sensor", Devices: hubs},
			{Module: "Actuator", Devices: hubs},
		},
	}
}
