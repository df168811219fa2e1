package placement

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/fogplace/internal/appgraph"
	"github.com/vk/fogplace/internal/topology"
)

const (
	sensorLabel   = "GenericSensor"
	actuatorLabel = "GenericActuator"
)

// homeApp returns the five-module home automation application.
func homeApp(t testing.TB) *appgraph.Application {
	t.Helper()
	b := appgraph.NewBuilder("Moody")
	for _, name := range []string{"Sensor", "DataCache", "WebApp", "Classifier", "Actuator"} {
		mem := 10
		if name == "Sensor" || name == "Actuator" {
			mem = 1
		}
		require.NoError(t, b.AddModule(name, mem))
	}
	edges := []appgraph.Edge{
		{Source: sensorLabel, Destination: "Sensor", TupleType: "GenericSensorData", Role: appgraph.SensorSource},
		{Source: "Sensor", Destination: "DataCache", TupleType: "SensorData"},
		{Source: "DataCache", Destination: "WebApp", TupleType: "DataEvent"},
		{Source: "DataCache", Destination: "Classifier", TupleType: "DataTable"},
		{Source: "Classifier", Destination: "DataCache", TupleType: "SituationIdentifier", Direction: appgraph.Downstream},
		{Source: "DataCache", Destination: "Actuator", TupleType: "Situation", Direction: appgraph.Downstream},
		{Source: "Actuator", Destination: actuatorLabel, TupleType: "GenericActuatorData", Direction: appgraph.Downstream, Role: appgraph.ActuatorSink},
	}
	for _, e := range edges {
		e.Cost, e.DataSize = 100, 100
		require.NoError(t, b.AddEdge(e))
	}
	app, err := b.Build(context.Background())
	require.NoError(t, err)
	return app
}

// singleModuleApp wires one module of the given memory between a sensor and an actuator.
func singleModuleApp(t testing.TB, memory int) *appgraph.Application {
	t.Helper()
	b := appgraph.NewBuilder("single")
	require.NoError(t, b.AddModule("Heavy", memory))
	require.NoError(t, b.AddEdge(appgraph.Edge{Source: sensorLabel, Destination: "Heavy", TupleType: "in", Role: appgraph.SensorSource}))
	require.NoError(t, b.AddEdge(appgraph.Edge{Source: "Heavy", Destination: actuatorLabel, TupleType: "out", Role: appgraph.ActuatorSink}))
	app, err := b.Build(context.Background())
	require.NoError(t, err)
	return app
}

type treeSpec struct {
	hubs        int
	hubRAM      int
	gatewayRAM  int
	cloudRAM    int
	endpoints   int
	sensorTuple string
}

// homeTree builds cloud -> ISP-gateway -> hub-0..hub-N-1.
func homeTree(t testing.TB, s treeSpec) *topology.Topology {
	t.Helper()
	if s.endpoints == 0 {
		s.endpoints = 3
	}
	if s.sensorTuple == "" {
		s.sensorTuple = sensorLabel
	}
	b := topology.NewBuilder()
	cloud, err := b.CreateDevice(topology.DeviceSpec{Name: "cloud", MIPS: 6000, RAM: s.cloudRAM})
	require.NoError(t, err)
	gw, err := b.CreateDevice(topology.DeviceSpec{Name: "ISP-gateway", MIPS: 3000, RAM: s.gatewayRAM})
	require.NoError(t, err)
	require.NoError(t, b.AttachChild(cloud.ID, gw, 1000))
	for i := 0; i < s.hubs; i++ {
		hub, err := b.CreateDevice(topology.DeviceSpec{Name: fmt.Sprintf("hub-%d", i), MIPS: 6000, RAM: s.hubRAM})
		require.NoError(t, err)
		require.NoError(t, b.AttachChild(gw.ID, hub, 5))
		for j := 0; j < s.endpoints; j++ {
			_, err = b.AttachSensor(topology.SensorSpec{Name: fmt.Sprintf("sens#%d%d", j, i), TupleType: s.sensorTuple, Latency: 10, Distribution: topology.Deterministic{Value: 5}}, hub.ID)
			require.NoError(t, err)
			_, err = b.AttachActuator(topology.ActuatorSpec{Name: fmt.Sprintf("act#%d%d", j, i), ActuatorType: actuatorLabel, Latency: 10}, hub.ID)
			require.NoError(t, err)
		}
	}
	topo, err := b.Build(context.Background())
	require.NoError(t, err)
	return topo
}

func roomyTree(t testing.TB) *topology.Topology {
	return homeTree(t, treeSpec{hubs: 3, hubRAM: 8000, gatewayRAM: 4000, cloudRAM: 17100})
}

// hubOnly builds cloud -> hub with one sensor and one actuator on the hub.
func hubOnly(t testing.TB, cloudRAM, hubRAM int) *topology.Topology {
	t.Helper()
	b := topology.NewBuilder()
	cloud, err := b.CreateDevice(topology.DeviceSpec{Name: "cloud", RAM: cloudRAM})
	require.NoError(t, err)
	hub, err := b.CreateDevice(topology.DeviceSpec{Name: "hub", RAM: hubRAM})
	require.NoError(t, err)
	require.NoError(t, b.AttachChild(cloud.ID, hub, 5))
	_, err = b.AttachSensor(topology.SensorSpec{Name: "s", TupleType: sensorLabel}, hub.ID)
	require.NoError(t, err)
	_, err = b.AttachActuator(topology.ActuatorSpec{Name: "a", ActuatorType: actuatorLabel}, hub.ID)
	require.NoError(t, err)
	topo, err := b.Build(context.Background())
	require.NoError(t, err)
	return topo
}

func deviceID(t testing.TB, topo *topology.Topology, name string) topology.DeviceID {
	t.Helper()
	d, ok := topo.DeviceByName(name)
	require.True(t, ok, name)
	return d.ID
}
