package app

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fogplace/internal/coordinator"
	"github.com/vk/fogplace/internal/kernel"
	"github.com/vk/fogplace/internal/placement"
	"github.com/vk/fogplace/internal/scenario"
)

func deployedSmartHome(t *testing.T, houses int) *coordinator.Bundle {
	t.Helper()
	opts := scenario.DefaultSmartHomeOptions()
	opts.Houses = houses
	sc, err := scenario.SmartHome(context.Background(), opts)
	require.NoError(t, err)
	b, err := coordinator.New(kernel.NewRecorder()).Deploy(context.Background(), sc.Application, sc.Topology, sc.Policy)
	require.NoError(t, err)
	return b
}

func TestBuildReport(t *testing.T) {
	r := buildReport(deployedSmartHome(t, 1))

	assert.Equal(t, "Moody", r.Application)
	assert.Equal(t, "edgeward", r.Policy)
	assert.Equal(t, 5, r.Assignments)
	require.Len(t, r.Devices, 2, "the gateway hosts nothing")

	cloud, hub := r.Devices[0], r.Devices[1]
	assert.Equal(t, "cloud", cloud.Name)
	assert.ElementsMatch(t, []string{"Classifier", "WebApp"}, cloud.Modules)
	assert.Equal(t, 20, cloud.Used)
	assert.Equal(t, "hub-0", hub.Name)
	assert.ElementsMatch(t, []string{"Sensor", "DataCache", "Actuator"}, hub.Modules)
	assert.Equal(t, 12, hub.Used)

	cu, hu := 100*20.0/17100, 100*12.0/8000
	assert.InDelta(t, cu, cloud.Utilization, 1e-9)
	assert.InDelta(t, hu, hub.Utilization, 1e-9)
	assert.InDelta(t, (cu+hu)/2, r.MeanUtilization, 1e-9)
	assert.InDelta(t, math.Abs(cu-hu)/math.Sqrt2, r.StdDevUtilization, 1e-9)
}

func TestBuildReport_SingleHostHasNoSpread(t *testing.T) {
	ctx := context.Background()
	sc, err := scenario.SmartHome(ctx, scenario.DefaultSmartHomeOptions())
	require.NoError(t, err)
	mapping := placement.ModuleMapping{}
	for _, m := range sc.Application.Modules() {
		mapping.Add(m.Name, "cloud")
	}
	b, err := coordinator.New(kernel.NewRecorder()).Deploy(ctx, sc.Application, sc.Topology, placement.NewFixed(mapping))
	require.NoError(t, err)

	r := buildReport(b)
	require.Len(t, r.Devices, 1)
	assert.Equal(t, 32, r.Devices[0].Used)
	assert.InDelta(t, 100*32.0/17100, r.MeanUtilization, 1e-9)
	assert.Zero(t, r.StdDevUtilization)
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, buildReport(deployedSmartHome(t, 2))))

	out := buf.String()
	for _, want := range []string{"Placement of Moody", "DEVICE", "cloud", "hub-0", "hub-1", "DataCache", "8 assignments on 3 devices"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "ISP-gateway")
}
