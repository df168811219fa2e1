package scenario

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fogplace/internal/appgraph"
	"github.com/vk/fogplace/internal/config"
	"github.com/vk/fogplace/internal/placement"
	"github.com/vk/fogplace/internal/topology"
)

func TestSmartHome_Default(t *testing.T) {
	sc, err := SmartHome(context.Background(), DefaultSmartHomeOptions())
	require.NoError(t, err)

	assert.Equal(t, "Moody", sc.Application.ID())
	assert.Len(t, sc.Application.Modules(), 5)
	assert.Len(t, sc.Application.TupleMappings(), 6)

	topo := sc.Topology
	assert.Equal(t, 5, topo.Len())
	assert.Len(t, topo.Sensors(), 9)
	assert.Len(t, topo.Actuators(), 9)
	assert.Equal(t, "cloud", topo.Root().Name)

	hub, ok := topo.DeviceByName("hub-2")
	require.True(t, ok)
	assert.Equal(t, 2, hub.Level)
	assert.Equal(t, 5.0, hub.UplinkLatency)
	sensors := topo.SensorsAt(hub.ID)
	require.Len(t, sensors, 3)
	assert.Equal(t, "sens#12", sensors[1].Name)
	assert.Equal(t, topology.Deterministic{Value: 5}, sensors[1].Distribution)

	assert.Equal(t, placement.EdgewardName, sc.Policy.Name())
}

func TestSmartHome_EdgewardPlacement(t *testing.T) {
	ctx := context.Background()
	sc, err := SmartHome(ctx, DefaultSmartHomeOptions())
	require.NoError(t, err)

	p, err := sc.Policy.Resolve(ctx, sc.Application, sc.Topology)
	require.NoError(t, err)

	hubs := sc.Topology.Hubs()
	cloud := sc.Topology.Root().ID
	assert.Equal(t, hubs, p.DevicesFor("Sensor"))
	assert.Equal(t, hubs, p.DevicesFor("Actuator"))
	assert.Equal(t, hubs, p.DevicesFor("DataCache"))
	assert.Equal(t, []topology.DeviceID{cloud}, p.DevicesFor("WebApp"))
	assert.Equal(t, []topology.DeviceID{cloud}, p.DevicesFor("Classifier"))
}

func TestSmartHome_HubPins(t *testing.T) {
	pinned := func(m *config.Model) map[string][]string {
		out := map[string][]string{}
		for _, e := range m.Placement.Mapping {
			out[e.Module] = e.Devices
		}
		return out
	}
	hubs := []string{"hub-0", "hub-1", "hub-2"}

	t.Run("endpoints and cache pinned by default", func(t *testing.T) {
		got := pinned(SmartHomeModel(DefaultSmartHomeOptions()))
		assert.Equal(t, map[string][]string{
			"Classifier": {"cloud"},
			"WebApp":     {"cloud"},
			"Sensor":     hubs,
			"Actuator":   hubs,
			"DataCache":  hubs,
		}, got)
	})

	t.Run("float endpoints leaves them to the search", func(t *testing.T) {
		ctx := context.Background()
		opts := DefaultSmartHomeOptions()
		opts.FloatEndpoints = true
		assert.Equal(t, map[string][]string{
			"Classifier": {"cloud"},
			"WebApp":     {"cloud"},
		}, pinned(SmartHomeModel(opts)))

		sc, err := SmartHome(ctx, opts)
		require.NoError(t, err)
		p, err := sc.Policy.Resolve(ctx, sc.Application, sc.Topology)
		require.NoError(t, err)
		assert.Equal(t, sc.Topology.Hubs(), p.DevicesFor("Sensor"))
		assert.Equal(t, sc.Topology.Hubs(), p.DevicesFor("DataCache"))
	})
}

func TestSmartHome_Cloud(t *testing.T) {
	ctx := context.Background()
	opts := DefaultSmartHomeOptions()
	opts.Cloud = true
	sc, err := SmartHome(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, placement.FixedName, sc.Policy.Name())

	p, err := sc.Policy.Resolve(ctx, sc.Application, sc.Topology)
	require.NoError(t, err)
	cloud := sc.Topology.Root().ID
	assert.Equal(t, []string{"DataCache", "WebApp", "Classifier"}, p.ModulesOn(cloud))
	assert.Equal(t, sc.Topology.Hubs(), p.DevicesFor("Sensor"))
}

func TestSmartHome_NoHouses(t *testing.T) {
	_, err := SmartHome(context.Background(), SmartHomeOptions{})
	assert.Error(t, err)
}

func TestBuild_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid model", func(t *testing.T) {
		_, err := Build(ctx, &config.Model{})
		assert.ErrorContains(t, err, "Application is required")
	})

	t.Run("unknown parent", func(t *testing.T) {
		m := SmartHomeModel(DefaultSmartHomeOptions())
		m.Devices[1].Parent = "moon"
		sc, err := Build(ctx, m)
		assert.Nil(t, sc)
		var unknown *topology.UnknownDeviceError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, "moon", unknown.Name)
	})

	t.Run("two roots", func(t *testing.T) {
		m := SmartHomeModel(DefaultSmartHomeOptions())
		m.Devices[1].Parent = ""
		_, err := Build(ctx, m)
		var multi *topology.MultipleRootsError
		assert.True(t, errors.As(err, &multi))
	})

	t.Run("duplicate module", func(t *testing.T) {
		m := SmartHomeModel(DefaultSmartHomeOptions())
		m.Application.Modules = append(m.Application.Modules, &config.Module{Name: "Sensor"})
		_, err := Build(ctx, m)
		var dup *appgraph.DuplicateModuleError
		assert.True(t, errors.As(err, &dup))
	})

	t.Run("edge to undeclared module", func(t *testing.T) {
		m := SmartHomeModel(DefaultSmartHomeOptions())
		m.Application.Edges = append(m.Application.Edges, &config.Edge{Source: "DataCache", Destination: "Ghost", TupleType: "x", Role: "module"})
		_, err := Build(ctx, m)
		var ref *appgraph.UnknownModuleReferenceError
		assert.True(t, errors.As(err, &ref))
	})

	t.Run("bad direction", func(t *testing.T) {
		m := SmartHomeModel(DefaultSmartHomeOptions())
		m.Application.Edges[0].Direction = "sideways"
		_, err := Build(ctx, m)
		assert.ErrorContains(t, err, "invalid edge direction")
	})

	t.Run("bad selectivity", func(t *testing.T) {
		m := SmartHomeModel(DefaultSmartHomeOptions())
		m.Application.TupleMappings[0].Selectivity = 1.5
		_, err := Build(ctx, m)
		var sel *appgraph.InvalidSelectivityError
		assert.True(t, errors.As(err, &sel))
	})
}

func TestBuildPolicy(t *testing.T) {
	p, err := BuildPolicy(nil)
	require.NoError(t, err)
	assert.Equal(t, placement.EdgewardName, p.Name())

	p, err = BuildPolicy(&config.Placement{Policy: config.PolicyEdgeward, BoundedRoot: true})
	require.NoError(t, err)
	assert.Equal(t, placement.NewEdgeward(placement.WithBoundedRoot()), p)

	p, err = BuildPolicy(&config.Placement{Policy: config.PolicyFixed, Mapping: []*config.MappingEntry{{Module: "m", Devices: []string{"d"}}}})
	require.NoError(t, err)
	assert.Equal(t, placement.FixedName, p.Name())

	_, err = BuildPolicy(&config.Placement{Policy: "random"})
	assert.ErrorContains(t, err, "unknown placement policy")
}
