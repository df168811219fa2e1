package kernel

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fogplace/internal/appgraph"
	"github.com/vk/fogplace/internal/coordinator"
	"github.com/vk/fogplace/internal/placement"
	"github.com/vk/fogplace/internal/scenario"
)

func smartHome(t *testing.T, houses int) *scenario.Scenario {
	t.Helper()
	opts := scenario.DefaultSmartHomeOptions()
	opts.Houses = houses
	sc, err := scenario.SmartHome(context.Background(), opts)
	require.NoError(t, err)
	return sc
}

func resolve(t *testing.T, sc *scenario.Scenario) *placement.Placement {
	t.Helper()
	p, err := sc.Policy.Resolve(context.Background(), sc.Application, sc.Topology)
	require.NoError(t, err)
	return p
}

func bundle(sc *scenario.Scenario, p *placement.Placement) *coordinator.Bundle {
	return &coordinator.Bundle{
		ID:          "b-1",
		CreatedAt:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Application: sc.Application,
		Topology:    sc.Topology,
		Placement:   p,
	}
}

// loneModule builds an application with a single module between a sensor and an actuator.
func loneModule(t *testing.T, name string) *appgraph.Application {
	t.Helper()
	b := appgraph.NewBuilder("lone")
	require.NoError(t, b.AddModule(name, 1))
	require.NoError(t, b.AddEdge(appgraph.Edge{Source: "S", Destination: name, TupleType: "in", Role: appgraph.SensorSource}))
	require.NoError(t, b.AddEdge(appgraph.Edge{Source: name, Destination: "A", TupleType: "out", Role: appgraph.ActuatorSink}))
	app, err := b.Build(context.Background())
	require.NoError(t, err)
	return app
}

func TestValidate(t *testing.T) {
	ctx := context.Background()
	sc := smartHome(t, 3)
	good := resolve(t, sc)

	// Placement for a different application on the same topology.
	lone := loneModule(t, "Stranger")
	stranger, err := placement.NewFixed(placement.ModuleMapping{"Stranger": {"cloud"}}).Resolve(ctx, lone, sc.Topology)
	require.NoError(t, err)

	// Placement covering only one of the application's modules.
	partialApp := loneModule(t, "DataCache")
	partial, err := placement.NewFixed(placement.ModuleMapping{"DataCache": {"cloud"}}).Resolve(ctx, partialApp, sc.Topology)
	require.NoError(t, err)

	small := smartHome(t, 1)

	testCases := []struct {
		name    string
		bundle  *coordinator.Bundle
		wantErr string
	}{
		{name: "well formed", bundle: bundle(sc, good)},
		{name: "nil bundle", bundle: nil, wantErr: "bundle is nil"},
		{name: "no application", bundle: &coordinator.Bundle{ID: "x", Topology: sc.Topology, Placement: good}, wantErr: "application is missing"},
		{name: "no topology", bundle: &coordinator.Bundle{ID: "x", Application: sc.Application, Placement: good}, wantErr: "topology is missing"},
		{name: "no placement", bundle: &coordinator.Bundle{ID: "x", Application: sc.Application, Topology: sc.Topology}, wantErr: "placement is missing"},
		{name: "undeclared module", bundle: bundle(sc, stranger), wantErr: `module "Stranger" is not declared`},
		{name: "unknown device", bundle: bundle(small, good), wantErr: "unknown device"},
		{name: "unplaced module", bundle: bundle(sc, partial), wantErr: "has no assignment"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.bundle)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var malformed *MalformedBundleError
			require.ErrorAs(t, err, &malformed)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestRecorder(t *testing.T) {
	sc := smartHome(t, 3)
	p := resolve(t, sc)
	r := NewRecorder()
	assert.Equal(t, "recorder", r.Name())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.SubmitApplication(context.Background(), bundle(sc, p)))
		}()
	}
	wg.Wait()
	assert.Len(t, r.Bundles(), 8)

	err := r.SubmitApplication(context.Background(), &coordinator.Bundle{ID: "bad"})
	var malformed *MalformedBundleError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "bad", malformed.BundleID)
	assert.Len(t, r.Bundles(), 8, "rejected bundles are not recorded")
}

func TestRecorder_BundlesIsACopy(t *testing.T) {
	sc := smartHome(t, 1)
	r := NewRecorder()
	require.NoError(t, r.SubmitApplication(context.Background(), bundle(sc, resolve(t, sc))))

	got := r.Bundles()
	got[0] = nil
	assert.NotNil(t, r.Bundles()[0])
}

func TestCoordinator_WithRecorder(t *testing.T) {
	sc := smartHome(t, 2)
	r := NewRecorder()
	b, err := coordinator.New(r).Deploy(context.Background(), sc.Application, sc.Topology, sc.Policy)
	require.NoError(t, err)
	require.Len(t, r.Bundles(), 1)
	assert.Same(t, b, r.Bundles()[0])
}
