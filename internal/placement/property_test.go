package placement

import (
	"context"
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestEdgewardCapacityProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	app := homeApp(t)

	properties.Property("non-root devices are never overcommitted", prop.ForAll(
		func(hubs, hubRAM, gatewayRAM int) bool {
			topo := homeTree(t, treeSpec{hubs: hubs, hubRAM: hubRAM, gatewayRAM: gatewayRAM})
			p, err := NewEdgeward().Resolve(context.Background(), app, topo)
			if err != nil {
				var insufficient *InsufficientResourceError
				return errors.As(err, &insufficient)
			}
			for _, d := range topo.Devices() {
				if d.IsRoot() {
					continue
				}
				used := 0
				for _, name := range p.ModulesOn(d.ID) {
					m, _ := app.Module(name)
					used += m.Memory
				}
				if used > d.RAM {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 4),
		gen.IntRange(0, 30),
		gen.IntRange(0, 40),
	))

	properties.Property("every module is placed and resolve is idempotent", prop.ForAll(
		func(hubs, hubRAM, gatewayRAM int) bool {
			topo := homeTree(t, treeSpec{hubs: hubs, hubRAM: hubRAM, gatewayRAM: gatewayRAM})
			policy := NewEdgeward()
			first, err := policy.Resolve(context.Background(), app, topo)
			second, err2 := policy.Resolve(context.Background(), app, topo)
			if err != nil || err2 != nil {
				return err != nil && err2 != nil && err.Error() == err2.Error()
			}
			for _, m := range app.Modules() {
				if len(first.DevicesFor(m.Name)) == 0 {
					return false
				}
			}
			return first.Equal(second)
		},
		gen.IntRange(1, 4),
		gen.IntRange(0, 30),
		gen.IntRange(0, 40),
	))

	properties.TestingRun(t)
}
