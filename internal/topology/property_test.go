package topology

import (
	"context"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestTreeInvariantProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	// parents[i] picks the parent of device i+1 among devices 0..i, so any
	// slice describes a valid rooted tree regardless of attachment order.
	properties.Property("levels grow by one per edge and there is one root", prop.ForAll(
		func(parents []int, reverse bool) bool {
			b := NewBuilder()
			handles := make([]*Device, len(parents)+1)
			for i := range handles {
				d, err := b.CreateDevice(DeviceSpec{Name: fmt.Sprintf("d%d", i), RAM: 1})
				if err != nil {
					return false
				}
				handles[i] = d
			}
			attach := func(i int) bool {
				parent := handles[parents[i]%(i+1)]
				return b.AttachChild(parent.ID, handles[i+1], 1) == nil
			}
			for k := range parents {
				i := k
				if reverse {
					i = len(parents) - 1 - k
				}
				if !attach(i) {
					return false
				}
			}

			topo, err := b.Build(context.Background())
			if err != nil {
				return false
			}
			roots := 0
			for _, d := range topo.Devices() {
				if d.IsRoot() {
					roots++
					if d.Level != 0 {
						return false
					}
					continue
				}
				p, ok := topo.Device(d.Parent)
				if !ok || d.Level != p.Level+1 {
					return false
				}
			}
			return roots == 1
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
