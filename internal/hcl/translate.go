package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/vk/fogplace/internal/config"
	"github.com/vk/fogplace/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

func translateApplication(a *applicationBlock) *config.Application {
	app := &config.Application{ID: a.ID}
	for _, m := range a.Modules {
		app.Modules = append(app.Modules, &config.Module{Name: m.Name, Memory: m.Memory})
	}
	for _, e := range a.Edges {
		app.Edges = append(app.Edges, &config.Edge{
			Source:      e.Source,
			Destination: e.Destination,
			Cost:        e.Cost,
			DataSize:    e.DataSize,
			TupleType:   e.TupleType,
			Direction:   e.Direction,
			Role:        e.Role,
		})
	}
	for _, tm := range a.TupleMappings {
		app.TupleMappings = append(app.TupleMappings, &config.TupleMapping{
			Module:      tm.Module,
			Input:       tm.Input,
			Output:      tm.Output,
			Selectivity: tm.Selectivity,
		})
	}
	for _, l := range a.Loops {
		app.Loops = append(app.Loops, &config.Loop{Modules: l.Modules})
	}
	return app
}

func translatePlacement(p *placementBlock) *config.Placement {
	out := &config.Placement{Policy: p.Policy, BoundedRoot: p.BoundedRoot}
	for _, m := range p.Mappings {
		out.Mapping = append(out.Mapping, &config.MappingEntry{Module: m.Module, Devices: m.Devices})
	}
	return out
}

// expandDevice decodes one device block once per count instance.
func expandDevice(ctx context.Context, evalCtx *hcl.EvalContext, b *deviceBlock) ([]*config.Device, error) {
	logger := ctxlog.FromContext(ctx).With("device_block", b.Label)
	owner := fmt.Sprintf("device %q", b.Label)

	count, counted, err := evalCount(b.Count, evalCtx, owner)
	if err != nil {
		return nil, err
	}
	logger.Debug("Expanding device block.", "count", count, "counted", counted)

	devices := make([]*config.Device, 0, count)
	for i := 0; i < count; i++ {
		instCtx := instanceContext(evalCtx, i, nil)
		var attrs deviceAttrs
		if diags := gohcl.DecodeBody(b.Body, instCtx, &attrs); diags.HasErrors() {
			return nil, fmt.Errorf("%s instance %d: %w", owner, i, diags)
		}

		d := &config.Device{
			Name:           instanceName(attrs.Name, b.Label, counted, i),
			MIPS:           attrs.MIPS,
			RAM:            attrs.Memory,
			UpBW:           attrs.UpBW,
			DownBW:         attrs.DownBW,
			UplinkLatency:  attrs.UplinkLatency,
			RatePerMIPS:    attrs.RatePerMIPS,
			BusyPower:      attrs.BusyPower,
			IdlePower:      attrs.IdlePower,
			Storage:        attrs.Storage,
			Cost:           attrs.Cost,
			CostPerMemory:  attrs.CostPerMemory,
			CostPerStorage: attrs.CostPerStorage,
			CostPerBW:      attrs.CostPerBW,
		}
		if attrs.Parent != nil {
			d.Parent = *attrs.Parent
		}

		deviceVar := cty.ObjectVal(map[string]cty.Value{
			"name":  cty.StringVal(d.Name),
			"index": cty.NumberIntVal(int64(i)),
		})
		d.Sensors, err = expandSensors(instCtx, deviceVar, attrs.Sensors)
		if err != nil {
			return nil, fmt.Errorf("device %q: %w", d.Name, err)
		}
		d.Actuators, err = expandActuators(instCtx, deviceVar, attrs.Actuators)
		if err != nil {
			return nil, fmt.Errorf("device %q: %w", d.Name, err)
		}
		devices = append(devices, d)
	}
	return devices, nil
}

func expandSensors(evalCtx *hcl.EvalContext, device cty.Value, blocks []*endpointBlock) ([]*config.Sensor, error) {
	var out []*config.Sensor
	for _, b := range blocks {
		owner := fmt.Sprintf("sensor %q", b.Label)
		count, counted, err := evalCount(b.Count, evalCtx, owner)
		if err != nil {
			return nil, err
		}
		for i := 0; i < count; i++ {
			instCtx := instanceContext(evalCtx, i, map[string]cty.Value{"device": device})
			var attrs sensorAttrs
			if diags := gohcl.DecodeBody(b.Body, instCtx, &attrs); diags.HasErrors() {
				return nil, fmt.Errorf("%s instance %d: %w", owner, i, diags)
			}
			s := &config.Sensor{
				Name:      instanceName(attrs.Name, b.Label, counted, i),
				TupleType: attrs.TupleType,
				Latency:   attrs.Latency,
			}
			if dist := attrs.Distribution; dist != nil {
				s.Distribution = &config.Distribution{
					Kind:  dist.Kind,
					Value: dist.Value,
					Mu:    dist.Mu,
					Sigma: dist.Sigma,
					Min:   dist.Min,
					Max:   dist.Max,
				}
			}
			out = append(out, s)
		}
	}
	return out, nil
}

func expandActuators(evalCtx *hcl.EvalContext, device cty.Value, blocks []*endpointBlock) ([]*config.Actuator, error) {
	var out []*config.Actuator
	for _, b := range blocks {
		owner := fmt.Sprintf("actuator %q", b.Label)
		count, counted, err := evalCount(b.Count, evalCtx, owner)
		if err != nil {
			return nil, err
		}
		for i := 0; i < count; i++ {
			instCtx := instanceContext(evalCtx, i, map[string]cty.Value{"device": device})
			var attrs actuatorAttrs
			if diags := gohcl.DecodeBody(b.Body, instCtx, &attrs); diags.HasErrors() {
				return nil, fmt.Errorf("%s instance %d: %w", owner, i, diags)
			}
			out = append(out, &config.Actuator{
				Name:         instanceName(attrs.Name, b.Label, counted, i),
				ActuatorType: attrs.ActuatorType,
				Latency:      attrs.Latency,
			})
		}
	}
	return out, nil
}
