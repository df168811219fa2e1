package app

import (
	"context"
	"fmt"

	"github.com/vk/fogplace/internal/config"
	"github.com/vk/fogplace/internal/ctxlog"
	"github.com/vk/fogplace/internal/scenario"
)

// loadScenario reads the configured scenario files, or the built-in smart
// home scenario when no path is set, applies the policy overrides and builds
// the frozen structures.
func (a *App) loadScenario(ctx context.Context) (*scenario.Scenario, error) {
	logger := ctxlog.FromContext(ctx)

	var model *config.Model
	if a.config.ScenarioPath != "" {
		logger.Debug("Loading scenario...", "path", a.config.ScenarioPath)
		m, err := a.loader.Load(ctx, a.config.ScenarioPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load scenario: %w", err)
		}
		model = m
	} else {
		logger.Debug("Using built-in smart home scenario.", "houses", a.config.Houses, "cloud", a.config.Cloud)
		opts := scenario.DefaultSmartHomeOptions()
		opts.Houses = a.config.Houses
		opts.Cloud = a.config.Cloud
		model = scenario.SmartHomeModel(opts)
	}

	a.applyOverrides(model)

	sc, err := scenario.Build(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("failed to build scenario: %w", err)
	}
	logger.Info("Scenario loaded.",
		"application", sc.Application.ID(),
		"modules", len(sc.Application.Modules()),
		"devices", sc.Topology.Len(),
		"policy", sc.Policy.Name(),
	)
	return sc, nil
}

func (a *App) applyOverrides(m *config.Model) {
	if a.config.Policy == "" && !a.config.BoundedRoot {
		return
	}
	if m.Placement == nil {
		m.Placement = &config.Placement{}
	}
	if a.config.Policy != "" {
		m.Placement.Policy = a.config.Policy
	}
	if a.config.BoundedRoot {
		m.Placement.BoundedRoot = true
	}
}
