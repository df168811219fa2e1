package app

import (
	"context"
	"fmt"

	"github.com/vk/fogplace/internal/coordinator"
)

// Run loads the scenario, resolves its placement and submits the bundle to
// the configured kernel. The returned bundle is the one the kernel accepted.
func (a *App) Run(ctx context.Context) (*coordinator.Bundle, error) {
	ctx = a.context(ctx)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		if err := a.startHealthcheckServer(ctx); err != nil {
			return nil, err
		}
		defer a.closeHealthcheckServer(ctx)
	}

	sc, err := a.loadScenario(ctx)
	if err != nil {
		return nil, err
	}

	a.logger.Info("🚀 Deploying application...", "kernel", a.kernel.Name())
	bundle, err := coordinator.New(a.kernel).Deploy(ctx, sc.Application, sc.Topology, sc.Policy)
	if err != nil {
		return nil, fmt.Errorf("deploy failed: %w", err)
	}
	a.logger.Info("🏁 Deployment finished.", "bundle", bundle.ID)

	if a.config.Report {
		if err := writeReport(a.outW, buildReport(bundle)); err != nil {
			return nil, fmt.Errorf("writing report: %w", err)
		}
	}

	a.logger.Debug("App.Run method finished.")
	return bundle, nil
}
