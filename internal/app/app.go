package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/fogplace/internal/config"
	"github.com/vk/fogplace/internal/coordinator"
	"github.com/vk/fogplace/internal/ctxlog"
	"github.com/vk/fogplace/internal/kernel"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	loader     config.Loader
	kernel     coordinator.Kernel
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and the kernel named
// by cfg.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg, outW)
	logger.Debug("Logger configured successfully.")

	k, err := newKernel(cfg)
	if err != nil {
		// NewConfig only admits known kernels, so this is a programmer error.
		panic(err)
	}
	logger.Debug("Kernel configured.", "kernel", k.Name())

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		loader: loader,
		kernel: k,
	}
}

// Kernel returns the kernel bundles are submitted to. This is primarily for testing.
func (a *App) Kernel() coordinator.Kernel {
	return a.kernel
}

func newKernel(cfg *Config) (coordinator.Kernel, error) {
	switch cfg.Kernel {
	case KernelRecorder, "":
		return kernel.NewRecorder(), nil
	case KernelFile:
		return kernel.NewFile(cfg.OutDir), nil
	case KernelSocketIO:
		return kernel.NewSocketIO(kernel.SocketIOConfig{
			URL:                cfg.KernelURL,
			Namespace:          cfg.KernelNamespace,
			InsecureSkipVerify: cfg.Insecure,
			Timeout:            cfg.KernelTimeout,
		}), nil
	case KernelHTTP:
		return kernel.NewHTTP(kernel.HTTPConfig{
			URL:                cfg.KernelURL,
			InsecureSkipVerify: cfg.Insecure,
			Timeout:            cfg.KernelTimeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown kernel %q", cfg.Kernel)
	}
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
