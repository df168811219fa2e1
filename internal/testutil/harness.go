package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/fogplace/internal/app"
	"github.com/vk/fogplace/internal/coordinator"
	"github.com/vk/fogplace/internal/hcl"
)

// HarnessResult holds the outcomes of an application run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
	Bundle    *coordinator.Bundle
}

// WriteFiles writes files, keyed by slash-separated relative path, under a
// fresh temporary directory and returns that directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// RunApp runs the application with cfg using the HCL loader. When files is
// non-empty they are written to a temporary directory which becomes
// cfg.ScenarioPath.
func RunApp(t *testing.T, cfg app.Config, files map[string]string) *HarnessResult {
	t.Helper()
	return RunAppWithContext(context.Background(), t, cfg, files)
}

// RunAppWithContext is RunApp with a caller-provided context.
func RunAppWithContext(ctx context.Context, t *testing.T, cfg app.Config, files map[string]string) *HarnessResult {
	t.Helper()

	if len(files) > 0 {
		cfg.ScenarioPath = WriteFiles(t, files)
	}
	if cfg.Houses == 0 {
		cfg.Houses = 1
	}
	if cfg.Kernel == "" {
		cfg.Kernel = app.KernelRecorder
	}
	cfg.LogLevel = "debug"
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	validated, err := app.NewConfig(cfg)
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	result := &HarnessResult{}
	func() {
		defer func() {
			if r := recover(); r != nil {
				result.Err = fmt.Errorf("application startup panicked | %v", r)
			}
		}()
		result.App = app.NewApp(logBuffer, validated, hcl.NewLoader())
		result.Bundle, result.Err = result.App.Run(ctx)
	}()
	result.LogOutput = logBuffer.String()

	if os.Getenv("FOGPLACE_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), result.LogOutput)
	}
	return result
}
