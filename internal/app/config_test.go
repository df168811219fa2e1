package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Houses:    3,
		Kernel:    KernelRecorder,
		LogFormat: "text",
		LogLevel:  "info",
	}
}

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "file kernel", mutate: func(c *Config) { c.Kernel = KernelFile; c.OutDir = "out" }},
		{name: "socketio kernel", mutate: func(c *Config) { c.Kernel = KernelSocketIO; c.KernelURL = "http://localhost:3000" }},
		{name: "http kernel", mutate: func(c *Config) { c.Kernel = KernelHTTP; c.KernelURL = "https://kernel.local/submit" }},
		{name: "fixed policy", mutate: func(c *Config) { c.Policy = "fixed" }},
		{name: "unknown kernel", mutate: func(c *Config) { c.Kernel = "grpc" }, wantErr: "Kernel must be one of [recorder file socketio http]"},
		{name: "file kernel without dir", mutate: func(c *Config) { c.Kernel = KernelFile }, wantErr: "OutDir is required when Kernel is file"},
		{name: "socketio kernel without url", mutate: func(c *Config) { c.Kernel = KernelSocketIO }, wantErr: "KernelURL is required when Kernel is socketio"},
		{name: "http kernel without url", mutate: func(c *Config) { c.Kernel = KernelHTTP }, wantErr: "KernelURL is required when Kernel is http"},
		{name: "bad url", mutate: func(c *Config) { c.Kernel = KernelSocketIO; c.KernelURL = "not a url" }, wantErr: "KernelURL must be a valid URL"},
		{name: "unknown policy", mutate: func(c *Config) { c.Policy = "random" }, wantErr: "Policy must be one of [edgeward fixed]"},
		{name: "no houses", mutate: func(c *Config) { c.Houses = 0 }, wantErr: "Houses failed gte=1"},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: "LogFormat must be one of"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "trace" }, wantErr: "LogLevel must be one of"},
		{name: "bad port", mutate: func(c *Config) { c.HealthcheckPort = 70000 }, wantErr: "HealthcheckPort failed lte=65535"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			got, err := NewConfig(cfg)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, cfg, *got)
		})
	}
}

func TestNewKernel(t *testing.T) {
	for kind, name := range map[string]string{
		KernelRecorder: "recorder",
		KernelFile:     "file",
		KernelSocketIO: "socketio",
		KernelHTTP:     "http",
	} {
		k, err := newKernel(&Config{Kernel: kind, OutDir: "out", KernelURL: "http://localhost:1"})
		require.NoError(t, err)
		assert.Equal(t, name, k.Name())
	}

	_, err := newKernel(&Config{Kernel: "grpc"})
	assert.Error(t, err)
}
