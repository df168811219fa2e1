package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/vk/fogplace/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("fogplace", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
fogplace - Places a distributed application onto a fog device hierarchy and
submits the result to a simulation kernel.

Usage:
  fogplace [options] [SCENARIO_PATH]

Arguments:
  SCENARIO_PATH
    Path to a single .hcl file or a directory containing .hcl files.
    Without it the built-in smart home scenario is used.

Options:
`)
		flagSet.PrintDefaults()
	}

	scenarioFlag := flagSet.String("scenario", "", "Path to the scenario file or directory.")
	sFlag := flagSet.String("s", "", "Path to the scenario file or directory (shorthand).")
	housesFlag := flagSet.Int("houses", 3, "Number of houses in the built-in smart home scenario.")
	cloudFlag := flagSet.Bool("cloud", false, "Built-in scenario only: run every processing module in the cloud.")
	policyFlag := flagSet.String("policy", "", "Override the scenario's placement policy. Options: 'edgeward' or 'fixed'.")
	boundedRootFlag := flagSet.Bool("bounded-root", false, "Check the root device's memory like any other device.")
	kernelFlag := flagSet.String("kernel", app.KernelRecorder, "Kernel receiving the bundle. Options: 'recorder', 'file', 'socketio' or 'http'.")
	outDirFlag := flagSet.String("out-dir", "", "Directory the file kernel writes manifests to.")
	kernelURLFlag := flagSet.String("kernel-url", "", "URL of the remote socket.io or HTTP kernel.")
	namespaceFlag := flagSet.String("namespace", "/", "socket.io namespace of the remote kernel.")
	timeoutFlag := flagSet.Duration("kernel-timeout", 15*time.Second, "How long to wait for the remote kernel.")
	insecureFlag := flagSet.Bool("insecure", false, "Skip TLS certificate verification for the remote kernel.")
	reportFlag := flagSet.Bool("report", true, "Print a placement report after deployment.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *scenarioFlag != "" {
		path = *scenarioFlag
	} else if *sFlag != "" {
		path = *sFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Scenario path determined.", "path", path)

	config, err := app.NewConfig(app.Config{
		ScenarioPath:    path,
		Houses:          *housesFlag,
		Cloud:           *cloudFlag,
		Policy:          strings.ToLower(*policyFlag),
		BoundedRoot:     *boundedRootFlag,
		Kernel:          strings.ToLower(*kernelFlag),
		OutDir:          *outDirFlag,
		KernelURL:       *kernelURLFlag,
		KernelNamespace: *namespaceFlag,
		KernelTimeout:   *timeoutFlag,
		Insecure:        *insecureFlag,
		Report:          *reportFlag,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       strings.ToLower(*logFormatFlag),
		LogLevel:        strings.ToLower(*logLevelFlag),
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
