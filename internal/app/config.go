package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Kernel kinds accepted by Config.Kernel.
const (
	KernelRecorder = "recorder"
	KernelFile     = "file"
	KernelSocketIO = "socketio"
	KernelHTTP     = "http"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ScenarioPath is an .hcl file or a directory of them. Empty selects the
	// built-in smart home scenario.
	ScenarioPath string
	Houses       int `validate:"gte=1"`
	Cloud        bool

	// Policy overrides the scenario's placement policy when set.
	Policy      string `validate:"omitempty,oneof=edgeward fixed"`
	BoundedRoot bool

	Kernel          string `validate:"oneof=recorder file socketio http"`
	OutDir          string `validate:"required_if=Kernel file"`
	KernelURL       string `validate:"omitempty,url"`
	KernelNamespace string
	KernelTimeout   time.Duration
	Insecure        bool

	Report          bool
	LogFormat       string `validate:"oneof=text json"`
	LogLevel        string `validate:"oneof=debug info warn error"`
	HealthcheckPort int    `validate:"gte=0,lte=65535"`
}

var validate = validator.New()

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return nil, errors.New(strings.Join(msgs, "; "))
	}
	if (cfg.Kernel == KernelSocketIO || cfg.Kernel == KernelHTTP) && cfg.KernelURL == "" {
		return nil, fmt.Errorf("KernelURL is required when Kernel is %s", cfg.Kernel)
	}
	return &cfg, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required_if":
		return fmt.Sprintf("%s is required when %s", fe.Field(), strings.Replace(fe.Param(), " ", " is ", 1))
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "url":
		return fmt.Sprintf("%s must be a valid URL, got %q", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
}
