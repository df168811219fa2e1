package hcl

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/fogplace/internal/config"
	"github.com/vk/fogplace/internal/ctxlog"
	"github.com/vk/fogplace/internal/fsutil"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL scenario loader.
func NewLoader() *Loader {
	return &Loader{}
}

// baseContext exposes a small function library to every expression.
func baseContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"concat": stdlib.ConcatFunc,
			"format": stdlib.FormatFunc,
			"lower":  stdlib.LowerFunc,
			"max":    stdlib.MaxFunc,
			"min":    stdlib.MinFunc,
			"range":  stdlib.RangeFunc,
			"upper":  stdlib.UpperFunc,
		},
	}
}

// Load parses every .hcl file under paths and merges them into one Model.
// Exactly one application block must exist across all files, and at most one
// placement block.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFilesByExtension(".hcl", paths...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl scenario files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	evalCtx := baseContext()
	model := &config.Model{}
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, evalCtx, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, app := range root.Applications {
			if model.Application != nil {
				return nil, fmt.Errorf("%s: application %q: only one application block is allowed, %q already declared", file, app.ID, model.Application.ID)
			}
			model.Application = translateApplication(app)
		}
		for _, dev := range root.Devices {
			devices, err := expandDevice(ctx, evalCtx, dev)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			model.Devices = append(model.Devices, devices...)
		}
		for _, p := range root.Placements {
			if model.Placement != nil {
				return nil, fmt.Errorf("%s: only one placement block is allowed", file)
			}
			model.Placement = translatePlacement(p)
		}
	}

	if model.Application == nil {
		return nil, errors.New("scenario has no application block")
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("HCL loading complete.", "application", model.Application.ID, "devices", len(model.Devices), "policy", model.Placement.PolicyName())
	return model, nil
}
