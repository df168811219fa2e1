package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// isExprDefined reports whether expr was written in the source. gohcl fills
// omitted optional expressions with a zero-width placeholder.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	rng := expr.Range()
	return rng.End.Byte > rng.Start.Byte
}

// evalCount resolves a `count` expression. A block without count yields one
// instance and counted == false.
func evalCount(expr hcl.Expression, evalCtx *hcl.EvalContext, owner string) (n int, counted bool, err error) {
	if !isExprDefined(expr) {
		return 1, false, nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return 0, true, fmt.Errorf("count for %s: %w", owner, diags)
	}
	num, err := convert.Convert(val, cty.Number)
	if err != nil || num.IsNull() || !num.IsKnown() {
		return 0, true, fmt.Errorf("count for %s must be a number, but got %s", owner, val.Type().FriendlyName())
	}
	if !num.AsBigFloat().IsInt() {
		return 0, true, fmt.Errorf("count for %s must be a whole number, got %s", owner, num.AsBigFloat().String())
	}
	if err := gocty.FromCtyValue(num, &n); err != nil {
		return 0, true, fmt.Errorf("count for %s: %w", owner, err)
	}
	if n < 0 {
		return 0, true, fmt.Errorf("count for %s cannot be negative, got %d", owner, n)
	}
	return n, true, nil
}

// instanceContext returns a child of parent with count.index set to i, plus
// any extra top-level variables.
func instanceContext(parent *hcl.EvalContext, i int, extra map[string]cty.Value) *hcl.EvalContext {
	child := parent.NewChild()
	child.Variables = map[string]cty.Value{
		"count": cty.ObjectVal(map[string]cty.Value{
			"index": cty.NumberIntVal(int64(i)),
		}),
	}
	for k, v := range extra {
		child.Variables[k] = v
	}
	return child
}

// instanceName picks the explicit name, else label-i for counted blocks, else label.
func instanceName(explicit *string, label string, counted bool, i int) string {
	switch {
	case explicit != nil:
		return *explicit
	case counted:
		return fmt.Sprintf("%s-%d", label, i)
	default:
		return label
	}
}
