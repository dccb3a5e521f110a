// Package calc evaluates arithmetic expressions embedded in chat messages.
package calc

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// Evaluator computes arithmetic expressions via expr-lang. It is stateless
// and safe for concurrent use.
type Evaluator struct{}

// New constructs an evaluator.
func New() *Evaluator {
	return &Evaluator{}
}

// Evaluate compiles and runs an expression with no environment. Malformed
// input and non-numeric results are normal error returns, never panics.
func (e *Evaluator) Evaluate(expression string) (float64, error) {
	program, err := expr.Compile(expression)
	if err != nil {
		return 0, fmt.Errorf("compile expression: %w", err)
	}

	out, err := expr.Run(program, nil)
	if err != nil {
		return 0, fmt.Errorf("run expression: %w", err)
	}

	switch v := out.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("expression result is not a number: %T", out)
	}
}
