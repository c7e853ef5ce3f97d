package tool

import (
	"context"

	"github.com/hupe1980/agentloop/internal/mathexpr"
)

// CalculatorArgs are the arguments of the calculate demo tool.
type CalculatorArgs struct {
	Expression string `json:"expression" jsonschema_description:"Arithmetic expression to evaluate, e.g. (23 + 17) * 2."`
}

// NewCalculatorTool returns the calculate demo tool. Expressions are
// evaluated by a small arithmetic parser; syntax and division-by-zero
// failures come back as error-shaped results rather than Go errors so the
// owning run keeps moving.
func NewCalculatorTool() *FunctionTool {
	return NewFunctionToolFromStruct(
		"calculate",
		"Evaluates an arithmetic expression and returns the result.",
		CalculatorArgs{},
		func(_ context.Context, args map[string]any) (any, error) {
			expression, _ := args["expression"].(string)

			result, err := mathexpr.Eval(expression)
			if err != nil {
				return map[string]any{"error": err.Error(), "expression": expression}, nil
			}

			return map[string]any{"expression": expression, "result": result}, nil
		},
	)
}
