package qasm

import (
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr"
)

// exprEnv is the whole vocabulary of a gate parameter: the constant pi and the OpenQASM 2 unary
// functions. Anything else fails to compile.
var exprEnv = map[string]any{
	"pi":   math.Pi,
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"exp":  math.Exp,
	"ln":   math.Log,
	"sqrt": math.Sqrt,
}

// evalExpr evaluates a classical parameter expression such as "pi/2" or "2*sqrt(2)". ^ is right
// associative. The result must be a finite number.
func evalExpr(src string) (float64, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return 0, fmt.Errorf("empty expression")
	}
	program, err := expr.Compile(src, expr.Env(exprEnv), expr.AsFloat64(), expr.Optimize(false))
	if err != nil {
		return 0, fmt.Errorf("expression %q: %v", src, firstLine(err.Error()))
	}
	out, err := expr.Run(program, exprEnv)
	if err != nil {
		return 0, fmt.Errorf("expression %q: %v", src, firstLine(err.Error()))
	}
	v, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("expression %q is not numeric", src)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("expression %q is not finite", src)
	}
	return v, nil
}

// firstLine drops the source excerpt expr appends to its messages.
func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
