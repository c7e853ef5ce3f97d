package mathexpr

import (
	"errors"
	"math"
	"testing"
)

func TestEval_Valid(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"2+3", 5},
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"10/4", 2.5},
		{"10%3", 1},
		{"7.5%2", 1.5},
		{"-5+3", -2},
		{"3--2", 5},
		{"-(2+3)", -5},
		{"2*(3+(4-1))", 12},
		{"  2 +\t3 ", 5},
		{"100/10/2", 5},
		{"10-4-3", 3},
		{"0.1+0.2", 0.3},
		{".5*4", 2},
		{"42", 42},
		{"-0", 0},
	}

	for _, tt := range tests {
		got, err := Eval(tt.expr)
		if err != nil {
			t.Errorf("Eval(%q) unexpected error: %v", tt.expr, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Eval(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestEval_DivisionByZero(t *testing.T) {
	for _, expr := range []string{"1/0", "5%0", "3/(2-2)"} {
		_, err := Eval(expr)
		if !errors.Is(err, ErrDivisionByZero) {
			t.Errorf("Eval(%q) expected ErrDivisionByZero, got %v", expr, err)
		}
	}
}

func TestEval_SyntaxErrors(t *testing.T) {
	invalid := []string{
		"",
		"   ",
		"2+",
		"(2+3",
		"2+3)",
		"abc",
		"2**3",
		"1.2.3",
		"2;3",
		"__import__",
		"2 2",
	}

	for _, expr := range invalid {
		if _, err := Eval(expr); err == nil {
			t.Errorf("Eval(%q) expected error", expr)
		}
	}
}
