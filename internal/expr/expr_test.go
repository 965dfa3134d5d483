package expr

import (
	"errors"
	"math"
	"testing"
)

func TestParseEval(t *testing.T) {
	tests := []struct {
		src  string
		x    float64
		want float64
	}{
		{"x^2 + x - 6", 2, 0},
		{"x**2 + x - 6", -3, 0},
		{"6 - x^2", 0.1, 5.99},
		{"sqrt(6 - x)", 2, 2},
		{"-sqrt(6 - x)", -3, -3},
		{"-x^2", 3, -9},
		{"2^3^2", 0, 512},
		{"2*pi", 0, 2 * math.Pi},
		{"e^x", 1, math.E},
		{"exp(x) - 3*x", 0, 1},
		{"cos(x) - x", 0, 1},
		{"x^3 - 2*x - 5", 2, -1},
		{"1.5e2 + x", 0, 150},
		{"ln(e)", 0, 1},
		{"log10(100)", 0, 2},
		{"abs(-x)", 4, 4},
		{"cbrt(-27)", 0, -3},
		{"(x + 1) / (x - 1)", 3, 2},
		{"+x", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := Parse(tt.src)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			got, err := e.Eval(tt.x)
			if err != nil {
				t.Fatalf("eval failed: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Eval(%v) = %v, want %v", tt.x, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"x +",
		"(x + 1",
		"x + 1)",
		"sqrt x",
		"y + 1",
		"import(x)",
		"x $ 2",
		"2x",
		".",
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, err := Parse(src)
			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("expected syntax error, got %v", err)
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("expected *SyntaxError, got %T", err)
			}
		})
	}
}

func TestDomainErrors(t *testing.T) {
	tests := []struct {
		src string
		x   float64
	}{
		{"sqrt(6 - x)", 7},
		{"ln(x)", 0},
		{"log(x)", -1},
		{"1 / x", 0},
		{"asin(x)", 2},
		{"x^0.5", -4},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e := MustParse(tt.src)
			if _, err := e.Eval(tt.x); !errors.Is(err, ErrDomain) {
				t.Errorf("Eval: expected domain error, got %v", err)
			}
			if _, err := e.Derivative(tt.x); !errors.Is(err, ErrDomain) {
				t.Errorf("Derivative: expected domain error, got %v", err)
			}
		})
	}
}

func TestDerivative(t *testing.T) {
	tests := []struct {
		src  string
		x    float64
		want float64
	}{
		{"x^2 + x - 6", 2, 5},
		{"6 - x^2", 1, -2},
		{"sqrt(6 - x)", 2, -0.25},
		{"cos(x) - x", 0, -1},
		{"exp(x) - 3*x", 0, -2},
		{"x^3 - 2*x - 5", 2, 10},
		{"x^x", 1, 1},
		{"1 / x", 2, -0.25},
		{"log10(x)", 1, 1 / math.Ln10},
		{"cbrt(x)", 8, 1.0 / 12},
		{"-x", 3, -1},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := MustParse(tt.src).Derivative(tt.x)
			if err != nil {
				t.Fatalf("derivative failed: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("f'(%v) = %v, want %v", tt.x, got, tt.want)
			}
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, src := range []string{"x^2 + x - 6", "-sqrt(6 - x)", "2^3^2", "-(x - 1)^2", "e^x / pi"} {
		e := MustParse(src)
		again, err := Parse(e.String())
		if err != nil {
			t.Fatalf("%q re-parse failed: %v", e.String(), err)
		}
		if again.String() != e.String() {
			t.Errorf("round trip changed %q to %q", e.String(), again.String())
		}
		for _, x := range []float64{-2, 0.5, 3} {
			a, errA := e.Eval(x)
			b, errB := again.Eval(x)
			if (errA == nil) != (errB == nil) || (errA == nil && a != b) {
				t.Errorf("%q and %q disagree at %v", src, e.String(), x)
			}
		}
	}
}

func TestParseVar(t *testing.T) {
	e, err := ParseVar("t^2 - 2", "t")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if v, _ := e.Eval(3); v != 7 {
		t.Errorf("expected 7, got %v", v)
	}
	if _, err := ParseVar("x", "t"); !errors.Is(err, ErrSyntax) {
		t.Errorf("x should be unknown when the variable is t, got %v", err)
	}
}

func TestFunc(t *testing.T) {
	f := MustParse("sqrt(x)").Func()
	if _, err := f(-1); !errors.Is(err, ErrDomain) {
		t.Errorf("expected domain error, got %v", err)
	}
	df := MustParse("x^2").DerivativeFunc()
	if v, err := df(3); err != nil || v != 6 {
		t.Errorf("expected 6, got %v (%v)", v, err)
	}
}
