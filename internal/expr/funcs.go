package expr

import (
	"math"

	"gonum.org/v1/gonum/num/dual"
)

type function struct {
	name  string
	valid func(float64) bool
	real  func(float64) float64
	dual  func(dual.Number) dual.Number
}

func positive(v float64) bool    { return v > 0 }
func nonNegative(v float64) bool { return v >= 0 }
func unit(v float64) bool        { return v >= -1 && v <= 1 }
func everywhere(float64) bool    { return true }

var functions = map[string]*function{
	"sin":   {name: "sin", valid: everywhere, real: math.Sin, dual: dual.Sin},
	"cos":   {name: "cos", valid: everywhere, real: math.Cos, dual: dual.Cos},
	"tan":   {name: "tan", valid: everywhere, real: math.Tan, dual: dual.Tan},
	"asin":  {name: "asin", valid: unit, real: math.Asin, dual: dual.Asin},
	"acos":  {name: "acos", valid: unit, real: math.Acos, dual: dual.Acos},
	"atan":  {name: "atan", valid: everywhere, real: math.Atan, dual: dual.Atan},
	"sinh":  {name: "sinh", valid: everywhere, real: math.Sinh, dual: dual.Sinh},
	"cosh":  {name: "cosh", valid: everywhere, real: math.Cosh, dual: dual.Cosh},
	"tanh":  {name: "tanh", valid: everywhere, real: math.Tanh, dual: dual.Tanh},
	"exp":   {name: "exp", valid: everywhere, real: math.Exp, dual: dual.Exp},
	"ln":    {name: "ln", valid: positive, real: math.Log, dual: dual.Log},
	"log":   {name: "log", valid: positive, real: math.Log, dual: dual.Log},
	"log10": {name: "log10", valid: positive, real: math.Log10, dual: dualLog10},
	"sqrt":  {name: "sqrt", valid: nonNegative, real: math.Sqrt, dual: dual.Sqrt},
	"cbrt":  {name: "cbrt", valid: everywhere, real: math.Cbrt, dual: dualCbrt},
	"abs":   {name: "abs", valid: everywhere, real: math.Abs, dual: dual.Abs},
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

func dualLog10(d dual.Number) dual.Number {
	l := dual.Log(d)
	return dual.Number{Real: l.Real / math.Ln10, Emag: l.Emag / math.Ln10}
}

func dualCbrt(d dual.Number) dual.Number {
	c := math.Cbrt(d.Real)
	return dual.Number{Real: c, Emag: d.Emag / (3 * c * c)}
}
