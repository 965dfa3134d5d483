package config

import "sort"

// Presets holds the textbook problems by name.
var Presets = map[string]*Config{
	"quadratic-unstable": {
		Name: "quadratic-unstable", Method: "fixed-point",
		F: "x^2 + x - 6", G: "6 - x^2", X0: 0.1,
		Tolerance: 1e-5, MaxIterations: 100, Domain: [2]float64{-4, 4},
	},
	"quadratic-sqrt": {
		Name: "quadratic-sqrt", Method: "fixed-point",
		F: "x^2 + x - 6", G: "sqrt(6 - x)", X0: 0.1,
		Tolerance: 1e-5, MaxIterations: 100, Domain: [2]float64{-4, 4},
	},
	"quadratic-negsqrt": {
		Name: "quadratic-negsqrt", Method: "fixed-point",
		F: "x^2 + x - 6", G: "-sqrt(6 - x)", X0: 0.1,
		Tolerance: 1e-5, MaxIterations: 100, Domain: [2]float64{-4, 4},
	},
	"cosine": {
		Name: "cosine", Method: "fixed-point",
		F: "cos(x) - x", G: "cos(x)", X0: 1,
		Tolerance: 1e-6, MaxIterations: 200, Domain: [2]float64{-1, 2},
	},
	"quadratic-secant": {
		Name: "quadratic-secant", Method: "secant",
		F: "x^2 + x - 6", X0: 1, X1: Guess(3),
		Tolerance: 1e-8, MaxIterations: 50, Domain: [2]float64{-4, 4},
	},
	"wallis": {
		Name: "wallis", Method: "newton",
		F: "x^3 - 2*x - 5", DF: "3*x^2 - 2", X0: 2,
		Tolerance: 1e-10, MaxIterations: 50, Domain: [2]float64{0, 3},
	},
	"exp-linear": {
		Name: "exp-linear", Method: "newton",
		F: "exp(x) - 3*x", X0: 0,
		Tolerance: 1e-8, MaxIterations: 50, Domain: [2]float64{-1, 2},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns preset names, filtered by method when method is set.
func ListPresets(method string) []string {
	names := make([]string, 0, len(Presets))
	for name, cfg := range Presets {
		if method == "" || cfg.Method == method {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
