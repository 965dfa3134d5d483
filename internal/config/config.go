package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMethod        = "fixed-point"
	DefaultTolerance     = 1e-5
	DefaultMaxIterations = 100
	DefaultDomainMin     = -4.0
	DefaultDomainMax     = 4.0
)

var Methods = []string{"fixed-point", "secant", "newton"}

// Config describes one root-finding problem. F is the equation, G the
// fixed-point rule and DF an optional derivative for Newton's method; all
// three are formulas in x. X1 is the secant method's second guess; nil
// means x0 + 1.
type Config struct {
	Name          string     `yaml:"name"`
	Method        string     `yaml:"method"`
	F             string     `yaml:"f"`
	G             string     `yaml:"g,omitempty"`
	DF            string     `yaml:"df,omitempty"`
	X0            float64    `yaml:"x0"`
	X1            *float64   `yaml:"x1,omitempty"`
	Tolerance     float64    `yaml:"tolerance"`
	MaxIterations int        `yaml:"max_iterations"`
	Domain        [2]float64 `yaml:"domain,flow"`
}

func DefaultConfig() *Config {
	return &Config{
		Method:        DefaultMethod,
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
		Domain:        [2]float64{DefaultDomainMin, DefaultDomainMax},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch c.Method {
	case "fixed-point":
		if c.G == "" {
			return fmt.Errorf("method fixed-point needs an iteration rule g")
		}
	case "secant", "newton":
	default:
		return fmt.Errorf("unknown method: %s (available: %v)", c.Method, Methods)
	}
	if c.F == "" {
		return fmt.Errorf("equation f is empty")
	}
	if !(c.Tolerance > 0) {
		return fmt.Errorf("tolerance must be positive, got %g", c.Tolerance)
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("max_iterations must not be negative, got %d", c.MaxIterations)
	}
	if c.Domain[0] >= c.Domain[1] {
		return fmt.Errorf("domain [%g, %g] is empty", c.Domain[0], c.Domain[1])
	}
	return nil
}

// Clone returns a copy safe to modify without touching presets.
func (c *Config) Clone() *Config {
	cp := *c
	if c.X1 != nil {
		cp.X1 = Guess(*c.X1)
	}
	return &cp
}

// Guess returns a pointer to v, for setting X1.
func Guess(v float64) *float64 {
	return &v
}
