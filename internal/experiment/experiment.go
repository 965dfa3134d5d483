package experiment

import (
	"fmt"

	"github.com/san-kum/rootlab/internal/config"
	"github.com/san-kum/rootlab/internal/expr"
	"github.com/san-kum/rootlab/internal/root"
)

// Experiment is a configured problem bound to a solver.
type Experiment struct {
	cfg     *config.Config
	problem root.Problem
	solver  *root.Solver
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(registry *Registry, observers ...root.Observer) error {
	if e.cfg == nil {
		return fmt.Errorf("experiment has no config")
	}
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	st, err := registry.GetStepper(e.cfg.Method)
	if err != nil {
		return err
	}
	p, err := BuildProblem(e.cfg)
	if err != nil {
		return err
	}

	e.problem = p
	e.solver = root.New(st)
	for _, m := range registry.DefaultMetrics() {
		e.solver.AddMetric(m)
	}
	for _, o := range observers {
		e.solver.AddObserver(o)
	}
	return nil
}

func (e *Experiment) Run() (*root.Result, error) {
	if e.solver == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.solver.Solve(e.problem, e.SolverConfig())
}

func (e *Experiment) Problem() root.Problem { return e.problem }

func (e *Experiment) SolverConfig() root.Config {
	return root.Config{
		Tolerance:     e.cfg.Tolerance,
		MaxIterations: e.cfg.MaxIterations,
		RecordTrace:   true,
	}
}

// BuildProblem parses the formulas in cfg. Empty g or df leave the
// corresponding function nil; a missing x1 becomes x0 + 1.
func BuildProblem(cfg *config.Config) (root.Problem, error) {
	p := root.Problem{X0: cfg.X0, X1: cfg.X0 + 1}
	if cfg.X1 != nil {
		p.X1 = *cfg.X1
	}

	f, err := expr.Parse(cfg.F)
	if err != nil {
		return p, fmt.Errorf("f: %w", err)
	}
	p.F = f.Func()

	if cfg.G != "" {
		g, err := expr.Parse(cfg.G)
		if err != nil {
			return p, fmt.Errorf("g: %w", err)
		}
		p.G = g.Func()
	}

	switch {
	case cfg.DF != "":
		df, err := expr.Parse(cfg.DF)
		if err != nil {
			return p, fmt.Errorf("df: %w", err)
		}
		p.DF = df.Func()
	case cfg.Method == "newton":
		p.DF = f.DerivativeFunc()
	}
	return p, nil
}
