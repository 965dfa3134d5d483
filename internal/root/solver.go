package root

// Solver drives a Stepper to termination and reports every iteration to its
// metrics and observers.
type Solver struct {
	stepper   Stepper
	metrics   []Metric
	observers []Observer
}

func New(st Stepper) *Solver {
	return &Solver{
		stepper:   st,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Solver) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Solver) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Solver) Stepper() Stepper { return s.stepper }

func (s *Solver) Solve(p Problem, cfg Config) (*Result, error) {
	it, err := NewIterator(s.stepper, p, cfg)
	if err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for it.Next() {
		row := it.Iteration()
		for _, m := range s.metrics {
			m.Observe(row)
		}
		for _, obs := range s.observers {
			obs.OnIteration(row)
		}
	}

	res, err := it.Result()
	if res != nil {
		res.Metrics = make(map[string]float64, len(s.metrics))
		for _, m := range s.metrics {
			res.Metrics[m.Name()] = m.Value()
		}
	}
	return res, err
}

// FixedPoint iterates x = g(x) from x0. f is evaluated only to report
// residuals.
func FixedPoint(x0 float64, f, g Func, cfg Config) (*Result, error) {
	return New(NewFixedPoint()).Solve(Problem{F: f, G: g, X0: x0}, cfg)
}

func Secant(x0, x1 float64, f Func, cfg Config) (*Result, error) {
	return New(NewSecant()).Solve(Problem{F: f, X0: x0, X1: x1}, cfg)
}

// Newton uses df when non-nil and a central difference otherwise.
func Newton(x0 float64, f, df Func, cfg Config) (*Result, error) {
	return New(NewNewton()).Solve(Problem{F: f, DF: df, X0: x0}, cfg)
}
