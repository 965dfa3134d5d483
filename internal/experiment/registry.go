package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/rootlab/internal/metrics"
	"github.com/san-kum/rootlab/internal/root"
)

type Registry struct {
	steppers map[string]func() root.Stepper
	metrics  map[string]func() root.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		steppers: make(map[string]func() root.Stepper),
		metrics:  make(map[string]func() root.Metric),
	}

	r.steppers["fixed-point"] = func() root.Stepper { return root.NewFixedPoint() }
	r.steppers["secant"] = func() root.Stepper { return root.NewSecant() }
	r.steppers["newton"] = func() root.Stepper { return root.NewNewton() }

	r.metrics["contraction"] = func() root.Metric { return metrics.NewContraction() }
	r.metrics["order"] = func() root.Metric { return metrics.NewOrder() }
	r.metrics["residual_decay"] = func() root.Metric { return metrics.NewResidualDecay() }
	r.metrics["stability"] = func() root.Metric { return metrics.NewStability(metrics.DefaultBound) }

	return r
}

func (r *Registry) GetStepper(name string) (root.Stepper, error) {
	fn, ok := r.steppers[name]
	if !ok {
		return nil, fmt.Errorf("unknown method: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListMethods() []string {
	names := make([]string, 0, len(r.steppers))
	for name := range r.steppers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics() []root.Metric {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]root.Metric, 0, len(names))
	for _, name := range names {
		out = append(out, r.metrics[name]())
	}
	return out
}
