package root_test

import (
	"errors"
	"fmt"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rootlab/internal/root"
)

var (
	quadratic = root.Real(func(x float64) float64 { return x*x + x - 6 })
	unstable  = root.Real(func(x float64) float64 { return 6 - x*x })
	sqrtPos   = root.Real(func(x float64) float64 { return math.Sqrt(6 - x) })
	sqrtNeg   = root.Real(func(x float64) float64 { return -math.Sqrt(6 - x) })
)

var _ = Describe("FixedPoint", func() {
	var cfg root.Config

	BeforeEach(func() {
		cfg = root.Config{Tolerance: 1e-5, MaxIterations: 100, RecordTrace: true}
	})

	It("converges to 2 with g(x) = sqrt(6 - x)", func() {
		res, err := root.FixedPoint(0.1, quadratic, sqrtPos, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Converged()).To(BeTrue())
		Expect(res.Root).To(BeNumerically("~", 2.0, 1e-5))
		Expect(res.Iterations).To(Equal(10))
		Expect(res.Trace).To(HaveLen(res.Iterations))
		Expect(res.Method).To(Equal("fixed-point"))
	})

	It("converges to -3 with g(x) = -sqrt(6 - x)", func() {
		res, err := root.FixedPoint(0.1, quadratic, sqrtNeg, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Root).To(BeNumerically("~", -3.0, 1e-5))
	})

	It("reports non-convergence when g(x) = 6 - x^2 runs away", func() {
		res, err := root.FixedPoint(0.1, quadratic, unstable, cfg)
		Expect(err).To(MatchError(root.ErrNonConvergence))
		Expect(res).NotTo(BeNil())
		Expect(res.Converged()).To(BeFalse())
		Expect(res.Status).To(Equal(root.Diverged))
		Expect(math.IsInf(res.Root, -1)).To(BeTrue())

		var nce *root.NonConvergenceError
		Expect(errors.As(err, &nce)).To(BeTrue())
		Expect(nce.Iterations).To(Equal(res.Iterations))
	})

	It("records an undefined residual when f fails at an overflowed iterate", func() {
		fe := root.Func(func(x float64) (float64, error) {
			if math.IsInf(x, 0) {
				return 0, errors.New("f undefined at infinity")
			}
			return x, nil
		})
		toInf := root.Real(func(float64) float64 { return math.Inf(1) })

		res, err := root.FixedPoint(1, fe, toInf, cfg)
		Expect(err).To(MatchError(root.ErrNonConvergence))
		Expect(res.Status).To(Equal(root.Diverged))
		Expect(res.Trace).To(HaveLen(1))
		Expect(math.IsInf(res.Trace[0].Estimate, 1)).To(BeTrue())
		Expect(math.IsNaN(res.Trace[0].Residual)).To(BeTrue())
	})

	It("grows the unstable sequence in magnitude", func() {
		res, _ := root.FixedPoint(0.1, quadratic, unstable, cfg)
		for i := 3; i < len(res.Trace); i++ {
			Expect(math.Abs(res.Trace[i].Estimate)).To(BeNumerically(">", math.Abs(res.Trace[i-1].Estimate)))
		}
	})

	It("exhausts the budget without a false success", func() {
		cfg.MaxIterations = 5
		res, err := root.FixedPoint(0.1, quadratic, sqrtPos, cfg)
		Expect(err).To(MatchError(root.ErrNonConvergence))
		Expect(res.Status).To(Equal(root.Exhausted))
		Expect(res.Iterations).To(Equal(5))
		Expect(res.Root).To(Equal(res.Trace[4].Estimate))
	})

	DescribeTable("stops after the first update for tiny budgets",
		func(budget int) {
			cfg.MaxIterations = budget
			res, err := root.FixedPoint(0.1, quadratic, sqrtPos, cfg)
			Expect(err).To(MatchError(root.ErrNonConvergence))
			Expect(res.Iterations).To(Equal(1))
			Expect(res.Root).To(BeNumerically("~", math.Sqrt(5.9), 1e-12))
		},
		Entry("zero", 0),
		Entry("one", 1),
	)

	It("stops after one iteration at an exact fixed point", func() {
		res, err := root.FixedPoint(2, quadratic, sqrtPos, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Iterations).To(Equal(1))
		Expect(res.RelError).To(BeZero())
		Expect(res.Root).To(Equal(2.0))
	})

	It("uses the absolute difference when the estimate is exactly zero", func() {
		zero := root.Real(func(float64) float64 { return 0 })
		res, err := root.FixedPoint(1, zero, zero, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Trace[0].RelError).To(Equal(1.0))
		Expect(res.Iterations).To(Equal(2))
		Expect(res.Root).To(BeZero())
	})

	It("aborts with a domain error and no result", func() {
		g := root.Real(func(x float64) float64 { return math.Sqrt(x - 10) })
		res, err := root.FixedPoint(0.1, quadratic, g, cfg)
		Expect(res).To(BeNil())
		Expect(err).To(MatchError(root.ErrDomain))

		var de *root.DomainError
		Expect(errors.As(err, &de)).To(BeTrue())
		Expect(de.Iteration).To(Equal(1))
		Expect(de.X).To(Equal(0.1))
	})

	It("keeps the cause of an explicit domain error", func() {
		cause := errors.New("log of negative")
		g := root.Func(func(x float64) (float64, error) {
			if x > 1 {
				return 0, cause
			}
			return x + 1, nil
		})
		_, err := root.FixedPoint(0.5, quadratic, g, cfg)
		Expect(err).To(MatchError(cause))
		Expect(err).To(MatchError(root.ErrDomain))
		Expect(err.Error()).To(ContainSubstring("iteration 2"))
	})

	It("returns identical output for identical input", func() {
		a, _ := root.FixedPoint(0.1, quadratic, sqrtPos, cfg)
		b, _ := root.FixedPoint(0.1, quadratic, sqrtPos, cfg)
		Expect(a).To(Equal(b))
	})

	It("omits the trace unless asked", func() {
		cfg.RecordTrace = false
		res, err := root.FixedPoint(0.1, quadratic, sqrtPos, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Trace).To(BeEmpty())
		Expect(res.Iterations).To(Equal(10))
	})

	DescribeTable("meets the tolerance against the true root",
		func(tol float64) {
			cfg.Tolerance = tol
			res, err := root.FixedPoint(0.1, quadratic, sqrtPos, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(math.Abs(res.Root - 2)).To(BeNumerically("<=", tol*math.Abs(res.Root)))

			for i := 2; i < len(res.Trace); i++ {
				Expect(res.Trace[i].RelError).To(BeNumerically("<", res.Trace[i-1].RelError))
			}
		},
		Entry("1e-3", 1e-3),
		Entry("1e-6", 1e-6),
		Entry("1e-9", 1e-9),
	)

	DescribeTable("rejects invalid configuration",
		func(c root.Config, f, g root.Func) {
			_, err := root.FixedPoint(0.1, f, g, c)
			Expect(err).To(MatchError(root.ErrInvalidConfig))
		},
		Entry("zero tolerance", root.Config{Tolerance: 0, MaxIterations: 10}, quadratic, sqrtPos),
		Entry("negative tolerance", root.Config{Tolerance: -1, MaxIterations: 10}, quadratic, sqrtPos),
		Entry("NaN tolerance", root.Config{Tolerance: math.NaN(), MaxIterations: 10}, quadratic, sqrtPos),
		Entry("negative budget", root.Config{Tolerance: 1e-5, MaxIterations: -1}, quadratic, sqrtPos),
		Entry("nil g", root.Config{Tolerance: 1e-5, MaxIterations: 10}, quadratic, nil),
		Entry("nil f", root.Config{Tolerance: 1e-5, MaxIterations: 10}, nil, sqrtPos),
	)
})

var _ = Describe("Secant", func() {
	It("converges to 2 from [1, 3]", func() {
		res, err := root.Secant(1, 3, quadratic, root.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Root).To(BeNumerically("~", 2.0, 1e-6))
		Expect(res.Method).To(Equal("secant"))
	})

	It("fails on a flat chord", func() {
		flat := root.Real(func(x float64) float64 { return x * x })
		_, err := root.Secant(-1, 1, flat, root.DefaultConfig())
		Expect(err).To(MatchError(root.ErrFlatSlope))
		Expect(err).To(MatchError(root.ErrDomain))
	})
})

var _ = Describe("Newton", func() {
	df := root.Real(func(x float64) float64 { return 2*x + 1 })

	It("converges with an explicit derivative", func() {
		res, err := root.Newton(1, quadratic, df, root.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Root).To(BeNumerically("~", 2.0, 1e-9))
	})

	It("converges with a numeric derivative", func() {
		res, err := root.Newton(-5, quadratic, nil, root.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Root).To(BeNumerically("~", -3.0, 1e-6))
	})

	It("fails on a horizontal tangent", func() {
		_, err := root.Newton(-0.5, quadratic, df, root.DefaultConfig())
		Expect(err).To(MatchError(root.ErrFlatSlope))
	})
})

type counter struct{ rows []root.Iteration }

func (c *counter) OnIteration(it root.Iteration) { c.rows = append(c.rows, it) }

type lastError struct{ v float64 }

func (l *lastError) Name() string              { return "last_rel_err" }
func (l *lastError) Observe(it root.Iteration) { l.v = it.RelError }
func (l *lastError) Value() float64            { return l.v }
func (l *lastError) Reset()                    { l.v = 0 }

var _ = Describe("Solver", func() {
	It("feeds observers and metrics even without a recorded trace", func() {
		obs := &counter{}
		s := root.New(root.NewFixedPoint())
		s.AddObserver(obs)
		s.AddMetric(&lastError{})

		cfg := root.DefaultConfig()
		cfg.RecordTrace = false
		res, err := s.Solve(root.Problem{F: quadratic, G: sqrtPos, X0: 0.1}, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(obs.rows).To(HaveLen(res.Iterations))
		Expect(res.Metrics).To(HaveKeyWithValue("last_rel_err", res.RelError))
	})
})

var _ = Describe("Iterator", func() {
	It("yields one row per update", func() {
		it, err := root.NewIterator(root.NewFixedPoint(), root.Problem{F: quadratic, G: sqrtPos, X0: 0.1}, root.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())

		Expect(it.Next()).To(BeTrue())
		Expect(it.Iteration().Index).To(Equal(1))
		Expect(it.Iteration().Estimate).To(BeNumerically("~", math.Sqrt(5.9), 1e-12))
		Expect(it.Done()).To(BeFalse())

		for it.Next() {
		}
		Expect(it.Done()).To(BeTrue())
		Expect(it.Next()).To(BeFalse())

		res, err := it.Result()
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Iterations).To(Equal(it.Count()))
	})
})

var _ = Describe("Batch", func() {
	It("solves independent jobs in order", func() {
		cfg := root.DefaultConfig()
		jobs := make([]root.Job, 0, 8)
		for i := 0; i < 8; i++ {
			jobs = append(jobs, root.Job{
				Name:    fmt.Sprintf("job-%d", i),
				Stepper: root.NewFixedPoint(),
				Problem: root.Problem{F: quadratic, G: sqrtPos, X0: float64(i) * 0.5},
				Config:  cfg,
			})
		}
		jobs = append(jobs, root.Job{
			Name:    "runaway",
			Stepper: root.NewFixedPoint(),
			Problem: root.Problem{F: quadratic, G: unstable, X0: 0.1},
			Config:  cfg,
		})

		out := root.Batch(jobs)
		Expect(out).To(HaveLen(len(jobs)))
		for i := 0; i < 8; i++ {
			Expect(out[i].Name).To(Equal(fmt.Sprintf("job-%d", i)))
			Expect(out[i].Err).NotTo(HaveOccurred())
			Expect(out[i].Result.Root).To(BeNumerically("~", 2.0, 1e-4))
		}
		Expect(out[8].Err).To(MatchError(root.ErrNonConvergence))
	})
})

var _ = Describe("RelativeError", func() {
	It("divides by the current estimate", func() {
		Expect(root.RelativeError(2, 1)).To(Equal(0.5))
	})

	It("falls back to the absolute difference at zero", func() {
		Expect(root.RelativeError(0, 0.25)).To(Equal(0.25))
		Expect(math.IsNaN(root.RelativeError(0, 0))).To(BeFalse())
	})
})
