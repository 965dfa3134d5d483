package root

import "sync"

type Job struct {
	Name    string
	Stepper Stepper
	Problem Problem
	Config  Config
}

type Outcome struct {
	Name   string
	Result *Result
	Err    error
}

// Batch solves every job on its own goroutine. Outcomes keep the order of
// jobs. Steppers must not be shared between jobs unless they are stateless,
// which all steppers in this package are.
func Batch(jobs []Job) []Outcome {
	out := make([]Outcome, len(jobs))

	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			job := jobs[idx]
			res, err := New(job.Stepper).Solve(job.Problem, job.Config)
			out[idx] = Outcome{Name: job.Name, Result: res, Err: err}
		}(i)
	}

	wg.Wait()
	return out
}
