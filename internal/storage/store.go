package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/rootlab/internal/config"
	"github.com/san-kum/rootlab/internal/root"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

var traceHeader = []string{"k", "x", "fx", "rel_err"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type RunMetadata struct {
	ID            string           `json:"id"`
	Name          string           `json:"name,omitempty"`
	Method        string           `json:"method"`
	F             string           `json:"f"`
	G             string           `json:"g,omitempty"`
	DF            string           `json:"df,omitempty"`
	X0            float64          `json:"x0"`
	X1            *float64         `json:"x1,omitempty"`
	Tolerance     float64          `json:"tolerance"`
	MaxIterations int              `json:"max_iterations"`
	Domain        [2]float64       `json:"domain"`
	Timestamp     time.Time        `json:"timestamp"`
	Status        string           `json:"status"`
	Converged     bool             `json:"converged"`
	Root          Float            `json:"root"`
	Iterations    int              `json:"iterations"`
	RelError      Float            `json:"rel_err"`
	Metrics       map[string]Float `json:"metrics"`
}

// Config rebuilds the problem configuration the run was made with.
func (m *RunMetadata) Config() *config.Config {
	return &config.Config{
		Name:          m.Name,
		Method:        m.Method,
		F:             m.F,
		G:             m.G,
		DF:            m.DF,
		X0:            m.X0,
		X1:            m.X1,
		Tolerance:     m.Tolerance,
		MaxIterations: m.MaxIterations,
		Domain:        m.Domain,
	}
}

var newRunID = func(method string) string {
	return fmt.Sprintf("%s_%s", method, uuid.NewString()[:8])
}

func (s *Store) Save(cfg *config.Config, result *root.Result) (string, error) {
	runID := newRunID(cfg.Method)
	runDir := s.Dir(runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Name:          cfg.Name,
		Method:        cfg.Method,
		F:             cfg.F,
		G:             cfg.G,
		DF:            cfg.DF,
		X0:            cfg.X0,
		X1:            cfg.X1,
		Tolerance:     cfg.Tolerance,
		MaxIterations: cfg.MaxIterations,
		Domain:        cfg.Domain,
		Timestamp:     time.Now(),
		Status:        result.Status.String(),
		Converged:     result.Converged(),
		Root:          Float(result.Root),
		Iterations:    result.Iterations,
		RelError:      Float(result.RelError),
		Metrics:       make(map[string]Float, len(result.Metrics)),
	}
	for name, v := range result.Metrics {
		meta.Metrics[name] = Float(v)
	}

	// metadata goes last: a run is listed only once its trace is complete
	if err := writeFile(filepath.Join(runDir, traceFile), func(f *os.File) error {
		return WriteTraceCSV(f, result.Trace)
	}); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	if err := writeFile(filepath.Join(runDir, metadataFile), func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadTrace(runID string) ([]root.Iteration, error) {
	file, err := os.Open(filepath.Join(s.Dir(runID), traceFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []root.Iteration{}, nil
	}

	trace := make([]root.Iteration, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < len(traceHeader) {
			continue
		}

		k, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		vals := make([]float64, 3)
		for j := range vals {
			// ParseFloat accepts "NaN" and "+Inf", so diverged rows round-trip.
			vals[j], err = strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				break
			}
		}
		if err != nil {
			continue
		}
		trace = append(trace, root.Iteration{Index: k, Estimate: vals[0], Residual: vals[1], RelError: vals[2]})
	}

	return trace, nil
}

// Result rebuilds the solve outcome recorded for the run. Metrics are
// carried over; an unrecognized status reads as exhausted.
func (m *RunMetadata) Result(trace []root.Iteration) *root.Result {
	status := root.Exhausted
	for _, s := range []root.Status{root.Converged, root.Exhausted, root.Diverged} {
		if s.String() == m.Status {
			status = s
		}
	}

	res := &root.Result{
		Method:     m.Method,
		Root:       float64(m.Root),
		Iterations: m.Iterations,
		RelError:   float64(m.RelError),
		Status:     status,
		Trace:      trace,
		Metrics:    make(map[string]float64, len(m.Metrics)),
	}
	for name, v := range m.Metrics {
		res.Metrics[name] = float64(v)
	}
	return res
}
