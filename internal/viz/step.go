package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/rootlab/internal/root"
)

const visibleRows = 12

// StepModel is a Bubble Tea model that walks a solve one update at a time.
type StepModel struct {
	title   string
	stepper root.Stepper
	problem root.Problem
	cfg     root.Config

	it     *root.Iterator
	rows   []root.Iteration
	result *root.Result
	err    error
}

func NewStepModel(title string, st root.Stepper, p root.Problem, cfg root.Config) (StepModel, error) {
	cfg.RecordTrace = false
	m := StepModel{title: title, stepper: st, problem: p, cfg: cfg}
	if err := m.reset(); err != nil {
		return StepModel{}, err
	}
	return m, nil
}

func (m StepModel) Init() tea.Cmd { return nil }

func (m StepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ", "n", "enter":
		m.step()
	case "r":
		for !m.it.Done() {
			m.step()
		}
	case "backspace":
		// config was validated by NewStepModel, so reset cannot fail here
		_ = m.reset()
	}
	return m, nil
}

func (m *StepModel) reset() error {
	it, err := root.NewIterator(m.stepper, m.problem, m.cfg)
	if err != nil {
		return err
	}
	m.it = it
	m.rows = nil
	m.result = nil
	m.err = nil
	return nil
}

func (m *StepModel) step() {
	if m.it.Done() {
		return
	}
	if m.it.Next() {
		m.rows = append(m.rows, m.it.Iteration())
	}
	if m.it.Done() {
		m.result, m.err = m.it.Result()
	}
}

// Rows returns the iterations produced so far.
func (m StepModel) Rows() []root.Iteration { return m.rows }

func (m StepModel) Done() bool { return m.it.Done() }

func (m StepModel) View() string {
	var b strings.Builder

	b.WriteString(Title.Render(m.title))
	b.WriteString("  ")
	b.WriteString(Subtle.Render(fmt.Sprintf("%s  tol=%g  max=%d", m.stepper.Name(), m.cfg.Tolerance, m.cfg.MaxIterations)))
	b.WriteString("\n\n")

	if len(m.rows) > 0 {
		b.WriteString(TraceTable(m.rows, visibleRows))
		b.WriteString("\n")

		errs := make([]float64, 0, len(m.rows))
		for _, r := range m.rows {
			errs = append(errs, r.RelError)
		}
		b.WriteString(MetricLabel.Render("rel err "))
		b.WriteString(SparklineChart(errs, 40))
		b.WriteString("\n\n")
	} else {
		b.WriteString(Subtle.Render(fmt.Sprintf("x0 = %g, press space to iterate", m.problem.X0)))
		b.WriteString("\n\n")
	}

	if m.it.Done() {
		b.WriteString(Banner(m.result, m.err))
		b.WriteString("\n\n")
	}

	b.WriteString(Separator(60))
	b.WriteString("\n")
	b.WriteString(KeyHint.Render("space: step  r: run  backspace: restart  q: quit"))
	b.WriteString("\n")
	return b.String()
}
