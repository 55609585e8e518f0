// Package tui renders a solve's convergence live, driving a Bubble Tea
// model from solve.SolveWithProgress's step callback.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/poissonlab/internal/grid"
	"github.com/san-kum/poissonlab/internal/preview"
	"github.com/san-kum/poissonlab/internal/scene"
	"github.com/san-kum/poissonlab/internal/solve"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).MarginBottom(1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

const (
	heatmapWidth  = 64
	heatmapHeight = 24
	sparkWidth    = 50
)

type progressMsg struct {
	iteration int
	residual  float64
	phi       []float32
	geom      grid.Geometry
}

type doneMsg struct {
	result *solve.Result
	err    error
}

// Model is the Bubble Tea model for a live convergence view: it owns the
// channel the solve goroutine reports progress on and the most recent
// snapshot it has rendered.
type Model struct {
	sc       scene.Scene
	gridSpec grid.Spec
	spec     solve.Spec

	progress chan progressMsg
	done     chan doneMsg

	lastIteration int
	lastResidual  float64
	lastPhi       []float32
	lastGeom      grid.Geometry
	residualHist  []float64

	finished bool
	result   *solve.Result
	err      error

	started time.Time
}

// NewModel builds a live view over the given scene, grid, and solver spec.
// The solve does not start until Init runs.
func NewModel(sc scene.Scene, gridSpec grid.Spec, spec solve.Spec) Model {
	return Model{
		sc:           sc,
		gridSpec:     gridSpec,
		spec:         spec,
		progress:     make(chan progressMsg, 8),
		done:         make(chan doneMsg, 1),
		residualHist: make([]float64, 0, 256),
	}
}

// Init launches the solve in a background goroutine and starts listening
// for its progress reports.
func (m Model) Init() tea.Cmd {
	m.started = time.Now()
	go m.runSolve()
	return waitForActivity(m.progress, m.done)
}

func (m Model) runSolve() {
	result, err := solve.SolveWithProgress(m.sc, m.gridSpec, m.spec, nil,
		func(iteration int, residual float64, phi []float32, geom grid.Geometry) bool {
			snapshot := make([]float32, len(phi))
			copy(snapshot, phi)
			m.progress <- progressMsg{iteration: iteration, residual: residual, phi: snapshot, geom: geom}
			return true
		})
	m.done <- doneMsg{result: result, err: err}
}

// waitForActivity returns a command that blocks on whichever of the two
// channels produces a value first, translating it into a tea.Msg.
func waitForActivity(progress chan progressMsg, done chan doneMsg) tea.Cmd {
	return func() tea.Msg {
		select {
		case p := <-progress:
			return p
		case d := <-done:
			return d
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case progressMsg:
		m.lastIteration = msg.iteration
		m.lastResidual = msg.residual
		m.lastPhi = msg.phi
		m.lastGeom = msg.geom
		m.residualHist = append(m.residualHist, msg.residual)
		return m, waitForActivity(m.progress, m.done)
	case doneMsg:
		m.finished = true
		m.result = msg.result
		m.err = msg.err
		if msg.result != nil {
			m.lastPhi = msg.result.Phi
			m.lastGeom = msg.result.Geom
		}
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("POISSONLAB — LIVE SOLVE") + "\n")

	if m.err != nil {
		b.WriteString(fmt.Sprintf("solve failed: %v\n", m.err))
		return b.String()
	}

	if len(m.lastPhi) > 0 {
		b.WriteString(dim.Render(preview.Heatmap(m.lastPhi, m.lastGeom, heatmapWidth, heatmapHeight)) + "\n")
	}

	status := yellow.Render("CONVERGING")
	if m.finished {
		status = green.Render("CONVERGED")
	}
	elapsed := time.Since(m.started).Round(10 * time.Millisecond)
	b.WriteString(fmt.Sprintf("%s  iter=%s  residual=%s  elapsed=%s\n",
		status,
		white.Render(fmt.Sprintf("%d", m.lastIteration)),
		cyan.Render(fmt.Sprintf("%.3e", m.lastResidual)),
		dim.Render(elapsed.String())))

	if len(m.residualHist) > 1 {
		b.WriteString(sparkline(logResiduals(m.residualHist), sparkWidth) + "\n")
	}

	b.WriteString(helpStyle.Render("q: quit"))
	return b.String()
}

// Run starts the Bubble Tea program and blocks until the user quits; the
// view stays on screen after the solve finishes. It returns the final
// result, or nil if the user quit before the solve completed.
func Run(sc scene.Scene, gridSpec grid.Spec, spec solve.Spec) (*solve.Result, error) {
	m := NewModel(sc, gridSpec, spec)
	program := tea.NewProgram(m)
	final, err := program.Run()
	if err != nil {
		return nil, err
	}
	fm := final.(Model)
	return fm.result, fm.err
}
