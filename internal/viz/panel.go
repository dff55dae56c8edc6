package viz

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/predsim/internal/analysis"
	"github.com/san-kum/predsim/internal/dynamo"
	"github.com/san-kum/predsim/internal/models"
	"github.com/san-kum/predsim/internal/stochastic"
)

const (
	chartWidth   = 60
	chartHeight  = 12
	canvasWidth  = 40
	canvasHeight = 12

	// maxPhasePoints bounds the path handed to the braille canvas.
	maxPhasePoints = 4000
)

type PanelMode int

const (
	DeterministicPanel PanelMode = iota
	StochasticPanel
)

// RecomputeDeterministic validates p and integrates it from scratch.
func RecomputeDeterministic(p models.Params, step float64) (dynamo.Trajectory, error) {
	if err := p.Validate(); err != nil {
		return dynamo.Trajectory{}, err
	}
	return p.Run(step)
}

// RecomputeStochastic validates p and runs the event simulator. A zero seed
// uses a fresh random source.
func RecomputeStochastic(p stochastic.Params, seed uint64) ([]dynamo.PhasePoint, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	var src stochastic.Source
	if seed != 0 {
		src = stochastic.NewSource(seed)
	} else {
		src = stochastic.NewRandomSource()
	}
	return stochastic.Simulate(p, src), nil
}

// Panel shows one model's output and lets the user tune its parameters.
// Derived data (trajectory, points, statistics) is only ever replaced as a
// whole by recompute.
type Panel struct {
	mode PanelMode

	det, detInitial models.Params
	step            float64
	sto, stoInitial stochastic.Params
	seed            uint64

	names    []string
	selected int

	traj       dynamo.Trajectory
	points     []dynamo.PhasePoint
	chartPrey  []float64
	chartPred  []float64
	phase      []dynamo.PhasePoint
	detStats   analysis.Summary
	stoStats   analysis.PointSummary
	thresholds [4]float64
	maxT4      float64
	err        error

	theme    int
	showHelp bool
}

func NewDeterministicPanel(p models.Params, step float64) Panel {
	m := Panel{
		mode:       DeterministicPanel,
		det:        p,
		detInitial: p,
		step:       step,
		names:      models.ParamNames,
	}
	m.recompute()
	return m
}

func NewStochasticPanel(p stochastic.Params, seed uint64) Panel {
	m := Panel{
		mode:       StochasticPanel,
		sto:        p,
		stoInitial: p,
		seed:       seed,
		names:      stochastic.ParamNames,
	}
	m.recompute()
	return m
}

func (m *Panel) recompute() {
	switch m.mode {
	case DeterministicPanel:
		traj, err := RecomputeDeterministic(m.det, m.step)
		m.err = err
		if err != nil {
			return
		}
		m.traj = traj
		m.detStats = analysis.Summarize(traj, m.det)
		grid := analysis.ResampleN(traj, chartWidth)
		m.chartPrey, m.chartPred = grid.Prey, grid.Predators
		m.phase = downsample(traj.Phase(), maxPhasePoints)
	case StochasticPanel:
		points, err := RecomputeStochastic(m.sto, m.seed)
		m.err = err
		if err != nil {
			return
		}
		m.points = points
		m.stoStats = analysis.SummarizePoints(points)
		m.chartPrey, m.chartPred = splitPoints(downsample(points, chartWidth))
		m.phase = downsample(points, maxPhasePoints)
		m.thresholds = stochastic.Thresholds(m.sto, m.sto.InitialPrey, m.sto.InitialPredator)
		m.maxT4 = stochastic.MaxThreshold(m.sto, points)
	}
}

// downsample picks n evenly spaced points including both ends.
func downsample(points []dynamo.PhasePoint, n int) []dynamo.PhasePoint {
	if len(points) <= n || n < 2 {
		return points
	}
	out := make([]dynamo.PhasePoint, n)
	last := len(points) - 1
	for i := range out {
		out[i] = points[i*last/(n-1)]
	}
	return out
}

func splitPoints(points []dynamo.PhasePoint) (prey, pred []float64) {
	prey = make([]float64, len(points))
	pred = make([]float64, len(points))
	for i, p := range points {
		prey[i], pred[i] = p.Prey, p.Predators
	}
	return prey, pred
}

func (m Panel) Init() tea.Cmd { return nil }

func (m Panel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "j":
			m.selected = (m.selected + 1) % len(m.names)
		case "shift+tab", "k":
			m.selected = (m.selected + len(m.names) - 1) % len(m.names)
		case "up", "l", "+":
			m.adjust(1.05)
		case "down", "h", "-":
			m.adjust(0.95)
		case "r":
			m.det, m.sto = m.detInitial, m.stoInitial
			m.recompute()
		case "n":
			if m.mode == StochasticPanel {
				m.seed++
				m.recompute()
			}
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "?":
			m.showHelp = !m.showHelp
		}
	}
	return m, nil
}

// adjust scales the selected parameter. A zero value is nudged off zero
// instead, since scaling would leave it there. Rejected values leave the
// parameters untouched and show the validation error.
func (m *Panel) adjust(factor float64) {
	name := m.names[m.selected]
	val, err := m.get(name)
	if err != nil {
		m.err = err
		return
	}

	next := val * factor
	if val == 0 && factor > 1 {
		next = 0.01
	}
	if name == "n" {
		next = math.Round(next)
		if next == val && factor > 1 {
			next++
		}
	}

	switch m.mode {
	case DeterministicPanel:
		p, err := m.det.With(name, next)
		if err == nil {
			err = p.Validate()
		}
		if err != nil {
			m.err = err
			return
		}
		m.det = p
	case StochasticPanel:
		p, err := m.sto.With(name, next)
		if err == nil {
			err = p.Validate()
		}
		if err != nil {
			m.err = err
			return
		}
		m.sto = p
	}
	m.recompute()
}

func (m Panel) get(name string) (float64, error) {
	if m.mode == StochasticPanel {
		return m.sto.Get(name)
	}
	return m.det.Get(name)
}

func (m Panel) initial(name string) float64 {
	var v float64
	if m.mode == StochasticPanel {
		v, _ = m.stoInitial.Get(name)
	} else {
		v, _ = m.detInitial.Get(name)
	}
	return v
}

func (m Panel) View() string {
	theme := Themes[m.theme]
	title := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	muted := lipgloss.NewStyle().Foreground(theme.Muted)

	var left strings.Builder
	switch m.mode {
	case DeterministicPanel:
		left.WriteString(title.Render("LOTKA-VOLTERRA") + muted.Render("  dopri5, rtol=atol=1e-6") + "\n\n")
	case StochasticPanel:
		left.WriteString(title.Render("STOCHASTIC LOTKA-VOLTERRA") + muted.Render(fmt.Sprintf("  seed %d", m.seed)) + "\n\n")
	}
	left.WriteString(m.viewChart(theme) + "\n\n")

	canvas := NewCanvas(canvasWidth, canvasHeight)
	if m.mode == StochasticPanel {
		canvas.PlotPhase(m.phase)
	} else {
		canvas.PlotPhase(m.phase)
	}
	left.WriteString(muted.Render("phase: prey →, predators ↑") + "\n")
	left.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render(canvas.String()))

	stats := statsStyle.Render(m.viewStats(theme))
	main := lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(left.String()), stats)

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Tab/J/K  - Select parameter         ║
║  Up/+     - Increase parameter (+5%) ║
║  Down/-   - Decrease parameter (-5%) ║
║  R        - Reset parameters         ║
║  N        - New seed (stochastic)    ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + main
	}
	return main
}

func (m Panel) viewChart(theme Theme) string {
	if len(m.chartPrey) < 2 {
		return ""
	}
	caption := "population vs time"
	if m.mode == StochasticPanel {
		caption = "population vs step"
	}

	return asciigraph.PlotMany([][]float64{m.chartPrey, m.chartPred},
		asciigraph.Height(chartHeight),
		asciigraph.Width(chartWidth),
		asciigraph.SeriesColors(theme.Prey, theme.Predators),
		asciigraph.SeriesLegends("prey", "predators"),
		asciigraph.Caption(caption))
}

func (m Panel) viewStats(theme Theme) string {
	var s strings.Builder
	header := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	active := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)

	s.WriteString(header.Render("PARAMETERS") + "\n")
	for i, name := range m.names {
		val, _ := m.get(name)
		initial := m.initial(name)
		if initial == 0 {
			initial = 1e-6
		}
		barWidth, ratio := 10, val/(2.0*initial)
		ratio = math.Max(0, math.Min(1, ratio))
		filled := int(ratio * float64(barWidth))
		bar := "[" + strings.Repeat("=", filled) + strings.Repeat("-", barWidth-filled) + "]"
		line := fmt.Sprintf("%-10s %s %.4g", name, bar, val)
		if i == m.selected {
			s.WriteString(active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.UnsetWidth().Render(line) + "\n")
		}
	}
	s.WriteString("\n" + Separator(36, theme) + "\n\n")

	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(theme.Error).Width(38)
		s.WriteString(errStyle.Render(m.err.Error()) + "\n\n")
	}

	switch m.mode {
	case DeterministicPanel:
		st := m.detStats
		s.WriteString(labelStyle.Render("Points") + valueStyle.Render(fmt.Sprintf("%d", st.Points)) + "\n")
		s.WriteString(labelStyle.Render("Prey") + valueStyle.Render(fmt.Sprintf("%.2f .. %.2f", st.Prey.Min, st.Prey.Max)) + "\n")
		s.WriteString(labelStyle.Render("Predators") + valueStyle.Render(fmt.Sprintf("%.2f .. %.2f", st.Predators.Min, st.Predators.Max)) + "\n")
		if eq, ok := analysis.Equilibrium(m.det); ok {
			s.WriteString(labelStyle.Render("Equilibrium") + valueStyle.Render(fmt.Sprintf("(%.2f, %.2f)", eq.Prey, eq.Predators)) + "\n")
		}
		s.WriteString(labelStyle.Render("V drift") + valueStyle.Render(fmt.Sprintf("%.2e", st.InvariantDrift)) + "\n")
	case StochasticPanel:
		st := m.stoStats
		s.WriteString(labelStyle.Render("Steps") + valueStyle.Render(fmt.Sprintf("%d", st.Points-1)) + "\n")
		s.WriteString(labelStyle.Render("Final") + valueStyle.Render(fmt.Sprintf("%.0f / %.0f", st.Prey.Final, st.Predators.Final)) + "\n")
		extinction := "none"
		if st.Extinction >= 0 {
			extinction = fmt.Sprintf("step %d", st.Extinction)
		}
		s.WriteString(labelStyle.Render("Extinction") + valueStyle.Render(extinction) + "\n")
		s.WriteString(labelStyle.Render("T1..T4") + valueStyle.Render(fmt.Sprintf("%.3f %.3f %.3f %.3f", m.thresholds[0], m.thresholds[1], m.thresholds[2], m.thresholds[3])) + "\n")
		s.WriteString(labelStyle.Render("max T4") + ProgressBar(m.maxT4, 16) + valueStyle.Render(fmt.Sprintf(" %.3f", m.maxT4)) + "\n")
	}

	s.WriteString(helpStyle.Render(keyHints(theme, "tab", "select", "↑↓", "tune", "r", "reset", "t", "theme", "?", "help", "q", "quit")))
	return s.String()
}

// RunPanel runs a panel full screen until the user quits.
func RunPanel(p Panel) error {
	_, err := tea.NewProgram(p, tea.WithAltScreen()).Run()
	return err
}
