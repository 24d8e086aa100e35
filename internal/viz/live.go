package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/spinsim/internal/experiment"
	"github.com/san-kum/spinsim/internal/metrics"
)

const (
	historyCapacity = 300
	tickInterval    = time.Second / 20
	angleStep       = 15.0
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model sweeps a runner on every tick and shows the magnetization history
// and the spin cone.
type Model struct {
	runner        *experiment.Runner
	temperature   float64
	sweepsPerTick int
	running       bool
	err           error
	last          metrics.Sample
	lengthHistory []float64
	acceptHistory []float64
	canvas        *Canvas
}

func NewModel(r *experiment.Runner, temperature float64, sweepsPerTick int) Model {
	if sweepsPerTick < 1 {
		sweepsPerTick = 1
	}
	return Model{
		runner:        r,
		temperature:   temperature,
		sweepsPerTick: sweepsPerTick,
		running:       true,
		lengthHistory: make([]float64, 0, historyCapacity),
		acceptHistory: make([]float64, 0, historyCapacity),
		canvas:        NewCanvas(24, 12),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "+", "=":
			m.temperature *= 1.1
		case "-", "_":
			m.temperature /= 1.1
		case "r":
			m.reset()
		case "up":
			m.rotate(angleStep, 0)
		case "down":
			m.rotate(-angleStep, 0)
		case "right":
			m.rotate(0, angleStep)
		case "left":
			m.rotate(0, -angleStep)
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	for i := 0; i < m.sweepsPerTick; i++ {
		s, err := m.runner.Step(m.temperature)
		if err != nil {
			m.err = err
			return
		}
		m.last = s
	}
	m.lengthHistory = appendCapped(m.lengthHistory, m.last.Length)
	m.acceptHistory = appendCapped(m.acceptHistory, m.last.Acceptance)
}

// rotate moves the constraint and realigns the spins at once, so the next
// frame already shows the new direction.
func (m *Model) rotate(dPhi, dTheta float64) {
	phi, theta := m.runner.Engine().Constraint()
	m.runner.SetConstraint(phi+dPhi, theta+dTheta)
	m.runner.Engine().Initialize()

	s, err := m.runner.Measure(m.temperature)
	if err != nil {
		m.err = err
		return
	}
	m.last = s
	m.lengthHistory = m.lengthHistory[:0]
	m.acceptHistory = m.acceptHistory[:0]
}

func (m *Model) reset() {
	m.runner.Engine().Reset()
	m.lengthHistory = m.lengthHistory[:0]
	m.acceptHistory = m.acceptHistory[:0]
	m.last = metrics.Sample{}
	m.err = nil
}

func appendCapped(h []float64, v float64) []float64 {
	if len(h) == historyCapacity {
		copy(h, h[1:])
		h = h[:len(h)-1]
	}
	return append(h, v)
}

func (m Model) View() string {
	var s strings.Builder
	cfg := m.runner.Config()
	s.WriteString(Title.Render(strings.ToUpper(cfg.Name)) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(StatusError.Render("ERROR: "+m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	phi, theta := m.runner.Engine().Constraint()
	s.WriteString(metricLine("T", fmt.Sprintf("%.1f K", m.temperature)))
	s.WriteString(metricLine("constraint", fmt.Sprintf("phi=%.1f theta=%.1f", phi, theta)))
	s.WriteString(metricLine("sweeps", fmt.Sprintf("%d", m.runner.Engine().Sweeps())))
	s.WriteString(metricLine("|m|/ms", fmt.Sprintf("%.4f", m.last.Length)))
	s.WriteString(metricLine("m·v", fmt.Sprintf("%.4f", m.last.Projection)))
	s.WriteString(metricLine("E", fmt.Sprintf("%.4e J", m.last.Energy)))
	s.WriteString(MetricLabel.Render("acceptance") + Bar(m.last.Acceptance, 20) + "\n")
	s.WriteString(MetricLabel.Render("history") + Sparkline(m.acceptHistory, 20) + "\n")

	if len(m.lengthHistory) > 1 {
		chart := asciigraph.Plot(m.lengthHistory,
			asciigraph.Height(6), asciigraph.Width(40), asciigraph.Caption("|m|/ms"))
		s.WriteString("\n" + chart + "\n")
	}
	s.WriteString(Subtle.Render("\nSP:Pause +/-:Temperature Arrows:Constraint R:Reset Q:Quit"))

	m.canvas.Cone(m.runner.Engine().Frame(), m.runner.Spins().Snapshot())
	cone := Panel.Render(Subtle.Render("spin cone") + "\n" + m.canvas.String())

	return lipgloss.JoinHorizontal(lipgloss.Top, Panel.Render(s.String()), cone)
}
