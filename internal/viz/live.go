package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/tersim/internal/sim"
)

const (
	width           = 60
	height          = 20
	historyCapacity = 600
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model drives an MD run interactively and renders it each frame.
type Model struct {
	runner        *sim.Runner
	title         string
	dt            float64
	rebuildEvery  int
	stepsPerFrame int
	step          int
	running       bool
	showTemp      bool
	canvas        *Canvas
	energyHistory []float64
	tempHistory   []float64
	err           error
}

// NewModel wraps a primed runner for interactive stepping. rebuildEvery
// controls how often the neighbor list is refreshed, matching the batch
// driver.
func NewModel(runner *sim.Runner, title string, dt float64, rebuildEvery int) Model {
	if rebuildEvery < 1 {
		rebuildEvery = 1
	}
	return Model{
		runner:        runner,
		title:         title,
		dt:            dt,
		rebuildEvery:  rebuildEvery,
		stepsPerFrame: 5,
		running:       true,
		canvas:        NewCanvas(width, height),
		energyHistory: make([]float64, 0, historyCapacity),
		tempHistory:   make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input and advances the integrator.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "g":
			m.showTemp = !m.showTemp
		case "+", "=":
			if m.stepsPerFrame < 200 {
				m.stepsPerFrame *= 2
			}
		case "-", "_":
			if m.stepsPerFrame > 1 {
				m.stepsPerFrame /= 2
			}
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.advance()
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// advance runs a batch of integration steps and records observables.
func (m *Model) advance() {
	for i := 0; i < m.stepsPerFrame; i++ {
		if err := m.runner.Step(m.dt, m.step%m.rebuildEvery == 0); err != nil {
			m.err = err
			m.running = false
			return
		}
		m.step++
	}
	total := m.runner.PotentialEnergy() + m.runner.KineticEnergy()
	m.energyHistory = append(m.energyHistory, total)
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
	m.tempHistory = append(m.tempHistory, m.runner.Temperature())
	if len(m.tempHistory) > historyCapacity {
		m.tempHistory = m.tempHistory[1:]
	}
}

// draw projects atom positions onto the xy-plane.
func (m *Model) draw() {
	m.canvas.Clear()
	sys := m.runner.System()
	if sys.N == 0 {
		return
	}
	minX, maxX := sys.X[0], sys.X[0]
	minY, maxY := sys.Y[0], sys.Y[0]
	for i := 1; i < sys.N; i++ {
		if sys.X[i] < minX {
			minX = sys.X[i]
		}
		if sys.X[i] > maxX {
			maxX = sys.X[i]
		}
		if sys.Y[i] < minY {
			minY = sys.Y[i]
		}
		if sys.Y[i] > maxY {
			maxY = sys.Y[i]
		}
	}
	// Periodic directions span the full box edge so atoms do not jump
	// around as the bounding box changes.
	if sys.Box.Periodic[0] {
		minX, maxX = 0, sys.Box.H[0][0]
	}
	if sys.Box.Periodic[1] {
		minY, maxY = 0, sys.Box.H[1][1]
	}
	spanX := maxX - minX
	spanY := maxY - minY
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}
	cw, ch := width*2-1, height*4-1
	for i := 0; i < sys.N; i++ {
		px := int((sys.X[i] - minX) / spanX * float64(cw))
		py := ch - int((sys.Y[i]-minY)/spanY*float64(ch))
		m.canvas.Set(px, py)
	}
	if sys.Box.Periodic[0] && sys.Box.Periodic[1] {
		m.canvas.DrawLine(0, 0, cw, 0)
		m.canvas.DrawLine(cw, 0, cw, ch)
		m.canvas.DrawLine(cw, ch, 0, ch)
		m.canvas.DrawLine(0, ch, 0, 0)
	}
}

// View renders the canvas and stats pane.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")
	status := "RUNNING"
	if m.err != nil {
		status = errorStyle.Render("ERROR: " + m.err.Error())
	} else if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	series, caption := m.energyHistory, "Total energy"
	if m.showTemp {
		series, caption = m.tempHistory, "Temperature"
	}
	if len(series) > 1 {
		chart := asciigraph.Plot(series, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption(caption))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	sys := m.runner.System()
	kin := m.runner.KineticEnergy()
	pot := m.runner.PotentialEnergy()
	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%d", m.step)) + "\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.4f", float64(m.step)*m.dt)) + "\n")
	s.WriteString(labelStyle.Render("Atoms") + valueStyle.Render(fmt.Sprintf("%d", sys.N)) + "\n")
	s.WriteString(labelStyle.Render("Potential") + valueStyle.Render(fmt.Sprintf("%.6f", pot)) + "\n")
	s.WriteString(labelStyle.Render("Kinetic") + valueStyle.Render(fmt.Sprintf("%.6f", kin)) + "\n")
	s.WriteString(labelStyle.Render("Total") + valueStyle.Render(fmt.Sprintf("%.6f", pot+kin)) + "\n")
	s.WriteString(labelStyle.Render("Temperature") + valueStyle.Render(fmt.Sprintf("%.4f", m.runner.Temperature())) + "\n")
	if sys.Box.Periodic[0] && sys.Box.Periodic[1] && sys.Box.Periodic[2] {
		pressure := m.runner.Forces().Pressure(sys.Box.Volume(), kin)
		s.WriteString(labelStyle.Render("Pressure") + valueStyle.Render(fmt.Sprintf("%.6f", pressure)) + "\n")
	}
	s.WriteString(labelStyle.Render("Steps/frame") + valueStyle.Render(fmt.Sprintf("%d", m.stepsPerFrame)) + "\n")

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause  G:Graph  Q:Quit\n+/-:Speed"))
	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
