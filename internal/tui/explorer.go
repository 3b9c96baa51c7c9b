// Package tui is an interactive terminal explorer for pair force curves.
package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/resobee/potentials/internal/analysis"
	"github.com/resobee/potentials/internal/pair"
	"github.com/resobee/potentials/internal/registry"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	selStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	valStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	panel      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444466")).Padding(0, 1)
)

type field struct {
	name string
	step float64
	min  float64
}

var fields = []field{
	{"strength", 0.1, 0},
	{"r_cut", 0.1, 0.1},
	{"r_min", 0.05, 0.01},
	{"r_max", 0.1, 0.2},
}

type Model struct {
	reg     *registry.Registry
	exports []string
	export  int
	current registry.Export
	values  []float64
	cursor  int
	width   int
	height  int
	err     error
}

func NewModel(reg *registry.Registry, strength, rcut float64) Model {
	m := Model{
		reg:     reg,
		exports: reg.List(),
		current: registry.Export{Name: "-", Potential: pair.LymburnName},
		values:  []float64{strength, rcut, 0.1, math.Max(2*rcut, 1)},
		width:   80,
		height:  24,
	}
	m.selectExport(0)
	return m
}

func (m *Model) selectExport(i int) {
	if len(m.exports) == 0 {
		return
	}
	m.export = i % len(m.exports)
	e, err := m.reg.Lookup(m.exports[m.export])
	if err != nil {
		m.err = err
		return
	}
	m.current = e
}

func (m Model) constructor() pair.Constructor {
	if ctor := m.current.Constructor(); ctor != nil {
		return ctor
	}
	return pair.NewLymburnEvaluator
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.values = append([]float64(nil), m.values...)

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "j", "down":
		m.cursor = (m.cursor + 1) % len(fields)
	case "k", "up":
		m.cursor = (m.cursor + len(fields) - 1) % len(fields)
	case "l", "right", "+":
		m.adjust(1)
	case "h", "left", "-":
		m.adjust(-1)
	case "tab":
		m.selectExport(m.export + 1)
	case "s":
		_, m.err = m.constructor()(0, 0, pair.Params{}).ShapeSpec()
	}
	return m, nil
}

func (m *Model) adjust(dir float64) {
	f := fields[m.cursor]
	v := m.values[m.cursor] + dir*f.step
	if v < f.min {
		v = f.min
	}
	m.values[m.cursor] = math.Round(v*1000) / 1000
	if m.values[3] <= m.values[2] {
		m.values[3] = m.values[2] + fields[3].step
	}
}

// Curve returns the force curve for the current settings.
func (m Model) Curve() analysis.Curve {
	n := m.width - 12
	if n < 10 {
		n = 10
	}
	return analysis.ForceCurve(m.constructor(), pair.Params{Strength: m.values[0]}, m.values[1], m.values[2], m.values[3], n)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("  "+registry.ModuleName) + subStyle.Render("  v"+registry.Version+"  "+m.current.Name) + "\n\n")

	for i, f := range fields {
		val := fmt.Sprintf("%.3f", m.values[i])
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("  %s %s %s\n", keyStyle.Render("▸"), selStyle.Render(fmt.Sprintf("%-10s", f.name)), valStyle.Render(val)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", dimStyle.Render(fmt.Sprintf("%-10s", f.name)), dimStyle.Render(val)))
		}
	}
	b.WriteString("\n")

	curve := m.Curve()
	h := m.height - 16
	if h < 5 {
		h = 5
	}
	graph := asciigraph.Plot(curve.Forces(),
		asciigraph.Height(h),
		asciigraph.Width(len(curve)),
		asciigraph.Caption(fmt.Sprintf("|F|(r) for r in [%.2f, %.2f], cutoff %.2f", m.values[2], m.values[3], m.values[1])),
	)
	b.WriteString(panel.Render(graph) + "\n")

	if m.err != nil {
		b.WriteString("  " + valStyle.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n  " + keyStyle.Render("j/k") + subStyle.Render(" select  ") +
		keyStyle.Render("h/l") + subStyle.Render(" adjust  ") +
		keyStyle.Render("tab") + subStyle.Render(" export  ") +
		keyStyle.Render("s") + subStyle.Render(" shape  ") +
		keyStyle.Render("q") + subStyle.Render(" quit") + "\n")

	return b.String()
}

func Run(reg *registry.Registry, strength, rcut float64) error {
	_, err := tea.NewProgram(NewModel(reg, strength, rcut), tea.WithAltScreen()).Run()
	return err
}
