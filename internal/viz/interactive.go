package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/rodsim/internal/config"
	"github.com/san-kum/rodsim/internal/input"
	"github.com/san-kum/rodsim/internal/physics"
	"github.com/san-kum/rodsim/internal/scene"
)

const (
	canvasWidth  = 60
	canvasHeight = 22
	frameRate    = 60
)

type TickMsg time.Time

// Model is the terminal frame driver: three editable fields on the right,
// the rasterized scene on the left, recomputed every tick.
type Model struct {
	driver  *scene.Driver
	canvas  *Canvas
	scene   *scene.Scene
	result  physics.Result
	err     error
	presets []string
	preset  int
	frames  int
}

func NewModel(l *physics.Launcher, defaults config.InputConfig) Model {
	m := Model{
		driver:  scene.NewDriver(l, input.NewForm(defaults)),
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		presets: config.ListPresets(),
		preset:  -1,
	}
	m.frame()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		m.frame()
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	form := m.driver.Form
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyTab, tea.KeyDown, tea.KeyEnter:
		form.Next()
	case tea.KeyShiftTab, tea.KeyUp:
		form.Prev()
	case tea.KeyBackspace:
		form.Focused().Backspace()
	case tea.KeyCtrlU:
		form.Focused().SetText("")
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			switch r {
			case 'q':
				return m, tea.Quit
			case 'r':
				form.Reset()
				m.preset = -1
			case 'p':
				m.nextPreset()
			default:
				form.Focused().Insert(r)
			}
		}
	}
	m.frame()
	return m, nil
}

func (m *Model) nextPreset() {
	if len(m.presets) == 0 {
		return
	}
	m.preset = (m.preset + 1) % len(m.presets)
	if p, ok := config.GetPreset(m.presets[m.preset]); ok {
		m.driver.Form.Apply(p)
	}
}

// frame recomputes the scene from the current field values.
func (m *Model) frame() {
	m.frames++
	s, res, err := m.driver.Frame()
	m.err = err
	if err != nil {
		return
	}
	m.scene, m.result = s, res
	Rasterize(m.canvas, s)
}

func (m Model) Form() *input.Form      { return m.driver.Form }
func (m Model) Result() physics.Result { return m.result }
func (m Model) Scene() *scene.Scene    { return m.scene }

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("ROD THROW") + "  " + subtleStyle.Render("ball release simulator") + "\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.canvas.String()), m.panel()))
	b.WriteString("\n" + keyHint("tab", "next field") + keyHint("p", "preset") + keyHint("r", "reset") + keyHint("q", "quit") + "\n")
	return b.String()
}

func (m Model) panel() string {
	var p strings.Builder
	form := m.driver.Form
	for i, f := range form.Fields {
		text := f.Text
		if i == form.FocusIndex() {
			text = focusStyle.Render(text + "_")
		} else {
			text = valueStyle.Render(text)
		}
		if _, ok := f.Parse(); !ok {
			text += invalidStyle.Render(fmt.Sprintf(" (using %g)", f.Default))
		}
		p.WriteString(labelStyle.Render(f.Name+":") + text + "\n")
	}
	p.WriteString("\n")

	if m.err != nil {
		p.WriteString(invalidStyle.Render(m.err.Error()) + "\n")
	} else if m.scene != nil {
		for _, t := range m.scene.Texts {
			p.WriteString(metricStyle.Render(t.Body) + "\n")
		}
	}
	p.WriteString("\n")
	p.WriteString(labelStyle.Render("spin-up") + valueStyle.Render(fmt.Sprintf("%d frames", m.result.SpinUpSteps)) + "\n")
	p.WriteString(labelStyle.Render("release") + valueStyle.Render(fmt.Sprintf("%.3f px/frame", m.result.ReleaseSpeed)) + "\n")
	p.WriteString(labelStyle.Render("path") + valueStyle.Render(fmt.Sprintf("%d points", len(m.result.Path))) + "\n")
	if m.result.Stalled {
		p.WriteString(invalidStyle.Render("motor stalled: torque too small to reach release") + "\n")
	}
	if m.preset >= 0 {
		p.WriteString(labelStyle.Render("preset") + valueStyle.Render(m.presets[m.preset]) + "\n")
	}
	return panelStyle.Render(p.String())
}

func Run(l *physics.Launcher, defaults config.InputConfig) error {
	_, err := tea.NewProgram(NewModel(l, defaults), tea.WithAltScreen()).Run()
	return err
}
