package pomodoro

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// BreakMessage is shown when a Pomodoro completes.
const BreakMessage = "Great job! Take a 5 min break."

type keyMap struct {
	Toggle key.Binding
	Reset  key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Toggle: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "start/pause")),
	Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// tickMsg carries the generation of the tick chain that produced it.
type tickMsg struct{ gen int }

// Model is the bubbletea model for the Pomodoro screen.
// Each start bumps gen; ticks from an older chain are dropped, so at most one
// chain drives the countdown.
type Model struct {
	timer  Timer
	gen    int
	styles Styles
}

// Styles for the Pomodoro screen.
type Styles struct {
	Clock lipgloss.Style
	Hint  lipgloss.Style
	Done  lipgloss.Style
}

// DefaultStyles returns styles for a dark or light background.
func DefaultStyles(dark bool) Styles {
	accent := lipgloss.Color("#B33A3A")
	muted := lipgloss.Color("#666666")
	if dark {
		accent = lipgloss.Color("#FF7A7A")
		muted = lipgloss.Color("#A0A0A0")
	}
	return Styles{
		Clock: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Hint:  lipgloss.NewStyle().Foreground(muted),
		Done:  lipgloss.NewStyle().Bold(true),
	}
}

// NewModel creates a paused model for duration d.
func NewModel(d time.Duration, styles Styles) Model {
	return Model{timer: NewTimer(d), styles: styles}
}

// Timer returns the model's timer.
func (m Model) Timer() Timer { return m.timer }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Toggle):
			m.timer = m.timer.Toggle()
			m.gen++
			if m.timer.Running() {
				return m, tick(m.gen)
			}
			return m, nil
		case key.Matches(msg, keys.Reset):
			m.timer = m.timer.Reset()
			m.gen++
			return m, nil
		}
	case tickMsg:
		if msg.gen != m.gen || !m.timer.Running() {
			return m, nil
		}
		m.timer = m.timer.Tick()
		if m.timer.Running() {
			return m, tick(m.gen)
		}
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString("Pomodoro Timer\n\n")
	b.WriteString(m.styles.Clock.Render(m.timer.String()))
	b.WriteString("\n\n")
	if m.timer.Done() {
		b.WriteString(m.styles.Done.Render(BreakMessage))
		b.WriteString("\n\n")
	}
	action := "start"
	if m.timer.Running() {
		action = "pause"
	}
	b.WriteString(m.styles.Hint.Render("space: " + action + "  r: reset  q: quit"))
	b.WriteString("\n")
	return b.String()
}

func tick(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}
