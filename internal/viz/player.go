package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/planktonviz/internal/field"
)

type TickMsg time.Time

// Player steps through precomputed recentered frames.
type Player struct {
	frames   []field.Snapshot
	times    []float64
	title    string
	frame    int
	running  bool
	interval time.Duration
	theme    Theme
	styles   styles
	width    int
	height   int
	showHelp bool
}

// NewPlayer builds a player over frames; times[i] is the simulation time of
// frames[i].
func NewPlayer(title string, frames []field.Snapshot, times []float64, fps int) Player {
	if fps <= 0 {
		fps = 30
	}
	return Player{
		frames:   frames,
		times:    times,
		title:    title,
		running:  true,
		interval: time.Second / time.Duration(fps),
		theme:    ThemeOcean,
		styles:   newStyles(ThemeOcean),
		width:    DefaultChartWidth - 20,
		height:   DefaultChartHeight,
	}
}

// WithTheme returns a copy of the player using t.
func (m Player) WithTheme(t Theme) Player {
	m.theme = t
	m.styles = newStyles(t)
	return m
}

func (m Player) Frame() int        { return m.frame }
func (m Player) Running() bool     { return m.running }
func (m Player) ThemeName() string { return m.theme.Name }

func (m Player) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Player) Init() tea.Cmd {
	return m.tick()
}

// Update handles input and advances playback.
func (m Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "[":
			m.running = false
			m.seek(-1)
		case "]":
			m.running = false
			m.seek(1)
		case "r":
			m.frame = 0
		case "t":
			m.theme = nextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		if w := msg.Width - 20; w > 10 {
			m.width = w
		}
		if h := (msg.Height - 12) / 2; h > 2 {
			m.height = h
		}
	case TickMsg:
		if m.running && len(m.frames) > 0 {
			m.frame = (m.frame + 1) % len(m.frames)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Player) seek(dir int) {
	if len(m.frames) == 0 {
		return
	}
	m.frame += dir
	if m.frame < 0 {
		m.frame = 0
	}
	if m.frame >= len(m.frames) {
		m.frame = len(m.frames) - 1
	}
}

// View renders the current frame.
func (m Player) View() string {
	var s strings.Builder
	s.WriteString(m.styles.header.Render(strings.ToUpper(m.title)) + "\n")

	if len(m.frames) == 0 {
		s.WriteString(m.styles.value.Render("no frames") + "\n")
		return s.String()
	}

	t := 0.0
	if m.frame < len(m.times) {
		t = m.times[m.frame]
	}
	status := "PLAYING"
	if !m.running {
		status = "PAUSED"
	}

	s.WriteString(m.styles.label.Render("Status") + m.styles.value.Render(status) + "\n")
	s.WriteString(m.styles.label.Render("Frame") + m.styles.value.Render(fmt.Sprintf("%d/%d", m.frame+1, len(m.frames))) + "\n")
	s.WriteString(m.styles.label.Render("Time") + m.styles.value.Render(fmt.Sprintf("%.3f", t)) + "\n\n")

	chart := Snapshot(m.frames[m.frame], fmt.Sprintf("(t=%.3f)", t), m.width, m.height, m.theme)
	s.WriteString(m.styles.panel.Render(chart) + "\n")

	help := "SP:Pause [ ]:Step R:Restart T:Theme Q:Quit"
	if m.showHelp {
		help = lipgloss.JoinVertical(lipgloss.Left,
			"Space  pause/resume playback",
			"[ ]    step one frame back/forward (pauses)",
			"r      restart from the first frame",
			"t      cycle theme",
			"q      quit",
		)
	}
	s.WriteString(m.styles.help.Render(help))
	return s.String()
}

// Run starts an interactive player on the terminal.
func Run(p Player) error {
	_, err := tea.NewProgram(p, tea.WithAltScreen()).Run()
	return err
}
