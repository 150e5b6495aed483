// Package tui provides the BubbleTea-based playground for the toast center:
// compose toasts, watch them queue and expire, park and take flashes.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/toasty/internal/config"
	"github.com/jmylchreest/toasty/internal/history"
	"github.com/jmylchreest/toasty/internal/terminal"
	"github.com/jmylchreest/toasty/internal/toast"
)

// FlashKey is the key the TUI parks flashes under.
const FlashKey = "tui"

// durationSteps are the choices cycled with Longer/Shorter. Zero is the
// center default.
var durationSteps = []time.Duration{
	0,
	500 * time.Millisecond,
	1000 * time.Millisecond,
	2000 * time.Millisecond,
	3000 * time.Millisecond,
	5000 * time.Millisecond,
	10000 * time.Millisecond,
}

// Options configures the TUI.
type Options struct {
	Config  *config.Config
	Clock   toast.Clock      // nil = system clock
	Flash   toast.FlashStore // nil = no flash support
	History history.Appender // nil = finished toasts are not persisted
	Logger  *slog.Logger
}

// Model is the main TUI model.
type Model struct {
	cfg    *config.Config
	logger *slog.Logger

	exec   *Executor
	center *toast.Center
	board  *board
	clock  toast.Clock

	// Components
	input textinput.Model
	help  help.Model
	keys  KeyMap

	// Composer state
	category int // index into toast.Categories()
	step     int // index into durationSteps

	width  int
	height int

	// Status message
	statusMsg string
	statusErr bool
}

// New creates a new TUI model with its own center.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = toast.SystemClock()
	}

	exec := NewExecutor()
	b := newBoard(clock.Now, cfg.TUI.HistorySize, opts.History)
	recorder := history.NewRecorder(b, "tui", logger)

	centerOpts := []toast.Option{
		toast.WithLogger(logger),
		toast.WithClock(clock),
		toast.WithDefaultDuration(cfg.Toast.DefaultDuration.Duration()),
		toast.WithTransitions(toast.NewDelayTransitions(clock, cfg.Toast.ExitAnimation.Duration())),
		toast.WithObserver(recorder.Observe),
	}
	if opts.Flash != nil {
		centerOpts = append(centerOpts, toast.WithFlashStore(opts.Flash))
	}

	input := textinput.New()
	input.Placeholder = "Type a message and press enter..."
	input.CharLimit = 200
	input.Focus()

	return Model{
		cfg:    cfg,
		logger: logger,
		exec:   exec,
		center: toast.NewCenter(b, exec, centerOpts...),
		board:  b,
		clock:  clock,
		input:  input,
		help:   help.New(),
		keys:   DefaultKeyMap(),
	}
}

// Center returns the center driven by this model.
func (m Model) Center() *toast.Center { return m.center }

type tickMsg time.Time

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func setStatus(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.exec.wait(), tick())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-20, 10)
		return m, nil

	case postedMsg:
		for _, fn := range msg.fns {
			fn()
		}
		return m, m.exec.wait()

	case tickMsg:
		// Re-render so the remaining time counts down.
		return m, tick()

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, setStatus("Copy failed: "+msg.err.Error(), true)
		}
		return m, setStatus("Copied to clipboard", false)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) currentCategory() toast.Category {
	return toast.Categories()[m.category]
}

func (m Model) currentDuration() time.Duration {
	return durationSteps[m.step]
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	categories := toast.Categories()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		content := strings.TrimSpace(m.input.Value())
		if content == "" {
			return m, nil
		}
		n := m.center.Show(m.currentCategory(), content, m.currentDuration())
		m.input.SetValue("")
		if n.State() == toast.Pending {
			return m, setStatus(fmt.Sprintf("Queued (%d waiting)", m.center.QueueLen()), false)
		}
		return m, nil

	case key.Matches(msg, m.keys.NextCategory):
		m.category = (m.category + 1) % len(categories)
		return m, nil

	case key.Matches(msg, m.keys.PrevCategory):
		m.category = (m.category + len(categories) - 1) % len(categories)
		return m, nil

	case key.Matches(msg, m.keys.Longer):
		m.step = min(m.step+1, len(durationSteps)-1)
		return m, nil

	case key.Matches(msg, m.keys.Shorter):
		m.step = max(m.step-1, 0)
		return m, nil

	case key.Matches(msg, m.keys.Flash):
		content := strings.TrimSpace(m.input.Value())
		if content == "" {
			return m, setStatus("Nothing to flash", true)
		}
		err := m.center.Flash(context.Background(), FlashKey, m.currentCategory(), content, m.currentDuration())
		if err != nil {
			return m, setStatus(err.Error(), true)
		}
		m.input.SetValue("")
		return m, setStatus("Flash saved, ctrl+t to take it", false)

	case key.Matches(msg, m.keys.TakeFlash):
		_, ok, err := m.center.TakeFlash(context.Background(), FlashKey)
		switch {
		case err != nil:
			return m, setStatus(err.Error(), true)
		case !ok:
			return m, setStatus("No flash stored", false)
		}
		return m, nil

	case key.Matches(msg, m.keys.HideNow):
		if active := m.center.Active(); active != nil {
			active.Hide()
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		active := m.center.Active()
		if active == nil {
			return m, nil
		}
		text, command := active.Content(), m.cfg.TUI.ClipboardCommand
		return m, func() tea.Msg {
			return copyResultMsg{err: copyText(text, command)}
		}

	case key.Matches(msg, m.keys.Clear):
		m.board.recent = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// View renders the TUI.
func (m Model) View() string {
	width := m.cfg.Display.Width / 8
	if width < 30 {
		width = 30
	}
	if m.width > 0 && width > m.width-2 {
		width = max(m.width-2, 10)
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("toasty") + "\n\n")
	s.WriteString(m.viewActive(width) + "\n\n")
	s.WriteString(m.viewQueue() + "\n")
	s.WriteString(m.viewRecent() + "\n")
	s.WriteString(m.viewComposer() + "\n\n")

	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		s.WriteString(statusStyle.Render(m.statusMsg) + "\n")
	}
	s.WriteString(m.help.View(m.keys))

	return s.String()
}

func (m Model) viewActive(width int) string {
	c := m.board.active
	if c == nil {
		return mutedStyle.Render("(idle)")
	}

	box := terminal.Box(c.n.Category(), c.n.Content(), width, c.exiting)

	var state string
	if c.exiting {
		state = "hiding"
	} else {
		left := c.n.Duration() - m.clock.Now().Sub(c.shownAt)
		state = fmt.Sprintf("%.1fs left", max(left, 0).Seconds())
	}
	return lipgloss.JoinVertical(lipgloss.Left, box, mutedStyle.Render(state))
}

func (m Model) viewQueue() string {
	queued := m.center.Queued()
	s := sectionStyle.Render(fmt.Sprintf("Queue (%d)", len(queued))) + "\n"
	for i, n := range queued {
		s += fmt.Sprintf("  %d. %s %s\n",
			i+1,
			lipgloss.NewStyle().Foreground(terminal.Color(n.Category())).Render(terminal.Icon(n.Category())),
			n.Content())
	}
	return s
}

func (m Model) viewRecent() string {
	s := sectionStyle.Render("Recent") + "\n"
	if len(m.board.recent) == 0 {
		return s + mutedStyle.Render("  nothing yet") + "\n"
	}
	for _, r := range m.board.recent {
		cat := toast.Category(r.Category)
		s += fmt.Sprintf("  %s %s %s\n",
			lipgloss.NewStyle().Foreground(terminal.Color(cat)).Render(terminal.Icon(cat)),
			r.ContentTruncated(40),
			mutedStyle.Render(r.RelativeTime()))
	}
	return s
}

func (m Model) viewComposer() string {
	cat := m.currentCategory()
	label := lipgloss.NewStyle().Bold(true).Foreground(terminal.Color(cat)).
		Render(fmt.Sprintf("[%s]", cat))

	dur := "default"
	if d := m.currentDuration(); d > 0 {
		dur = d.String()
	}
	return label + " " + m.input.View() + "  " + mutedStyle.Render(dur)
}

// Run starts the TUI and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
