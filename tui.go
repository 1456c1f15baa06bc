package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/3rg0n/termfolio/internal/konami"
	"github.com/3rg0n/termfolio/internal/logging"
	"github.com/3rg0n/termfolio/internal/shell"
	"github.com/3rg0n/termfolio/internal/terminal"
	"github.com/3rg0n/termfolio/internal/vfs"
)

const (
	frameInterval = 33 * time.Millisecond
	keyQueue      = 64
)

// Overlay is what the TUI draws on top of the terminal screen
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayPreview
	OverlayChallenge
)

// Model renders the session's screen buffer and hosts the preview and
// challenge overlays. Keys go to the session goroutine without blocking.
type Model struct {
	screen  *terminal.Buffer
	keys    chan<- terminal.Key
	columns *atomic.Int64
	theme   *Theme
	width   int
	height  int

	overlay Overlay

	preview       viewport.Model
	previewTitle  string
	markdownStyle string

	puzzle     Puzzle
	puzzleDone func()
	answer     textinput.Model
	spinner    spinner.Model
	status     string

	dropped int
	err     error
}

// Messages
type frameMsg time.Time

type previewMsg struct {
	title   string
	content string
}

type challengeOpenMsg struct {
	puzzle Puzzle
	done   func()
}

type challengeCloseMsg struct{}

type sessionDoneMsg struct {
	err error
}

// NewModel creates the bubbletea model for a session writing to screen
// and reading from keys
func NewModel(screen *terminal.Buffer, keys chan<- terminal.Key, columns *atomic.Int64, theme *Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "your answer"
	ti.CharLimit = 64
	ti.Width = 30
	ti.Prompt = "> "

	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Millisecond * 100,
	}
	s.Style = theme.Accent

	return Model{
		screen:        screen,
		keys:          keys,
		columns:       columns,
		theme:         theme,
		width:         shell.LineWidth,
		height:        24,
		answer:        ti,
		spinner:       s,
		markdownStyle: "dark",
	}
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(frameTick(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.columns.Store(int64(msg.Width))
		m.preview.Width = m.contentWidth()
		m.preview.Height = m.previewHeight()
		return m, nil

	case frameMsg:
		return m, frameTick()

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch m.overlay {
		case OverlayPreview:
			return m.updatePreview(msg)
		case OverlayChallenge:
			return m.updateChallenge(msg)
		}
		m.forward(keyFromMsg(msg))
		return m, nil

	case previewMsg:
		return m.openPreview(msg), nil

	case challengeOpenMsg:
		m.overlay = OverlayChallenge
		m.puzzle = msg.puzzle
		m.puzzleDone = msg.done
		m.status = ""
		m.answer.Reset()
		return m, m.answer.Focus()

	case challengeCloseMsg:
		if m.overlay == OverlayChallenge {
			m.overlay = OverlayNone
		}
		m.puzzleDone = nil
		m.answer.Blur()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sessionDoneMsg:
		m.err = msg.err
		return m, tea.Quit
	}

	// Cursor blink and friends
	if m.overlay == OverlayChallenge {
		var cmd tea.Cmd
		m.answer, cmd = m.answer.Update(msg)
		return m, cmd
	}
	return m, nil
}

// forward hands k to the session. A full queue means the session is busy
// with a command and the key is dropped.
func (m *Model) forward(k terminal.Key) {
	select {
	case m.keys <- k:
	default:
		m.dropped++
		logging.L().Debug("key dropped", zap.Int("dropped", m.dropped))
	}
}

func keyFromMsg(msg tea.KeyMsg) terminal.Key {
	switch msg.Type {
	case tea.KeyEnter:
		return terminal.Key{Kind: terminal.KeyEnter}
	case tea.KeyBackspace, tea.KeyCtrlH:
		return terminal.Key{Kind: terminal.KeyBackspace}
	case tea.KeyTab:
		return terminal.Key{Kind: terminal.KeyTab}
	case tea.KeyCtrlC:
		return terminal.Key{Kind: terminal.KeyCtrlC}
	case tea.KeyUp:
		return terminal.Key{Kind: terminal.KeyUp}
	case tea.KeyDown:
		return terminal.Key{Kind: terminal.KeyDown}
	case tea.KeyLeft:
		return terminal.Key{Kind: terminal.KeyLeft}
	case tea.KeyRight:
		return terminal.Key{Kind: terminal.KeyRight}
	case tea.KeySpace:
		return terminal.Printable(" ")
	case tea.KeyRunes:
		if !msg.Alt {
			return terminal.Printable(string(msg.Runes))
		}
	}
	return terminal.Key{Kind: terminal.KeyOther, Text: msg.String()}
}

func (m Model) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "ctrl+c":
		m.overlay = OverlayNone
		return m, nil
	}
	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

func (m Model) updateChallenge(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if m.puzzle.Accepts(m.answer.Value()) {
			done := m.puzzleDone
			m.overlay = OverlayNone
			m.puzzleDone = nil
			m.status = ""
			m.answer.Reset()
			m.answer.Blur()
			if done != nil {
				done()
			}
			return m, nil
		}
		m.status = "That doesn't look right. Try again."
		m.answer.Reset()
		return m, nil
	case tea.KeyEsc:
		m.answer.Reset()
		return m, nil
	}
	var cmd tea.Cmd
	m.answer, cmd = m.answer.Update(msg)
	return m, cmd
}

func (m Model) openPreview(msg previewMsg) Model {
	width := m.contentWidth()
	rendered, err := renderMarkdown(msg.content, m.markdownStyle, width)
	if err != nil {
		logging.L().Warn("markdown render failed", zap.String("title", msg.title), zap.Error(err))
		rendered = msg.content
	}
	m.preview = viewport.New(width, m.previewHeight())
	m.preview.SetContent(rendered)
	m.previewTitle = msg.title
	m.overlay = OverlayPreview
	return m
}

func renderMarkdown(md, style string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

// contentWidth is the inner width of a bordered, padded box
func (m Model) contentWidth() int {
	return max(m.width-4, 20)
}

// previewHeight leaves room for the border, title and footer
func (m Model) previewHeight() int {
	return max(m.height-4, 3)
}

func (m Model) View() string {
	switch m.overlay {
	case OverlayPreview:
		return m.previewView()
	case OverlayChallenge:
		return m.challengeView()
	}
	return m.screenView()
}

func (m Model) screenView() string {
	lines := m.screen.Tail(max(m.height, 1))
	_, col, visible := m.screen.Cursor()

	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			sb.WriteString("\n")
		}
		// Tail ends at the cursor row
		if i == len(lines)-1 && visible {
			sb.WriteString(m.withCursor(line, col))
			continue
		}
		sb.WriteString(m.theme.Text.Render(line))
	}
	return sb.String()
}

func (m Model) withCursor(line string, col int) string {
	runes := []rune(line)
	col = min(max(col, 0), len(runes))
	under := " "
	after := ""
	if col < len(runes) {
		under = string(runes[col])
		after = string(runes[col+1:])
	}
	return m.theme.Text.Render(string(runes[:col])) +
		m.theme.Cursor.Render(under) +
		m.theme.Text.Render(after)
}

func (m Model) previewView() string {
	title := m.theme.Accent.Bold(true).Render(m.previewTitle)
	footer := m.theme.Dim.Render(fmt.Sprintf("%3.f%%  ↑/↓ scroll · esc/q close", m.preview.ScrollPercent()*100))
	return m.theme.Border.Render(lipgloss.JoinVertical(lipgloss.Left, title, m.preview.View(), footer))
}

func (m Model) challengeView() string {
	var b strings.Builder
	b.WriteString(m.theme.Accent.Bold(true).Render("Human verification"))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Text.Render(m.puzzle.Question))
	b.WriteString("\n\n")
	b.WriteString(m.answer.View())
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.Error.Render(m.status))
	}
	b.WriteString("\n\n")
	b.WriteString(m.spinner.View() + " " + m.theme.Dim.Render("enter to submit"))

	box := m.theme.Border.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// StartTUI wires the filesystem, session and challenge together and runs
// the bubbletea program until the user quits
func StartTUI(ctx context.Context, cfg *Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fs := vfs.New(vfs.Options{Open: cfg.Opener()})
	defer func() { _ = fs.Close() }()

	screen := terminal.NewBuffer(cfg.Scrollback)
	keys := make(chan terminal.Key, keyQueue)
	var columns atomic.Int64
	columns.Store(shell.LineWidth)

	m := NewModel(screen, keys, &columns, NewTheme(cfg.Theme))
	if !lipgloss.HasDarkBackground() {
		m.markdownStyle = "light"
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	flow := konami.NewFlow(konami.NewLoader(loadChallenge(cfg.ChallengeURL, p.Send)), konami.Options{})
	session := terminal.NewSession(terminal.Config{
		FS:        fs,
		Screen:    screen,
		Hooks:     newHooks(p.Send),
		Columns:   func() int { return int(columns.Load()) },
		ResumeURL: cfg.ResumeURL,
		Challenge: flow,
		SkipBoot:  cfg.SkipBoot,
	})
	logging.L().Info("session starting",
		zap.String("session", session.ID()),
		zap.String("store", cfg.Store),
		zap.String("theme", cfg.Theme))

	sessionDone := make(chan struct{})
	go func() {
		defer close(sessionDone)
		err := session.Run(ctx, keys)
		p.Send(sessionDoneMsg{err: err})
	}()

	final, err := p.Run()
	cancel()
	<-sessionDone
	if err != nil {
		return err
	}

	if fm, ok := final.(Model); ok && fm.err != nil && !errors.Is(fm.err, context.Canceled) {
		return ErrFilesystem(fm.err)
	}
	logging.L().Info("session ended", zap.String("session", session.ID()))
	return nil
}
