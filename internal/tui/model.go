// ============================================================================
// meinAFFE (mAF) - Monkey-Sprachwerkzeuge
// ============================================================================
//
// Package:     tui
// Description: Bubbletea REPL for the Monkey front end
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/mAF/foundation/utils/stringx"
	"github.com/msto63/mAF/internal/frege/service"
	"github.com/msto63/mAF/internal/repl"
	"github.com/msto63/mAF/pkg/core/version"
)

const maxInputHistory = 100

// Config holds TUI configuration
type Config struct {
	Mode    repl.Mode
	User    string
	Service *service.Service
}

// Model is the Bubbletea model of the interactive REPL
type Model struct {
	// State
	width  int
	height int
	ready  bool
	busy   bool
	mode   repl.Mode
	user   string

	// Components
	input    textinput.Model
	viewport viewport.Model

	// Transcript
	lines []string

	// Input history, oldest first; historyIdx == len(history) means "new line"
	history    []string
	historyIdx int

	ctx     context.Context
	service *service.Service
}

// New creates a new TUI model
func New(ctx context.Context, cfg Config) Model {
	ti := textinput.New()
	ti.Prompt = PromptStyle.Render(repl.Prompt)
	ti.Placeholder = "let x = 5 * (2 + 3);"
	ti.CharLimit = 0
	ti.Focus()

	mode := cfg.Mode
	if mode == "" {
		mode = repl.ModeTokens
	}

	m := Model{
		mode:    mode,
		user:    cfg.User,
		input:   ti,
		ctx:     service.WithSession(ctx, service.NewSessionID()),
		service: cfg.Service,
	}
	if cfg.User != "" {
		m.lines = append(m.lines, SubtitleStyle.Render(repl.Greeting(cfg.User)))
	}
	return m
}

// Mode returns the active mode
func (m Model) Mode() repl.Mode {
	return m.mode
}

// Transcript returns the output lines without styling applied by the view
func (m Model) Transcript() []string {
	return m.lines
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, next, cmd := m.handleKeyPress(msg); handled {
			return next, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2 // title + tabs
		footerHeight := 5 // input box + status bar + help
		viewportHeight := msg.Height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = viewportHeight
		}
		m.input.Width = msg.Width - 8
		m.refreshViewport()

	case tokenizeDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.appendLines(RenderError(msg.err.Error()))
			break
		}
		for _, tok := range msg.result.Tokens {
			if tok.Kind == "EOF" {
				break
			}
			m.appendLines(TokenStyle(tok.Kind).Render(tok.String()))
		}

	case parseDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.appendLines(RenderError(msg.err.Error()))
			break
		}
		if msg.result.Program != "" {
			m.appendLines(ProgramStyle.Render(msg.result.Program))
		}
		for _, d := range msg.result.Diagnostics {
			m.appendLines(ErrorMessageStyle.Render(fmt.Sprintf("  %d:%d %s", d.Line, d.Column, d.Message)))
		}
	}

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keys the model owns; everything else goes to the
// text input.
func (m Model) handleKeyPress(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return true, m, tea.Quit

	case "ctrl+t":
		if m.mode == repl.ModeTokens {
			m.mode = repl.ModeParse
		} else {
			m.mode = repl.ModeTokens
		}
		return true, m, nil

	case "ctrl+l":
		m.lines = nil
		m.refreshViewport()
		return true, m, nil

	case "up":
		if m.historyIdx > 0 {
			m.historyIdx--
			m.input.SetValue(m.history[m.historyIdx])
			m.input.CursorEnd()
		}
		return true, m, nil

	case "down":
		if m.historyIdx < len(m.history) {
			m.historyIdx++
			if m.historyIdx == len(m.history) {
				m.input.SetValue("")
			} else {
				m.input.SetValue(m.history[m.historyIdx])
			}
			m.input.CursorEnd()
		}
		return true, m, nil

	case "pgup":
		m.viewport.HalfViewUp()
		return true, m, nil

	case "pgdown":
		m.viewport.HalfViewDown()
		return true, m, nil

	case "enter":
		line := m.input.Value()
		if m.busy || stringx.IsBlank(line) {
			return true, m, nil
		}

		m.input.SetValue("")
		m.pushHistory(line)
		m.appendLines(PromptStyle.Render(repl.Prompt) + EchoStyle.Render(line))
		m.busy = true
		return true, m, m.evaluate(line)
	}

	return false, m, nil
}

// evaluate runs the line through the service off the UI goroutine
func (m Model) evaluate(line string) tea.Cmd {
	ctx, svc, mode := m.ctx, m.service, m.mode

	return func() tea.Msg {
		if mode == repl.ModeParse {
			result, err := svc.Parse(ctx, line)
			return parseDoneMsg{input: line, result: result, err: err}
		}
		result, err := svc.Tokenize(ctx, line)
		return tokenizeDoneMsg{input: line, result: result, err: err}
	}
}

func (m *Model) pushHistory(line string) {
	if n := len(m.history); n == 0 || m.history[n-1] != line {
		m.history = append(m.history, line)
		if len(m.history) > maxInputHistory {
			m.history = m.history[len(m.history)-maxInputHistory:]
		}
	}
	m.historyIdx = len(m.history)
}

func (m *Model) appendLines(lines ...string) {
	m.lines = append(m.lines, lines...)
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Lade REPL..."
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(BoxStyle.Width(m.width - 2).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(RenderHelp("enter: ausführen • ctrl+t: Modus • ctrl+l: leeren • ↑/↓: Verlauf • esc: beenden"))

	return b.String()
}

func (m Model) renderHeader() string {
	title := TitleStyle.Render("🐒 Monkey REPL")

	tokens, parse := TabStyle, TabStyle
	if m.mode == repl.ModeTokens {
		tokens = ActiveTabStyle
	} else {
		parse = ActiveTabStyle
	}

	return lipgloss.JoinHorizontal(lipgloss.Center,
		title, "  ",
		tokens.Render("Tokens"),
		parse.Render("Parser"),
	)
}

func (m Model) renderStatusBar() string {
	left := fmt.Sprintf("Modus: %s", m.mode)
	if m.busy {
		left += " …"
	}
	right := "v" + version.TUI

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return StatusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// Run starts the TUI on the terminal and blocks until it quits
func Run(ctx context.Context, cfg Config) error {
	p := tea.NewProgram(New(ctx, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
