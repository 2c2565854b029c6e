package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chazuruo/launchdeck/internal/command"
)

// Handler answers one typed command.
type Handler interface {
	Handle(ctx context.Context, text string) (command.Response, error)
}

// SnapshotMsg tells the assistant the catalog was reloaded.
type SnapshotMsg struct {
	Apps      int
	Workflows int
}

// responseMsg carries the result of a Handle call.
type responseMsg struct {
	input string
	resp  command.Response
	err   error
}

type speaker int

const (
	speakerUser speaker = iota
	speakerAssistant
	speakerError
	speakerSystem
)

type line struct {
	who  speaker
	text string
}

// AssistantModel is a chat-style Bubble Tea model over a command Handler.
type AssistantModel struct {
	ctx     context.Context
	handler Handler

	Input    textinput.Model
	Viewport viewport.Model
	spinner  spinner.Model

	lines   []line
	history []string // submitted inputs, oldest first
	histPos int      // index into history while browsing with up/down
	busy    bool
	ready   bool

	// Quit indicates the user left the assistant.
	Quit bool

	// styles
	headerStyle    lipgloss.Style
	userStyle      lipgloss.Style
	assistantStyle lipgloss.Style
	errorStyle     lipgloss.Style
	systemStyle    lipgloss.Style
	helpStyle      lipgloss.Style
}

// NewAssistantModel creates the assistant model.
func NewAssistantModel(ctx context.Context, h Handler) *AssistantModel {
	ti := textinput.New()
	ti.Placeholder = `Try "open slack" or "start workflow morning"`
	ti.Prompt = "> "
	ti.CharLimit = 500
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &AssistantModel{
		ctx:      ctx,
		handler:  h,
		Input:    ti,
		Viewport: viewport.New(80, 20),
		spinner:  sp,
		lines: []line{{
			who:  speakerSystem,
			text: `Type "help" to see what I can do. Esc quits.`,
		}},
		headerStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true),
		userStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Bold(true),
		assistantStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")),
		systemStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true),
		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}

// Init initializes the model.
func (m *AssistantModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update updates the model.
func (m *AssistantModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Viewport.Width = msg.Width
		m.Viewport.Height = max(msg.Height-4, 3)
		m.Input.Width = max(msg.Width-4, 10)
		m.ready = true
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case responseMsg:
		m.busy = false
		switch {
		case msg.err != nil:
			m.addLine(speakerError, msg.err.Error())
		case msg.resp.Err != nil:
			m.addLine(speakerError, msg.resp.Text)
		default:
			m.addLine(speakerAssistant, msg.resp.Text)
		}
		return m, nil

	case SnapshotMsg:
		m.addLine(speakerSystem, fmt.Sprintf("Catalog reloaded: %d app(s), %d workflow(s).", msg.Apps, msg.Workflows))
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m *AssistantModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.Quit = true
		return m, tea.Quit

	case tea.KeyEnter:
		text := strings.TrimSpace(m.Input.Value())
		if text == "" || m.busy {
			return m, nil
		}
		if text == "exit" || text == "quit" {
			m.Quit = true
			return m, tea.Quit
		}
		m.Input.SetValue("")
		m.history = append(m.history, text)
		m.histPos = len(m.history)
		m.addLine(speakerUser, text)
		m.busy = true
		return m, tea.Batch(m.handle(text), m.spinner.Tick)

	case tea.KeyUp:
		if m.histPos > 0 {
			m.histPos--
			m.Input.SetValue(m.history[m.histPos])
			m.Input.CursorEnd()
		}
		return m, nil

	case tea.KeyDown:
		if m.histPos < len(m.history)-1 {
			m.histPos++
			m.Input.SetValue(m.history[m.histPos])
		} else {
			m.histPos = len(m.history)
			m.Input.SetValue("")
		}
		m.Input.CursorEnd()
		return m, nil

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.Viewport, cmd = m.Viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

// handle runs the command off the UI goroutine.
func (m *AssistantModel) handle(text string) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.handler.Handle(m.ctx, text)
		return responseMsg{input: text, resp: resp, err: err}
	}
}

func (m *AssistantModel) addLine(who speaker, text string) {
	m.lines = append(m.lines, line{who: who, text: text})
	m.refresh()
}

func (m *AssistantModel) refresh() {
	m.Viewport.SetContent(m.Transcript())
	m.Viewport.GotoBottom()
}

// Transcript renders the conversation.
func (m *AssistantModel) Transcript() string {
	var b strings.Builder
	for i, l := range m.lines {
		if i > 0 {
			b.WriteString("\n")
		}
		switch l.who {
		case speakerUser:
			b.WriteString(m.userStyle.Render("you: " + l.text))
		case speakerAssistant:
			b.WriteString(m.assistantStyle.Render(l.text))
		case speakerError:
			b.WriteString(m.errorStyle.Render(l.text))
		default:
			b.WriteString(m.systemStyle.Render(l.text))
		}
	}
	return b.String()
}

// View renders the model.
func (m *AssistantModel) View() string {
	var b strings.Builder
	b.WriteString(m.headerStyle.Render("launchdeck assistant"))
	b.WriteString("\n")
	if m.ready {
		b.WriteString(m.Viewport.View())
	} else {
		b.WriteString(m.Transcript())
	}
	b.WriteString("\n")
	if m.busy {
		b.WriteString(m.spinner.View() + " ")
	}
	b.WriteString(m.Input.View())
	b.WriteString("\n")
	b.WriteString(m.helpStyle.Render("enter: send • ↑/↓: history • pgup/pgdn: scroll • esc: quit"))
	return b.String()
}
