package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chazuruo/launchdeck/internal/sequencer"
	"github.com/chazuruo/launchdeck/internal/workflows"
)

// StepState is the display state of one workflow step.
type StepState int

const (
	StepPending StepState = iota
	StepWaiting
	StepOpening
	StepOpened
	StepFailed
	StepSkipped
)

// EventMsg forwards a sequencer event to the progress model.
type EventMsg sequencer.Event

// DoneMsg reports the end of a workflow run.
type DoneMsg struct {
	Outcome sequencer.Outcome
	Err     error
}

// ProgressModel shows a workflow run step by step.
type ProgressModel struct {
	// Workflow is the workflow being run.
	Workflow *workflows.Workflow

	// Labels are the display names of the steps.
	Labels []string

	// States holds the state of each step.
	States []StepState

	// Errors holds the failure of each step, if any.
	Errors []error

	// Done is set once DoneMsg arrives.
	Done bool

	// Result is the final outcome.
	Result DoneMsg

	// Interrupted is set when the user pressed Ctrl+C.
	Interrupted bool

	cancel  func()
	spinner spinner.Model
	waiting string

	// styles
	titleStyle   lipgloss.Style
	openedStyle  lipgloss.Style
	failedStyle  lipgloss.Style
	runningStyle lipgloss.Style
	pendingStyle lipgloss.Style
}

// NewProgressModel creates a progress view for wf. labels holds one display
// name per step; cancel stops the run when the user presses Ctrl+C.
func NewProgressModel(wf *workflows.Workflow, labels []string, cancel func()) ProgressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return ProgressModel{
		Workflow: wf,
		Labels:   labels,
		States:   make([]StepState, len(wf.Steps)),
		Errors:   make([]error, len(wf.Steps)),
		cancel:   cancel,
		spinner:  sp,
		titleStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true),
		openedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("green")),
		failedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("red")),
		runningStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("yellow")),
		pendingStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")),
	}
}

// Init implements tea.Model.
func (m ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if m.Done {
				return m, tea.Quit
			}
			if !m.Interrupted && m.cancel != nil {
				m.Interrupted = true
				m.cancel()
			}
		case "enter":
			if m.Done {
				return m, tea.Quit
			}
		}
		return m, nil

	case EventMsg:
		m.apply(sequencer.Event(msg))
		return m, nil

	case DoneMsg:
		m.Done = true
		m.Result = msg
		for i, s := range m.States {
			if s == StepPending || s == StepWaiting {
				m.States[i] = StepSkipped
			}
		}
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *ProgressModel) apply(e sequencer.Event) {
	if e.Step < 0 || e.Step >= len(m.States) {
		return
	}

	switch e.Kind {
	case sequencer.EventWaiting:
		m.States[e.Step] = StepWaiting
		m.waiting = e.Delay.String()
	case sequencer.EventStepStarted:
		m.States[e.Step] = StepOpening
		m.waiting = ""
	case sequencer.EventStepLaunched:
		m.States[e.Step] = StepOpened
	case sequencer.EventStepFailed:
		m.States[e.Step] = StepFailed
		m.Errors[e.Step] = e.Err
	}
}

// View implements tea.Model.
func (m ProgressModel) View() string {
	var b strings.Builder

	b.WriteString("\n  ")
	b.WriteString(m.titleStyle.Render(m.Workflow.Name))
	b.WriteString("\n\n")

	for i, label := range m.Labels {
		b.WriteString("  ")
		switch m.States[i] {
		case StepOpened:
			b.WriteString(m.openedStyle.Render("✓ " + label))
		case StepFailed:
			b.WriteString(m.failedStyle.Render(fmt.Sprintf("✗ %s: %v", label, m.Errors[i])))
		case StepOpening:
			b.WriteString(m.runningStyle.Render(m.spinner.View() + " " + label))
		case StepWaiting:
			b.WriteString(m.runningStyle.Render(fmt.Sprintf("%s %s (in %s)", m.spinner.View(), label, m.waiting)))
		case StepSkipped:
			b.WriteString(m.pendingStyle.Render("- " + label))
		default:
			b.WriteString(m.pendingStyle.Render("  " + label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	switch {
	case m.Done && m.Result.Err == nil:
		b.WriteString(m.openedStyle.Render(m.Result.Outcome.Message()))
	case m.Done:
		b.WriteString(m.failedStyle.Render(m.Result.Err.Error()))
	case m.Interrupted:
		b.WriteString(m.pendingStyle.Render("Stopping after the current step..."))
	default:
		b.WriteString(m.pendingStyle.Render("[Ctrl+C] Stop"))
	}
	b.WriteString("\n")
	return b.String()
}
