package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazuruo/launchdeck/internal/command"
)

type echoHandler struct {
	inputs []string
	err    error
}

func (h *echoHandler) Handle(_ context.Context, text string) (command.Response, error) {
	h.inputs = append(h.inputs, text)
	if h.err != nil {
		return command.Response{}, h.err
	}
	return command.Response{Kind: command.KindChat, Text: "echo: " + text}, nil
}

// submit types text and presses enter, then runs the returned command
// until the response message arrives.
func submit(t *testing.T, m *AssistantModel, text string) {
	t.Helper()
	m.Input.SetValue(text)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.True(t, m.busy)

	msg := m.handle(text)()
	m.Update(msg)
}

func TestAssistantModel_Submit(t *testing.T) {
	h := &echoHandler{}
	m := NewAssistantModel(context.Background(), h)

	submit(t, m, "open slack")

	assert.Equal(t, []string{"open slack"}, h.inputs)
	assert.False(t, m.busy)
	assert.Equal(t, "", m.Input.Value())
	out := m.Transcript()
	assert.Contains(t, out, "you: open slack")
	assert.Contains(t, out, "echo: open slack")
}

func TestAssistantModel_EmptyInputIgnored(t *testing.T) {
	h := &echoHandler{}
	m := NewAssistantModel(context.Background(), h)

	m.Input.SetValue("   ")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, m.busy)
}

func TestAssistantModel_Error(t *testing.T) {
	h := &echoHandler{err: errors.New("data not ready")}
	m := NewAssistantModel(context.Background(), h)

	submit(t, m, "list")
	assert.Contains(t, m.Transcript(), "data not ready")
}

func TestAssistantModel_History(t *testing.T) {
	m := NewAssistantModel(context.Background(), &echoHandler{})
	submit(t, m, "first")
	submit(t, m, "second")

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "second", m.Input.Value())
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "first", m.Input.Value())
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "second", m.Input.Value())
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "", m.Input.Value())
}

func TestAssistantModel_SnapshotAndQuit(t *testing.T) {
	m := NewAssistantModel(context.Background(), &echoHandler{})

	m.Update(SnapshotMsg{Apps: 3, Workflows: 1})
	assert.Contains(t, m.Transcript(), "Catalog reloaded: 3 app(s), 1 workflow(s).")

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, 26, m.Viewport.Height)
	assert.Contains(t, m.View(), "launchdeck assistant")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.Quit)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
