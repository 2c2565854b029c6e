package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazuruo/launchdeck/internal/testutil"
)

func typeText(m AppPickerModel, text string) AppPickerModel {
	for _, r := range text {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(AppPickerModel)
	}
	return m
}

func press(m AppPickerModel, key tea.KeyType) (AppPickerModel, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: key})
	return next.(AppPickerModel), cmd
}

func TestAppPicker_FilterAndSelect(t *testing.T) {
	m := NewAppPickerModel("Open an app", testutil.Apps("Slack", "Spotify", "Gmail"))
	require.Len(t, m.Results, 3)

	m = typeText(m, "sp")
	require.Len(t, m.Results, 1)
	assert.Equal(t, "Spotify", m.Results[0].App.Name)
	assert.Contains(t, m.View(), "1 of 3 app(s)")

	m, cmd := press(m, tea.KeyEnter)
	require.NotNil(t, m.Selected)
	assert.Equal(t, "Spotify", m.Selected.Name)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestAppPicker_CursorBounds(t *testing.T) {
	m := NewAppPickerModel("Open an app", testutil.Apps("A", "B"))

	m, _ = press(m, tea.KeyUp)
	assert.Equal(t, 0, m.cursor)
	m, _ = press(m, tea.KeyDown)
	m, _ = press(m, tea.KeyDown)
	assert.Equal(t, 1, m.cursor)

	m, _ = press(m, tea.KeyEnter)
	require.NotNil(t, m.Selected)
	assert.Equal(t, "B", m.Selected.Name)
}

func TestAppPicker_NoMatchesAndCancel(t *testing.T) {
	m := NewAppPickerModel("Open an app", testutil.Apps("Slack"))

	m = typeText(m, "zz")
	assert.Empty(t, m.Results)
	assert.Contains(t, m.View(), "(no matches)")

	m, _ = press(m, tea.KeyEnter)
	assert.Nil(t, m.Selected)

	m, cmd := press(m, tea.KeyEsc)
	assert.True(t, m.Quit)
	assert.Equal(t, tea.Quit(), cmd())
}
