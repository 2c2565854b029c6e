// Package tui provides Bubble Tea models for launchdeck.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chazuruo/launchdeck/internal/apps"
)

// pickerWindow is how many results are drawn around the cursor.
const pickerWindow = 10

// AppPickerModel is a Bubble Tea model for fuzzy picking an app.
type AppPickerModel struct {
	// Title is shown above the search box.
	Title string

	// Apps is the catalog being searched.
	Apps []apps.AppRecord

	// Results is the current search results.
	Results []apps.SearchResult

	// SearchInput is the text input for the search query.
	SearchInput textinput.Model

	// Quit indicates whether the user quit without selecting.
	Quit bool

	// Selected is the chosen app, nil until Enter is pressed.
	Selected *apps.AppRecord

	cursor int

	// styles
	normalStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	matchStyle    lipgloss.Style
	headerStyle   lipgloss.Style
	metadataStyle lipgloss.Style
}

// NewAppPickerModel creates a picker over records.
func NewAppPickerModel(title string, records []apps.AppRecord) AppPickerModel {
	ti := textinput.New()
	ti.Placeholder = "Type to filter apps..."
	ti.Focus()

	return AppPickerModel{
		Title:       title,
		Apps:        records,
		Results:     apps.Search("", records),
		SearchInput: ti,
		normalStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")),
		selectedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Bold(true),
		matchStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Underline(true),
		headerStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true),
		metadataStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}

// Init implements tea.Model.
func (m AppPickerModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m AppPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.Quit = true
			return m, tea.Quit

		case "enter":
			if len(m.Results) > 0 {
				app := m.Results[m.cursor].App
				m.Selected = &app
			}
			return m, tea.Quit

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.Results)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	oldQuery := m.SearchInput.Value()
	m.SearchInput, cmd = m.SearchInput.Update(msg)
	if m.SearchInput.Value() != oldQuery {
		m.filter()
	}
	return m, cmd
}

// filter reruns the search for the current query.
func (m *AppPickerModel) filter() {
	m.Results = apps.Search(m.SearchInput.Value(), m.Apps)
	if m.cursor >= len(m.Results) {
		m.cursor = max(0, len(m.Results)-1)
	}
}

// View implements tea.Model.
func (m AppPickerModel) View() string {
	var b strings.Builder

	b.WriteString("\n  ")
	b.WriteString(m.headerStyle.Render(m.Title))
	b.WriteString("\n\n  ")
	b.WriteString(m.SearchInput.View())
	b.WriteString("\n\n  ")
	b.WriteString(m.metadataStyle.Render(fmt.Sprintf("%d of %d app(s)", len(m.Results), len(m.Apps))))
	b.WriteString("\n\n")

	if len(m.Results) == 0 {
		b.WriteString("  (no matches)\n")
	}

	start := max(0, m.cursor-pickerWindow)
	end := min(len(m.Results), m.cursor+pickerWindow+1)
	for i := start; i < end; i++ {
		r := m.Results[i]
		style := m.normalStyle
		prefix := "  "
		if i == m.cursor {
			style = m.selectedStyle
			prefix = "> "
		}
		b.WriteString(style.Render(prefix))
		b.WriteString(m.highlight(r, style))
		if r.App.Category != "" {
			b.WriteString(m.metadataStyle.Render("  " + r.App.Category))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(m.metadataStyle.Render("[Enter] Open • [↑/↓] Move • [Esc] Cancel"))
	b.WriteString("\n")
	return b.String()
}

// highlight renders the app name with the matched runes emphasized.
func (m AppPickerModel) highlight(r apps.SearchResult, base lipgloss.Style) string {
	if len(r.MatchedIndexes) == 0 {
		return base.Render(r.App.Name)
	}

	matched := make(map[int]bool, len(r.MatchedIndexes))
	for _, idx := range r.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder
	for i, ch := range r.App.Name {
		if matched[i] {
			b.WriteString(m.matchStyle.Render(string(ch)))
		} else {
			b.WriteString(base.Render(string(ch)))
		}
	}
	return b.String()
}
