package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/driquet/ezinit/internal/template"
)

// SelectTemplate displays the templates with a preview using a custom
// Bubble Tea model
func (t *TerminalUI) SelectTemplate(templates map[template.Language]*template.Template) (template.Language, error) {
	if len(templates) == 0 {
		return "", fmt.Errorf("no templates available")
	}

	model := newTemplateSelector(sortByUsage(templates))

	program := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := program.Run()
	if err != nil {
		return "", fmt.Errorf("failed to run selection: %w", err)
	}

	result := finalModel.(*templateSelectorModel)
	if result.cancelled {
		return "", ErrUserAborted
	}

	return result.selected, nil
}

// templateSelectorModel is the Bubble Tea model for template selection with preview
type templateSelectorModel struct {
	templates     []*template.Template
	selectedIndex int
	selected      template.Language
	cancelled     bool
	viewport      viewport.Model
	ready         bool
	width         int
	height        int
}

func newTemplateSelector(templates []*template.Template) *templateSelectorModel {
	return &templateSelectorModel{
		templates: templates,
		viewport:  viewport.New(0, 0),
	}
}

func (m *templateSelectorModel) Init() tea.Cmd {
	return nil
}

func (m *templateSelectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// The list takes 40% of the width.
		listWidth := int(float64(msg.Width) * 0.4)
		previewWidth := msg.Width - listWidth - 3
		if previewWidth < 20 {
			previewWidth = 20
		}

		m.viewport.Width = previewWidth
		m.viewport.Height = msg.Height - 4

		if !m.ready {
			m.ready = true
			m.updatePreview()
		}

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			if len(m.templates) > 0 {
				m.selected = m.templates[m.selectedIndex].Language
			}
			return m, tea.Quit

		case "up", "k":
			if m.selectedIndex > 0 {
				m.selectedIndex--
				m.updatePreview()
			}

		case "down", "j":
			if m.selectedIndex < len(m.templates)-1 {
				m.selectedIndex++
				m.updatePreview()
			}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *templateSelectorModel) updatePreview() {
	if len(m.templates) == 0 {
		return
	}
	m.viewport.SetContent(preview(m.templates[m.selectedIndex]))
}

func (m *templateSelectorModel) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	selectedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("212")).
		Background(lipgloss.Color("57")).
		Bold(true)

	normalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62"))

	items := []string{titleStyle.Render("Select Template:"), ""}
	for i, t := range m.templates {
		line := fmt.Sprintf("  %s (used %d times)", t.Language.DisplayName(), t.Count)
		if i == m.selectedIndex {
			line = selectedStyle.Render("▶ " + line)
		} else {
			line = normalStyle.Render("  " + line)
		}
		items = append(items, line)
	}

	listWidth := int(float64(m.width) * 0.4)
	if listWidth < 30 {
		listWidth = 30
	}

	listView := lipgloss.NewStyle().
		Width(listWidth).
		Height(m.height - 4).
		Render(strings.Join(items, "\n"))

	previewPane := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Preview:"),
		borderStyle.Render(m.viewport.View()),
	)

	main := lipgloss.JoinHorizontal(lipgloss.Top, listView, "  ", previewPane)
	instructions := normalStyle.Render("↑/↓: navigate • enter: select • q/esc: quit")

	return lipgloss.JoinVertical(lipgloss.Left, main, "", instructions)
}
