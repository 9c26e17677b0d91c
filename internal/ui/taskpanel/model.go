// Package taskpanel renders the tasks of the selected list with an
// inline input for adding new ones.
package taskpanel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/temperhq/taskcal/internal/keys"
	"github.com/temperhq/taskcal/internal/model"
	"github.com/temperhq/taskcal/internal/theme"
)

// AddTaskMsg asks the root model to create a task.
type AddTaskMsg struct {
	ListID string
	Title  string
}

// ToggleTaskMsg asks the root model to flip a task's completion.
// Completing removes the task entirely.
type ToggleTaskMsg struct {
	TaskID    string
	Completed bool
}

// Model is the task panel component.
type Model struct {
	tasks  []model.Task
	listID string
	cursor int
	keys   *keys.KeyMap

	adding bool
	input  textinput.Model

	width  int
	height int
}

// New creates the task panel model.
func New(k *keys.KeyMap, width, height int) Model {
	ti := textinput.New()
	ti.Prompt = "+ "
	ti.Placeholder = "new task"
	ti.CharLimit = 200

	return Model{
		keys:   k,
		input:  ti,
		width:  width,
		height: height,
	}
}

// SetData filters the tasks down to the selected list. An empty listID
// shows every task, newest first, the same order the store keeps.
func (m *Model) SetData(tasks []model.Task, listID string) {
	m.listID = listID
	m.tasks = m.tasks[:0]
	for _, t := range tasks {
		if listID == "" || (t.ListID != nil && *t.ListID == listID) {
			m.tasks = append(m.tasks, t)
		}
	}

	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Editing reports whether the inline add input is open.
func (m Model) Editing() bool {
	return m.adding
}

// Update handles key input while the task panel has focus.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.adding {
		return m.handleInputKeys(keyMsg)
	}

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, m.keys.Add):
		m.adding = true
		m.input.Reset()
		return m, m.input.Focus()

	case key.Matches(keyMsg, m.keys.Toggle), key.Matches(keyMsg, m.keys.Select):
		if m.cursor < len(m.tasks) {
			t := m.tasks[m.cursor]
			return m, func() tea.Msg {
				return ToggleTaskMsg{TaskID: t.ID, Completed: !t.Completed}
			}
		}
	}

	return m, nil
}

func (m Model) handleInputKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		title := strings.TrimSpace(m.input.Value())
		listID := m.listID
		m.adding = false
		m.input.Blur()
		if title == "" {
			return m, nil
		}
		return m, func() tea.Msg { return AddTaskMsg{ListID: listID, Title: title} }

	case "esc":
		m.adding = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the task list.
func (m Model) View() string {
	var b strings.Builder

	if len(m.tasks) == 0 && !m.adding {
		b.WriteString(theme.HelpStyle.Render("No tasks.\nPress a to add one."))
	}

	for i, t := range m.tasks {
		box := "[ ]"
		style := theme.ListItemStyle
		if t.Completed {
			box = "[x]"
			style = theme.CompletedTaskStyle
		}
		line := fmt.Sprintf("%s %s", box, t.Title)

		if i == m.cursor {
			b.WriteString(theme.SelectedItemStyle.Render(line))
		} else {
			b.WriteString(style.Render(line))
		}
		b.WriteString("\n")
	}

	if m.adding {
		b.WriteString("\n")
		b.WriteString(m.input.View())
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Render(b.String())
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 4
}
