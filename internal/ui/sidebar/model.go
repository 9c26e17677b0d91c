// Package sidebar renders the folder and list tree and emits messages
// for creating, deleting, and selecting lists. The root model owns the
// store calls.
package sidebar

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/temperhq/taskcal/internal/keys"
	"github.com/temperhq/taskcal/internal/model"
	"github.com/temperhq/taskcal/internal/theme"
)

// ListSelectedMsg is sent when the user selects a list.
type ListSelectedMsg struct {
	ListID string
}

// CreateFolderMsg asks the root model to create a folder.
type CreateFolderMsg struct {
	Name  string
	Color string
}

// CreateListMsg asks the root model to create a list in a folder.
type CreateListMsg struct {
	FolderID string
	Name     string
	Color    string
}

// DeleteFolderMsg asks the root model to delete a folder and everything
// under it.
type DeleteFolderMsg struct {
	FolderID string
}

// DeleteListMsg asks the root model to delete a list and its tasks.
type DeleteListMsg struct {
	ListID string
}

type rowKind int

const (
	rowFolder rowKind = iota
	rowList
)

type row struct {
	kind     rowKind
	id       string
	folderID string
	label    string
	color    string
}

type inputMode int

const (
	inputNone inputMode = iota
	inputFolder
	inputList
)

// defaultColors is cycled when assigning a color to a new folder or list.
var defaultColors = []string{
	"#3b82f6", "#22c55e", "#eab308", "#f97316", "#ef4444", "#a855f7",
}

// Model is the folder/list tree component.
type Model struct {
	rows   []row
	cursor int
	keys   *keys.KeyMap

	mode         inputMode
	input        textinput.Model
	targetFolder string

	folderCount int
	listCount   int

	width  int
	height int
}

// New creates the sidebar model.
func New(k *keys.KeyMap, width, height int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 60

	return Model{
		keys:   k,
		input:  ti,
		width:  width,
		height: height,
	}
}

// SetData rebuilds the tree rows from the current collections, keeping
// the cursor in range.
func (m *Model) SetData(folders []model.Folder, lists []model.List) {
	m.rows = m.rows[:0]
	m.folderCount = len(folders)
	m.listCount = len(lists)

	for _, f := range folders {
		m.rows = append(m.rows, row{kind: rowFolder, id: f.ID, label: f.Name, color: f.Color})
		for _, l := range lists {
			if l.FolderID == f.ID {
				m.rows = append(m.rows, row{
					kind: rowList, id: l.ID, folderID: f.ID, label: l.Name, color: l.Color,
				})
			}
		}
	}

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Editing reports whether the inline name input is open.
func (m Model) Editing() bool {
	return m.mode != inputNone
}

// SelectedListID returns the id of the list under the cursor, or empty.
func (m Model) SelectedListID() string {
	if m.cursor < len(m.rows) && m.rows[m.cursor].kind == rowList {
		return m.rows[m.cursor].id
	}
	return ""
}

// Update handles key input while the sidebar has focus.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.mode != inputNone {
		return m.handleInputKeys(keyMsg)
	}

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, m.emitSelection()

	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, m.emitSelection()

	case key.Matches(keyMsg, m.keys.Select):
		return m, m.emitSelection()

	case key.Matches(keyMsg, m.keys.Add):
		// a new list under the folder at (or containing) the cursor;
		// a new folder when the tree is empty
		if folderID := m.cursorFolderID(); folderID != "" {
			m.mode = inputList
			m.targetFolder = folderID
			m.input.Placeholder = "list name"
		} else {
			m.mode = inputFolder
			m.input.Placeholder = "folder name"
		}
		m.input.Reset()
		return m, m.input.Focus()

	case keyMsg.String() == "A":
		m.mode = inputFolder
		m.input.Placeholder = "folder name"
		m.input.Reset()
		return m, m.input.Focus()

	case key.Matches(keyMsg, m.keys.Delete):
		if m.cursor >= len(m.rows) {
			return m, nil
		}
		r := m.rows[m.cursor]
		if r.kind == rowFolder {
			return m, func() tea.Msg { return DeleteFolderMsg{FolderID: r.id} }
		}
		return m, func() tea.Msg { return DeleteListMsg{ListID: r.id} }
	}

	return m, nil
}

func (m Model) handleInputKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		name := strings.TrimSpace(m.input.Value())
		mode := m.mode
		folderID := m.targetFolder
		m.mode = inputNone
		m.input.Blur()
		if name == "" {
			return m, nil
		}

		if mode == inputFolder {
			color := defaultColors[m.folderCount%len(defaultColors)]
			return m, func() tea.Msg { return CreateFolderMsg{Name: name, Color: color} }
		}
		color := defaultColors[m.listCount%len(defaultColors)]
		return m, func() tea.Msg {
			return CreateListMsg{FolderID: folderID, Name: name, Color: color}
		}

	case "esc":
		m.mode = inputNone
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// cursorFolderID returns the folder at the cursor, or the folder
// containing the list at the cursor.
func (m Model) cursorFolderID() string {
	if m.cursor >= len(m.rows) {
		return ""
	}
	r := m.rows[m.cursor]
	if r.kind == rowFolder {
		return r.id
	}
	return r.folderID
}

func (m Model) emitSelection() tea.Cmd {
	listID := m.SelectedListID()
	if listID == "" {
		return nil
	}
	return func() tea.Msg { return ListSelectedMsg{ListID: listID} }
}

// View renders the tree.
func (m Model) View() string {
	var b strings.Builder

	if len(m.rows) == 0 {
		b.WriteString(theme.HelpStyle.Render("No folders yet.\nPress a to add one."))
	}

	for i, r := range m.rows {
		label := r.label
		style := theme.ListItemStyle
		if r.kind == rowList {
			label = "· " + label
			style = style.PaddingLeft(4)
		} else {
			label = theme.FolderStyle(r.color).Render(label)
		}

		if i == m.cursor {
			b.WriteString(theme.SelectedItemStyle.Render(label))
		} else {
			b.WriteString(style.Render(label))
		}
		b.WriteString("\n")
	}

	if m.mode != inputNone {
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
