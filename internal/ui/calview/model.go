// Package calview renders the calendar panel: a month, week, or day
// grid of the fetched events plus a status line for the feed state.
package calview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/temperhq/taskcal/internal/calendar"
	"github.com/temperhq/taskcal/internal/keys"
	"github.com/temperhq/taskcal/internal/model"
	"github.com/temperhq/taskcal/internal/source/gcal"
	"github.com/temperhq/taskcal/internal/theme"
)

// RefreshMsg asks the root model to refetch calendar events.
type RefreshMsg struct{}

var weekdayHeaders = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Model is the calendar panel component.
type Model struct {
	ref         time.Time
	granularity calendar.Granularity
	loc         *time.Location
	keys        *keys.KeyMap

	events     []model.Event
	feedState  gcal.State
	feedErrMsg string

	width  int
	height int
}

// New creates the calendar panel anchored on today.
func New(k *keys.KeyMap, loc *time.Location, width, height int) Model {
	return Model{
		ref:         calendar.Today(loc),
		granularity: calendar.GranularityMonth,
		loc:         loc,
		keys:        k,
		width:       width,
		height:      height,
	}
}

// SetFeed updates the events and feed status from a loader snapshot.
func (m *Model) SetFeed(snap gcal.Snapshot) {
	m.events = snap.Events
	m.feedState = snap.State
	m.feedErrMsg = snap.ErrMessage
}

// Update handles key input while the calendar has focus.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.PrevPeriod):
		m.ref = calendar.Prev(m.ref, m.granularity)
	case key.Matches(keyMsg, m.keys.NextPeriod):
		m.ref = calendar.Next(m.ref, m.granularity)
	case key.Matches(keyMsg, m.keys.Today):
		m.ref = calendar.Today(m.loc)
	case key.Matches(keyMsg, m.keys.MonthView):
		m.granularity = calendar.GranularityMonth
	case key.Matches(keyMsg, m.keys.WeekView):
		m.granularity = calendar.GranularityWeek
	case key.Matches(keyMsg, m.keys.DayView):
		m.granularity = calendar.GranularityDay
	case key.Matches(keyMsg, m.keys.Refresh):
		return m, func() tea.Msg { return RefreshMsg{} }
	}

	return m, nil
}

// View renders the calendar panel.
func (m Model) View() string {
	var b strings.Builder

	title := calendar.Title(m.ref, m.granularity)
	b.WriteString(theme.HeaderStyle.Render(title))
	b.WriteString("  ")
	b.WriteString(theme.HelpStyle.Render(m.granularity.String()))
	b.WriteString("\n\n")

	switch m.granularity {
	case calendar.GranularityWeek:
		b.WriteString(m.renderWeek())
	case calendar.GranularityDay:
		b.WriteString(m.renderDay())
	default:
		b.WriteString(m.renderMonth())
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine())

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Render(b.String())
}

// statusLine summarizes the feed state under the grid.
func (m Model) statusLine() string {
	if m.feedErrMsg != "" {
		return theme.ErrorStyle.Render(m.feedErrMsg)
	}

	switch m.feedState {
	case gcal.StateIdle:
		return theme.HelpStyle.Render("calendar not connected")
	case gcal.StateInitializing:
		return theme.HelpStyle.Render("connecting to calendar...")
	case gcal.StateLoading:
		return theme.HelpStyle.Render("fetching events...")
	default:
		return theme.HelpStyle.Render(fmt.Sprintf("%d events", len(m.events)))
	}
}

func (m Model) renderMonth() string {
	cells := calendar.MonthGrid(m.ref, m.events)
	today := calendar.Today(m.loc)

	cellWidth := m.width / 7
	if cellWidth < 6 {
		cellWidth = 6
	}
	cellStyle := lipgloss.NewStyle().Width(cellWidth).Height(4)

	var b strings.Builder
	for _, h := range weekdayHeaders {
		b.WriteString(lipgloss.NewStyle().Width(cellWidth).Bold(true).Render(h))
	}
	b.WriteString("\n")

	for rowStart := 0; rowStart < len(cells); rowStart += 7 {
		rowCells := make([]string, 0, 7)
		for _, cell := range cells[rowStart : rowStart+7] {
			rowCells = append(rowCells, cellStyle.Render(m.renderMonthCell(cell, today, cellWidth)))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rowCells...))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderMonthCell(cell calendar.MonthCell, today time.Time, width int) string {
	if cell.Day == 0 {
		return ""
	}

	var b strings.Builder
	dayLabel := fmt.Sprintf("%2d", cell.Day)
	if cell.Date.Equal(today) {
		dayLabel = theme.TodayStyle.Render(dayLabel)
	}
	b.WriteString(dayLabel)
	b.WriteString("\n")

	for _, ev := range cell.Events {
		b.WriteString(theme.EventStyle(ev.ColorID).Render(truncate(ev.Summary, width-1)))
		b.WriteString("\n")
	}
	if cell.More > 0 {
		b.WriteString(theme.MutedStyle.Render(fmt.Sprintf("+%d more", cell.More)))
	}
	return b.String()
}

func (m Model) renderWeek() string {
	days := calendar.WeekDays(m.ref)
	today := calendar.Today(m.loc)

	colWidth := m.width / 7
	if colWidth < 8 {
		colWidth = 8
	}
	colStyle := lipgloss.NewStyle().Width(colWidth)

	cols := make([]string, 0, 7)
	for i, day := range days {
		var b strings.Builder
		header := fmt.Sprintf("%s %d", weekdayHeaders[i], day.Day())
		if day.Equal(today) {
			header = theme.TodayStyle.Render(header)
		} else {
			header = lipgloss.NewStyle().Bold(true).Render(header)
		}
		b.WriteString(header)
		b.WriteString("\n")

		for _, ev := range calendar.EventsForDay(m.events, day) {
			b.WriteString(theme.EventStyle(ev.ColorID).Render(truncate(eventLabel(ev), colWidth-1)))
			b.WriteString("\n")
		}
		cols = append(cols, colStyle.Render(b.String()))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m Model) renderDay() string {
	rows := calendar.DayGrid(m.ref, m.events)

	var b strings.Builder
	for _, row := range rows {
		label := fmt.Sprintf("%02d:00", row.Hour)
		if row.Hour == 0 {
			label = "--:--" // all-day slot
		}
		b.WriteString(theme.MutedStyle.Render(label))
		b.WriteString(" ")

		labels := make([]string, 0, len(row.Events))
		for _, ev := range row.Events {
			labels = append(labels, theme.EventStyle(ev.ColorID).Render(ev.Summary))
		}
		b.WriteString(strings.Join(labels, ", "))
		b.WriteString("\n")
	}
	return b.String()
}

// eventLabel prefixes timed events with their start time.
func eventLabel(ev model.Event) string {
	if ev.AllDay {
		return ev.Summary
	}
	return ev.Start.Format("15:04") + " " + ev.Summary
}

func truncate(s string, max int) string {
	if max < 1 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
