package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps a sidebar, task, or calendar panel.
var PanelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// FocusedPanelStyle marks the panel that currently receives keystrokes.
var FocusedPanelStyle = PanelStyle.
	BorderForeground(ColorBlue)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// CompletedTaskStyle renders a task that has just been reopened or is
// mid-toggle.
var CompletedTaskStyle = lipgloss.NewStyle().
	PaddingLeft(2).
	Strikethrough(true).
	Foreground(ColorGray)

// TodayStyle highlights the current date in the calendar grid.
var TodayStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue)

// MutedStyle renders leading blank cells and overflow markers.
var MutedStyle = lipgloss.NewStyle().
	Foreground(ColorSubtle)

// ErrorStyle renders error banners, e.g. a failed sign-in or calendar fetch.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// folderColors maps the hex colors the web client offers for folders and
// lists onto adaptive terminal colors.
var folderColors = map[string]lipgloss.AdaptiveColor{
	"#ef4444": ColorRed,
	"#f97316": ColorOrange,
	"#eab308": ColorYellow,
	"#22c55e": ColorGreen,
	"#3b82f6": ColorBlue,
	"#a855f7": ColorMagenta,
}

// FolderStyle returns a color-coded style for a folder or list label.
// Unknown colors fall back to gray.
func FolderStyle(color string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	if c, ok := folderColors[color]; ok {
		return base.Foreground(c)
	}
	return base.Foreground(ColorGray)
}

// EventStyle returns a color-coded style for a calendar event given its
// Google Calendar colorId. Events without a colorId use the default blue.
func EventStyle(colorID string) lipgloss.Style {
	base := lipgloss.NewStyle()

	switch colorID {
	case "10": // basil
		return base.Foreground(ColorGreen)
	case "5": // banana
		return base.Foreground(ColorYellow)
	case "11": // tomato
		return base.Foreground(ColorRed)
	case "6": // tangerine
		return base.Foreground(ColorOrange)
	case "3": // grape
		return base.Foreground(ColorMagenta)
	case "8": // graphite
		return base.Foreground(ColorGray)
	default:
		return base.Foreground(ColorBlue)
	}
}
