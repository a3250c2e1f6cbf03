package theme

import (
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"
)

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

// avatarColors are cycled by sender name so a person keeps one color.
var avatarColors = []lipgloss.AdaptiveColor{
	ColorBlue, ColorGreen, ColorOrange, ColorMagenta, ColorRed, ColorYellow,
}

// Styles built from the active accent color. Call Apply to switch themes.
var (
	// HeaderStyle is used for top-level section headers and the application title.
	HeaderStyle lipgloss.Style

	// StatusBarStyle is used for the bottom status bar.
	StatusBarStyle lipgloss.Style

	// DetailPanelStyle wraps the reading pane.
	DetailPanelStyle lipgloss.Style

	// ListItemStyle is the base style for rows in the email list.
	ListItemStyle lipgloss.Style

	// SelectedItemStyle highlights the email shown in the reading pane.
	SelectedItemStyle lipgloss.Style

	// HelpStyle is used for keyboard shortcut hints and help text.
	HelpStyle lipgloss.Style

	// BorderStyle provides a standard rounded border for panels.
	BorderStyle lipgloss.Style

	// FocusedBorderStyle marks the pane that receives keys.
	FocusedBorderStyle lipgloss.Style

	DimmedStyle        lipgloss.Style
	UnreadDotStyle     lipgloss.Style
	UnreadSubjectStyle lipgloss.Style
	ArchivedBadgeStyle lipgloss.Style

	// Filter tabs
	TabStyle       lipgloss.Style
	ActiveTabStyle lipgloss.Style

	// Notices
	ErrorNoticeStyle lipgloss.Style
	InfoNoticeStyle  lipgloss.Style
)

// accents maps theme names to their highlight color.
var accents = map[string]lipgloss.AdaptiveColor{
	"default": ColorBlue,
	"forest":  ColorGreen,
	"sunset":  ColorOrange,
	"plum":    ColorMagenta,
}

func init() {
	Apply("default")
}

// Names returns the known theme names.
func Names() []string {
	return []string{"default", "forest", "sunset", "plum"}
}

// Apply rebuilds every style around the named theme's accent color.
// Unknown names fall back to "default" and report false.
func Apply(name string) bool {
	accent, ok := accents[name]
	if !ok {
		accent = accents["default"]
	}

	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorWhite).
		Background(accent).
		Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(ColorWhite).
		Background(ColorSubtle).
		Padding(0, 1)

	DetailPanelStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)

	ListItemStyle = lipgloss.NewStyle().
		PaddingLeft(2)

	SelectedItemStyle = lipgloss.NewStyle().
		PaddingLeft(1).
		Bold(true).
		Foreground(accent).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(accent)

	HelpStyle = lipgloss.NewStyle().
		Foreground(ColorGray).
		Italic(true)

	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)

	FocusedBorderStyle = BorderStyle.
		BorderForeground(accent)

	DimmedStyle = lipgloss.NewStyle().
		Foreground(ColorGray)

	UnreadDotStyle = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true)

	UnreadSubjectStyle = lipgloss.NewStyle().
		Bold(true)

	ArchivedBadgeStyle = lipgloss.NewStyle().
		Foreground(ColorYellow).
		Padding(0, 1)

	TabStyle = lipgloss.NewStyle().
		Foreground(ColorGray).
		Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorWhite).
		Background(accent).
		Padding(0, 1)

	ErrorNoticeStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorWhite).
		Background(ColorRed).
		Padding(0, 1)

	InfoNoticeStyle = lipgloss.NewStyle().
		Foreground(ColorWhite).
		Background(ColorGreen).
		Padding(0, 1)

	return ok
}

// AvatarStyle returns a colored badge style for the given sender name.
func AvatarStyle(name string) lipgloss.Style {
	h := fnv.New32a()
	h.Write([]byte(name))
	color := avatarColors[int(h.Sum32()%uint32(len(avatarColors)))]

	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.AdaptiveColor{Dark: "#1A202C", Light: "#F8F9FA"}).
		Background(color).
		Padding(0, 1)
}
