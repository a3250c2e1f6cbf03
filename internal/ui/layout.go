package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailpane/internal/theme"
)

// Layout manages the multi-panel terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ListWidth returns the width of the email list pane: two fifths of the
// screen, but never narrower than 30 columns unless the screen is.
func (l Layout) ListWidth() int {
	w := l.Width * 2 / 5
	if w < 30 {
		w = 30
	}
	if w > l.Width {
		w = l.Width
	}
	return w
}

// DetailWidth returns what remains beside the list pane.
func (l Layout) DetailWidth() int {
	w := l.Width - l.ListWidth()
	if w < 0 {
		return 0
	}
	return w
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatusBarHeight
}

// RenderHeader renders the top header bar with a title and sync status.
func (l Layout) RenderHeader(title string, syncStatus string) string {
	titleRendered := theme.HeaderStyle.Render(title)

	statusRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(syncStatus)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(statusRendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.HeaderStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.HeaderStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		statusRendered,
	)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.StatusBarStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.StatusBarStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderSplit places the list and reading panes side by side, bordering
// the focused one with the accent color. Both panes are clipped to height.
func (l Layout) RenderSplit(list, detail string, height int, detailFocused bool) string {
	listStyle, detailStyle := theme.FocusedBorderStyle, theme.BorderStyle
	if detailFocused {
		listStyle, detailStyle = theme.BorderStyle, theme.FocusedBorderStyle
	}

	// Borders take two columns and two rows on each pane.
	left := listStyle.
		Width(max(l.ListWidth()-2, 0)).
		Height(max(height-2, 0)).
		MaxHeight(height).
		Render(list)
	right := detailStyle.
		Width(max(l.DetailWidth()-2, 0)).
		Height(max(height-2, 0)).
		MaxHeight(height).
		Render(detail)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// RenderNotice renders a full-width notice line.
func (l Layout) RenderNotice(text string, isError bool) string {
	style := theme.InfoNoticeStyle
	if isError {
		style = theme.ErrorNoticeStyle
	}
	return style.Width(l.Width).Render(text)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}
