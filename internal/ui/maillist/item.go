package maillist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/nhle/mailpane/internal/model"
	"github.com/nhle/mailpane/internal/theme"
)

// EmailItem wraps a model.Email so it can be used in a bubbles/list.
type EmailItem struct {
	Email model.Email
}

// FilterValue returns the string used for fuzzy filtering.
func (i EmailItem) FilterValue() string { return i.Email.Subject }

// Title returns the email subject for the list.
func (i EmailItem) Title() string { return i.Email.Subject }

// Description returns the sender and preview.
func (i EmailItem) Description() string {
	return i.Email.Sender.DisplayName() + " | " + i.Email.Preview
}

// EmailDelegate implements list.ItemDelegate for rendering email rows.
type EmailDelegate struct {
	// selectedID is shared by reference with the maillist Model so the row
	// shown in the reading pane stays highlighted after the cursor moves.
	selectedID *string
	now        func() time.Time
}

// Height returns the number of lines each item takes.
func (d EmailDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d EmailDelegate) Spacing() int { return 1 }

// Update handles per-item messages (unused).
func (d EmailDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a two-line email row.
func (d EmailDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ei, ok := item.(EmailItem)
	if !ok {
		return
	}
	e := ei.Email

	isCursor := index == m.Index()
	isSelected := d.selectedID != nil && *d.selectedID == e.ID

	// Both styles take two columns of left padding/border.
	width := m.Width() - 2
	if width < 10 {
		width = 10
	}

	cursor := " "
	if isCursor {
		cursor = "▸"
	}

	dot := " "
	if !e.IsRead {
		dot = theme.UnreadDotStyle.Render("●")
	}

	avatar := theme.AvatarStyle(e.Sender.DisplayName()).Render(e.Sender.Initials())
	date := theme.DimmedStyle.Render(RelativeDate(e.Time(), d.now()))

	sender := e.Sender.DisplayName()
	if !e.IsRead {
		sender = theme.UnreadSubjectStyle.Render(sender)
	}
	if e.IsArchived {
		sender += theme.ArchivedBadgeStyle.Render("archived")
	}

	left := fmt.Sprintf("%s%s %s %s", cursor, dot, avatar, sender)
	gap := width - lipgloss.Width(left) - lipgloss.Width(date)
	if gap < 1 {
		left = ansi.Truncate(left, width-lipgloss.Width(date)-1, "…")
		gap = 1
	}
	line1 := left + strings.Repeat(" ", gap) + date

	subject := e.Subject
	if !e.IsRead {
		subject = theme.UnreadSubjectStyle.Render(subject)
	}
	line2 := "   " + subject
	if e.Preview != "" {
		line2 += theme.DimmedStyle.Render(" · " + oneLine(e.Preview))
	}
	line2 = ansi.Truncate(line2, width, "…")

	row := line1 + "\n" + line2
	if isSelected {
		row = theme.SelectedItemStyle.Render(row)
	} else {
		row = theme.ListItemStyle.Render(row)
	}

	fmt.Fprint(w, row)
}

// oneLine collapses whitespace so previews fit on a single row.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// RelativeDate formats t for the list: a clock time for today, a weekday
// within the last week, a short date within the year, and a full date
// otherwise.
func RelativeDate(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	y1, m1, d1 := t.Date()
	y2, m2, d2 := now.Date()
	switch {
	case y1 == y2 && m1 == m2 && d1 == d2:
		return t.Format("3:04 PM")
	case now.Sub(t) < 7*24*time.Hour && now.After(t):
		return t.Format("Mon")
	case y1 == y2:
		return t.Format("Jan 2")
	default:
		return t.Format("Jan 2, 2006")
	}
}
