package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailpane/internal/keys"
	"github.com/nhle/mailpane/internal/mailfmt"
	"github.com/nhle/mailpane/internal/model"
	"github.com/nhle/mailpane/internal/theme"
)

// FullDateLayout renders the timestamp in the reading pane header.
const FullDateLayout = "Monday, January 2, 2006 at 3:04 PM"

// Action names a toolbar action on the displayed email.
type Action string

const (
	ActionToggleRead Action = "toggle-read"
	ActionArchive    Action = "archive"
	ActionDelete     Action = "delete"
	ActionReply      Action = "reply"
	ActionExport     Action = "export"
)

// BackMsg signals the parent to return focus to the list.
type BackMsg struct{}

// ActionMsg signals the parent to execute an action on the displayed email.
type ActionMsg struct {
	Action Action
	ID     string
}

// Model is the reading pane.
type Model struct {
	email    *model.Email
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new reading pane model.
func New(keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     keys,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view. Action keys work whether or
// not the pane has focus; scrolling keys only reach it when focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if action, ok := m.actionFor(msg); ok {
			if m.email == nil {
				return m, nil
			}
			id := m.email.ID
			return m, func() tea.Msg {
				return ActionMsg{Action: action, ID: id}
			}
		}

		if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.FocusList) {
			return m, func() tea.Msg {
				return BackMsg{}
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// IsAction reports whether msg is one of the reading pane's action keys.
func (m Model) IsAction(msg tea.KeyMsg) bool {
	_, ok := m.actionFor(msg)
	return ok
}

func (m Model) actionFor(msg tea.KeyMsg) (Action, bool) {
	switch {
	case key.Matches(msg, m.keys.ToggleRead):
		return ActionToggleRead, true
	case key.Matches(msg, m.keys.Archive):
		return ActionArchive, true
	case key.Matches(msg, m.keys.Delete):
		return ActionDelete, true
	case key.Matches(msg, m.keys.Reply):
		return ActionReply, true
	case key.Matches(msg, m.keys.Export):
		return ActionExport, true
	}
	return "", false
}

// View renders the reading pane.
func (m Model) View() string {
	if m.email == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No email selected")
	}

	return m.viewport.View()
}

// renderContent builds the full reading pane content for the viewport.
func (m Model) renderContent() string {
	if m.email == nil {
		return ""
	}

	e := m.email
	var sections []string

	// Subject and flags
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	title := titleStyle.Render(e.Subject)
	if e.IsArchived {
		title += theme.ArchivedBadgeStyle.Render("archived")
	}
	if !e.IsRead {
		title += " " + theme.UnreadDotStyle.Render("● unread")
	}
	sections = append(sections, title, "")

	// Header block
	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	avatar := theme.AvatarStyle(e.Sender.DisplayName()).Render(e.Sender.Initials())
	sections = append(sections, fmt.Sprintf(
		"%s %s",
		avatar,
		valStyle.Bold(true).Render(mailfmt.FormatAddress(e.Sender)),
	))
	sections = append(sections, fmt.Sprintf(
		"%s  %s",
		metaStyle.Render("To:"),
		valStyle.Render(mailfmt.FormatAddress(e.Recipient)),
	))
	if t := e.Time(); !t.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s  %s",
			metaStyle.Render("Date:"),
			valStyle.Render(t.Format(FullDateLayout)),
		))
	}

	// Separator
	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(m.width-2, 80), 1)))
	sections = append(sections, "", separator, "")

	body := e.Body
	if strings.TrimSpace(body) == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("(no content)")
	}
	sections = append(sections, lipgloss.NewStyle().Width(max(m.width-2, 10)).Render(body))

	if len(e.Attachments) > 0 {
		sections = append(sections, "", separator, "")

		headerStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorWhite)
		sections = append(sections, headerStyle.Render(
			fmt.Sprintf("Attachments (%d)", len(e.Attachments)),
		))

		nameStyle := lipgloss.NewStyle().Foreground(theme.ColorBlue)
		for _, a := range e.Attachments {
			sections = append(sections, fmt.Sprintf(
				"  📎 %s  %s",
				nameStyle.Render(a.Filename),
				metaStyle.Render(a.Size),
			))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetEmail updates the email being displayed. The scroll position is kept
// when the same email is re-rendered with fresh data.
func (m *Model) SetEmail(e *model.Email) {
	same := m.email != nil && e != nil && m.email.ID == e.ID
	if e != nil {
		cp := *e
		e = &cp
	}
	m.email = e
	m.viewport.SetContent(m.renderContent())
	if !same {
		m.viewport.GotoTop()
	}
}

// Email returns the displayed email, if any.
func (m Model) Email() (model.Email, bool) {
	if m.email == nil {
		return model.Email{}, false
	}
	return *m.email, true
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.viewport.SetContent(m.renderContent())
}
