package reply

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailpane/internal/keys"
	"github.com/nhle/mailpane/internal/mailfmt"
	"github.com/nhle/mailpane/internal/model"
	"github.com/nhle/mailpane/internal/theme"
)

// SendMsg carries a reply ready to be created.
type SendMsg struct {
	Draft model.Draft
}

// CancelMsg signals the parent to close the composer.
type CancelMsg struct{}

// Model is the inline reply composer addressed to an email's sender.
type Model struct {
	original model.Email
	input    textarea.Model
	keys     *keys.KeyMap
	hint     string
	width    int
	height   int
}

// New creates a reply composer model.
func New(k *keys.KeyMap, width, height int) Model {
	ta := textarea.New()
	ta.Placeholder = "Write your reply..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 10000
	ta.SetWidth(max(width-4, 10))
	ta.SetHeight(max(height-8, 3))

	return Model{
		input:  ta,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Start opens the composer for a reply to e.
func (m *Model) Start(e model.Email) tea.Cmd {
	m.original = e
	m.hint = ""
	m.input.Reset()
	return m.input.Focus()
}

// Init returns the initial command for the composer.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the composer.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			m.input.Blur()
			return m, func() tea.Msg { return CancelMsg{} }

		case key.Matches(msg, m.keys.Send):
			body := m.input.Value()
			if strings.TrimSpace(body) == "" {
				m.hint = "Reply is empty."
				return m, nil
			}
			draft := model.ReplyDraft(m.original, body)
			m.input.Blur()
			return m, func() tea.Msg { return SendMsg{Draft: draft} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the composer.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

	sections := []string{
		titleStyle.Render("Reply"),
		fmt.Sprintf("%s %s", metaStyle.Render("To:"), mailfmt.FormatAddress(m.original.Sender)),
		fmt.Sprintf("%s %s", metaStyle.Render("Subject:"), "Re: "+m.original.Subject),
		"",
		m.input.View(),
		"",
	}
	if m.hint != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.ColorRed).Render(m.hint))
	}
	sections = append(sections, theme.HelpStyle.Render("ctrl+s send • esc cancel"))

	return theme.DetailPanelStyle.
		Width(max(m.width-4, 10)).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// SetSize updates the composer dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.SetWidth(max(width-8, 10))
	m.input.SetHeight(max(height-12, 3))
}
