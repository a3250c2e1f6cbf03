package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailpane/internal/keys"
	"github.com/nhle/mailpane/internal/theme"
)

// sectionTitles name the groups returned by KeyMap.FullHelp, in order.
var sectionTitles = []string{"Navigation", "Search & Commands", "Tabs", "Email", "Notices"}

// Model is the help overlay. It lists every binding by section and
// scrolls when the terminal is short.
type Model struct {
	keys     *keys.KeyMap
	viewport viewport.Model
	width    int
	height   int
}

// New creates a new help view model.
func New(k *keys.KeyMap, width, height int) Model {
	m := Model{
		keys:     k,
		viewport: viewport.New(width-4, height-4),
		width:    width,
		height:   height,
	}
	m.viewport.SetContent(m.renderSections())
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update scrolls the overlay.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the help overlay.
func (m Model) View() string {
	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(m.viewport.View())
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width - 8
	m.viewport.Height = height - 6
	m.viewport.SetContent(m.renderSections())
}

func (m Model) renderSections() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)
	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorBlue)
	keyStyle := lipgloss.NewStyle().
		Foreground(theme.ColorYellow).
		Width(12)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n")

	for i, group := range m.keys.FullHelp() {
		title := "More"
		if i < len(sectionTitles) {
			title = sectionTitles[i]
		}
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(title))
		b.WriteString("\n")
		for _, binding := range group {
			if !binding.Enabled() {
				continue
			}
			b.WriteString(renderBinding(binding, keyStyle))
		}
	}

	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render(
		"Type : for commands such as unread, export, settings or theme <name>.",
	))
	return b.String()
}

func renderBinding(b key.Binding, keyStyle lipgloss.Style) string {
	h := b.Help()
	return "  " + keyStyle.Render(h.Key) + theme.HelpStyle.Render(h.Desc) + "\n"
}
