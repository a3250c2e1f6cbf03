package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailpane/internal/theme"
)

// Name identifies a palette command.
type Name string

const (
	Refresh  Name = "refresh"
	All      Name = "all"
	Unread   Name = "unread"
	Archived Name = "archived"
	Compose  Name = "compose"
	Export   Name = "export"
	Settings Name = "settings"
	Theme    Name = "theme"
	Token    Name = "token"
	Logout   Name = "logout"
	Quit     Name = "quit"
)

// descriptions drives both suggestions and the palette listing.
var descriptions = []struct {
	name Name
	desc string
}{
	{Refresh, "reload the current tab"},
	{All, "show all mails"},
	{Unread, "show unread mails"},
	{Archived, "show archived mails"},
	{Compose, "write a new message"},
	{Export, "save the open email as .eml"},
	{Settings, "edit API URL, theme and refresh"},
	{Theme, "theme <name>: switch accent color"},
	{Token, "token <value>: store the API token in the keyring"},
	{Logout, "remove the stored API token"},
	{Quit, "exit mailpane"},
}

// aliases map short forms onto command names.
var aliases = map[string]Name{
	"r":       Refresh,
	"archive": Archived,
	"new":     Compose,
	"config":  Settings,
	"q":       Quit,
	"exit":    Quit,
}

// CommandMsg is emitted when the user executes a command.
type CommandMsg struct {
	Name Name
	Arg  string
}

// ErrorMsg is emitted when the input does not name a command.
type ErrorMsg struct {
	Err error
}

// Parse turns palette input into a command. Names are case-insensitive;
// anything after the first word is the argument.
func Parse(input string) (CommandMsg, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return CommandMsg{}, fmt.Errorf("empty command")
	}

	word := strings.ToLower(fields[0])
	name, ok := aliases[word]
	if !ok {
		name = Name(word)
	}
	known := false
	for _, d := range descriptions {
		if d.name == name {
			known = true
			break
		}
	}
	if !known {
		return CommandMsg{}, fmt.Errorf("unknown command %q", fields[0])
	}

	arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), fields[0]))
	if (name == Theme || name == Token) && arg == "" {
		return CommandMsg{}, fmt.Errorf("%s needs an argument", name)
	}
	return CommandMsg{Name: name, Arg: arg}, nil
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.Width = width - 6

	suggestions := make([]string, len(descriptions))
	for i, d := range descriptions {
		suggestions[i] = string(d.name)
	}
	ti.SetSuggestions(suggestions)

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		input := m.input.Value()
		m.input.Reset()
		if strings.TrimSpace(input) == "" {
			return m, nil
		}
		cmd, err := Parse(input)
		if err != nil {
			return m, func() tea.Msg { return ErrorMsg{Err: err} }
		}
		return m, func() tea.Msg { return cmd }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	nameStyle := lipgloss.NewStyle().Foreground(theme.ColorBlue).Width(10)
	var rows []string
	for _, d := range descriptions {
		rows = append(rows, nameStyle.Render(string(d.name))+theme.HelpStyle.Render(d.desc))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("Command Palette"),
		m.input.View(),
		"",
		strings.Join(rows, "\n"),
	)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	m.input.Reset()
	return m.input.Focus()
}

// Blur removes keyboard focus from the text input.
func (m *Model) Blur() {
	m.input.Blur()
}
