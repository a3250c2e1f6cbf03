package maillist

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailpane/internal/keys"
	"github.com/nhle/mailpane/internal/mailbox"
	"github.com/nhle/mailpane/internal/model"
	"github.com/nhle/mailpane/internal/theme"
)

// SelectMsg is sent when the user opens the email under the cursor.
type SelectMsg struct {
	ID string
}

// FilterMsg is sent when the user switches filter tabs.
type FilterMsg struct {
	Filter model.Filter
}

// chromeHeight is the tab row plus the search row.
const chromeHeight = 2

// Model is the email list pane: filter tabs, search, and rows.
type Model struct {
	list        list.Model
	keys        *keys.KeyMap
	filter      model.Filter
	emails      []model.Email
	selectedID  *string
	searchMode  bool
	searchInput textinput.Model
	query       string
	loading     bool
	width       int
	height      int
}

// New creates a new email list model.
func New(k *keys.KeyMap, filter model.Filter, width, height int) Model {
	selected := new(string)
	delegate := EmailDelegate{selectedID: selected, now: time.Now}

	l := list.New([]list.Item{}, delegate, width, height-chromeHeight)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.KeyMap.ShowFullHelp.SetEnabled(false)
	l.KeyMap.CloseFullHelp.SetEnabled(false)

	si := textinput.New()
	si.Placeholder = "search sender, subject, preview..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		keys:        k,
		filter:      filter,
		selectedID:  selected,
		searchInput: si,
		loading:     true,
		width:       width,
		height:      height,
	}
}

// SetEmails replaces the rows with the given server-ordered emails. The
// cursor jumps to selectedID only when the selection changed, so a
// background reload does not move it.
func (m *Model) SetEmails(emails []model.Email, selectedID string, filter model.Filter, loading bool) tea.Cmd {
	changed := *m.selectedID != selectedID
	*m.selectedID = selectedID
	m.emails = emails
	m.filter = filter
	m.loading = loading

	cmd := m.refreshItems()
	if changed {
		m.moveCursorTo(selectedID)
	}
	return cmd
}

// refreshItems rebuilds list rows from emails narrowed by the search query.
func (m *Model) refreshItems() tea.Cmd {
	visible := mailbox.Search(m.emails, m.query)
	items := make([]list.Item, len(visible))
	for i, e := range visible {
		items[i] = EmailItem{Email: e}
	}
	return m.list.SetItems(items)
}

func (m *Model) moveCursorTo(id string) {
	for i, it := range m.list.Items() {
		if ei, ok := it.(EmailItem); ok && ei.Email.ID == id {
			m.list.Select(i)
			return
		}
	}
}

// Searching reports whether the search input has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// Query returns the active search query.
func (m Model) Query() string {
	return m.query
}

// Update handles messages for the email list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys narrows the rows as the query is typed.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.searchMode = false
		m.searchInput.Blur()
		m.searchInput.Reset()
		m.query = ""
		return m, m.refreshItems()
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	cmds = append(cmds, cmd)

	if q := m.searchInput.Value(); q != m.query {
		m.query = q
		cmds = append(cmds, m.refreshItems())
		m.list.Select(0)
	}
	return m, tea.Batch(cmds...)
}

// handleNormalKeys processes key input outside of search mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(EmailItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectMsg{ID: item.Email.ID}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.query)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Back):
		if m.query != "" {
			m.query = ""
			m.searchInput.Reset()
			return m, m.refreshItems()
		}
		return m, nil

	case key.Matches(msg, m.keys.FilterAll):
		return m, filterCmd(model.FilterAll)

	case key.Matches(msg, m.keys.FilterUnread):
		return m, filterCmd(model.FilterUnread)

	case key.Matches(msg, m.keys.FilterArchived):
		return m, filterCmd(model.FilterArchived)

	case key.Matches(msg, m.keys.NextFilter):
		return m, filterCmd(m.filter.Next())
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func filterCmd(f model.Filter) tea.Cmd {
	return func() tea.Msg {
		return FilterMsg{Filter: f}
	}
}

// View renders the tabs, the search row, and the rows.
func (m Model) View() string {
	var search string
	switch {
	case m.searchMode:
		search = m.searchInput.View()
	case m.query != "":
		search = theme.HelpStyle.Render(fmt.Sprintf("/ %s  (esc to clear)", m.query))
	default:
		search = theme.HelpStyle.Render(fmt.Sprintf("%d emails", len(m.emails)))
	}

	body := m.list.View()
	if len(m.list.Items()) == 0 {
		body = m.renderEmptyState()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderTabs(), search, body)
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(model.Filters))
	for _, f := range model.Filters {
		if f == m.filter {
			tabs = append(tabs, theme.ActiveTabStyle.Render(f.Label()))
		} else {
			tabs = append(tabs, theme.TabStyle.Render(f.Label()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderEmptyState shows guidance text when no rows are visible.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(max(m.height-chromeHeight, 1)).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	switch {
	case m.loading && len(m.emails) == 0:
		return style.Render("Loading emails...")
	case m.query != "":
		return style.Render(fmt.Sprintf("No emails match %q.", m.query))
	case m.filter == model.FilterUnread:
		return style.Render("You're all caught up.")
	case m.filter == model.FilterArchived:
		return style.Render("Nothing archived.")
	default:
		return style.Render(strings.Join([]string{
			"No emails.",
			"",
			"Press c to write one.",
		}, "\n"))
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, max(height-chromeHeight, 1))
	m.searchInput.Width = width - 4
}
