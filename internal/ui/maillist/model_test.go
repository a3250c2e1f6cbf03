package maillist

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailpane/internal/keys"
	"github.com/nhle/mailpane/internal/model"
)

func fixtures() []model.Email {
	return []model.Email{
		{ID: "1", Sender: model.Person{Name: "Sarah Chen"}, Subject: "Design review", Preview: "Mockups attached"},
		{ID: "2", Sender: model.Person{Name: "Mike Johnson"}, Subject: "Q4 Revenue", Preview: "Numbers are in", IsRead: true},
		{ID: "3", Sender: model.Person{Name: "Emily Davis"}, Subject: "Team lunch", Preview: "Friday?"},
	}
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newList(t *testing.T) Model {
	t.Helper()
	m := New(keys.DefaultKeyMap(), model.FilterAll, 80, 30)
	m.SetEmails(fixtures(), "1", model.FilterAll, false)
	return m
}

func visibleIDs(m Model) []string {
	var out []string
	for _, it := range m.list.Items() {
		out = append(out, it.(EmailItem).Email.ID)
	}
	return out
}

func TestEnterEmitsSelectForCursor(t *testing.T) {
	m := newList(t)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, SelectMsg{ID: "2"}, cmd())
}

func TestFilterKeys(t *testing.T) {
	m := newList(t)

	_, cmd := m.Update(runeKey("2"))
	require.NotNil(t, cmd)
	assert.Equal(t, FilterMsg{Filter: model.FilterUnread}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.NotNil(t, cmd)
	assert.Equal(t, FilterMsg{Filter: model.FilterUnread}, cmd(), "tab advances from all")
}

func TestSearchNarrowsRows(t *testing.T) {
	m := newList(t)

	m, _ = m.Update(runeKey("/"))
	require.True(t, m.Searching())
	for _, r := range "LUNCH" {
		m, _ = m.Update(runeKey(string(r)))
	}
	assert.Equal(t, []string{"3"}, visibleIDs(m))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Searching())
	assert.Equal(t, "LUNCH", m.Query())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.Query())
	assert.Equal(t, []string{"1", "2", "3"}, visibleIDs(m))
}

func TestSearchSurvivesReload(t *testing.T) {
	m := newList(t)
	m, _ = m.Update(runeKey("/"))
	for _, r := range "review" {
		m, _ = m.Update(runeKey(string(r)))
	}

	m.SetEmails(fixtures()[:2], "1", model.FilterAll, false)
	assert.Equal(t, []string{"1"}, visibleIDs(m))
}

func TestSetEmailsMovesCursorOnlyOnSelectionChange(t *testing.T) {
	m := newList(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 2, m.list.Index())

	m.SetEmails(fixtures(), "1", model.FilterAll, false)
	assert.Equal(t, 2, m.list.Index(), "same selection keeps the cursor")

	m.SetEmails(fixtures(), "2", model.FilterAll, false)
	assert.Equal(t, 1, m.list.Index())
}

func TestViewShowsTabsAndEmptyState(t *testing.T) {
	m := New(keys.DefaultKeyMap(), model.FilterUnread, 80, 20)
	m.SetEmails(nil, "", model.FilterUnread, false)

	out := m.View()
	assert.Contains(t, out, "All Mails")
	assert.Contains(t, out, "Archive")
	assert.Contains(t, out, "all caught up")
}

func TestRelativeDate(t *testing.T) {
	now := time.Date(2024, 12, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero", time.Time{}, ""},
		{"today", time.Date(2024, 12, 10, 8, 5, 0, 0, time.UTC), "8:05 AM"},
		{"this week", time.Date(2024, 12, 9, 14, 30, 0, 0, time.UTC), "Mon"},
		{"this year", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "Mar 1"},
		{"older", time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), "Mar 1, 2023"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDate(tt.t, now))
		})
	}
}
