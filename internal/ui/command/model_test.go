package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want CommandMsg
	}{
		{"refresh", CommandMsg{Name: Refresh}},
		{"  UNREAD ", CommandMsg{Name: Unread}},
		{"archive", CommandMsg{Name: Archived}},
		{"q", CommandMsg{Name: Quit}},
		{"config", CommandMsg{Name: Settings}},
		{"theme forest", CommandMsg{Name: Theme, Arg: "forest"}},
		{"token  abc def ", CommandMsg{Name: Token, Arg: "abc def"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "bogus", "theme", "token   "} {
		_, err := Parse(in)
		assert.Error(t, err, in)
	}
}

func TestEnterEmitsCommand(t *testing.T) {
	m := New(80, 20)
	m.Focus()
	for _, r := range "all" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, CommandMsg{Name: All}, cmd())
}

func TestEnterUnknownEmitsError(t *testing.T) {
	m := New(80, 20)
	m.Focus()
	for _, r := range "nope" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, ok := cmd().(ErrorMsg)
	assert.True(t, ok)
}
