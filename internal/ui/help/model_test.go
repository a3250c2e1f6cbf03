package help

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/mailpane/internal/keys"
)

func TestViewListsSectionsAndBindings(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 80)
	m.SetSize(100, 80)

	view := m.View()
	for _, title := range sectionTitles {
		assert.Contains(t, view, title)
	}
	assert.Contains(t, view, "archive")
	assert.Contains(t, view, "ctrl+s")
}
