package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDraft(t *testing.T) {
	tests := []struct {
		name     string
		to       string
		person   string
		wantName string
	}{
		{"bare address uses local part", "jane.doe@business.com", "", "jane.doe"},
		{"display name in address", "Jane Doe <jane.doe@business.com>", "", "Jane Doe"},
		{"explicit name wins", "jane.doe@business.com", "  Jane  ", "Jane"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := BuildDraft(tt.to, tt.person, " Hello ", "Body text")
			require.NoError(t, err)
			assert.Equal(t, "jane.doe@business.com", d.Recipient.Email)
			assert.Equal(t, tt.wantName, d.Recipient.Name)
			assert.Equal(t, "Hello", d.Subject)
			assert.Equal(t, "Body text", d.Body)
		})
	}
}

func TestBuildDraftRejects(t *testing.T) {
	_, err := BuildDraft("nope", "", "s", "b")
	assert.Error(t, err)

	_, err = BuildDraft("a@b.io", "", "  ", "b")
	assert.EqualError(t, err, "Subject is required")

	_, err = BuildDraft("a@b.io", "", "s", "\n\t")
	assert.EqualError(t, err, "Body is required")
}

func TestValidateAddress(t *testing.T) {
	assert.EqualError(t, validateAddress(" "), "To is required")
	assert.EqualError(t, validateAddress("x"), "not a valid email address")
	assert.NoError(t, validateAddress("x@y.z"))
}

func TestStartResetsFields(t *testing.T) {
	m := New(80, 30)
	m.fb.to = "stale@x.io"
	m.Start()

	assert.Empty(t, m.fb.to)
	assert.NotEmpty(t, m.View())
}
