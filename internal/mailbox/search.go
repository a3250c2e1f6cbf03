package mailbox

import (
	"strings"

	"github.com/nhle/mailpane/internal/model"
)

// Search narrows items to those whose sender name, subject or preview
// contains query, ignoring case. An empty query returns items unchanged.
func Search(items []model.Email, query string) []model.Email {
	q := strings.ToLower(query)
	if q == "" {
		return items
	}

	var out []model.Email
	for _, e := range items {
		if strings.Contains(strings.ToLower(e.Sender.Name), q) ||
			strings.Contains(strings.ToLower(e.Subject), q) ||
			strings.Contains(strings.ToLower(e.Preview), q) {
			out = append(out, e)
		}
	}
	return out
}
