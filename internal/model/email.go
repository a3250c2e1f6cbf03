package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the timestamp format the mail API uses for Email.Date.
// Dates carry no zone and are interpreted as UTC.
const DateLayout = "2006-01-02T15:04:05"

// Filter selects which slice of the mailbox the server returns.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterUnread   Filter = "unread"
	FilterArchived Filter = "archived"
)

// Filters lists the filters in tab order.
var Filters = []Filter{FilterAll, FilterUnread, FilterArchived}

// ParseFilter converts user or config input into a Filter.
func ParseFilter(s string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterAll, "":
		return FilterAll, nil
	case FilterUnread:
		return FilterUnread, nil
	case FilterArchived, "archive":
		return FilterArchived, nil
	default:
		return "", fmt.Errorf("unknown filter %q", s)
	}
}

// Label returns the tab title for the filter.
func (f Filter) Label() string {
	switch f {
	case FilterUnread:
		return "Unread"
	case FilterArchived:
		return "Archive"
	default:
		return "All Mails"
	}
}

// Next returns the filter after f in tab order, wrapping around.
func (f Filter) Next() Filter {
	for i, candidate := range Filters {
		if candidate == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// Person is a mailbox owner as carried on sender and recipient fields.
type Person struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// Initials returns up to two uppercase initials for avatar rendering.
func (p Person) Initials() string {
	fields := strings.Fields(p.Name)
	if len(fields) == 0 {
		local, _, _ := strings.Cut(p.Email, "@")
		fields = []string{local}
	}
	var b strings.Builder
	for _, f := range fields {
		r := []rune(f)
		if len(r) == 0 {
			continue
		}
		b.WriteString(strings.ToUpper(string(r[0])))
		if b.Len() >= 2 {
			break
		}
	}
	return b.String()
}

// DisplayName returns the name, falling back to the address.
func (p Person) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}

// Attachment is a read-only file reference on an email.
type Attachment struct {
	Filename string `json:"filename"`
	// Size is display-formatted by the server (e.g. "1.5 MB").
	Size string `json:"size"`
	URL  string `json:"url"`
}

// Email is a single message record as held by the remote store.
type Email struct {
	// ID is assigned by the store and never generated client-side.
	ID string `json:"id"`

	Sender    Person `json:"sender"`
	Recipient Person `json:"recipient"`

	Subject string `json:"subject"`

	// Preview is a server-provided excerpt, independent of Body.
	Preview string `json:"preview"`
	Body    string `json:"body"`

	// Date is server-assigned and immutable after creation.
	Date string `json:"date"`

	IsRead     bool `json:"is_read"`
	IsArchived bool `json:"is_archived"`

	Attachments []Attachment `json:"attachments"`
}

// Time parses Date. It returns the zero time when Date is malformed.
func (e Email) Time() time.Time {
	for _, layout := range []string{DateLayout, time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, e.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Draft is the payload for creating an email.
type Draft struct {
	Recipient   Person       `json:"recipient"`
	Subject     string       `json:"subject"`
	Body        string       `json:"body"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// ReplyDraft addresses a draft back to the sender of e.
func ReplyDraft(e Email, body string) Draft {
	return Draft{
		Recipient: Person{Name: e.Sender.Name, Email: e.Sender.Email},
		Subject:   "Re: " + e.Subject,
		Body:      body,
	}
}

// EmailPatch is a partial update. Nil fields are left unchanged.
type EmailPatch struct {
	IsRead     *bool   `json:"is_read,omitempty"`
	IsArchived *bool   `json:"is_archived,omitempty"`
	Subject    *string `json:"subject,omitempty"`
	Body       *string `json:"body,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p EmailPatch) Empty() bool {
	return p.IsRead == nil && p.IsArchived == nil && p.Subject == nil && p.Body == nil
}

// ReadPatch builds a patch that only sets is_read.
func ReadPatch(read bool) EmailPatch {
	return EmailPatch{IsRead: &read}
}

// ArchivePatch builds a patch that only sets is_archived.
func ArchivePatch(archived bool) EmailPatch {
	return EmailPatch{IsArchived: &archived}
}
