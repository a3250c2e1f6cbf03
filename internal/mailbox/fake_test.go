package mailbox_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nhle/mailpane/internal/model"
)

var errBoom = errors.New("boom")

type updateCall struct {
	ID    string
	Patch model.EmailPatch
}

// fakeRemote is an in-memory mail API. Unread excludes archived mail, the
// same as the reference server.
type fakeRemote struct {
	mu      sync.Mutex
	emails  []model.Email
	updates []updateCall
	lists   int
	created int

	failUpdate error
	failList   error
	failDelete error
	failCreate error
}

func newFakeRemote(emails ...model.Email) *fakeRemote {
	return &fakeRemote{emails: emails}
}

func (f *fakeRemote) List(_ context.Context, filter model.Filter) ([]model.Email, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.failList != nil {
		return nil, f.failList
	}
	out := []model.Email{}
	for _, e := range f.emails {
		switch filter {
		case model.FilterUnread:
			if e.IsRead || e.IsArchived {
				continue
			}
		case model.FilterArchived:
			if !e.IsArchived {
				continue
			}
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeRemote) Create(_ context.Context, d model.Draft) (*model.Email, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return nil, f.failCreate
	}
	f.created++
	e := model.Email{
		ID:        fmt.Sprintf("new%d", f.created),
		Sender:    model.Person{Name: "Me", Email: "me@example.com"},
		Recipient: d.Recipient,
		Subject:   d.Subject,
		Body:      d.Body,
		Preview:   d.Body,
		Date:      "2030-01-01T00:00:00",
		IsRead:    true,
	}
	f.emails = append([]model.Email{e}, f.emails...)
	return &e, nil
}

func (f *fakeRemote) Update(_ context.Context, id string, p model.EmailPatch) (*model.Email, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, updateCall{ID: id, Patch: p})
	if f.failUpdate != nil {
		return nil, f.failUpdate
	}
	for i := range f.emails {
		if f.emails[i].ID == id {
			f.emails[i] = applyPatch(f.emails[i], p)
			e := f.emails[i]
			return &e, nil
		}
	}
	return nil, fmt.Errorf("update %s: not found", id)
}

func (f *fakeRemote) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete != nil {
		return f.failDelete
	}
	for i := range f.emails {
		if f.emails[i].ID == id {
			f.emails = append(f.emails[:i], f.emails[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete %s: not found", id)
}

func email(id string, read bool) model.Email {
	return model.Email{
		ID:        id,
		Sender:    model.Person{Name: "Sender " + id, Email: id + "@example.com"},
		Recipient: model.Person{Name: "Richard Brown", Email: "richard@example.com"},
		Subject:   "Subject " + id,
		Preview:   "Preview " + id,
		Body:      "Body " + id,
		Date:      "2024-12-10T09:00:00",
		IsRead:    read,
		Attachments: []model.Attachment{
			{Filename: id + ".pdf", Size: "1 MB", URL: "/files/" + id + ".pdf"},
		},
	}
}

func ids(items []model.Email) []string {
	out := make([]string, 0, len(items))
	for _, e := range items {
		out = append(out, e.ID)
	}
	return out
}

func applyPatch(e model.Email, p model.EmailPatch) model.Email {
	if p.IsRead != nil {
		e.IsRead = *p.IsRead
	}
	if p.IsArchived != nil {
		e.IsArchived = *p.IsArchived
	}
	if p.Subject != nil {
		e.Subject = *p.Subject
	}
	if p.Body != nil {
		e.Body = *p.Body
	}
	return e
}
