package mailbox

import (
	"context"

	"github.com/nhle/mailpane/internal/model"
)

// Session pairs a Reconciler with a State for callers that run operations
// one at a time, such as scripts and tests. Each method runs the remote
// calls, applies the outcome, and returns the error the user should see.
type Session struct {
	rec   *Reconciler
	state State
}

// NewSession starts a session on filter. Call Reload to populate it.
func NewSession(rec *Reconciler, filter model.Filter) *Session {
	return &Session{rec: rec, state: NewState(filter)}
}

// State returns the current snapshot.
func (s *Session) State() State {
	return s.state
}

func (s *Session) apply(o Outcome) error {
	s.state = o.Apply(s.state)
	return o.Surface()
}

// Reload fetches filter and repairs the selection.
func (s *Session) Reload(ctx context.Context, filter model.Filter) error {
	s.state = s.state.BeginLoad(filter)
	return s.apply(s.rec.Reload(ctx, filter))
}

// Select moves the selection to id and marks it read when it is unread.
// A failed mark-read is not returned.
func (s *Session) Select(ctx context.Context, id string) error {
	next, err := s.state.Selected(id)
	if err != nil {
		return err
	}
	s.state = next
	if !NeedsMarkRead(s.state, id) {
		return nil
	}
	return s.apply(s.rec.MarkRead(ctx, id))
}

// SetReadState sets the read flag on id.
func (s *Session) SetReadState(ctx context.Context, id string, read bool) error {
	return s.apply(s.rec.SetReadState(ctx, id, read))
}

// ToggleArchive flips the archive flag on id and reloads the active filter.
func (s *Session) ToggleArchive(ctx context.Context, id string) error {
	s.state = s.state.BeginLoad(s.state.Filter)
	return s.apply(s.rec.ToggleArchive(ctx, s.state, id))
}

// Delete removes id.
func (s *Session) Delete(ctx context.Context, id string) error {
	return s.apply(s.rec.Delete(ctx, id))
}

// Send creates draft and reloads the active filter.
func (s *Session) Send(ctx context.Context, draft model.Draft) error {
	s.state = s.state.BeginLoad(s.state.Filter)
	return s.apply(s.rec.Send(ctx, s.state.Filter, draft))
}
