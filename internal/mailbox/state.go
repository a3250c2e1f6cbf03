// Package mailbox keeps a local email collection and its selection
// consistent with the remote store.
//
// State is an immutable value: every transition returns a new State and
// never mutates the receiver's Items in place, so a State captured by an
// in-flight command stays valid while newer states are applied.
package mailbox

import (
	"errors"
	"fmt"

	"github.com/nhle/mailpane/internal/model"
)

// ErrNotFound is returned for gestures on ids absent from the local state.
var ErrNotFound = errors.New("email not found in mailbox")

// IsNotFound reports whether err (or any error in its chain) is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Phase is the coarse view lifecycle.
type Phase int

const (
	// PhaseLoading lasts until the first successful reload.
	PhaseLoading Phase = iota
	PhaseReady
)

func (p Phase) String() string {
	if p == PhaseReady {
		return "ready"
	}
	return "loading"
}

// State is the collection held by the client for the active filter.
type State struct {
	// Items is the server-ordered result of the last reload.
	Items []model.Email

	// SelectedID is empty or the id of a record in Items.
	SelectedID string

	Filter model.Filter

	// Loading is set while any list request is outstanding.
	Loading bool

	// loads counts list requests begun but not yet settled.
	loads int

	Phase Phase

	// Detached is the record still shown in the detail pane after an
	// archive toggle moved the selected email out of the active filter.
	// It is never set together with SelectedID.
	Detached *model.Email
}

// NewState returns the initial state for filter.
func NewState(filter model.Filter) State {
	if filter == "" {
		filter = model.FilterAll
	}
	return State{Filter: filter, Phase: PhaseLoading}
}

// IndexOf returns the position of id in Items, or -1.
func (s State) IndexOf(id string) int {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Lookup finds id among Items or the detached record.
func (s State) Lookup(id string) (model.Email, bool) {
	if i := s.IndexOf(id); i >= 0 {
		return s.Items[i], true
	}
	if s.Detached != nil && s.Detached.ID == id {
		return *s.Detached, true
	}
	return model.Email{}, false
}

// Current returns the record the detail pane shows.
func (s State) Current() (model.Email, bool) {
	if s.SelectedID != "" {
		if i := s.IndexOf(s.SelectedID); i >= 0 {
			return s.Items[i], true
		}
	}
	if s.Detached != nil {
		return *s.Detached, true
	}
	return model.Email{}, false
}

// CurrentID returns the id of the record shown in the detail pane.
func (s State) CurrentID() string {
	if e, ok := s.Current(); ok {
		return e.ID
	}
	return ""
}

// UnreadCount counts unread records in Items.
func (s State) UnreadCount() int {
	n := 0
	for _, e := range s.Items {
		if !e.IsRead {
			n++
		}
	}
	return n
}

// Validate checks id uniqueness and that SelectedID is never dangling.
func (s State) Validate() error {
	seen := make(map[string]struct{}, len(s.Items))
	for _, e := range s.Items {
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("duplicate email id %q", e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	if s.SelectedID != "" {
		if _, ok := seen[s.SelectedID]; !ok {
			return fmt.Errorf("selected id %q not in items", s.SelectedID)
		}
		if s.Detached != nil {
			return fmt.Errorf("detached %q set alongside selection %q", s.Detached.ID, s.SelectedID)
		}
	}
	return nil
}

// BeginLoad marks a list request for filter as outstanding. Items stay
// visible until the result lands.
func (s State) BeginLoad(filter model.Filter) State {
	s.Filter = filter
	s.loads++
	s.Loading = true
	return s
}

// LoadFailed settles one list request and keeps everything else. Loading
// stays set while other requests are still outstanding.
func (s State) LoadFailed() State {
	return s.loadSettled()
}

func (s State) loadSettled() State {
	if s.loads > 0 {
		s.loads--
	}
	s.Loading = s.loads > 0
	return s
}

// Reloaded replaces Items with a fresh server result and repairs the
// selection: keep it if still present, else pick the first item, else clear.
func (s State) Reloaded(filter model.Filter, items []model.Email) State {
	next := s.loadSettled()
	next.Items = cloneItems(items)
	if filter != "" {
		next.Filter = filter
	}
	next.Phase = PhaseReady
	next.Detached = nil

	switch {
	case s.SelectedID != "" && next.IndexOf(s.SelectedID) >= 0:
	case len(next.Items) > 0:
		next.SelectedID = next.Items[0].ID
	default:
		next.SelectedID = ""
	}
	return next
}

// Selected moves the selection to id.
func (s State) Selected(id string) (State, error) {
	if s.IndexOf(id) < 0 {
		if s.Detached != nil && s.Detached.ID == id {
			return s, nil
		}
		return s, fmt.Errorf("selecting %s: %w", id, ErrNotFound)
	}
	s.SelectedID = id
	s.Detached = nil
	return s, nil
}

// Replaced swaps in the server's copy of a record, keeping order. Records
// that are not held locally are ignored.
func (s State) Replaced(email model.Email) State {
	if i := s.IndexOf(email.ID); i >= 0 {
		items := cloneItems(s.Items)
		items[i] = email
		s.Items = items
	}
	if s.Detached != nil && s.Detached.ID == email.ID {
		e := email
		s.Detached = &e
	}
	return s
}

// Archived applies the reload that follows an archive toggle of id. When id
// was on screen and left the filtered list, its updated copy stays in the
// detail pane as the detached record.
func (s State) Archived(
	id string,
	updated model.Email,
	filter model.Filter,
	items []model.Email,
) State {
	wasShown := s.CurrentID() == id
	next := s.Reloaded(filter, items)
	if !wasShown {
		return next
	}
	if next.IndexOf(id) >= 0 {
		next.SelectedID = id
		return next
	}
	e := updated
	next.SelectedID = ""
	next.Detached = &e
	return next
}

// Deleted removes id locally. If it was on screen, the selection moves to
// the first remaining item or clears.
func (s State) Deleted(id string) State {
	wasShown := s.CurrentID() == id
	if i := s.IndexOf(id); i >= 0 {
		items := make([]model.Email, 0, len(s.Items)-1)
		items = append(items, s.Items[:i]...)
		items = append(items, s.Items[i+1:]...)
		s.Items = items
	}
	if !wasShown {
		return s
	}
	s.Detached = nil
	if len(s.Items) > 0 {
		s.SelectedID = s.Items[0].ID
	} else {
		s.SelectedID = ""
	}
	return s
}

// reaffirmed points the selection at id after a mark-read lands, as long
// as id is still listed.
func (s State) reaffirmed(id string) State {
	if s.IndexOf(id) < 0 {
		return s
	}
	s.SelectedID = id
	s.Detached = nil
	return s
}

func cloneItems(items []model.Email) []model.Email {
	out := make([]model.Email, len(items))
	copy(out, items)
	return out
}
