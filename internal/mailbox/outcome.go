package mailbox

import (
	"github.com/nhle/mailpane/internal/model"
)

// Op identifies a reconciler operation.
type Op int

const (
	OpReload Op = iota
	OpMarkRead
	OpSetRead
	OpArchive
	OpDelete
	OpSend
)

func (o Op) String() string {
	switch o {
	case OpReload:
		return "reload"
	case OpMarkRead:
		return "mark read"
	case OpSetRead:
		return "set read state"
	case OpArchive:
		return "archive"
	case OpDelete:
		return "delete"
	case OpSend:
		return "send"
	default:
		return "unknown"
	}
}

// Outcome is the result of one reconciler operation. Apply folds it into a
// State; it is the only way remote results reach the collection.
type Outcome struct {
	Op Op

	// ID is the email the operation targeted, empty for reload and send.
	ID string

	// Filter is the filter the operation's list request used.
	Filter model.Filter

	// Email is the record returned by update or create.
	Email *model.Email

	// Items is the list returned by a reload, nil when none ran or it failed.
	Items []model.Email

	Err error

	// Quiet marks failures that are logged but not shown to the user.
	Quiet bool
}

// Failed reports whether any remote call in the operation failed.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Surface returns the error to show the user, or nil for successful and
// quiet outcomes.
func (o Outcome) Surface() error {
	if o.Quiet {
		return nil
	}
	return o.Err
}

// Apply returns the state after the outcome. Failures leave the collection
// unchanged, except that a mutation that landed before its follow-up reload
// failed is patched in locally.
func (o Outcome) Apply(s State) State {
	switch o.Op {
	case OpReload:
		if o.Err != nil {
			return s.LoadFailed()
		}
		return s.Reloaded(o.Filter, o.Items)

	case OpMarkRead:
		if o.Err != nil || o.Email == nil {
			return s
		}
		return s.Replaced(*o.Email).reaffirmed(o.Email.ID)

	case OpSetRead:
		if o.Err != nil || o.Email == nil {
			return s
		}
		return s.Replaced(*o.Email)

	case OpArchive:
		if o.Email == nil {
			return s.LoadFailed()
		}
		if o.Items == nil {
			return s.LoadFailed().Replaced(*o.Email)
		}
		return s.Archived(o.ID, *o.Email, o.Filter, o.Items)

	case OpDelete:
		if o.Err != nil {
			return s
		}
		return s.Deleted(o.ID)

	case OpSend:
		if o.Items == nil {
			return s.LoadFailed()
		}
		return s.Reloaded(o.Filter, o.Items)
	}
	return s
}
