package mailbox

import (
	"context"
	"fmt"
	"log"

	"github.com/nhle/mailpane/internal/model"
)

// Remote is the subset of the mail API the reconciler drives.
type Remote interface {
	List(ctx context.Context, filter model.Filter) ([]model.Email, error)
	Create(ctx context.Context, draft model.Draft) (*model.Email, error)
	Update(ctx context.Context, id string, patch model.EmailPatch) (*model.Email, error)
	Delete(ctx context.Context, id string) error
}

// Reconciler runs the remote half of each operation and describes the
// result as an Outcome. It holds no collection state of its own, so its
// methods are safe to call from concurrent commands.
//
// Archive toggles and sends change filter membership in ways the client
// cannot derive, so they finish with a full reload. Read-state changes and
// deletes are patched locally.
type Reconciler struct {
	remote Remote
}

// NewReconciler creates a Reconciler over remote.
func NewReconciler(remote Remote) *Reconciler {
	return &Reconciler{remote: remote}
}

// Reload fetches the emails for filter.
func (r *Reconciler) Reload(ctx context.Context, filter model.Filter) Outcome {
	items, err := r.remote.List(ctx, filter)
	if err != nil {
		log.Printf("mailbox: loading %s emails: %v", filter, err)
		return Outcome{Op: OpReload, Filter: filter, Err: err}
	}
	return Outcome{Op: OpReload, Filter: filter, Items: items}
}

// NeedsMarkRead reports whether selecting id should mark it read.
func NeedsMarkRead(s State, id string) bool {
	e, ok := s.Lookup(id)
	return ok && !e.IsRead
}

// MarkRead is the automatic read update that follows selecting an unread
// email. Its failures are quiet: the selection has already moved and the
// record simply stays unread.
func (r *Reconciler) MarkRead(ctx context.Context, id string) Outcome {
	updated, err := r.remote.Update(ctx, id, model.ReadPatch(true))
	if err != nil {
		log.Printf("mailbox: marking %s read: %v", id, err)
		return Outcome{Op: OpMarkRead, ID: id, Err: err, Quiet: true}
	}
	return Outcome{Op: OpMarkRead, ID: id, Email: updated}
}

// SetReadState sets is_read on id and nothing else.
func (r *Reconciler) SetReadState(ctx context.Context, id string, read bool) Outcome {
	updated, err := r.remote.Update(ctx, id, model.ReadPatch(read))
	if err != nil {
		log.Printf("mailbox: setting %s read=%t: %v", id, read, err)
		return Outcome{Op: OpSetRead, ID: id, Err: err}
	}
	return Outcome{Op: OpSetRead, ID: id, Email: updated}
}

// ToggleArchive flips is_archived on the local copy of id in s, then reloads
// s.Filter.
func (r *Reconciler) ToggleArchive(ctx context.Context, s State, id string) Outcome {
	current, ok := s.Lookup(id)
	if !ok {
		return Outcome{
			Op:     OpArchive,
			ID:     id,
			Filter: s.Filter,
			Err:    fmt.Errorf("archiving %s: %w", id, ErrNotFound),
		}
	}

	updated, err := r.remote.Update(ctx, id, model.ArchivePatch(!current.IsArchived))
	if err != nil {
		log.Printf("mailbox: archiving %s: %v", id, err)
		return Outcome{Op: OpArchive, ID: id, Filter: s.Filter, Err: err}
	}

	items, err := r.remote.List(ctx, s.Filter)
	if err != nil {
		log.Printf("mailbox: reloading %s emails after archive: %v", s.Filter, err)
		return Outcome{Op: OpArchive, ID: id, Filter: s.Filter, Email: updated, Err: err}
	}
	return Outcome{Op: OpArchive, ID: id, Filter: s.Filter, Email: updated, Items: items}
}

// Delete removes id remotely.
func (r *Reconciler) Delete(ctx context.Context, id string) Outcome {
	if err := r.remote.Delete(ctx, id); err != nil {
		log.Printf("mailbox: deleting %s: %v", id, err)
		return Outcome{Op: OpDelete, ID: id, Err: err}
	}
	return Outcome{Op: OpDelete, ID: id}
}

// Send creates draft and reloads filter. The new record is not selected.
func (r *Reconciler) Send(ctx context.Context, filter model.Filter, draft model.Draft) Outcome {
	created, err := r.remote.Create(ctx, draft)
	if err != nil {
		log.Printf("mailbox: sending to %s: %v", draft.Recipient.Email, err)
		return Outcome{Op: OpSend, Filter: filter, Err: err}
	}

	items, err := r.remote.List(ctx, filter)
	if err != nil {
		log.Printf("mailbox: reloading %s emails after send: %v", filter, err)
		return Outcome{Op: OpSend, ID: created.ID, Filter: filter, Email: created, Err: err}
	}
	return Outcome{Op: OpSend, ID: created.ID, Filter: filter, Email: created, Items: items}
}
