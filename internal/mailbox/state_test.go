package mailbox_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailpane/internal/mailbox"
	"github.com/nhle/mailpane/internal/model"
)

func TestTransitionsDoNotMutateReceiver(t *testing.T) {
	s := mailbox.NewState(model.FilterAll).Reloaded(model.FilterAll, []model.Email{
		email("a", false), email("b", true),
	})
	snapshot := append([]model.Email(nil), s.Items...)

	updated := email("a", true)
	_ = s.Replaced(updated)
	_ = s.Deleted("a")

	assert.Equal(t, snapshot, s.Items)
}

func TestBeginLoadKeepsStaleItems(t *testing.T) {
	s := mailbox.NewState(model.FilterAll).Reloaded(model.FilterAll, []model.Email{email("a", true)})

	next := s.BeginLoad(model.FilterUnread)
	assert.True(t, next.Loading)
	assert.Equal(t, model.FilterUnread, next.Filter)
	assert.Equal(t, s.Items, next.Items)
	assert.Equal(t, "a", next.SelectedID)
}

func TestReloadFailureOnFirstLoadStaysLoading(t *testing.T) {
	f := newFakeRemote(email("a", true))
	f.failList = errBoom
	rec := mailbox.NewReconciler(f)

	s := mailbox.NewState(model.FilterAll).BeginLoad(model.FilterAll)
	o := rec.Reload(context.Background(), model.FilterAll)
	s = o.Apply(s)

	assert.True(t, o.Failed())
	assert.ErrorIs(t, o.Surface(), errBoom)
	assert.Equal(t, mailbox.PhaseLoading, s.Phase)
	assert.False(t, s.Loading)
}

func TestFailedMutationKeepsConcurrentLoadPending(t *testing.T) {
	f := newFakeRemote(email("a", false), email("b", true))
	f.failUpdate = errBoom
	rec := mailbox.NewReconciler(f)
	ctx := context.Background()

	s := rec.Reload(ctx, model.FilterAll).Apply(mailbox.NewState(model.FilterAll))
	require.False(t, s.Loading)

	s = s.BeginLoad(model.FilterAll)
	reload := rec.Reload(ctx, model.FilterAll)

	s = s.BeginLoad(model.FilterAll)
	archive := rec.ToggleArchive(ctx, s, "a")
	require.True(t, archive.Failed())

	s = archive.Apply(s)
	assert.True(t, s.Loading, "reload is still outstanding")

	s = reload.Apply(s)
	assert.False(t, s.Loading)
	assert.Equal(t, mailbox.PhaseReady, s.Phase)
}

func TestFailedSendKeepsConcurrentLoadPending(t *testing.T) {
	s := mailbox.NewState(model.FilterAll).
		BeginLoad(model.FilterAll).
		BeginLoad(model.FilterAll)

	s = mailbox.Outcome{Op: mailbox.OpSend, Filter: model.FilterAll, Err: errBoom}.Apply(s)
	assert.True(t, s.Loading)

	s = mailbox.Outcome{Op: mailbox.OpReload, Filter: model.FilterAll, Err: errBoom}.Apply(s)
	assert.False(t, s.Loading)
}

func TestLateOutcomesApplyLastWriteWins(t *testing.T) {
	f := newFakeRemote(email("a", false), email("b", true))
	rec := mailbox.NewReconciler(f)
	ctx := context.Background()

	unread := rec.Reload(ctx, model.FilterUnread)
	all := rec.Reload(ctx, model.FilterAll)

	s := mailbox.NewState(model.FilterAll)
	s = all.Apply(s)
	s = unread.Apply(s)

	assert.Equal(t, model.FilterUnread, s.Filter)
	assert.Equal(t, []string{"a"}, ids(s.Items))
}

func TestMarkReadReaffirmsSelection(t *testing.T) {
	f := newFakeRemote(email("a", false), email("b", true))
	rec := mailbox.NewReconciler(f)
	ctx := context.Background()

	s := rec.Reload(ctx, model.FilterAll).Apply(mailbox.NewState(model.FilterAll))
	pending := rec.MarkRead(ctx, "a")

	var err error
	s, err = s.Selected("b")
	require.NoError(t, err)

	s = pending.Apply(s)
	assert.Equal(t, "a", s.SelectedID)
	assert.True(t, s.Items[0].IsRead)
}

func TestMarkReadFailureIsQuiet(t *testing.T) {
	f := newFakeRemote(email("a", false))
	f.failUpdate = errBoom

	o := mailbox.NewReconciler(f).MarkRead(context.Background(), "a")
	assert.True(t, o.Failed())
	assert.True(t, o.Quiet)
	assert.NoError(t, o.Surface())
}

func TestToggleArchiveUnknownID(t *testing.T) {
	f := newFakeRemote(email("a", true))
	s := mailbox.NewState(model.FilterAll).Reloaded(model.FilterAll, []model.Email{email("a", true)})

	o := mailbox.NewReconciler(f).ToggleArchive(context.Background(), s, "nope")
	assert.True(t, mailbox.IsNotFound(o.Err))
	assert.Empty(t, f.updates)
	assert.Equal(t, s, o.Apply(s))
}

func TestDeleteDetachedSelectsFirst(t *testing.T) {
	s := mailbox.NewState(model.FilterUnread).Reloaded(model.FilterUnread, []model.Email{
		email("a", false), email("b", false),
	})
	archived := email("a", false)
	archived.IsArchived = true
	s = s.Archived("a", archived, model.FilterUnread, []model.Email{email("b", false)})
	require.NotNil(t, s.Detached)

	s = s.Deleted("a")
	assert.Nil(t, s.Detached)
	assert.Equal(t, "b", s.SelectedID)
}

func TestReplacedUpdatesDetached(t *testing.T) {
	s := mailbox.NewState(model.FilterUnread).Reloaded(model.FilterUnread, []model.Email{email("a", false)})
	archived := email("a", false)
	archived.IsArchived = true
	s = s.Archived("a", archived, model.FilterUnread, nil)

	read := archived
	read.IsRead = true
	s = s.Replaced(read)

	current, ok := s.Current()
	require.True(t, ok)
	assert.True(t, current.IsRead)
	assert.Empty(t, s.Items)
}

func TestUnreadCount(t *testing.T) {
	s := mailbox.NewState(model.FilterAll).Reloaded(model.FilterAll, []model.Email{
		email("a", false), email("b", true), email("c", false),
	})
	assert.Equal(t, 2, s.UnreadCount())
}
