package server_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailpane/internal/mailbox"
	"github.com/nhle/mailpane/internal/model"
	"github.com/nhle/mailpane/internal/remote"
	"github.com/nhle/mailpane/tests/testutil"
)

func newRemoteSession(t *testing.T, filter model.Filter) (*mailbox.Session, *remote.Client) {
	t.Helper()
	srv, _ := testutil.NewTestServer(t)
	client := remote.NewClient(srv.URL, "", 5*time.Second)
	s := mailbox.NewSession(mailbox.NewReconciler(client), filter)
	require.NoError(t, s.Reload(context.Background(), filter))
	return s, client
}

func TestSessionAgainstServerSelectMarksRead(t *testing.T) {
	s, client := newRemoteSession(t, model.FilterAll)
	ctx := context.Background()

	st := s.State()
	require.Equal(t, "1", st.SelectedID)
	require.False(t, st.Items[0].IsRead)

	require.NoError(t, s.Select(ctx, "2"))
	current, ok := s.State().Current()
	require.True(t, ok)
	assert.True(t, current.IsRead)

	stored, err := client.Get(ctx, "2")
	require.NoError(t, err)
	assert.True(t, stored.IsRead)
}

func TestSessionAgainstServerArchiveUnderUnread(t *testing.T) {
	s, _ := newRemoteSession(t, model.FilterUnread)
	ctx := context.Background()
	require.Equal(t, "1", s.State().SelectedID)

	require.NoError(t, s.ToggleArchive(ctx, "1"))

	st := s.State()
	assert.Equal(t, []string{"2", "5", "7"}, ids(st.Items))
	require.NotNil(t, st.Detached)
	assert.True(t, st.Detached.IsArchived)

	require.NoError(t, s.Reload(ctx, model.FilterArchived))
	assert.Equal(t, []string{"1", "8"}, ids(s.State().Items))
	assert.Equal(t, "1", s.State().SelectedID)
}

func TestSessionAgainstServerReplyAndDelete(t *testing.T) {
	s, _ := newRemoteSession(t, model.FilterAll)
	ctx := context.Background()

	original := s.State().Items[0]
	require.NoError(t, s.Send(ctx, model.ReplyDraft(original, "Thursday works.")))

	st := s.State()
	require.Len(t, st.Items, 9)
	reply := st.Items[0]
	assert.Equal(t, "Re: "+original.Subject, reply.Subject)
	assert.Equal(t, original.Sender.Email, reply.Recipient.Email)
	assert.Equal(t, "1", st.SelectedID, "send does not move selection")

	require.NoError(t, s.Delete(ctx, "1"))
	assert.Len(t, s.State().Items, 8)
	assert.Equal(t, reply.ID, s.State().SelectedID)
}

func TestSessionAgainstServerDeleteMissingSurfacesStoreError(t *testing.T) {
	s, client := newRemoteSession(t, model.FilterAll)
	ctx := context.Background()
	require.NoError(t, client.Delete(ctx, "3"))

	err := s.Delete(ctx, "3")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, remote.StatusCode(err))
	assert.Len(t, s.State().Items, 8, "failed delete leaves the list alone")
}

func ids(items []model.Email) []string {
	out := make([]string, 0, len(items))
	for _, e := range items {
		out = append(out, e.ID)
	}
	return out
}
