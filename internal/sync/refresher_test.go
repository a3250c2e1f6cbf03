package sync

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/mailpane/internal/remote"
)

func TestStatusCountsInFlight(t *testing.T) {
	r := New(0)
	assert.Equal(t, "idle", r.Status().Label())

	r.Begin()
	r.Begin()
	assert.Equal(t, "syncing (2)", r.Status().Label())

	r.Done(nil)
	assert.Equal(t, SyncRunning, r.Status().State)
	assert.Equal(t, 1, r.Status().InFlight)

	r.Done(nil)
	st := r.Status()
	assert.Equal(t, SyncIdle, st.State)
	assert.False(t, st.LastSync.IsZero())
	assert.Contains(t, st.Label(), "synced ")
}

func TestTransportErrorMarksOffline(t *testing.T) {
	r := New(0)

	r.Begin()
	r.Done(errors.New("dial tcp: connection refused"))
	assert.Equal(t, "offline", r.Status().Label())

	r.Begin()
	r.Done(&remote.RemoteStoreError{Status: http.StatusNotFound})
	assert.Equal(t, SyncIdle, r.Status().State, "an error status still means the server answered")
}

func TestDoneNeverGoesNegative(t *testing.T) {
	r := New(0)
	r.Done(nil)
	assert.Equal(t, 0, r.Status().InFlight)
}

func TestTickDisabled(t *testing.T) {
	assert.Nil(t, New(0).Tick())
	assert.Nil(t, New(-time.Second).Tick())
	assert.False(t, New(0).Enabled())
}

func TestTickDeliversRefreshMsg(t *testing.T) {
	r := New(time.Millisecond)
	cmd := r.Tick()
	if assert.NotNil(t, cmd) {
		_, ok := cmd().(RefreshMsg)
		assert.True(t, ok)
	}
}
