package sync

import (
	"fmt"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/mailpane/internal/remote"
)

// SyncState represents the connection state of the mail API.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncOffline
)

// SyncStatus is a snapshot of the refresher's bookkeeping.
type SyncStatus struct {
	State    SyncState
	InFlight int
	LastSync time.Time
	Error    error
}

// RefreshMsg is a tea.Msg delivered on every background refresh tick.
type RefreshMsg struct {
	At time.Time
}

// Refresher schedules periodic reloads and tracks in-flight remote calls
// for the header status.
type Refresher struct {
	interval time.Duration
	mu       gosync.Mutex
	inFlight int
	offline  bool
	lastSync time.Time
	lastErr  error
}

// New creates a Refresher. A non-positive interval disables ticking; call
// tracking still works.
func New(interval time.Duration) *Refresher {
	if interval < 0 {
		interval = 0
	}
	return &Refresher{interval: interval}
}

// Enabled reports whether periodic refresh is on.
func (r *Refresher) Enabled() bool {
	return r.interval > 0
}

// Tick returns a command that delivers the next RefreshMsg, or nil when
// refresh is disabled. The caller re-arms it after each RefreshMsg.
func (r *Refresher) Tick() tea.Cmd {
	if !r.Enabled() {
		return nil
	}
	return tea.Tick(r.interval, func(t time.Time) tea.Msg {
		return RefreshMsg{At: t}
	})
}

// Begin records that a remote call was started.
func (r *Refresher) Begin() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inFlight++
}

// Done records that a remote call finished. Transport failures mark the API
// offline; any response from the server, even an error status, marks it
// reachable again.
func (r *Refresher) Done(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.inFlight > 0 {
		r.inFlight--
	}
	r.lastErr = err
	switch {
	case err == nil:
		r.offline = false
		r.lastSync = time.Now()
	case remote.IsRemoteStoreError(err):
		r.offline = false
	default:
		r.offline = true
	}
}

// Status returns a snapshot of the current sync state.
func (r *Refresher) Status() SyncStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := SyncStatus{
		State:    SyncIdle,
		InFlight: r.inFlight,
		LastSync: r.lastSync,
		Error:    r.lastErr,
	}
	switch {
	case r.inFlight > 0:
		st.State = SyncRunning
	case r.offline:
		st.State = SyncOffline
	}
	return st
}

// Label renders the status for the header.
func (s SyncStatus) Label() string {
	switch s.State {
	case SyncRunning:
		return fmt.Sprintf("syncing (%d)", s.InFlight)
	case SyncOffline:
		return "offline"
	}
	if s.LastSync.IsZero() {
		return "idle"
	}
	return "synced " + s.LastSync.Format("3:04 PM")
}
