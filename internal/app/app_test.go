package app

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailpane/internal/model"
	"github.com/nhle/mailpane/internal/remote"
	appsync "github.com/nhle/mailpane/internal/sync"
	"github.com/nhle/mailpane/internal/ui/command"
	"github.com/nhle/mailpane/internal/ui/compose"
	settings "github.com/nhle/mailpane/internal/ui/config"
	"github.com/nhle/mailpane/internal/ui/detail"
	"github.com/nhle/mailpane/internal/ui/maillist"
	"github.com/nhle/mailpane/internal/ui/reply"
	"github.com/nhle/mailpane/tests/testutil"
)

// flakyClient fails the next N calls of a kind before delegating.
type flakyClient struct {
	*remote.Client

	mu         sync.Mutex
	failList   int
	failDelete int
}

var errReset = errors.New("connection reset by peer")

func (c *flakyClient) List(ctx context.Context, f model.Filter) ([]model.Email, error) {
	c.mu.Lock()
	if c.failList > 0 {
		c.failList--
		c.mu.Unlock()
		return nil, errReset
	}
	c.mu.Unlock()
	return c.Client.List(ctx, f)
}

func (c *flakyClient) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.failDelete > 0 {
		c.failDelete--
		c.mu.Unlock()
		return errReset
	}
	c.mu.Unlock()
	return c.Client.Delete(ctx, id)
}

func testConfig(t *testing.T, baseURL string) *model.AppConfig {
	t.Helper()
	return &model.AppConfig{
		API:     model.APIConfig{BaseURL: baseURL, TimeoutSec: 5},
		Display: model.DisplayConfig{Theme: "default", Filter: "all"},
		Export:  model.ExportConfig{Dir: t.TempDir()},
	}
}

func newApp(t *testing.T) (Model, *flakyClient) {
	t.Helper()
	srv, _ := testutil.NewTestServer(t)
	client := &flakyClient{Client: remote.NewClient(srv.URL, "", 5*time.Second)}

	m := New(testConfig(t, srv.URL), client, Options{
		SaveToken:   func(string) error { return nil },
		DeleteToken: func() error { return nil },
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return drain(t, m, m.Init()), client
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	return drain(t, next.(Model), cmd)
}

func press(t *testing.T, m Model, k string) Model {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
}

// exec runs cmd, giving up on commands that sleep (cursor blink, ticks).
func exec(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(time.Second):
		return nil, false
	}
}

// drain runs cmd and feeds the messages the app reacts to back into it
// until nothing is left.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 500, "command loop did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg, ok := exec(c)
		if !ok {
			continue
		}

		switch msg := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
			continue
		case outcomeMsg, healthMsg, exportedMsg,
			maillist.SelectMsg, maillist.FilterMsg,
			detail.ActionMsg, detail.BackMsg,
			reply.SendMsg, reply.CancelMsg,
			compose.SubmitMsg, compose.CancelMsg,
			command.CommandMsg, command.ErrorMsg:
			next, c := m.Update(msg)
			m = next.(Model)
			queue = append(queue, c)
		case spinner.TickMsg, appsync.RefreshMsg:
		}
	}
	return m
}

func ids(items []model.Email) []string {
	out := make([]string, 0, len(items))
	for _, e := range items {
		out = append(out, e.ID)
	}
	return out
}

func TestStartupLoadsAndSelectsFirst(t *testing.T) {
	m, _ := newApp(t)

	st := m.State()
	require.Len(t, st.Items, 8)
	assert.Equal(t, "1", st.SelectedID)
	assert.False(t, st.Loading)
	assert.Nil(t, m.notice)

	view := m.View()
	assert.Contains(t, view, "All Mails")
	assert.Contains(t, view, st.Items[0].Subject)
}

func TestSelectMarksRead(t *testing.T) {
	m, client := newApp(t)

	m = update(t, m, maillist.SelectMsg{ID: "2"})

	current, ok := m.State().Current()
	require.True(t, ok)
	assert.Equal(t, "2", current.ID)
	assert.True(t, current.IsRead)

	stored, err := client.Get(context.Background(), "2")
	require.NoError(t, err)
	assert.True(t, stored.IsRead)
}

func TestFilterKeyReloads(t *testing.T) {
	m, _ := newApp(t)

	m = press(t, m, "2")

	st := m.State()
	assert.Equal(t, model.FilterUnread, st.Filter)
	assert.Equal(t, []string{"1", "2", "5", "7"}, ids(st.Items))
}

func TestDeleteFailureIsRetryable(t *testing.T) {
	m, client := newApp(t)
	client.failDelete = 1

	m = press(t, m, "d")
	require.NotNil(t, m.notice)
	assert.Equal(t, model.NoticeError, m.notice.Kind)
	assert.True(t, m.notice.Retryable)
	assert.Len(t, m.State().Items, 8)
	assert.Contains(t, m.View(), "t retry")

	m = press(t, m, "t")
	assert.Len(t, m.State().Items, 7)
	require.NotNil(t, m.notice)
	assert.Equal(t, "Email deleted", m.notice.Message)
	assert.Equal(t, "2", m.State().SelectedID)

	m = press(t, m, "x")
	assert.Nil(t, m.notice)
}

func TestDeleteOfVanishedEmailReloads(t *testing.T) {
	srv, st := testutil.NewTestServer(t)
	client := &flakyClient{Client: remote.NewClient(srv.URL, "", 5*time.Second)}
	m := New(testConfig(t, srv.URL), client, Options{})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = drain(t, m, m.Init())
	require.Equal(t, "1", m.State().SelectedID)

	require.NoError(t, st.DeleteEmail(context.Background(), "1"))
	m = press(t, m, "d")

	require.NotNil(t, m.notice)
	assert.Equal(t, model.NoticeInfo, m.notice.Kind)
	assert.Equal(t, "That email no longer exists", m.notice.Message)
	assert.Len(t, m.State().Items, 7)
	assert.Equal(t, "2", m.State().SelectedID)
	assert.False(t, m.State().Loading)
}

func TestBackgroundRefreshFailureIsQuiet(t *testing.T) {
	m, client := newApp(t)
	client.failList = 1

	m = update(t, m, appsync.RefreshMsg{At: time.Now()})

	assert.Nil(t, m.notice)
	assert.False(t, m.State().Loading)
	assert.Len(t, m.State().Items, 8, "stale items stay visible")
}

func TestUserReloadFailureIsShown(t *testing.T) {
	m, client := newApp(t)
	client.failList = 1

	m = press(t, m, "R")

	require.NotNil(t, m.notice)
	assert.Contains(t, m.notice.Message, "Failed to reload")
}

func TestArchiveSelectedUnderUnreadKeepsDetail(t *testing.T) {
	m, _ := newApp(t)
	m = update(t, m, command.CommandMsg{Name: command.Unread})
	require.Equal(t, "1", m.State().SelectedID)

	m = press(t, m, "a")

	st := m.State()
	assert.Equal(t, []string{"2", "5", "7"}, ids(st.Items))
	assert.Empty(t, st.SelectedID)
	shown, ok := m.detail.Email()
	require.True(t, ok)
	assert.Equal(t, "1", shown.ID)
	assert.True(t, shown.IsArchived)
}

func TestReplyFlow(t *testing.T) {
	m, _ := newApp(t)
	original, _ := m.State().Current()

	m = press(t, m, "r")
	require.Equal(t, ViewReply, m.currentView)

	m = update(t, m, reply.SendMsg{Draft: model.ReplyDraft(original, "On it.")})

	assert.Equal(t, ViewMail, m.currentView)
	st := m.State()
	require.Len(t, st.Items, 9)
	assert.Equal(t, "Re: "+original.Subject, st.Items[0].Subject)
	assert.Equal(t, original.ID, st.SelectedID, "sending does not move the selection")
	require.NotNil(t, m.notice)
	assert.Equal(t, "Message sent", m.notice.Message)
}

func TestComposeEscCancels(t *testing.T) {
	m, _ := newApp(t)

	m = press(t, m, "c")
	require.Equal(t, ViewCompose, m.currentView)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewMail, m.currentView)
}

func TestExportCommand(t *testing.T) {
	m, _ := newApp(t)

	m = update(t, m, command.CommandMsg{Name: command.Export})

	require.NotNil(t, m.notice)
	assert.Equal(t, model.NoticeInfo, m.notice.Kind)
	entries, err := os.ReadDir(m.cfg.Export.Dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".eml", filepath.Ext(entries[0].Name()))
}

func TestThemeAndTokenCommands(t *testing.T) {
	m, _ := newApp(t)

	m = update(t, m, command.CommandMsg{Name: command.Theme, Arg: "neon"})
	require.NotNil(t, m.notice)
	assert.Equal(t, model.NoticeError, m.notice.Kind)
	assert.False(t, m.notice.Retryable)

	m = update(t, m, command.CommandMsg{Name: command.Theme, Arg: "forest"})
	assert.Equal(t, "forest", m.cfg.Display.Theme)

	var saved string
	m.opts.SaveToken = func(tok string) error { saved = tok; return nil }
	m = update(t, m, command.CommandMsg{Name: command.Token, Arg: "s3cret"})
	assert.Equal(t, "s3cret", saved)
	assert.Equal(t, model.NoticeInfo, m.notice.Kind)
}

func TestHealthFailureShowsOffline(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	client := &flakyClient{Client: remote.NewClient(url, "", time.Second)}
	m := New(testConfig(t, url), client, Options{})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = drain(t, m, m.Init())

	require.NotNil(t, m.notice)
	assert.Equal(t, model.NoticeError, m.notice.Kind)
	assert.True(t, m.notice.Retryable)
	assert.Contains(t, m.View(), "offline")
	assert.Equal(t, "", m.State().SelectedID)
}

func TestSettingsSaveReconnects(t *testing.T) {
	m, _ := newApp(t)
	other, st := testutil.NewTestServer(t)
	require.NoError(t, st.DeleteEmail(context.Background(), "1"))

	var connected string
	m.opts.Connect = func(cfg *model.AppConfig) Client {
		connected = cfg.API.BaseURL
		return remote.NewClient(cfg.API.BaseURL, "", 5*time.Second)
	}

	m = update(t, m, command.CommandMsg{Name: command.Settings})
	require.Equal(t, ViewSettings, m.currentView)

	next := *m.cfg
	next.API.BaseURL = other.URL
	next.Display.Theme = "sunset"
	m = update(t, m, settings.SavedMsg{Config: next})

	assert.Equal(t, ViewMail, m.currentView)
	assert.Equal(t, other.URL, connected)
	assert.Equal(t, "sunset", m.cfg.Display.Theme)
	assert.Len(t, m.State().Items, 7)
	assert.Equal(t, "2", m.State().SelectedID)
}
