package app

import (
	"context"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/mailpane/internal/mailbox"
	"github.com/nhle/mailpane/internal/mailfmt"
	"github.com/nhle/mailpane/internal/model"
	"github.com/nhle/mailpane/internal/remote"
)

// retryFunc re-dispatches a failed operation against the current model.
type retryFunc func(m *Model) tea.Cmd

// outcomeMsg carries a finished reconciler operation back into Update.
type outcomeMsg struct {
	outcome mailbox.Outcome

	// background marks refresh ticks, whose failures are never shown.
	background bool

	retry retryFunc
}

// healthMsg reports the startup probe of the mail API.
type healthMsg struct {
	err error
}

// exportedMsg reports an .eml export.
type exportedMsg struct {
	path string
	err  error
}

// run wraps a reconciler call as a command and counts it as in flight.
func (m *Model) run(op func(ctx context.Context) mailbox.Outcome, retry retryFunc) tea.Cmd {
	m.refresher.Begin()
	return func() tea.Msg {
		return outcomeMsg{outcome: op(context.Background()), retry: retry}
	}
}

// reload fetches filter. Stale items stay visible until the result lands.
func (m *Model) reload(filter model.Filter) tea.Cmd {
	m.state = m.state.BeginLoad(filter)
	rec := m.rec
	cmd := m.run(func(ctx context.Context) mailbox.Outcome {
		return rec.Reload(ctx, filter)
	}, func(m *Model) tea.Cmd {
		return m.reload(filter)
	})
	return tea.Batch(cmd, m.spinner.Tick, m.syncViews())
}

// backgroundReload is the refresher's reload; its failures stay quiet.
func (m *Model) backgroundReload() tea.Cmd {
	filter := m.state.Filter
	m.state = m.state.BeginLoad(filter)
	m.refresher.Begin()
	rec := m.rec
	return func() tea.Msg {
		return outcomeMsg{outcome: rec.Reload(context.Background(), filter), background: true}
	}
}

// selectEmail moves the selection and, for unread mail, issues the single
// automatic read update.
func (m *Model) selectEmail(id string) tea.Cmd {
	next, err := m.state.Selected(id)
	if err != nil {
		log.Printf("selecting %s: %v", id, err)
		return nil
	}
	m.state = next
	cmds := []tea.Cmd{m.syncViews()}

	if mailbox.NeedsMarkRead(m.state, id) {
		rec := m.rec
		cmds = append(cmds, m.run(func(ctx context.Context) mailbox.Outcome {
			return rec.MarkRead(ctx, id)
		}, nil))
	}
	return tea.Batch(cmds...)
}

func (m *Model) setRead(id string, read bool) tea.Cmd {
	rec := m.rec
	return m.run(func(ctx context.Context) mailbox.Outcome {
		return rec.SetReadState(ctx, id, read)
	}, func(m *Model) tea.Cmd {
		return m.setRead(id, read)
	})
}

// toggleArchive negates the local copy of id and reloads the active filter.
func (m *Model) toggleArchive(id string) tea.Cmd {
	m.state = m.state.BeginLoad(m.state.Filter)
	snapshot := m.state
	rec := m.rec
	cmd := m.run(func(ctx context.Context) mailbox.Outcome {
		return rec.ToggleArchive(ctx, snapshot, id)
	}, func(m *Model) tea.Cmd {
		return m.toggleArchive(id)
	})
	return tea.Batch(cmd, m.spinner.Tick)
}

func (m *Model) deleteEmail(id string) tea.Cmd {
	rec := m.rec
	return m.run(func(ctx context.Context) mailbox.Outcome {
		return rec.Delete(ctx, id)
	}, func(m *Model) tea.Cmd {
		return m.deleteEmail(id)
	})
}

// send creates draft and reloads the active filter without selecting it.
func (m *Model) send(draft model.Draft) tea.Cmd {
	filter := m.state.Filter
	m.state = m.state.BeginLoad(filter)
	rec := m.rec
	cmd := m.run(func(ctx context.Context) mailbox.Outcome {
		return rec.Send(ctx, filter, draft)
	}, func(m *Model) tea.Cmd {
		return m.send(draft)
	})
	return tea.Batch(cmd, m.spinner.Tick)
}

// checkHealth probes the API once at startup.
func (m *Model) checkHealth() tea.Cmd {
	m.refresher.Begin()
	client := m.client
	return func() tea.Msg {
		return healthMsg{err: client.Health(context.Background())}
	}
}

// exportEmail writes e as an .eml file into the configured directory.
func (m Model) exportEmail(e model.Email) tea.Cmd {
	dir := m.cfg.Export.Dir
	return func() tea.Msg {
		path, err := mailfmt.Export(dir, e)
		if err != nil {
			log.Printf("exporting %s: %v", e.ID, err)
		}
		return exportedMsg{path: path, err: err}
	}
}

// applyOutcome folds a finished operation into the collection and raises a
// notice for user-visible failures.
func (m *Model) applyOutcome(msg outcomeMsg) tea.Cmd {
	o := msg.outcome
	if msg.background {
		o.Quiet = true
	}

	m.refresher.Done(o.Err)
	m.state = o.Apply(m.state)

	if err := o.Surface(); err != nil {
		if o.ID != "" && remote.IsNotFound(err) {
			m.inform("That email no longer exists")
			cmd := m.reload(m.state.Filter)
			return cmd
		}
		retry := msg.retry
		// The mutation already landed; only the follow-up reload is missing.
		if (o.Op == mailbox.OpArchive || o.Op == mailbox.OpSend) && o.Email != nil {
			filter := o.Filter
			retry = func(m *Model) tea.Cmd { return m.reload(filter) }
		}
		m.raise(fmt.Sprintf("Failed to %s: %v", o.Op, err), retry)
		return m.syncViews()
	}

	if !o.Failed() {
		switch o.Op {
		case mailbox.OpSend:
			m.inform("Message sent")
		case mailbox.OpDelete:
			m.inform("Email deleted")
		case mailbox.OpReload:
			if m.notice != nil && m.notice.Kind == model.NoticeError && !msg.background {
				m.dismiss()
			}
		}
	}
	return m.syncViews()
}

// raise shows a failure notice; retry may be nil.
func (m *Model) raise(text string, retry retryFunc) {
	n := model.NewErrorNotice(text)
	n.Retryable = retry != nil
	m.notice = n
	m.retry = retry
}

func (m *Model) inform(text string) {
	m.notice = model.NewInfoNotice(text)
	m.retry = nil
}

func (m *Model) dismiss() {
	m.notice = nil
	m.retry = nil
}

// syncViews pushes the collection into the list and reading panes.
func (m *Model) syncViews() tea.Cmd {
	cmd := m.mailList.SetEmails(m.state.Items, m.state.SelectedID, m.state.Filter, m.state.Loading)
	if e, ok := m.state.Current(); ok {
		m.detail.SetEmail(&e)
	} else {
		m.detail.SetEmail(nil)
	}
	return cmd
}
