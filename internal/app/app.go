package app

import (
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/mailpane/internal/mailbox"
	"github.com/nhle/mailpane/internal/model"
	appsync "github.com/nhle/mailpane/internal/sync"
	"github.com/nhle/mailpane/internal/theme"
	"github.com/nhle/mailpane/internal/ui"
	"github.com/nhle/mailpane/internal/ui/command"
	"github.com/nhle/mailpane/internal/ui/compose"
	settings "github.com/nhle/mailpane/internal/ui/config"
	"github.com/nhle/mailpane/internal/ui/detail"
	helpview "github.com/nhle/mailpane/internal/ui/help"
	"github.com/nhle/mailpane/internal/ui/maillist"
	"github.com/nhle/mailpane/internal/ui/reply"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewMail ViewState = iota
	ViewReply
	ViewCompose
	ViewHelp
	ViewCommand
	ViewSettings
)

// pane is the half of the mail view that receives navigation keys.
type pane int

const (
	paneList pane = iota
	paneDetail
)

// Options carries optional collaborators. Zero values use the system
// keyring and the REST client, and skip persisting settings.
type Options struct {
	// ConfigPath is where theme and settings changes are saved.
	ConfigPath string

	SaveToken   func(token string) error
	DeleteToken func() error

	// Connect builds a client after the API URL or token changes.
	Connect func(cfg *model.AppConfig) Client

	// Probe tests an API URL from the settings view.
	Probe settings.Probe
}

// Model is the root Bubble Tea model. It owns the mailbox collection and is
// its only writer: every remote result is applied here, inside Update.
type Model struct {
	currentView  ViewState
	previousView ViewState
	focus        pane
	layout       ui.Layout
	keys         *KeyMap
	cfg          *model.AppConfig
	opts         Options
	client       Client
	rec          *mailbox.Reconciler
	refresher    *appsync.Refresher
	state        mailbox.State
	mailList     maillist.Model
	detail       detail.Model
	replyView    reply.Model
	composeView  compose.Model
	helpView     helpview.Model
	commandView  command.Model
	settingsView settings.Model
	spinner      spinner.Model
	notice       *model.Notice
	retry        retryFunc
	ready        bool
}

// New creates a new root application model talking to client.
func New(cfg *model.AppConfig, client Client, opts Options) Model {
	keys := DefaultKeyMap()

	filter, err := model.ParseFilter(cfg.Display.Filter)
	if err != nil {
		filter = model.FilterAll
	}
	if opts.SaveToken == nil {
		opts.SaveToken = saveAPIToken
	}
	if opts.DeleteToken == nil {
		opts.DeleteToken = deleteAPIToken
	}
	if opts.Connect == nil {
		opts.Connect = func(cfg *model.AppConfig) Client { return NewClient(cfg) }
	}
	if opts.Probe == nil {
		opts.Probe = probeAPI(time.Duration(cfg.API.TimeoutSec) * time.Second)
	}
	if !theme.Apply(cfg.Display.Theme) {
		log.Printf("unknown theme %q, using default", cfg.Display.Theme)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		currentView:  ViewMail,
		keys:         keys,
		cfg:          cfg,
		opts:         opts,
		client:       client,
		rec:          mailbox.NewReconciler(client),
		refresher:    appsync.New(time.Duration(cfg.Display.RefreshIntervalSec) * time.Second),
		state:        mailbox.NewState(filter).BeginLoad(filter),
		mailList:     maillist.New(keys, filter, 40, 24),
		detail:       detail.New(keys, 40, 24),
		replyView:    reply.New(keys, 80, 24),
		composeView:  compose.New(80, 24),
		helpView:     helpview.New(keys, 80, 24),
		commandView:  command.New(80, 24),
		settingsView: settings.New(keys, opts.Probe, 80, 24),
		spinner:      sp,
	}
}

// State returns the current collection snapshot.
func (m Model) State() mailbox.State {
	return m.state
}

// Init probes the API, loads the startup filter and arms background refresh.
func (m Model) Init() tea.Cmd {
	health := m.checkHealth()
	load := m.reload(m.state.Filter)
	return tea.Batch(health, load, m.refresher.Tick())
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		// Pane borders take two rows and two columns.
		m.mailList.SetSize(m.layout.ListWidth()-2, contentHeight-2)
		m.detail.SetSize(m.layout.DetailWidth()-2, contentHeight-2)
		m.replyView.SetSize(contentWidth, contentHeight)
		m.composeView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		m.settingsView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case outcomeMsg:
		cmd := m.applyOutcome(msg)
		return m, cmd

	case healthMsg:
		m.refresher.Done(msg.err)
		if msg.err != nil {
			log.Printf("health check against %s: %v", m.cfg.API.BaseURL, msg.err)
			m.raise(fmt.Sprintf("Cannot reach %s", m.cfg.API.BaseURL), func(m *Model) tea.Cmd {
				return tea.Batch(m.checkHealth(), m.reload(m.state.Filter))
			})
		}
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.raise(fmt.Sprintf("Export failed: %v", msg.err), nil)
		} else {
			m.inform("Saved " + msg.path)
		}
		return m, nil

	case appsync.RefreshMsg:
		next := m.refresher.Tick()
		if m.refresher.Status().InFlight > 0 {
			return m, next
		}
		cmd := m.backgroundReload()
		return m, tea.Batch(cmd, next)

	case spinner.TickMsg:
		if m.currentView == ViewSettings && m.settingsView.Mode() == settings.ModeValidating {
			var cmd tea.Cmd
			m.settingsView, cmd = m.settingsView.Update(msg)
			return m, cmd
		}
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case maillist.SelectMsg:
		cmd := m.selectEmail(msg.ID)
		return m, cmd

	case maillist.FilterMsg:
		cmd := m.reload(msg.Filter)
		return m, cmd

	case detail.ActionMsg:
		return m.handleAction(msg)

	case detail.BackMsg:
		m.focus = paneList
		return m, nil

	case reply.SendMsg:
		m.currentView = ViewMail
		cmd := m.send(msg.Draft)
		return m, cmd

	case reply.CancelMsg:
		m.currentView = ViewMail
		return m, nil

	case compose.SubmitMsg:
		m.currentView = ViewMail
		cmd := m.send(msg.Draft)
		return m, cmd

	case compose.CancelMsg:
		m.currentView = ViewMail
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		m.commandView.Blur()
		cmd := m.executeCommand(msg)
		return m, cmd

	case command.ErrorMsg:
		m.raise(msg.Err.Error(), nil)
		return m, nil

	case settings.DoneMsg:
		m.currentView = ViewMail
		return m, nil

	case settings.SavedMsg:
		cmd := m.applySettings(msg)
		return m, cmd

	case settings.ValidateResultMsg:
		var cmd tea.Cmd
		m.settingsView, cmd = m.settingsView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if next, cmd, handled := m.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that are not owned by the focused view.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit, true
	}

	switch m.currentView {
	case ViewHelp:
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Quit) {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m, nil, false

	case ViewCommand:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			m.commandView.Blur()
			return m, nil, true
		}
		return m, nil, false

	case ViewCompose:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = ViewMail
			return m, nil, true
		}
		return m, nil, false

	case ViewReply, ViewSettings:
		return m, nil, false
	}

	// Mail view. Typing into the search box owns every key.
	if m.mailList.Searching() {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		cmd := m.commandView.Focus()
		return m, cmd, true

	case key.Matches(msg, m.keys.Dismiss):
		m.dismiss()
		return m, nil, true

	case key.Matches(msg, m.keys.Retry):
		if m.retry == nil {
			return m, nil, true
		}
		retry := m.retry
		m.dismiss()
		cmd := retry(&m)
		return m, cmd, true

	case key.Matches(msg, m.keys.Refresh):
		cmd := m.reload(m.state.Filter)
		return m, cmd, true

	case key.Matches(msg, m.keys.Compose):
		cmd := m.startCompose()
		return m, cmd, true

	case m.detail.IsAction(msg):
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd, true

	case m.focus == paneList && key.Matches(msg, m.keys.FocusDetail):
		m.focus = paneDetail
		return m, nil, true
	}

	return m, nil, false
}

// handleAction runs a reading pane action on the email it shows.
func (m Model) handleAction(msg detail.ActionMsg) (tea.Model, tea.Cmd) {
	e, ok := m.state.Lookup(msg.ID)
	if !ok {
		return m, nil
	}

	var cmd tea.Cmd
	switch msg.Action {
	case detail.ActionToggleRead:
		cmd = m.setRead(e.ID, !e.IsRead)
	case detail.ActionArchive:
		cmd = m.toggleArchive(e.ID)
	case detail.ActionDelete:
		cmd = m.deleteEmail(e.ID)
	case detail.ActionExport:
		cmd = m.exportEmail(e)
	case detail.ActionReply:
		m.previousView = m.currentView
		m.currentView = ViewReply
		cmd = m.replyView.Start(e)
	}
	return m, cmd
}

func (m *Model) startCompose() tea.Cmd {
	m.previousView = m.currentView
	m.currentView = ViewCompose
	return m.composeView.Start()
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewMail:
		if m.focus == paneDetail {
			m.detail, cmd = m.detail.Update(msg)
		} else {
			m.mailList, cmd = m.mailList.Update(msg)
		}
	case ViewReply:
		m.replyView, cmd = m.replyView.Update(msg)
	case ViewCompose:
		m.composeView, cmd = m.composeView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	headerTitle := "mailpane · " + m.state.Filter.Label()
	if n := m.state.UnreadCount(); n > 0 && m.state.Filter != model.FilterArchived {
		headerTitle = fmt.Sprintf("%s (%d unread)", headerTitle, n)
	}
	header := m.layout.RenderHeader(headerTitle, m.syncStatus())
	content := m.renderContent()

	var statusBar string
	if m.notice != nil {
		statusBar = m.layout.RenderNotice(m.noticeText(), m.notice.Kind == model.NoticeError)
	} else {
		statusBar = m.layout.RenderStatusBar(m.keyHints())
	}

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewMail:
		return m.layout.RenderSplit(
			m.mailList.View(),
			m.detail.View(),
			m.layout.ContentHeight(),
			m.focus == paneDetail,
		)
	case ViewReply:
		return m.replyView.View()
	case ViewCompose:
		return m.composeView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewSettings:
		return m.settingsView.View()
	default:
		return ""
	}
}

// syncStatus returns a short string describing the connection state.
func (m Model) syncStatus() string {
	label := m.refresher.Status().Label()
	if m.state.Loading {
		return m.spinner.View() + " " + label
	}
	return label
}

func (m Model) noticeText() string {
	text := m.notice.Message
	if m.notice.Retryable {
		text += "  (t retry · x dismiss)"
	} else {
		text += "  (x dismiss)"
	}
	return text
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewReply:
		return "ctrl+s send | esc cancel"
	case ViewCompose:
		return "enter next | esc cancel"
	case ViewSettings:
		return "enter next | esc back"
	}

	if m.mailList.Searching() {
		return "enter keep search | esc clear"
	}
	if m.focus == paneDetail {
		return "j/k scroll | u read | a archive | d delete | r reply | e export | h back"
	}
	return "q quit | ? help | enter open | / search | tab filter | c compose | u/a/d/r on open email"
}

// executeCommand handles a command from the command palette.
func (m *Model) executeCommand(cmd command.CommandMsg) tea.Cmd {
	switch cmd.Name {
	case command.Refresh:
		return m.reload(m.state.Filter)
	case command.All:
		return m.reload(model.FilterAll)
	case command.Unread:
		return m.reload(model.FilterUnread)
	case command.Archived:
		return m.reload(model.FilterArchived)
	case command.Compose:
		return m.startCompose()
	case command.Export:
		e, ok := m.state.Current()
		if !ok {
			m.raise("No email open to export", nil)
			return nil
		}
		return m.exportEmail(e)
	case command.Settings:
		m.previousView = ViewMail
		m.currentView = ViewSettings
		m.settingsView.Start(*m.cfg)
		return nil
	case command.Theme:
		return m.applyTheme(cmd.Arg)
	case command.Token:
		if err := m.opts.SaveToken(cmd.Arg); err != nil {
			m.raise(fmt.Sprintf("Saving token: %v", err), nil)
			return nil
		}
		m.inform("API token saved; restart mailpane to use it")
		return nil
	case command.Logout:
		if err := m.opts.DeleteToken(); err != nil {
			m.raise(fmt.Sprintf("Removing token: %v", err), nil)
			return nil
		}
		m.inform("API token removed")
		return nil
	case command.Quit:
		return tea.Quit
	default:
		return nil
	}
}

// applyTheme switches the accent color and persists it when a config path
// is known.
func (m *Model) applyTheme(name string) tea.Cmd {
	if !theme.Apply(name) {
		m.raise(fmt.Sprintf("Unknown theme %q (try %v)", name, theme.Names()), nil)
		return nil
	}
	m.cfg.Display.Theme = name
	m.syncViews()

	if m.opts.ConfigPath == "" {
		m.inform("Theme " + name)
		return nil
	}
	if err := model.SaveConfig(m.opts.ConfigPath, m.cfg); err != nil {
		log.Printf("saving config: %v", err)
		m.raise(fmt.Sprintf("Theme applied but not saved: %v", err), nil)
		return nil
	}
	m.inform("Theme " + name + " saved")
	return nil
}

// applySettings adopts edited settings, reconnecting when the API URL or
// token changed.
func (m *Model) applySettings(msg settings.SavedMsg) tea.Cmd {
	m.currentView = ViewMail
	next := msg.Config

	if msg.Token != "" {
		if err := m.opts.SaveToken(msg.Token); err != nil {
			m.raise(fmt.Sprintf("Saving token: %v", err), nil)
			return nil
		}
	}
	if !theme.Apply(next.Display.Theme) {
		next.Display.Theme = m.cfg.Display.Theme
	}
	reconnect := msg.Token != "" || next.API.BaseURL != m.cfg.API.BaseURL
	*m.cfg = next

	text := "Settings saved"
	if m.opts.ConfigPath != "" {
		if err := model.SaveConfig(m.opts.ConfigPath, m.cfg); err != nil {
			log.Printf("saving config: %v", err)
			text = fmt.Sprintf("Settings applied but not saved: %v", err)
		}
	}
	m.inform(text)

	if !reconnect {
		return m.syncViews()
	}
	m.client = m.opts.Connect(m.cfg)
	m.rec = mailbox.NewReconciler(m.client)
	health := m.checkHealth()
	load := m.reload(m.state.Filter)
	return tea.Batch(health, load)
}
