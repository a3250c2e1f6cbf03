package config

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailpane/internal/keys"
	"github.com/nhle/mailpane/internal/model"
	"github.com/nhle/mailpane/internal/theme"
)

// ConfigMode represents the current state of the settings view.
type ConfigMode int

const (
	ModeSummary        ConfigMode = iota // Show current settings
	ModeForm                             // Editing
	ModeValidating                       // Testing connection
	ModeValidateResult                   // Show validation result
)

// Probe checks that a mail API answers at baseURL. An empty token means
// the stored one.
type Probe func(ctx context.Context, baseURL, token string) error

// DoneMsg signals the settings view should close and return to the mailbox.
type DoneMsg struct{}

// SavedMsg carries edited settings that passed (or skipped) the connection
// test. Token is empty when the user left it unchanged.
type SavedMsg struct {
	Config model.AppConfig
	Token  string
}

// ValidateResultMsg carries the result of a connection test.
type ValidateResultMsg struct {
	Err error
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	baseURL   string
	token     string
	theme     string
	filter    string
	refresh   string
	exportDir string
}

// Model is the Bubble Tea model for the settings UI.
type Model struct {
	mode    ConfigMode
	current model.AppConfig
	pending *SavedMsg

	form *huh.Form
	fb   *formBindings

	probe    Probe
	validErr error
	spinner  spinner.Model

	// Status message for transient feedback
	statusMsg string

	keys          *keys.KeyMap
	width, height int
}

// New creates a new settings view model.
func New(k *keys.KeyMap, probe Probe, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		mode:    ModeSummary,
		fb:      &formBindings{},
		probe:   probe,
		keys:    k,
		spinner: sp,
		width:   width,
		height:  height,
	}
}

// Start shows cfg as the current settings.
func (m *Model) Start(cfg model.AppConfig) {
	m.mode = ModeSummary
	m.current = cfg
	m.pending = nil
	m.validErr = nil
	m.statusMsg = ""
}

// Mode returns the current mode.
func (m Model) Mode() ConfigMode {
	return m.mode
}

// Update handles messages and dispatches based on current mode.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ValidateResultMsg:
		if m.mode != ModeValidating {
			return m, nil
		}
		m.validErr = msg.Err
		if msg.Err == nil && m.pending != nil {
			return m.save()
		}
		m.mode = ModeValidateResult
		return m, nil

	case spinner.TickMsg:
		if m.mode == ModeValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m.updateForm(msg)
}

// handleKeyMsg processes key messages based on the current mode.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case ModeSummary:
		return m.handleSummaryKeys(msg)
	case ModeForm:
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeSummary
			m.form = nil
			return m, nil
		}
		return m.updateForm(msg)
	case ModeValidateResult:
		return m.handleValidateResultKeys(msg)
	case ModeValidating:
		// Only allow escape during validation
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeSummary
			m.pending = nil
			return m, nil
		}
		return m, nil
	}
	return m, nil
}

// handleSummaryKeys processes key events on the settings summary.
func (m Model) handleSummaryKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return DoneMsg{} }

	case msg.String() == "e" || msg.String() == "enter":
		return m.startEdit()

	case msg.String() == "t":
		m.pending = nil
		return m.validate(m.current.API.BaseURL, "")
	}
	return m, nil
}

// handleValidateResultKeys processes key events on the validation result screen.
func (m Model) handleValidateResultKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.mode = ModeSummary
		m.pending = nil
		m.validErr = nil
		return m, nil
	case "r":
		if m.validErr == nil {
			return m, nil
		}
		if m.pending != nil {
			return m.validate(m.pending.Config.API.BaseURL, m.pending.Token)
		}
		return m.validate(m.current.API.BaseURL, "")
	case "s":
		if m.pending != nil {
			return m.save()
		}
	}
	return m, nil
}

func (m Model) startEdit() (Model, tea.Cmd) {
	*m.fb = formBindings{
		baseURL:   m.current.API.BaseURL,
		theme:     m.current.Display.Theme,
		filter:    m.current.Display.Filter,
		refresh:   strconv.Itoa(m.current.Display.RefreshIntervalSec),
		exportDir: m.current.Export.Dir,
	}
	m.statusMsg = ""
	m.mode = ModeForm
	m.form = m.buildForm()
	return m, m.form.Init()
}

func (m *Model) buildForm() *huh.Form {
	themes := make([]huh.Option[string], 0, len(theme.Names()))
	for _, name := range theme.Names() {
		themes = append(themes, huh.NewOption(name, name))
	}
	filters := make([]huh.Option[string], 0, len(model.Filters))
	for _, f := range model.Filters {
		filters = append(filters, huh.NewOption(f.Label(), string(f)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("API URL").
				Description("Mail API root (e.g., http://localhost:8000)").
				Value(&m.fb.baseURL).
				Validate(validateURL),
			huh.NewInput().
				Title("API Token").
				Description("Leave empty to keep the stored token").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.token),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Options(themes...).
				Value(&m.fb.theme),
			huh.NewSelect[string]().
				Title("Startup Tab").
				Options(filters...).
				Value(&m.fb.filter),
			huh.NewInput().
				Title("Refresh Interval").
				Description("Seconds between background reloads, 0 to disable").
				Value(&m.fb.refresh).
				Validate(validateInterval),
			huh.NewInput().
				Title("Export Directory").
				Value(&m.fb.exportDir).
				Validate(validateRequired("Export directory")),
		),
	).WithWidth(m.formWidth())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.mode != ModeForm || m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		saved := m.buildSaved()
		m.pending = &saved
		m.form = nil
		return m.validate(saved.Config.API.BaseURL, saved.Token)
	}
	if m.form.State == huh.StateAborted {
		m.mode = ModeSummary
		m.form = nil
		return m, nil
	}

	return m, cmd
}

// buildSaved turns the form fields into a full configuration.
func (m Model) buildSaved() SavedMsg {
	cfg := m.current
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(m.fb.baseURL), "/")
	cfg.Display.Theme = m.fb.theme
	cfg.Display.Filter = m.fb.filter
	cfg.Display.RefreshIntervalSec, _ = strconv.Atoi(strings.TrimSpace(m.fb.refresh))
	cfg.Export.Dir = strings.TrimSpace(m.fb.exportDir)
	return SavedMsg{Config: cfg, Token: strings.TrimSpace(m.fb.token)}
}

func (m Model) validate(baseURL, token string) (Model, tea.Cmd) {
	m.mode = ModeValidating
	m.validErr = nil
	probe := m.probe
	return m, tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			return ValidateResultMsg{Err: probe(context.Background(), baseURL, token)}
		},
	)
}

func (m Model) save() (Model, tea.Cmd) {
	saved := *m.pending
	m.current = saved.Config
	m.pending = nil
	m.validErr = nil
	m.mode = ModeSummary
	m.statusMsg = "Settings saved"
	return m, func() tea.Msg { return saved }
}

// --- View ---

// View renders the settings UI based on the current mode.
func (m Model) View() string {
	switch m.mode {
	case ModeSummary:
		return m.viewSummary()
	case ModeForm:
		return m.viewForm()
	case ModeValidating:
		return m.viewValidating()
	case ModeValidateResult:
		return m.viewValidateResult()
	default:
		return ""
	}
}

func (m Model) viewSummary() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	b.WriteString(titleStyle.Render("Settings"))
	b.WriteString("\n\n")

	filter, err := model.ParseFilter(m.current.Display.Filter)
	if err != nil {
		filter = model.FilterAll
	}
	refresh := "off"
	if n := m.current.Display.RefreshIntervalSec; n > 0 {
		refresh = fmt.Sprintf("every %ds", n)
	}

	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(18)
	rows := []struct{ label, value string }{
		{"API URL", m.current.API.BaseURL},
		{"Theme", m.current.Display.Theme},
		{"Startup tab", filter.Label()},
		{"Refresh", refresh},
		{"Export directory", m.current.Export.Dir},
	}
	for _, r := range rows {
		b.WriteString(labelStyle.Render(r.label))
		b.WriteString(r.value)
		b.WriteString("\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		statusStyle := lipgloss.NewStyle().
			Foreground(theme.ColorYellow).
			Italic(true)
		b.WriteString(statusStyle.Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	hintStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	b.WriteString(hintStyle.Render("e edit | t test connection | esc back"))

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height).
		Render(b.String())
}

func (m Model) viewForm() string {
	if m.form == nil {
		return ""
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height).
		Render(m.form.View())
}

func (m Model) viewValidating() string {
	style := lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height)

	content := fmt.Sprintf(
		"%s Testing connection...\n\nPress esc to cancel.",
		m.spinner.View(),
	)

	return style.Render(content)
}

func (m Model) viewValidateResult() string {
	style := lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height)
	hintStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

	if m.validErr == nil {
		okStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorGreen)
		return style.Render(okStyle.Render("Connection successful") + "\n\n" +
			m.current.API.BaseURL + " is reachable.\n\n" +
			hintStyle.Render("enter/esc back"))
	}

	errStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorRed)
	hint := "r retry | enter/esc back"
	if m.pending != nil {
		hint = "r retry | s save anyway | enter/esc discard"
	}
	return style.Render(errStyle.Render("Connection failed") + "\n\n" +
		m.validErr.Error() + "\n\n" +
		hintStyle.Render(hint))
}

// --- Helpers ---

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth())
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

// --- Validators ---

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("URL is required")
	}
	parsed, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("URL must include scheme and host (e.g., http://localhost:8000)")
	}
	return nil
}

func validateInterval(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("interval is required")
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return fmt.Errorf("interval must be a whole number of seconds")
		}
	}
	return nil
}
