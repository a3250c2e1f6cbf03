package compose

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailpane/internal/mailfmt"
	"github.com/nhle/mailpane/internal/model"
	"github.com/nhle/mailpane/internal/theme"
)

// SubmitMsg is dispatched when the form completes with a valid draft.
type SubmitMsg struct {
	Draft model.Draft
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	to      string
	name    string
	subject string
	body    string
}

// Model is the Bubble Tea model for the new-message form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates a new compose form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start resets the fields and builds a fresh form.
func (m *Model) Start() tea.Cmd {
	*m.fb = formBindings{}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the compose form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the compose form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("New Message") + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth()).WithHeight(m.formHeight())
	}
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("To").
				Placeholder("jane.doe@business.com").
				Value(&m.fb.to).
				Validate(validateAddress),
			huh.NewInput().
				Title("Name").
				Placeholder("Optional, defaults to the address").
				Value(&m.fb.name),
			huh.NewInput().
				Title("Subject").
				Value(&m.fb.subject).
				Validate(validateRequired("Subject")),
			huh.NewText().
				Title("Body").
				Lines(8).
				Value(&m.fb.body).
				Validate(validateRequired("Body")),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	draft, err := BuildDraft(m.fb.to, m.fb.name, m.fb.subject, m.fb.body)
	if err != nil {
		return func() tea.Msg { return CancelMsg{} }
	}
	return func() tea.Msg { return SubmitMsg{Draft: draft} }
}

// BuildDraft validates the form values and assembles a draft. An empty
// name falls back to the display name in the address, then its local part.
func BuildDraft(to, name, subject, body string) (model.Draft, error) {
	recipient, err := mailfmt.ParseAddress(to)
	if err != nil {
		return model.Draft{}, err
	}
	if n := strings.TrimSpace(name); n != "" {
		recipient.Name = n
	}
	if err := validateRequired("Subject")(subject); err != nil {
		return model.Draft{}, err
	}
	if err := validateRequired("Body")(body); err != nil {
		return model.Draft{}, err
	}

	return model.Draft{
		Recipient: recipient,
		Subject:   strings.TrimSpace(subject),
		Body:      body,
	}, nil
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

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateAddress(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("To is required")
	}
	if _, err := mailfmt.ParseAddress(s); err != nil {
		return fmt.Errorf("not a valid email address")
	}
	return nil
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
