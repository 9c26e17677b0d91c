// Package authform is the sign-in screen shown while no session exists.
// It collects credentials with a huh form and emits messages; the root
// model performs the actual backend calls and reports back via SetError
// or SetInfo.
package authform

import (
	"fmt"
	"net/mail"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/temperhq/taskcal/internal/theme"
)

// Action values selectable in the credentials form.
const (
	actionSignIn = "sign-in"
	actionSignUp = "sign-up"
	actionOAuth  = "oauth"
)

// SignInMsg asks the root model to sign in with email and password.
type SignInMsg struct {
	Email    string
	Password string
}

// SignUpMsg asks the root model to create an account.
type SignUpMsg struct {
	Email    string
	Password string
}

// OAuthStartMsg asks the root model to begin the browser OAuth flow.
type OAuthStartMsg struct{}

// OAuthCodeMsg carries the pasted callback code.
type OAuthCodeMsg struct {
	Code string
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	email    string
	password string
	action   string
	code     string
}

// Model is the Bubble Tea model for the auth screen.
type Model struct {
	form      *huh.Form
	fb        *formBindings
	oauthMode bool
	oauthURL  string
	errMsg    string
	infoMsg   string
	width     int
	height    int
}

// New creates the auth screen model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{action: actionSignIn},
		width:  width,
		height: height,
	}
}

// Start initializes the credentials form.
func (m *Model) Start() tea.Cmd {
	m.oauthMode = false
	m.fb.password = ""
	m.fb.code = ""
	m.form = m.buildCredentialsForm()
	return m.form.Init()
}

// StartOAuth switches to the callback-code entry step, showing the URL
// the user must open in a browser.
func (m *Model) StartOAuth(url string) tea.Cmd {
	m.oauthMode = true
	m.oauthURL = url
	m.fb.code = ""
	m.form = m.buildCodeForm()
	return m.form.Init()
}

// SetError shows an error banner and restarts the form so the user can
// try again.
func (m *Model) SetError(msg string) tea.Cmd {
	m.errMsg = msg
	m.infoMsg = ""
	return m.Start()
}

// SetInfo shows an informational banner, e.g. after a sign-up that needs
// email confirmation.
func (m *Model) SetInfo(msg string) tea.Cmd {
	m.infoMsg = msg
	m.errMsg = ""
	return m.Start()
}

// Update handles messages for the auth screen.
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
	if m.form.State == huh.StateAborted && m.oauthMode {
		// back out of the oauth step to the credentials form
		return m, m.Start()
	}

	return m, cmd
}

func (m *Model) handleSubmit() tea.Cmd {
	if m.oauthMode {
		code := strings.TrimSpace(m.fb.code)
		return func() tea.Msg { return OAuthCodeMsg{Code: code} }
	}

	email := strings.TrimSpace(m.fb.email)
	password := m.fb.password

	switch m.fb.action {
	case actionSignUp:
		return func() tea.Msg { return SignUpMsg{Email: email, Password: password} }
	case actionOAuth:
		return func() tea.Msg { return OAuthStartMsg{} }
	default:
		return func() tea.Msg { return SignInMsg{Email: email, Password: password} }
	}
}

// View renders the auth screen.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render("taskcal"))
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString(theme.ErrorStyle.Render(m.errMsg))
		b.WriteString("\n\n")
	} else if m.infoMsg != "" {
		b.WriteString(theme.HelpStyle.Render(m.infoMsg))
		b.WriteString("\n\n")
	}

	if m.oauthMode {
		b.WriteString("Open this URL in a browser and paste the code from the redirect:\n\n")
		b.WriteString(theme.HelpStyle.Render(m.oauthURL))
		b.WriteString("\n\n")
	}

	b.WriteString(m.form.View())

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(b.String())
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildCredentialsForm() *huh.Form {
	fb := m.fb

	// Email and password are not required for the browser OAuth flow.
	emailValidate := func(s string) error {
		if fb.action == actionOAuth {
			return nil
		}
		return validateEmail(s)
	}
	passwordValidate := func(s string) error {
		if fb.action == actionOAuth {
			return nil
		}
		return validatePassword(s)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Action").
				Options(
					huh.NewOption("Sign in", actionSignIn),
					huh.NewOption("Create account", actionSignUp),
					huh.NewOption("Sign in with Google", actionOAuth),
				).
				Value(&fb.action),
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&fb.email).
				Validate(emailValidate),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&fb.password).
				Validate(passwordValidate),
		),
	).WithWidth(m.formWidth())
}

func (m *Model) buildCodeForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Callback code").
				Value(&m.fb.code).
				Validate(validateRequired("Code")),
		),
	).WithWidth(m.formWidth())
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

func validateEmail(s string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

func validatePassword(s string) error {
	if len(s) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
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
