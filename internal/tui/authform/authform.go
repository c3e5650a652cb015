// ABOUTME: Login and sign-up form as a bubbletea model
// ABOUTME: Wraps huh forms, toggles between modes, and reports submissions to the app

package authform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/lostfound/lostfound/internal/client"
	"github.com/lostfound/lostfound/internal/tui/icons"
	"github.com/lostfound/lostfound/internal/tui/styles"
)

// Mode selects between signing in and creating an account
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

// String returns the string representation of a Mode
func (m Mode) String() string {
	switch m {
	case ModeLogin:
		return "login"
	case ModeSignup:
		return "signup"
	default:
		return "unknown"
	}
}

// Fields holds the values collected by the form
type Fields struct {
	Username string
	Password string
	Role     client.Role
}

// SubmitMsg is sent when the user completes the form
type SubmitMsg struct {
	Mode   Mode
	Fields Fields
}

// CancelledMsg is sent when the user leaves the form with esc
type CancelledMsg struct{}

// ToggleKey switches between login and sign-up
const ToggleKey = "ctrl+t"

var roleLabels = map[client.Role]string{
	client.RoleUser:  "User",
	client.RoleAdmin: "Admin",
	client.RoleStaff: "Staff",
}

// Form is the login surface's form
type Form struct {
	mode      Mode
	form      *huh.Form
	fields    Fields
	errText   string
	notice    string
	submitted bool
	width     int
}

// New creates an empty form in mode
func New(mode Mode) *Form {
	f := &Form{mode: mode, fields: Fields{Role: client.RoleUser}}
	f.form = f.build()
	return f
}

func (f *Form) build() *huh.Form {
	form := f.buildFields()
	if f.width > 0 {
		form = form.WithWidth(f.width)
	}
	return form
}

func (f *Form) buildFields() *huh.Form {
	username := huh.NewInput().
		Title("Username").
		Placeholder("alice").
		CharLimit(64).
		Value(&f.fields.Username).
		Validate(huh.ValidateNotEmpty())
	password := huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(&f.fields.Password).
		Validate(huh.ValidateNotEmpty())

	if f.mode == ModeSignup {
		var roles []huh.Option[client.Role]
		for _, r := range client.Roles {
			roles = append(roles, huh.NewOption(roleLabels[r], r))
		}
		return huh.NewForm(
			huh.NewGroup(
				username,
				password,
				huh.NewSelect[client.Role]().
					Title("Role").
					Options(roles...).
					Value(&f.fields.Role),
			).Title("Create account").
				Description("Choose a username, password, and role"),
		).WithTheme(styles.FormTheme())
	}

	return huh.NewForm(
		huh.NewGroup(
			username,
			password,
		).Title("Sign in").
			Description("Enter your Lost & Found credentials"),
	).WithTheme(styles.FormTheme())
}

// Mode returns the current mode
func (f *Form) Mode() Mode {
	return f.mode
}

// Submitted reports whether a submission is waiting for its result
func (f *Form) Submitted() bool {
	return f.submitted
}

// Err returns the inline error text, if any
func (f *Form) Err() string {
	return f.errText
}

// Notice returns the informational message, if any
func (f *Form) Notice() string {
	return f.notice
}

// Toggle flips between login and sign-up, clearing the form
func (f *Form) Toggle() tea.Cmd {
	next := ModeSignup
	if f.mode == ModeSignup {
		next = ModeLogin
	}
	return f.Reset(next, "")
}

// Reset clears every field and message and switches to mode. notice, when
// set, is shown above the form.
func (f *Form) Reset(mode Mode, notice string) tea.Cmd {
	f.mode = mode
	f.fields = Fields{Role: client.RoleUser}
	f.errText = ""
	f.notice = notice
	f.submitted = false
	f.form = f.build()
	return f.form.Init()
}

// Fail shows errText inline and lets the user try again with the same username
func (f *Form) Fail(errText string) tea.Cmd {
	f.fields.Password = ""
	f.errText = errText
	f.notice = ""
	f.submitted = false
	f.form = f.build()
	return f.form.Init()
}

// SetWidth sets the form width for rendering
func (f *Form) SetWidth(width int) {
	f.width = width
	if width > 0 {
		f.form = f.form.WithWidth(width)
	}
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return f, func() tea.Msg { return CancelledMsg{} }
		case ToggleKey:
			if f.submitted {
				return f, nil
			}
			return f, f.Toggle()
		}
	}

	if f.submitted {
		return f, nil
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted {
		f.submitted = true
		submit := SubmitMsg{Mode: f.mode, Fields: f.fields}
		submit.Fields.Username = strings.TrimSpace(submit.Fields.Username)
		return f, func() tea.Msg { return submit }
	}

	return f, cmd
}

// View implements tea.Model
func (f *Form) View() string {
	var sb strings.Builder

	sb.WriteString(f.renderModes())
	sb.WriteString("\n\n")

	if f.notice != "" {
		sb.WriteString(styles.StatusOK.Render(icons.CheckOK.String() + " " + f.notice))
		sb.WriteString("\n\n")
	}
	if f.errText != "" {
		sb.WriteString(styles.StatusCritical.Render(icons.Critical.String() + " " + f.errText))
		sb.WriteString("\n\n")
	}

	if f.submitted {
		verb := "Signing in"
		if f.mode == ModeSignup {
			verb = "Creating account"
		}
		sb.WriteString(styles.Dim.Render(fmt.Sprintf("%s as %s...", verb, f.fields.Username)))
		return sb.String()
	}

	sb.WriteString(f.form.View())
	sb.WriteString("\n")
	toggle := "Need an account? " + styles.KeyStyle.Render(ToggleKey) + " to sign up"
	if f.mode == ModeSignup {
		toggle = "Already registered? " + styles.KeyStyle.Render(ToggleKey) + " to sign in"
	}
	sb.WriteString(styles.Help.Render(toggle))

	return sb.String()
}

// renderModes renders the login/sign-up indicator
func (f *Form) renderModes() string {
	names := []string{"Login", "Sign Up"}
	var parts []string
	for i, name := range names {
		if Mode(i) == f.mode {
			parts = append(parts, lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("● "+name))
		} else {
			parts = append(parts, lipgloss.NewStyle().Foreground(styles.Muted).Render("○ "+name))
		}
	}
	return strings.Join(parts, "    ")
}

// Prompt runs a standalone form asking only for the fields still empty in
// fields. Used by the CLI when flags are missing.
func Prompt(mode Mode, fields *Fields) error {
	var inputs []huh.Field
	if fields.Username == "" {
		inputs = append(inputs, huh.NewInput().
			Title("Username").
			Value(&fields.Username).
			Validate(huh.ValidateNotEmpty()))
	}
	if fields.Password == "" {
		inputs = append(inputs, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&fields.Password).
			Validate(huh.ValidateNotEmpty()))
	}
	if mode == ModeSignup && !fields.Role.Valid() {
		var roles []huh.Option[client.Role]
		for _, r := range client.Roles {
			roles = append(roles, huh.NewOption(roleLabels[r], r))
		}
		fields.Role = client.RoleUser
		inputs = append(inputs, huh.NewSelect[client.Role]().
			Title("Role").
			Options(roles...).
			Value(&fields.Role))
	}
	if len(inputs) == 0 {
		return nil
	}

	form := huh.NewForm(huh.NewGroup(inputs...)).WithTheme(styles.FormTheme())
	if err := form.Run(); err != nil {
		return err
	}
	fields.Username = strings.TrimSpace(fields.Username)
	return nil
}
