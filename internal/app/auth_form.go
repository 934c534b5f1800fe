package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type authFormMode int

const (
	authFormLogin authFormMode = iota
	authFormSignup
)

const (
	minUsernameLen = 3
	minPasswordLen = 8
)

// AuthForm collects login or signup fields before any network call is made.
type AuthForm struct {
	mode     authFormMode
	email    textinput.Model
	username textinput.Model
	password textinput.Model
	focus    int
	errText  string
	notice   string
}

func NewAuthForm() *AuthForm {
	email := textinput.New()
	email.Placeholder = "email"
	email.Prompt = "> "
	email.CharLimit = 120
	email.Focus()

	username := textinput.New()
	username.Placeholder = "username"
	username.Prompt = "> "
	username.CharLimit = 60

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "> "
	password.CharLimit = 120
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	return &AuthForm{
		mode:     authFormLogin,
		email:    email,
		username: username,
		password: password,
	}
}

func (f *AuthForm) Mode() authFormMode {
	return f.mode
}

func (f *AuthForm) ToggleMode() {
	if f.mode == authFormLogin {
		f.mode = authFormSignup
	} else {
		f.mode = authFormLogin
	}
	f.errText = ""
	f.notice = ""
	f.setFocus(0)
}

// SwitchToLogin returns the form to the login mode after a signup, keeping
// the email so the user only has to retype the password. The account exists
// but no session does until they sign in themselves.
func (f *AuthForm) SwitchToLogin(notice string) {
	f.mode = authFormLogin
	f.username.Reset()
	f.password.Reset()
	f.errText = ""
	f.notice = notice
	f.setFocus(0)
}

func (f *AuthForm) SetError(text string) {
	f.errText = text
	f.notice = ""
}

func (f *AuthForm) Error() string {
	return f.errText
}

func (f *AuthForm) Notice() string {
	return f.notice
}

// Reset clears every field and returns the form to the login mode.
func (f *AuthForm) Reset() {
	f.mode = authFormLogin
	f.email.Reset()
	f.username.Reset()
	f.password.Reset()
	f.errText = ""
	f.notice = ""
	f.setFocus(0)
}

func (f *AuthForm) Values() (email, username, password string) {
	return strings.TrimSpace(f.email.Value()),
		strings.TrimSpace(f.username.Value()),
		f.password.Value()
}

func (f *AuthForm) fieldCount() int {
	if f.mode == authFormSignup {
		return 3
	}
	return 2
}

func (f *AuthForm) setFocus(index int) {
	count := f.fieldCount()
	if index < 0 {
		index = count - 1
	}
	if index >= count {
		index = 0
	}
	f.focus = index
	inputs := f.visibleInputs()
	for i, input := range inputs {
		if i == index {
			input.Focus()
		} else {
			input.Blur()
		}
	}
}

func (f *AuthForm) visibleInputs() []*textinput.Model {
	if f.mode == authFormSignup {
		return []*textinput.Model{&f.email, &f.username, &f.password}
	}
	return []*textinput.Model{&f.email, &f.password}
}

// HandleKey consumes a key press. The submitted flag is true when the form
// passed local validation and the caller should issue the network request.
func (f *AuthForm) HandleKey(msg tea.KeyMsg) (cmd tea.Cmd, submitted bool) {
	switch msg.String() {
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return nil, false
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return nil, false
	case "enter":
		if f.focus < f.fieldCount()-1 {
			f.setFocus(f.focus + 1)
			return nil, false
		}
		if err := f.validate(); err != "" {
			f.errText = err
			return nil, false
		}
		f.errText = ""
		return nil, true
	}
	inputs := f.visibleInputs()
	var c tea.Cmd
	*inputs[f.focus], c = inputs[f.focus].Update(msg)
	return c, false
}

func (f *AuthForm) validate() string {
	email, username, password := f.Values()
	if email == "" || !strings.Contains(email, "@") {
		return "enter a valid email address"
	}
	if f.mode == authFormSignup && len(username) < minUsernameLen {
		return "username must be at least 3 characters"
	}
	if password == "" {
		return "enter a password"
	}
	if f.mode == authFormSignup && len(password) < minPasswordLen {
		return "password must be at least 8 characters"
	}
	return ""
}

func (f *AuthForm) View(width int) string {
	var b strings.Builder
	if f.mode == authFormSignup {
		b.WriteString(formTitleStyle.Render("Create account"))
	} else {
		b.WriteString(formTitleStyle.Render("Sign in"))
	}
	b.WriteString("\n\n")
	b.WriteString(f.email.View())
	b.WriteString("\n")
	if f.mode == authFormSignup {
		b.WriteString(f.username.View())
		b.WriteString("\n")
	}
	b.WriteString(f.password.View())
	b.WriteString("\n")
	if f.errText != "" {
		b.WriteString("\n")
		b.WriteString(errorTextStyle.Render(truncateToWidth(f.errText, width)))
	} else if f.notice != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(truncateToWidth(f.notice, width)))
	}
	b.WriteString("\n\n")
	if f.mode == authFormSignup {
		b.WriteString(hintStyle.Render("enter submit · ctrl+s switch to sign in"))
	} else {
		b.WriteString(hintStyle.Render("enter submit · ctrl+s switch to sign up"))
	}
	return b.String()
}
