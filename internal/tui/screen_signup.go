package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophblog/models"
)

// updateSignupScreen обрабатывает ввод данных для регистрации.
func (m *model) updateSignupScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	signupAction := func() tea.Cmd {
		value := func(i int) string { return strings.TrimSpace(m.signup.inputs[i].Value()) }
		req := models.SignupRequest{
			FirstName: value(signupFirstName),
			LastName:  value(signupLastName),
			Username:  value(signupUsername),
			Email:     value(signupEmail),
			Password:  m.signup.inputs[signupPassword].Value(),
		}
		m.signup.err = ""
		m.signup.submitting = true
		m.signup.req = m.nextRequestID()
		return tea.Batch(m.makeSignupCmd(m.signup.req, req), m.spinner.Tick)
	}
	return m.handleCredentialsInput(msg, &m.signup, signupAction)
}

// viewSignupScreen отображает экран регистрации.
func (m *model) viewSignupScreen() string {
	return m.viewCredentialsScreen("Create an account", m.signup)
}
