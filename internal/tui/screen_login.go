package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophblog/internal/router"
	"github.com/maynagashev/gophblog/models"
)

// updateLoginScreen обрабатывает ввод данных для входа.
func (m *model) updateLoginScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	loginAction := func() tea.Cmd {
		req := models.LoginRequest{
			Email:    strings.TrimSpace(m.login.inputs[0].Value()),
			Password: m.login.inputs[1].Value(),
		}
		m.login.err = ""
		m.login.submitting = true
		m.login.req = m.nextRequestID()
		return tea.Batch(m.makeLoginCmd(m.login.req, req), m.spinner.Tick)
	}
	return m.handleCredentialsInput(msg, &m.login, loginAction)
}

// viewLoginScreen отображает экран ввода данных для входа.
func (m *model) viewLoginScreen() string {
	return m.viewCredentialsScreen("Login to your account", m.login)
}

// handleAuthResult обрабатывает итог входа или регистрации.
// Результат применяется, только пока открыт экран, который его запросил.
func (m *model) handleAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	form, screen := &m.login, router.Login
	if msg.signup {
		form, screen = &m.signup, router.Signup
	}
	if m.route.Name != screen || form.req != msg.reqID {
		return m, nil
	}
	form.submitting = false
	if !msg.result.Success {
		form.err = msg.result.Error
		return m, nil
	}
	return m, m.navigate("/")
}

// viewCredentialsScreen отображает форму входа или регистрации.
func (m *model) viewCredentialsScreen(title string, form credentialsForm) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	for _, in := range form.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if form.submitting {
		b.WriteString("\n" + m.spinner.View() + " Please wait...\n")
	}
	if form.err != "" {
		b.WriteString("\n" + errorStyle.Render(form.err) + "\n")
	}
	return b.String()
}
