package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// renderNavbar отображает навигацию в зависимости от состояния сессии.
func (m *model) renderNavbar() string {
	links := []string{brandStyle.Render("BlogApp")}
	if m.auth.IsAuthenticated() {
		links = append(links,
			navLinkStyle.Render("[b] Blog"),
			navLinkStyle.Render("[n] Create Post"),
			greetingStyle.Render("Hello, "+sanitize(m.auth.User().Greeting())),
			navLinkStyle.Render("[o] Logout"),
		)
	} else {
		links = append(links,
			navLinkStyle.Render("[l] Login"),
			navLinkStyle.Render("[s] Sign Up"),
		)
	}
	return strings.Join(links, "  ")
}

// handleNavbarKey обрабатывает клавиши навигации.
// Возвращает false, если клавиша не относится к навигации.
func (m *model) handleNavbarKey(keyMsg tea.KeyMsg) (tea.Cmd, bool) {
	authenticated := m.auth.IsAuthenticated()
	switch keyMsg.String() {
	case keyQuit:
		return tea.Quit, true
	case "b":
		return m.navigate("/"), true
	case "n":
		if authenticated {
			return m.navigate("/create-post"), true
		}
	case "o":
		if authenticated {
			return m.logout(), true
		}
	case "l":
		if !authenticated {
			return m.navigate("/login"), true
		}
	case "s":
		if !authenticated {
			return m.navigate("/signup"), true
		}
	}
	return nil, false
}

// logout завершает сессию. Защищенный экран после выхода
// заменяется переходом на вход.
func (m *model) logout() tea.Cmd {
	m.auth.Logout()
	if m.route.Protected() {
		return m.navigate(m.route.Path())
	}
	// Открытые формы комментариев закрываются вместе с сессией.
	m.comments.formActive = false
	m.comments.form.input.Blur()
	m.cancelEditComment()
	return nil
}
