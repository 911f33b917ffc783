package tui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophblog/internal/router"
)

// Update обрабатывает входящие сообщения.
//
//nolint:gocyclo // Роутинг сообщений
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	// == Глобальные сообщения (не зависят от экрана) ==
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case authReadyMsg:
		m.ready = true
		slog.Info("Сессия проверена", "authenticated", m.auth.IsAuthenticated())
		return m, m.navigate(m.initialPath)

	case authResultMsg:
		return m.handleAuthResult(msg)

	case confirmRequestMsg:
		m.confirm = &confirmDialog{prompt: msg.prompt, onConfirm: msg.onConfirm}
		return m, nil

	case postsLoadedMsg:
		return m.handlePostsLoaded(msg)
	case postLoadedMsg:
		return m.handlePostLoaded(msg)
	case postSavedMsg:
		return m.handlePostSaved(msg)
	case postDeleteConfirmedMsg:
		return m.handlePostDeleteConfirmed(msg)
	case postDeletedMsg:
		return m.handlePostDeleted(msg)

	case commentsLoadedMsg:
		return m.handleCommentsLoaded(msg)
	case commentAddedMsg:
		return m.handleCommentAdded(msg)
	case commentUpdatedMsg:
		return m.handleCommentUpdated(msg)
	case commentDeleteConfirmedMsg:
		return m.handleCommentDeleteConfirmed(msg)
	case commentDeletedMsg:
		return m.handleCommentDeleted(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if !m.ready {
			return m, nil
		}
		if m.confirm != nil {
			return m.updateConfirmDialog(msg)
		}
		// Клавиши навигации не действуют, пока идет ввод текста.
		if !m.inputActive() {
			if cmd, handled := m.handleNavbarKey(msg); handled {
				return m, cmd
			}
		}
	}

	if !m.ready {
		return m, nil
	}

	// == Обновление текущего экрана ==
	switch m.route.Name {
	case router.Home:
		return m.updatePostListScreen(msg)
	case router.PostDetail:
		return m.updatePostScreen(msg)
	case router.CreatePost, router.EditPost:
		return m.updatePostFormScreen(msg)
	case router.Login:
		return m.updateLoginScreen(msg)
	case router.Signup:
		return m.updateSignupScreen(msg)
	}
	return m, nil
}

// navigate переходит по пути. Защищенные маршруты без входа
// перенаправляются на экран входа. Экран монтируется заново,
// поэтому ответы на запросы прежнего экрана отбрасываются.
func (m *model) navigate(path string) tea.Cmd {
	requested := router.Parse(path)
	route := router.Guard(requested, m.auth.IsAuthenticated())
	if route != requested {
		slog.Info("Переход на защищенный маршрут без входа", "path", requested.Path(), "redirect", route.Path())
	}
	m.route = route
	m.confirm = nil
	slog.Debug("Навигация", "route", route.String())

	switch route.Name {
	case router.Home:
		return m.mountPostList()
	case router.PostDetail:
		return m.mountPostView(route.PostID)
	case router.CreatePost:
		return m.mountPostForm("")
	case router.EditPost:
		return m.mountPostForm(route.PostID)
	case router.Login:
		m.login = initCredentialsForm(loginFields)
	case router.Signup:
		m.signup = initCredentialsForm(signupFields)
	}
	return nil
}

// inputActive сообщает, что фокус находится в поле ввода текста.
func (m *model) inputActive() bool {
	switch m.route.Name {
	case router.Login, router.Signup, router.CreatePost, router.EditPost:
		return true
	case router.PostDetail:
		return m.commentsInputActive()
	}
	return false
}

// busy сообщает, что на экране есть незавершенная операция.
func (m *model) busy() bool {
	if !m.ready {
		return true
	}
	switch m.route.Name {
	case router.Home:
		return m.posts.loading
	case router.PostDetail:
		return m.post.loading || m.post.deleting || m.comments.loading
	case router.CreatePost, router.EditPost:
		return m.form.loading || m.form.saving
	case router.Login:
		return m.login.submitting
	case router.Signup:
		return m.signup.submitting
	}
	return false
}
