// Package tui реализует терминальный интерфейс клиента блога на bubbletea.
package tui

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maynagashev/gophblog/internal/api"
	"github.com/maynagashev/gophblog/internal/auth"
	"github.com/maynagashev/gophblog/internal/router"
)

const (
	docStyleMarginVertical   = 1
	docStyleMarginHorizontal = 2
)

//nolint:gochecknoglobals // Стили lipgloss неизменяемы
var (
	titleStyle          = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	sectionStyle        = lipgloss.NewStyle().Bold(true).Underline(true)
	errorStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tagStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	actionStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	labelStyle          = lipgloss.NewStyle().Bold(true)
	brandStyle          = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	navLinkStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	greetingStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commentAuthorStyle  = lipgloss.NewStyle().Bold(true)
	selectedMarkerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

//nolint:gochecknoglobals // Стиль lipgloss неизменяем
var excerptStyle = lipgloss.NewStyle().
	Italic(true).
	Foreground(lipgloss.Color("250")).
	PaddingLeft(1).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(lipgloss.Color("63"))

// Options - параметры запуска TUI.
type Options struct {
	Client api.Client
	Auth   *auth.Store
	// Confirmer по умолчанию - модальный диалог.
	Confirmer   Confirmer
	InitialPath string
	DebugMode   bool
}

// newModel создает начальную модель.
func newModel(opts Options) *model {
	m := &model{
		client:      opts.Client,
		auth:        opts.Auth,
		confirmer:   opts.Confirmer,
		initialPath: opts.InitialPath,
		debugMode:   opts.DebugMode,
		spinner:     initSpinner(),
		docStyle:    lipgloss.NewStyle().Margin(docStyleMarginVertical, docStyleMarginHorizontal),
	}
	if m.confirmer == nil {
		m.confirmer = dialogConfirmer{}
	}
	if m.initialPath == "" {
		m.initialPath = router.PathHome
	}
	return m
}

// Init - команда, выполняемая при запуске приложения.
func (m *model) Init() tea.Cmd {
	return tea.Batch(initAuthCmd(m.auth), m.spinner.Tick)
}

// contentSize возвращает размер области под экран без навигации и справки.
func (m *model) contentSize() (int, int) {
	if m.width == 0 || m.height == 0 {
		return defaultListWidth, defaultListHeight
	}
	h, v := m.docStyle.GetFrameSize()
	return max(m.width-h, 1), max(m.height-v-navbarHeight-helpStatusHeight, 1)
}

// resize обновляет размеры компонентов текущего экрана.
// Компоненты других экранов не инициализированы и получат размер при монтировании.
func (m *model) resize() {
	if !m.ready {
		return
	}
	w, h := m.contentSize()
	switch m.route.Name {
	case router.Home:
		m.posts.list.SetSize(w, h)
	case router.PostDetail:
		m.post.viewport.Width = w
		m.post.viewport.Height = h
		m.comments.form.input.SetWidth(w - inputWidthOffset)
		if !m.comments.editing.IsZero() {
			m.comments.editForm.input.SetWidth(w - inputWidthOffset)
		}
	case router.CreatePost, router.EditPost:
		for i := range m.form.inputs {
			m.form.inputs[i].Width = w - inputWidthOffset
		}
		m.form.body.SetWidth(w - inputWidthOffset)
	}
}

// helpText возвращает подсказку для текущего экрана.
func (m *model) helpText() string {
	switch m.route.Name {
	case router.Home:
		return "↑/↓: выбор • enter: открыть • q: выход"
	case router.PostDetail:
		if m.commentsInputActive() {
			return "ctrl+s: отправить • esc: отмена"
		}
		return "↑/↓: комментарии • c: написать • pgup/pgdn: прокрутка • esc: назад • q: выход"
	case router.CreatePost, router.EditPost:
		return "tab/shift+tab: поле • ctrl+s: сохранить • esc: отмена"
	case router.Login, router.Signup:
		return "tab/enter: следующее поле • enter на последнем поле: отправить • esc: назад"
	}
	return ""
}

// getMainContentView возвращает основное содержимое для текущего маршрута.
func (m *model) getMainContentView() string {
	if !m.ready {
		return m.spinner.View() + " Loading..."
	}
	switch m.route.Name {
	case router.Home:
		return m.viewPostListScreen()
	case router.PostDetail:
		return m.viewPostScreen()
	case router.CreatePost, router.EditPost:
		return m.viewPostFormScreen()
	case router.Login:
		return m.viewLoginScreen()
	case router.Signup:
		return m.viewSignupScreen()
	default:
		return "Неизвестный маршрут!"
	}
}

// View отрисовывает пользовательский интерфейс.
func (m *model) View() string {
	var b strings.Builder
	if m.ready {
		b.WriteString(m.renderNavbar())
		b.WriteString("\n\n")
	}
	if m.confirm != nil {
		b.WriteString(m.viewConfirmDialog())
		b.WriteString("\n\n")
	}
	b.WriteString(m.getMainContentView())

	footer := "\n" + mutedStyle.Render(m.helpText())
	if m.debugMode {
		footer += fmt.Sprintf("\n\n---\nОтладка:\n [Route: %s]\n [Authenticated: %t]\n [Last request: %d]\n",
			m.route.Path(), m.auth.IsAuthenticated(), m.seq)
	}
	return m.docStyle.Render(b.String()) + footer
}

// Start запускает TUI приложение и блокируется до его завершения.
func Start(opts Options) error {
	m := newModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("Ошибка при запуске TUI", "error", err)
		return fmt.Errorf("ошибка TUI: %w", err)
	}
	return nil
}
