package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maynagashev/gophblog/internal/api"
	"github.com/maynagashev/gophblog/internal/auth"
	"github.com/maynagashev/gophblog/internal/router"
	"github.com/maynagashev/gophblog/internal/snapshot"
	"github.com/maynagashev/gophblog/models"
)

// Константы для TUI.
const (
	defaultListWidth    = 80 // Стандартная ширина терминала для списка
	defaultListHeight   = 24 // Стандартная высота терминала для списка
	inputWidthOffset    = 4  // Отступ для полей ввода
	navbarHeight        = 2  // Навигация и разделитель
	helpStatusHeight    = 2  // Строка помощи и статус
	commentInputHeight  = 4
	postBodyInputHeight = 10

	keyEnter    = "enter"
	keyEsc      = "esc"
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keyUp       = "up"
	keyDown     = "down"
	keySubmit   = "ctrl+s"
	keyQuit     = "q"
)

// itemPhase - состояние отдельного комментария в списке.
type itemPhase int

const (
	itemViewing  itemPhase = iota // Обычный просмотр
	itemEditing                   // Открыта форма редактирования
	itemDeleting                  // Удаление отправлено на сервер
)

// postItem представляет пост в списке.
// Реализует интерфейс list.Item.
type postItem struct {
	post models.Post
}

func (i postItem) Title() string {
	title := sanitize(i.post.Title)
	if title == "" {
		title = "(untitled)"
	}
	return title
}

func (i postItem) Description() string {
	desc := sanitize(i.post.Summary())
	meta := "By " + sanitize(i.post.Author.DisplayName())
	if !i.post.CreatedAt.IsZero() {
		meta += ", " + relativeTime(i.post.CreatedAt)
	}
	if desc == "" {
		return meta
	}
	return meta + " | " + desc
}

func (i postItem) FilterValue() string { return i.post.Title }

// postListState - состояние экрана списка постов.
type postListState struct {
	loadReq uint64
	loading bool
	err     string
	posts   *snapshot.Snapshot[models.Post]
	list    list.Model
}

// postViewState - состояние экрана одного поста.
type postViewState struct {
	id        models.ID
	viewID    uint64 // Идентификатор монтирования для подтверждений
	loadReq   uint64
	deleteReq uint64
	loading   bool
	deleting  bool
	err       string
	post      *models.Post
	viewport  viewport.Model
}

// commentForm - форма добавления или редактирования комментария.
type commentForm struct {
	input      textarea.Model
	req        uint64
	submitting bool
	err        string
}

// commentsState - состояние блока комментариев поста.
type commentsState struct {
	postID     models.ID
	viewID     uint64
	loadReq    uint64
	loading    bool
	err        string // Общий баннер ошибок блока
	items      *snapshot.Snapshot[models.Comment]
	phases     map[models.ID]itemPhase
	deleteReqs map[models.ID]uint64
	selected   int
	form       commentForm // Новый комментарий
	formActive bool
	editing    models.ID   // Комментарий в режиме редактирования
	editForm   commentForm // Форма редактирования
}

// Поля формы поста.
const (
	postFieldTitle = iota
	postFieldExcerpt
	postFieldTags
	postFieldBody
	numPostFields
)

// postFormState - состояние формы создания и редактирования поста.
type postFormState struct {
	editID    models.ID // Пустой при создании
	loadReq   uint64
	saveReq   uint64
	loading   bool
	saving    bool
	forbidden bool
	err       string
	inputs    [postFieldBody]textinput.Model
	body      textarea.Model
	focused   int
}

// credentialsForm - состояние экранов входа и регистрации.
type credentialsForm struct {
	inputs     []textinput.Model
	focused    int
	req        uint64
	submitting bool
	err        string
}

// confirmDialog - модальный запрос подтверждения.
type confirmDialog struct {
	prompt    string
	onConfirm tea.Msg
}

// model представляет состояние TUI приложения.
type model struct {
	client    api.Client
	auth      *auth.Store
	confirmer Confirmer

	route       router.Route
	initialPath string
	ready       bool   // Сессия восстановлена, можно показывать экраны
	seq         uint64 // Последний выданный идентификатор запроса
	width       int
	height      int
	debugMode   bool

	spinner  spinner.Model
	docStyle lipgloss.Style

	posts    postListState
	post     postViewState
	comments commentsState
	form     postFormState
	login    credentialsForm
	signup   credentialsForm
	confirm  *confirmDialog
}

// nextRequestID выдает идентификатор для нового запроса.
// Экраны принимают только ответ на последний выданный ими запрос.
func (m *model) nextRequestID() uint64 {
	m.seq++
	return m.seq
}
