package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// Константы, используемые при инициализации.
const (
	initPasswordCharLimit = 128
	initFieldCharLimit    = 256
	initFieldWidth        = 40
	initTitleCharLimit    = 200
	initExcerptCharLimit  = 500
	initCommentCharLimit  = 2000
	initBodyCharLimit     = 0 // Без ограничения
)

// credentialField описывает поле экрана входа или регистрации.
type credentialField struct {
	placeholder string
	secret      bool
}

//nolint:gochecknoglobals // Неизменяемые описания полей
var (
	loginFields = []credentialField{
		{placeholder: "Email"},
		{placeholder: "Password", secret: true},
	}
	signupFields = []credentialField{
		{placeholder: "First name"},
		{placeholder: "Last name"},
		{placeholder: "Username"},
		{placeholder: "Email"},
		{placeholder: "Password", secret: true},
	}
)

// Индексы полей регистрации.
const (
	signupFirstName = iota
	signupLastName
	signupUsername
	signupEmail
	signupPassword
)

// initCredentialsForm создает форму с фокусом на первом поле.
func initCredentialsForm(fields []credentialField) credentialsForm {
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Placeholder = f.placeholder
		ti.CharLimit = initFieldCharLimit
		ti.Width = initFieldWidth
		if f.secret {
			ti.CharLimit = initPasswordCharLimit
			ti.EchoMode = textinput.EchoPassword
		}
		inputs[i] = ti
	}
	if len(inputs) > 0 {
		inputs[0].Focus()
	}
	return credentialsForm{inputs: inputs}
}

// initPostList инициализирует компонент списка постов.
func initPostList(width, height int) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.
		Foreground(lipgloss.Color("252"))
	delegate.Styles.NormalDesc = delegate.Styles.NormalDesc.
		Foreground(lipgloss.Color("245"))
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("212")).
		BorderLeftForeground(lipgloss.Color("212"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("240")).
		BorderLeftForeground(lipgloss.Color("212"))

	l := list.New([]list.Item{}, delegate, width, height)
	l.Title = "Blog Posts"
	l.SetShowHelp(false) // Мы выводим свою справку
	l.SetShowStatusBar(true)
	// Порядок и состав списка определяет API.
	l.SetFilteringEnabled(false)
	l.Styles.Title = list.DefaultStyles().Title.Bold(true)
	return l
}

// initCommentInput инициализирует поле ввода комментария.
func initCommentInput(placeholder string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.CharLimit = initCommentCharLimit
	ta.ShowLineNumbers = false
	ta.SetWidth(defaultListWidth - inputWidthOffset)
	ta.SetHeight(commentInputHeight)
	return ta
}

// initPostForm создает форму поста с фокусом на заголовке.
func initPostForm() postFormState {
	var f postFormState
	placeholders := [postFieldBody]string{"Title", "Excerpt (optional)", "Tags, comma separated"}
	limits := [postFieldBody]int{initTitleCharLimit, initExcerptCharLimit, initFieldCharLimit}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.Width = defaultListWidth - inputWidthOffset
		f.inputs[i] = ti
	}
	f.body = textarea.New()
	f.body.Placeholder = "Write your post..."
	f.body.CharLimit = initBodyCharLimit
	f.body.SetWidth(defaultListWidth - inputWidthOffset)
	f.body.SetHeight(postBodyInputHeight)
	f.inputs[postFieldTitle].Focus()
	return f
}

// initSpinner инициализирует индикатор загрузки.
func initSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return s
}

// initPostViewport инициализирует область прокрутки поста.
func initPostViewport(width, height int) viewport.Model {
	return viewport.New(width, height)
}
