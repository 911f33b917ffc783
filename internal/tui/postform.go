package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophblog/internal/router"
	"github.com/maynagashev/gophblog/models"
)

// Сообщения формы поста.
const (
	MsgPostFieldsRequired = "Title and body are required"
	MsgNotPostAuthor      = "You can only edit your own posts"
	MsgCreatePostFailed   = "Failed to create post"
	MsgUpdatePostFailed   = "Failed to update post"
)

// mountPostForm сбрасывает форму. Для редактирования сначала загружается пост.
func (m *model) mountPostForm(editID models.ID) tea.Cmd {
	m.form = initPostForm()
	m.form.editID = editID
	if editID.IsZero() {
		return textinput.Blink
	}
	m.form.loading = true
	m.form.loadReq = m.nextRequestID()
	return tea.Batch(m.makeFetchPostCmd(m.form.loadReq, editID), m.spinner.Tick)
}

// applyEditPost заполняет форму загруженным постом.
func (m *model) applyEditPost(msg postLoadedMsg) {
	m.form.loading = false
	if msg.err != nil || msg.post == nil {
		m.form.err = MsgPostLoadFailed
		return
	}
	if !m.auth.IsAuthor(msg.post.Author) {
		m.form.forbidden = true
		m.form.err = MsgNotPostAuthor
		return
	}
	p := msg.post
	m.form.inputs[postFieldTitle].SetValue(p.Title)
	m.form.inputs[postFieldExcerpt].SetValue(p.Excerpt)
	m.form.inputs[postFieldTags].SetValue(strings.Join(p.Tags, ", "))
	m.form.body.SetValue(p.Body)
}

// postFormFields возвращает поля формы в порядке обхода.
func (m *model) postFormFields() []focusable {
	fields := make([]focusable, 0, numPostFields)
	for i := range m.form.inputs {
		fields = append(fields, &m.form.inputs[i])
	}
	return append(fields, &m.form.body)
}

// postFormInput собирает данные формы.
func (m *model) postFormInput() models.PostInput {
	return models.PostInput{
		Title:   strings.TrimSpace(m.form.inputs[postFieldTitle].Value()),
		Excerpt: strings.TrimSpace(m.form.inputs[postFieldExcerpt].Value()),
		Tags:    models.ParseTags(m.form.inputs[postFieldTags].Value()),
		Body:    strings.TrimSpace(m.form.body.Value()),
	}
}

// submitPostForm проверяет форму и отправляет пост.
func (m *model) submitPostForm() tea.Cmd {
	if m.form.saving || m.form.loading || m.form.forbidden {
		return nil
	}
	in := m.postFormInput()
	if in.Title == "" || in.Body == "" {
		m.form.err = MsgPostFieldsRequired
		return nil
	}
	m.form.err = ""
	m.form.saving = true
	m.form.saveReq = m.nextRequestID()
	return tea.Batch(m.makeSavePostCmd(m.form.saveReq, m.form.editID, in), m.spinner.Tick)
}

// handlePostSaved открывает сохраненный пост или показывает ошибку.
func (m *model) handlePostSaved(msg postSavedMsg) (tea.Model, tea.Cmd) {
	onForm := m.route.Name == router.CreatePost || m.route.Name == router.EditPost
	if !onForm || msg.reqID != m.form.saveReq {
		return m, nil
	}
	m.form.saving = false
	if msg.err != nil || msg.post == nil {
		// Введенные данные сохраняются в форме.
		m.form.err = MsgCreatePostFailed
		if !m.form.editID.IsZero() {
			m.form.err = MsgUpdatePostFailed
		}
		return m, nil
	}
	id := msg.post.ID
	if id.IsZero() {
		id = m.form.editID
	}
	if id.IsZero() {
		return m, m.navigate("/")
	}
	return m, m.navigate(router.PostPath(id))
}

// cancelPostForm возвращает к посту при редактировании или к списку.
func (m *model) cancelPostForm() tea.Cmd {
	if m.form.editID.IsZero() {
		return m.navigate("/")
	}
	return m.navigate(router.PostPath(m.form.editID))
}

// updatePostFormScreen обрабатывает ввод в форме поста.
func (m *model) updatePostFormScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	fields := m.postFormFields()
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc:
			return m, m.cancelPostForm()
		case keySubmit:
			return m, m.submitPostForm()
		}
		if m.form.saving || m.form.loading || m.form.forbidden {
			return m, nil
		}
		// Enter в тексте поста - перевод строки.
		if !(keyMsg.String() == keyEnter && m.form.focused == postFieldBody) {
			if cmd, handled := handleFieldsKeys(keyMsg, fields, &m.form.focused, m.submitPostForm); handled {
				return m, cmd
			}
		}
	}
	if m.form.saving || m.form.loading || m.form.forbidden {
		return m, nil
	}

	var cmd tea.Cmd
	if m.form.focused == postFieldBody {
		m.form.body, cmd = m.form.body.Update(msg)
	} else {
		m.form.inputs[m.form.focused], cmd = m.form.inputs[m.form.focused].Update(msg)
	}
	return m, cmd
}

// viewPostFormScreen отображает форму поста.
func (m *model) viewPostFormScreen() string {
	title := "Create New Post"
	if !m.form.editID.IsZero() {
		title = "Edit Post"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(title) + "\n\n")
	if m.form.loading {
		b.WriteString(m.spinner.View() + " Loading post...")
		return b.String()
	}
	if m.form.err != "" {
		b.WriteString(errorStyle.Render(m.form.err) + "\n\n")
	}
	if m.form.forbidden {
		return b.String()
	}
	labels := [postFieldBody]string{"Title", "Excerpt", "Tags"}
	for i, in := range m.form.inputs {
		b.WriteString(labelStyle.Render(labels[i]) + "\n" + in.View() + "\n\n")
	}
	b.WriteString(labelStyle.Render("Body") + "\n" + m.form.body.View() + "\n")
	if m.form.saving {
		b.WriteString("\n" + m.spinner.View() + " Saving...\n")
	}
	return b.String()
}
