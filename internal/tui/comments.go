package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophblog/internal/router"
	"github.com/maynagashev/gophblog/internal/snapshot"
	"github.com/maynagashev/gophblog/models"
)

// Сообщения блока комментариев.
const (
	MsgLoadCommentsFailed   = "Failed to load comments"
	MsgCommentEmpty         = "Comment cannot be empty"
	MsgAddCommentFailed     = "Failed to add comment"
	MsgUpdateCommentFailed  = "Failed to update comment"
	MsgDeleteCommentFailed  = "Failed to delete comment"
	MsgLoginToComment       = "Please login to leave a comment."
	MsgNoComments           = "No comments yet. Be the first to comment!"
	MsgConfirmDeleteComment = "Are you sure you want to delete this comment?"
)

// mountComments сбрасывает блок комментариев и запрашивает их.
func (m *model) mountComments(postID models.ID) tea.Cmd {
	m.comments = commentsState{
		postID:     postID,
		viewID:     m.nextRequestID(),
		loadReq:    m.nextRequestID(),
		loading:    true,
		items:      snapshot.New[models.Comment](nil),
		phases:     make(map[models.ID]itemPhase),
		deleteReqs: make(map[models.ID]uint64),
		form:       commentForm{input: initCommentInput("Write your comment...")},
	}
	return m.makeFetchCommentsCmd(m.comments.loadReq, postID)
}

// commentsMounted сообщает, что блок комментариев сейчас на экране.
func (m *model) commentsMounted() bool {
	return m.route.Name == router.PostDetail && m.comments.postID == m.route.PostID
}

// handleCommentsLoaded применяет ответ со списком комментариев.
func (m *model) handleCommentsLoaded(msg commentsLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.commentsMounted() || msg.reqID != m.comments.loadReq {
		return m, nil
	}
	m.comments.loading = false
	if msg.err != nil {
		m.comments.err = MsgLoadCommentsFailed
		return m, nil
	}
	m.comments.items = snapshot.New(msg.comments)
	m.comments.selected = 0
	return m, nil
}

// selectedComment возвращает выбранный комментарий.
func (m *model) selectedComment() (models.Comment, bool) {
	return m.comments.items.At(m.comments.selected)
}

// phase возвращает состояние комментария.
func (m *model) phase(id models.ID) itemPhase {
	return m.comments.phases[id]
}

// commentsInputActive сообщает, что ввод идет в форму комментария.
func (m *model) commentsInputActive() bool {
	return m.route.Name == router.PostDetail && (m.comments.formActive || !m.comments.editing.IsZero())
}

// handleCommentsKey обрабатывает клавиши блока комментариев в режиме просмотра.
func (m *model) handleCommentsKey(keyMsg tea.KeyMsg) tea.Cmd {
	c := &m.comments
	switch keyMsg.String() {
	case keyUp, "k":
		c.selected = clamp(c.selected-1, c.items.Len())
	case keyDown, "j":
		c.selected = clamp(c.selected+1, c.items.Len())
	case "c":
		if !m.auth.IsAuthenticated() {
			return nil
		}
		c.formActive = true
		return c.form.input.Focus()
	case "E":
		return m.startEditComment()
	case "D":
		return m.requestDeleteComment()
	}
	return nil
}

// commentActionable сообщает, что комментарий можно изменить или удалить.
// Без идентификатора комментарий нельзя адресовать на сервере.
func (m *model) commentActionable(comment models.Comment) bool {
	return !comment.ID.IsZero() && m.auth.IsAuthor(comment.Author) && m.phase(comment.ID) == itemViewing
}

// startEditComment открывает форму редактирования выбранного комментария.
func (m *model) startEditComment() tea.Cmd {
	comment, ok := m.selectedComment()
	if !ok || !m.commentActionable(comment) {
		return nil
	}
	m.comments.editing = comment.ID
	m.comments.phases[comment.ID] = itemEditing
	m.comments.editForm = commentForm{input: initCommentInput("Edit your comment...")}
	m.comments.editForm.input.SetValue(comment.Content)
	return m.comments.editForm.input.Focus()
}

// cancelEditComment закрывает форму редактирования без сохранения.
func (m *model) cancelEditComment() {
	if id := m.comments.editing; !id.IsZero() {
		delete(m.comments.phases, id)
	}
	m.comments.editing = ""
	m.comments.editForm.input.Blur()
}

// requestDeleteComment запрашивает подтверждение удаления выбранного комментария.
func (m *model) requestDeleteComment() tea.Cmd {
	comment, ok := m.selectedComment()
	if !ok || !m.commentActionable(comment) {
		return nil
	}
	return m.confirmer.Confirm(MsgConfirmDeleteComment, commentDeleteConfirmedMsg{
		viewID:    m.comments.viewID,
		commentID: comment.ID,
	})
}

// handleCommentDeleteConfirmed переводит комментарий в состояние удаления.
func (m *model) handleCommentDeleteConfirmed(msg commentDeleteConfirmedMsg) (tea.Model, tea.Cmd) {
	if !m.commentsMounted() || msg.viewID != m.comments.viewID {
		return m, nil
	}
	if _, ok := m.comments.items.Get(msg.commentID); !ok || m.phase(msg.commentID) != itemViewing {
		return m, nil
	}
	reqID := m.nextRequestID()
	m.comments.phases[msg.commentID] = itemDeleting
	m.comments.deleteReqs[msg.commentID] = reqID
	return m, m.makeDeleteCommentCmd(reqID, m.comments.postID, msg.commentID)
}

// handleCommentDeleted удаляет комментарий из списка или возвращает его в просмотр.
func (m *model) handleCommentDeleted(msg commentDeletedMsg) (tea.Model, tea.Cmd) {
	if !m.commentsMounted() || m.comments.deleteReqs[msg.commentID] != msg.reqID {
		return m, nil
	}
	delete(m.comments.deleteReqs, msg.commentID)
	delete(m.comments.phases, msg.commentID)
	if msg.err != nil {
		m.comments.err = MsgDeleteCommentFailed
		return m, nil
	}
	m.comments.items.Remove(msg.commentID)
	m.comments.selected = clamp(m.comments.selected, m.comments.items.Len())
	return m, nil
}

// updateCommentsInput передает ввод в активную форму комментария.
func (m *model) updateCommentsInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	editing := !m.comments.editing.IsZero()
	form := &m.comments.form
	if editing {
		form = &m.comments.editForm
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc:
			if form.submitting {
				return m, nil
			}
			if editing {
				m.cancelEditComment()
			} else {
				m.comments.formActive = false
				form.input.Blur()
			}
			return m, nil
		case keySubmit:
			if editing {
				return m, m.submitEditComment()
			}
			return m, m.submitNewComment()
		}
	}
	if form.submitting {
		return m, nil
	}
	var cmd tea.Cmd
	form.input, cmd = form.input.Update(msg)
	return m, cmd
}

// validateComment возвращает очищенный текст или сообщение об ошибке.
func validateComment(raw string) (string, string) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return "", MsgCommentEmpty
	}
	return content, ""
}

// submitNewComment отправляет новый комментарий.
// Пустой комментарий не отправляется.
func (m *model) submitNewComment() tea.Cmd {
	form := &m.comments.form
	if form.submitting {
		return nil
	}
	content, errText := validateComment(form.input.Value())
	if errText != "" {
		form.err = errText
		return nil
	}
	form.err = ""
	form.submitting = true
	form.req = m.nextRequestID()
	return m.makeAddCommentCmd(form.req, m.comments.postID, content)
}

// handleCommentAdded добавляет комментарий в начало списка.
func (m *model) handleCommentAdded(msg commentAddedMsg) (tea.Model, tea.Cmd) {
	form := &m.comments.form
	if !m.commentsMounted() || msg.reqID != form.req {
		return m, nil
	}
	form.submitting = false
	if msg.err != nil || msg.comment == nil {
		// Текст формы сохраняется, список не меняется.
		form.err = MsgAddCommentFailed
		return m, nil
	}
	m.comments.items.Prepend(*msg.comment)
	m.comments.selected = 0
	form.input.Reset()
	form.err = ""
	return m, nil
}

// submitEditComment отправляет исправленный комментарий.
func (m *model) submitEditComment() tea.Cmd {
	form := &m.comments.editForm
	if form.submitting {
		return nil
	}
	content, errText := validateComment(form.input.Value())
	if errText != "" {
		form.err = errText
		return nil
	}
	form.err = ""
	form.submitting = true
	form.req = m.nextRequestID()
	return m.makeUpdateCommentCmd(form.req, m.comments.postID, m.comments.editing, content)
}

// handleCommentUpdated заменяет комментарий ответом сервера.
func (m *model) handleCommentUpdated(msg commentUpdatedMsg) (tea.Model, tea.Cmd) {
	form := &m.comments.editForm
	if !m.commentsMounted() || msg.reqID != form.req || msg.commentID != m.comments.editing {
		return m, nil
	}
	form.submitting = false
	if msg.err != nil || msg.comment == nil {
		// Форма остается открытой.
		form.err = MsgUpdateCommentFailed
		return m, nil
	}
	m.comments.items.ReplaceID(msg.commentID, *msg.comment)
	m.cancelEditComment()
	return m, nil
}

// renderComments отображает блок комментариев.
func (m *model) renderComments() string {
	c := &m.comments
	var b strings.Builder
	b.WriteString(sectionStyle.Render(fmt.Sprintf("Comments (%d)", c.items.Len())) + "\n\n")

	if c.err != "" {
		b.WriteString(errorStyle.Render(c.err) + "\n\n")
	}

	switch {
	case !m.auth.IsAuthenticated():
		b.WriteString(mutedStyle.Render(MsgLoginToComment+" [l] Login") + "\n\n")
	case c.formActive:
		b.WriteString(renderCommentForm(c.form, "Post Comment") + "\n\n")
	default:
		b.WriteString(mutedStyle.Render("[c] Write a comment") + "\n\n")
	}

	switch {
	case c.loading:
		b.WriteString(m.spinner.View() + " Loading comments...\n")
	case c.items.Len() == 0 && c.err == "":
		b.WriteString(mutedStyle.Render(MsgNoComments) + "\n")
	default:
		for i, comment := range c.items.Items() {
			b.WriteString(m.renderCommentItem(comment, i == c.selected))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderCommentItem отображает один комментарий в его текущем состоянии.
func (m *model) renderCommentItem(comment models.Comment, selected bool) string {
	if m.phase(comment.ID) == itemEditing {
		return renderCommentForm(m.comments.editForm, "Update Comment") + "\n"
	}

	marker := "  "
	if selected {
		marker = selectedMarkerStyle.Render("> ")
	}
	header := commentAuthorStyle.Render(sanitize(commentAuthorName(comment.Author))) +
		" " + mutedStyle.Render(formatDateTime(comment.CreatedAt))
	if comment.Edited() {
		header += mutedStyle.Render(" (edited)")
	}

	var b strings.Builder
	b.WriteString(marker + header + "\n")
	for _, line := range strings.Split(sanitize(comment.Content), "\n") {
		b.WriteString("  " + line + "\n")
	}
	if !comment.ID.IsZero() && m.auth.IsAuthor(comment.Author) {
		actions := "[E] Edit  [D] Delete"
		if m.phase(comment.ID) == itemDeleting {
			actions = "Deleting..."
		}
		b.WriteString("  " + actionStyle.Render(actions) + "\n")
	}
	return b.String()
}

// commentAuthorName возвращает имя автора комментария.
func commentAuthorName(u *models.User) string {
	if u == nil || (u.Name == "" && u.Username == "") {
		return "Unknown User"
	}
	return u.DisplayName()
}

// renderCommentForm отображает форму комментария.
func renderCommentForm(form commentForm, submitLabel string) string {
	var b strings.Builder
	if form.err != "" {
		b.WriteString(errorStyle.Render(form.err) + "\n")
	}
	b.WriteString(form.input.View() + "\n")
	label := "[ctrl+s] " + submitLabel + "  [esc] Cancel"
	if form.submitting {
		label = "Posting..."
	}
	b.WriteString(mutedStyle.Render(label))
	return b.String()
}
