package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophblog/internal/router"
	"github.com/maynagashev/gophblog/models"
)

// Сообщения экрана поста.
const (
	MsgPostLoadFailed    = "Post not found or failed to load"
	MsgDeletePostFailed  = "Failed to delete post"
	MsgConfirmDeletePost = "Are you sure you want to delete this post?"
)

// mountPostView сбрасывает экран поста и запрашивает пост и его комментарии.
func (m *model) mountPostView(id models.ID) tea.Cmd {
	w, h := m.contentSize()
	m.post = postViewState{
		id:       id,
		viewID:   m.nextRequestID(),
		loadReq:  m.nextRequestID(),
		loading:  true,
		viewport: initPostViewport(w, h),
	}
	return tea.Batch(
		m.makeFetchPostCmd(m.post.loadReq, id),
		m.mountComments(id),
		m.spinner.Tick,
	)
}

// handlePostLoaded применяет ответ с постом.
func (m *model) handlePostLoaded(msg postLoadedMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.route.Name == router.PostDetail && msg.reqID == m.post.loadReq:
		m.post.loading = false
		if msg.err != nil || msg.post == nil {
			// 404 и прочие ошибки для пользователя не различаются.
			m.post.err = MsgPostLoadFailed
			return m, nil
		}
		m.post.post = msg.post
	case m.route.Name == router.EditPost && msg.reqID == m.form.loadReq:
		m.applyEditPost(msg)
	}
	return m, nil
}

// isPostAuthor сообщает, что текущий пользователь - автор открытого поста.
func (m *model) isPostAuthor() bool {
	return m.post.post != nil && m.auth.IsAuthor(m.post.post.Author)
}

// requestDeletePost запрашивает подтверждение удаления поста.
func (m *model) requestDeletePost() tea.Cmd {
	if !m.isPostAuthor() || m.post.deleting {
		return nil
	}
	return m.confirmer.Confirm(MsgConfirmDeletePost, postDeleteConfirmedMsg{
		viewID: m.post.viewID,
		id:     m.post.id,
	})
}

// handlePostDeleteConfirmed отправляет запрос на удаление после подтверждения.
func (m *model) handlePostDeleteConfirmed(msg postDeleteConfirmedMsg) (tea.Model, tea.Cmd) {
	if m.route.Name != router.PostDetail || msg.viewID != m.post.viewID || m.post.deleting {
		return m, nil
	}
	m.post.deleting = true
	m.post.err = ""
	m.post.deleteReq = m.nextRequestID()
	return m, m.makeDeletePostCmd(m.post.deleteReq, msg.id)
}

// handlePostDeleted обрабатывает итог удаления поста.
func (m *model) handlePostDeleted(msg postDeletedMsg) (tea.Model, tea.Cmd) {
	if m.route.Name != router.PostDetail || msg.reqID != m.post.deleteReq {
		return m, nil
	}
	m.post.deleting = false
	if msg.err != nil {
		// Пост остается на экране.
		m.post.err = MsgDeletePostFailed
		return m, nil
	}
	return m, m.navigate("/")
}

// updatePostScreen обрабатывает клавиши на экране поста.
func (m *model) updatePostScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.commentsInputActive() {
		return m.updateCommentsInput(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case keyEsc, "backspace":
		return m, m.navigate("/")
	case "e":
		if m.isPostAuthor() {
			return m, m.navigate(router.EditPostPath(m.post.id))
		}
	case "d":
		return m, m.requestDeletePost()
	case "pgup", "pgdown":
		m.post.viewport.SetContent(m.renderPostPage())
		var cmd tea.Cmd
		m.post.viewport, cmd = m.post.viewport.Update(msg)
		return m, cmd
	default:
		if m.post.post != nil {
			return m, m.handleCommentsKey(keyMsg)
		}
	}
	return m, nil
}

// renderPost отображает сам пост без комментариев.
func (m *model) renderPost() string {
	switch {
	case m.post.loading:
		return m.spinner.View() + " Loading post..."
	case m.post.post == nil:
		var b strings.Builder
		if m.post.err != "" {
			b.WriteString(errorStyle.Render(m.post.err) + "\n\n")
		}
		b.WriteString(mutedStyle.Render("← Back to Blog [esc]"))
		return b.String()
	}

	p := m.post.post
	var b strings.Builder
	b.WriteString(mutedStyle.Render("← Back to Blog [esc]") + "\n\n")
	if m.post.err != "" {
		b.WriteString(errorStyle.Render(m.post.err) + "\n\n")
	}
	b.WriteString(titleStyle.Render(sanitize(p.Title)) + "\n")

	by := "By " + sanitize(p.Author.DisplayName())
	if p.Author != nil && p.Author.Email != "" {
		by += " <" + sanitize(p.Author.Email) + ">"
	}
	b.WriteString(mutedStyle.Render(by+" · "+formatDate(p.CreatedAt)) + "\n")
	if p.Edited() {
		b.WriteString(mutedStyle.Render("Updated: "+formatDate(p.UpdatedAt)) + "\n")
	}
	if p.Excerpt != "" {
		b.WriteString("\n" + excerptStyle.Render(sanitize(p.Excerpt)) + "\n")
	}
	b.WriteString("\n" + sanitize(p.Body) + "\n")
	if len(p.Tags) > 0 {
		tags := make([]string, len(p.Tags))
		for i, t := range p.Tags {
			tags[i] = "#" + sanitize(t)
		}
		b.WriteString("\n" + tagStyle.Render(strings.Join(tags, " ")) + "\n")
	}
	if m.isPostAuthor() {
		actions := "[e] Edit Post   [d] Delete Post"
		if m.post.deleting {
			actions = m.spinner.View() + " Deleting..."
		}
		b.WriteString("\n" + actionStyle.Render(actions) + "\n")
	}
	return b.String()
}

// renderPostPage отображает пост вместе с блоком комментариев.
func (m *model) renderPostPage() string {
	if m.post.post == nil {
		return m.renderPost()
	}
	return m.renderPost() + "\n" + m.renderComments()
}

// viewPostScreen отображает экран поста с прокруткой.
func (m *model) viewPostScreen() string {
	vp := m.post.viewport
	vp.SetContent(m.renderPostPage())
	return vp.View()
}
