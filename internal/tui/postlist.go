package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophblog/internal/router"
	"github.com/maynagashev/gophblog/internal/snapshot"
)

// Сообщения экрана списка постов.
const (
	MsgFetchPostsFailed = "Failed to fetch posts"
	MsgNoPosts          = "No blog posts yet."
)

// mountPostList сбрасывает экран списка и запрашивает посты.
func (m *model) mountPostList() tea.Cmd {
	w, h := m.contentSize()
	m.posts = postListState{
		loadReq: m.nextRequestID(),
		loading: true,
		list:    initPostList(w, h),
	}
	return tea.Batch(m.makeFetchPostsCmd(m.posts.loadReq), m.spinner.Tick)
}

// handlePostsLoaded применяет ответ со списком постов.
func (m *model) handlePostsLoaded(msg postsLoadedMsg) (tea.Model, tea.Cmd) {
	if m.route.Name != router.Home || msg.reqID != m.posts.loadReq {
		return m, nil
	}
	m.posts.loading = false
	if msg.err != nil {
		m.posts.err = MsgFetchPostsFailed
		return m, nil
	}
	m.posts.posts = snapshot.New(msg.posts)
	items := make([]list.Item, 0, m.posts.posts.Len())
	for _, p := range m.posts.posts.Items() {
		items = append(items, postItem{post: p})
	}
	cmd := m.posts.list.SetItems(items)
	return m, cmd
}

// updatePostListScreen обрабатывает клавиши на экране списка.
func (m *model) updatePostListScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.posts.loading || m.posts.err != "" {
		return m, nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == keyEnter {
		if item, ok := m.posts.list.SelectedItem().(postItem); ok && !item.post.ID.IsZero() {
			return m, m.navigate(router.PostPath(item.post.ID))
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.posts.list, cmd = m.posts.list.Update(msg)
	return m, cmd
}

// viewPostListScreen отображает список постов.
func (m *model) viewPostListScreen() string {
	switch {
	case m.posts.loading:
		return m.spinner.View() + " Loading posts..."
	case m.posts.err != "":
		return errorStyle.Render(m.posts.err)
	case m.posts.posts.Len() == 0:
		return mutedStyle.Render(MsgNoPosts)
	default:
		return m.posts.list.View()
	}
}
