package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/gophblog/internal/api"
	"github.com/maynagashev/gophblog/internal/auth"
	"github.com/maynagashev/gophblog/models"
)

// --- Сообщения сессии --- //

// authReadyMsg сообщает, что сохраненная сессия проверена.
type authReadyMsg struct{}

// authResultMsg содержит итог входа или регистрации.
type authResultMsg struct {
	reqID  uint64
	signup bool
	result auth.Result
}

// --- Сообщения постов --- //

type postsLoadedMsg struct {
	reqID uint64
	posts []models.Post
	err   error
}

type postLoadedMsg struct {
	reqID uint64
	post  *models.Post
	err   error
}

type postSavedMsg struct {
	reqID uint64
	post  *models.Post
	err   error
}

type postDeletedMsg struct {
	reqID uint64
	id    models.ID
	err   error
}

// postDeleteConfirmedMsg приходит, когда пользователь подтвердил удаление поста.
type postDeleteConfirmedMsg struct {
	viewID uint64
	id     models.ID
}

// --- Сообщения комментариев --- //

type commentsLoadedMsg struct {
	reqID    uint64
	comments []models.Comment
	err      error
}

type commentAddedMsg struct {
	reqID   uint64
	comment *models.Comment
	err     error
}

type commentUpdatedMsg struct {
	reqID     uint64
	commentID models.ID
	comment   *models.Comment
	err       error
}

type commentDeletedMsg struct {
	reqID     uint64
	commentID models.ID
	err       error
}

// commentDeleteConfirmedMsg приходит, когда пользователь подтвердил удаление комментария.
type commentDeleteConfirmedMsg struct {
	viewID    uint64
	commentID models.ID
}

// logAPIError пишет в лог подробности ошибки API.
// Пользователю показывается только общее сообщение.
func logAPIError(op string, err error) {
	slog.Error("Ошибка запроса к API", "op", op, "status", api.StatusCode(err), "error", err)
}

// initAuthCmd восстанавливает сессию по сохраненному токену.
func initAuthCmd(store *auth.Store) tea.Cmd {
	return func() tea.Msg {
		store.Init(context.Background())
		return authReadyMsg{}
	}
}

// makeLoginCmd выполняет вход через хранилище сессии.
func (m *model) makeLoginCmd(reqID uint64, req models.LoginRequest) tea.Cmd {
	store := m.auth
	return func() tea.Msg {
		res := store.Login(context.Background(), req)
		return authResultMsg{reqID: reqID, result: res}
	}
}

// makeSignupCmd выполняет регистрацию через хранилище сессии.
func (m *model) makeSignupCmd(reqID uint64, req models.SignupRequest) tea.Cmd {
	store := m.auth
	return func() tea.Msg {
		res := store.Signup(context.Background(), req)
		return authResultMsg{reqID: reqID, signup: true, result: res}
	}
}

func (m *model) makeFetchPostsCmd(reqID uint64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		posts, err := client.GetPosts(context.Background())
		if err != nil {
			logAPIError("getPosts", err)
		}
		return postsLoadedMsg{reqID: reqID, posts: posts, err: err}
	}
}

func (m *model) makeFetchPostCmd(reqID uint64, id models.ID) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		post, err := client.GetPost(context.Background(), id)
		if err != nil {
			logAPIError("getPost", err)
		}
		return postLoadedMsg{reqID: reqID, post: post, err: err}
	}
}

// makeSavePostCmd создает пост, если id пустой, иначе обновляет его.
func (m *model) makeSavePostCmd(reqID uint64, id models.ID, in models.PostInput) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()
		var (
			post *models.Post
			err  error
		)
		if id.IsZero() {
			post, err = client.CreatePost(ctx, in)
		} else {
			post, err = client.UpdatePost(ctx, id, in)
		}
		if err != nil {
			logAPIError("savePost", err)
		}
		return postSavedMsg{reqID: reqID, post: post, err: err}
	}
}

func (m *model) makeDeletePostCmd(reqID uint64, id models.ID) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.DeletePost(context.Background(), id)
		if err != nil {
			logAPIError("deletePost", err)
		}
		return postDeletedMsg{reqID: reqID, id: id, err: err}
	}
}

func (m *model) makeFetchCommentsCmd(reqID uint64, postID models.ID) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		comments, err := client.GetComments(context.Background(), postID)
		if err != nil {
			logAPIError("getComments", err)
		}
		return commentsLoadedMsg{reqID: reqID, comments: comments, err: err}
	}
}

func (m *model) makeAddCommentCmd(reqID uint64, postID models.ID, content string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		comment, err := client.AddComment(context.Background(), postID, models.CommentInput{Content: content})
		if err != nil {
			logAPIError("addComment", err)
		}
		return commentAddedMsg{reqID: reqID, comment: comment, err: err}
	}
}

func (m *model) makeUpdateCommentCmd(reqID uint64, postID, commentID models.ID, content string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		comment, err := client.UpdateComment(
			context.Background(), postID, commentID, models.CommentInput{Content: content},
		)
		if err != nil {
			logAPIError("updateComment", err)
		}
		return commentUpdatedMsg{reqID: reqID, commentID: commentID, comment: comment, err: err}
	}
}

func (m *model) makeDeleteCommentCmd(reqID uint64, postID, commentID models.ID) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.DeleteComment(context.Background(), postID, commentID)
		if err != nil {
			logAPIError("deleteComment", err)
		}
		return commentDeletedMsg{reqID: reqID, commentID: commentID, err: err}
	}
}
