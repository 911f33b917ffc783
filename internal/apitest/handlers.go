package apitest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/maynagashev/gophblog/models"
)

// errorResponse - тело ответа с ошибкой.
type errorResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Ошибка кодирования ответа", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, errorResponse{
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "неверный формат запроса")
		return false
	}
	return true
}

// --- Аутентификация --- //

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" || req.FirstName == "" {
		writeError(w, r, http.StatusBadRequest, "имя, email и пароль обязательны")
		return
	}

	s.mu.Lock()
	profile, err := s.createUserLocked(req)
	s.mu.Unlock()
	if errors.Is(err, errEmailTaken) {
		writeError(w, r, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "ошибка регистрации")
		return
	}
	s.respondWithToken(w, r, http.StatusCreated, profile)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s.mu.Lock()
	var (
		profile *models.User
		err     = errInvalidCredentials
	)
	if id, ok := s.emails[strings.TrimSpace(req.Email)]; ok {
		if err = checkPassword(s.users[id].password, req.Password); err == nil {
			profile = s.profileLocked(id)
		}
	}
	s.mu.Unlock()

	if err != nil {
		writeError(w, r, http.StatusUnauthorized, err.Error())
		return
	}
	s.respondWithToken(w, r, http.StatusOK, profile)
}

func (s *Server) respondWithToken(w http.ResponseWriter, r *http.Request, status int, profile *models.User) {
	token, err := s.issueToken(profile.ID.String())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "ошибка выдачи токена")
		return
	}
	writeJSON(w, status, models.AuthResponse{Token: token, User: profile})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	profile := s.userByID(currentUserID(r.Context()))
	if profile == nil {
		writeError(w, r, http.StatusUnauthorized, "пользователь не найден")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// --- Посты --- //

func (s *Server) handleListPosts(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	posts := make([]post, 0, len(s.posts))
	for _, p := range s.posts {
		posts = append(posts, *p)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	_, p := s.findPostLocked(chi.URLParam(r, "postID"))
	var found post
	if p != nil {
		found = *p
	}
	s.mu.Unlock()

	if p == nil {
		writeError(w, r, http.StatusNotFound, "пост не найден")
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func validPostInput(in models.PostInput) bool {
	return strings.TrimSpace(in.Title) != "" && strings.TrimSpace(in.Body) != ""
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var in models.PostInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if !validPostInput(in) {
		writeError(w, r, http.StatusBadRequest, "заголовок и текст обязательны")
		return
	}

	s.mu.Lock()
	now := s.now().UTC()
	p := &post{
		ID:        newID(),
		Title:     in.Title,
		Body:      in.Body,
		Excerpt:   in.Excerpt,
		Tags:      in.Tags,
		Author:    s.profileLocked(currentUserID(r.Context())),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.posts = append([]*post{p}, s.posts...)
	created := *p
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	var in models.PostInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if !validPostInput(in) {
		writeError(w, r, http.StatusBadRequest, "заголовок и текст обязательны")
		return
	}

	s.mu.Lock()
	_, p := s.findPostLocked(chi.URLParam(r, "postID"))
	status := s.checkAuthorLocked(p, r)
	var updated post
	if status == http.StatusOK {
		p.Title = in.Title
		p.Body = in.Body
		p.Excerpt = in.Excerpt
		p.Tags = in.Tags
		p.UpdatedAt = s.now().UTC()
		updated = *p
	}
	s.mu.Unlock()

	if status != http.StatusOK {
		writeError(w, r, status, http.StatusText(status))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	i, p := s.findPostLocked(chi.URLParam(r, "postID"))
	status := s.checkAuthorLocked(p, r)
	if status == http.StatusOK {
		s.posts = append(s.posts[:i], s.posts[i+1:]...)
		delete(s.comments, p.ID)
	}
	s.mu.Unlock()

	if status != http.StatusOK {
		writeError(w, r, status, http.StatusText(status))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "пост удален"})
}

// checkAuthorLocked возвращает статус проверки прав на изменение поста.
func (s *Server) checkAuthorLocked(p *post, r *http.Request) int {
	if p == nil {
		return http.StatusNotFound
	}
	if p.Author == nil || p.Author.ID.String() != currentUserID(r.Context()) {
		return http.StatusForbidden
	}
	return http.StatusOK
}

// --- Комментарии --- //

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	s.mu.Lock()
	_, p := s.findPostLocked(postID)
	comments := make([]comment, 0, len(s.comments[postID]))
	for _, c := range s.comments[postID] {
		comments = append(comments, *c)
	}
	s.mu.Unlock()

	if p == nil {
		writeError(w, r, http.StatusNotFound, "пост не найден")
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func validComment(in models.CommentInput) bool {
	return strings.TrimSpace(in.Content) != ""
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	var in models.CommentInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if !validComment(in) {
		writeError(w, r, http.StatusBadRequest, "комментарий не может быть пустым")
		return
	}

	s.mu.Lock()
	_, p := s.findPostLocked(postID)
	var created comment
	if p != nil {
		now := s.now().UTC()
		c := &comment{
			ID:        newID(),
			PostID:    postID,
			Content:   in.Content,
			Author:    s.profileLocked(currentUserID(r.Context())),
			CreatedAt: now,
			UpdatedAt: now,
		}
		// Новые комментарии в начале, как их показывает клиент
		s.comments[postID] = append([]*comment{c}, s.comments[postID]...)
		created = *c
	}
	s.mu.Unlock()

	if p == nil {
		writeError(w, r, http.StatusNotFound, "пост не найден")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	var in models.CommentInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if !validComment(in) {
		writeError(w, r, http.StatusBadRequest, "комментарий не может быть пустым")
		return
	}

	s.mu.Lock()
	_, c := s.findCommentLocked(postID, chi.URLParam(r, "commentID"))
	status := checkCommentAuthor(c, r)
	var updated comment
	if status == http.StatusOK {
		c.Content = in.Content
		c.UpdatedAt = s.now().UTC()
		updated = *c
	}
	s.mu.Unlock()

	if status != http.StatusOK {
		writeError(w, r, status, http.StatusText(status))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	s.mu.Lock()
	i, c := s.findCommentLocked(postID, chi.URLParam(r, "commentID"))
	status := checkCommentAuthor(c, r)
	if status == http.StatusOK {
		list := s.comments[postID]
		s.comments[postID] = append(list[:i], list[i+1:]...)
	}
	s.mu.Unlock()

	if status != http.StatusOK {
		writeError(w, r, status, http.StatusText(status))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "комментарий удален"})
}

func checkCommentAuthor(c *comment, r *http.Request) int {
	if c == nil {
		return http.StatusNotFound
	}
	if c.Author == nil || c.Author.ID.String() != currentUserID(r.Context()) {
		return http.StatusForbidden
	}
	return http.StatusOK
}
