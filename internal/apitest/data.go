package apitest

import (
	"time"

	"github.com/google/uuid"

	"github.com/maynagashev/gophblog/models"
)

// user - учетная запись в памяти сервера.
type user struct {
	profile  models.User
	password []byte
}

// post хранится в том виде, в каком отдается клиенту.
// Идентификатор отдается в поле "_id", как у документов MongoDB.
type post struct {
	ID        string       `json:"_id"`
	Title     string       `json:"title"`
	Body      string       `json:"body"`
	Excerpt   string       `json:"excerpt,omitempty"`
	Tags      []string     `json:"tags"`
	Author    *models.User `json:"author"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

type comment struct {
	ID        string       `json:"id"`
	PostID    string       `json:"post"`
	Content   string       `json:"content"`
	Author    *models.User `json:"author"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func newID() string {
	return uuid.NewString()
}

// userByID возвращает копию профиля пользователя или nil.
func (s *Server) userByID(id string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileLocked(id)
}

func (s *Server) profileLocked(id string) *models.User {
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	profile := u.profile
	return &profile
}

func (s *Server) findPostLocked(id string) (int, *post) {
	for i, p := range s.posts {
		if p.ID == id {
			return i, p
		}
	}
	return -1, nil
}

func (s *Server) findCommentLocked(postID, id string) (int, *comment) {
	for i, c := range s.comments[postID] {
		if c.ID == id {
			return i, c
		}
	}
	return -1, nil
}

// createUserLocked регистрирует пользователя. Вызывающий держит s.mu.
func (s *Server) createUserLocked(req models.SignupRequest) (*models.User, error) {
	if _, taken := s.emails[req.Email]; taken {
		return nil, errEmailTaken
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	id := newID()
	profile := models.User{
		ID:        models.ID(id),
		Name:      joinName(req.FirstName, req.LastName),
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	s.users[id] = &user{profile: profile, password: hash}
	s.emails[req.Email] = id
	return &profile, nil
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

// SeedUser регистрирует пользователя напрямую, минуя HTTP.
func (s *Server) SeedUser(req models.SignupRequest) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, err := s.createUserLocked(req)
	if err != nil {
		return models.User{}, err
	}
	return *profile, nil
}

// SeedPost добавляет пост от имени автора напрямую, минуя HTTP.
// Возвращает идентификатор поста.
func (s *Server) SeedPost(authorID models.ID, in models.PostInput) models.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	p := &post{
		ID:        newID(),
		Title:     in.Title,
		Body:      in.Body,
		Excerpt:   in.Excerpt,
		Tags:      in.Tags,
		Author:    s.profileLocked(authorID.String()),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.posts = append([]*post{p}, s.posts...)
	return models.ID(p.ID)
}

// Token выдает токен для пользователя, минуя вход.
func (s *Server) Token(userID models.ID) (string, error) {
	return s.issueToken(userID.String())
}
