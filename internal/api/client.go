package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/maynagashev/gophblog/models"
)

// Максимальный размер тела ответа с ошибкой, который сохраняется для диагностики.
const maxErrorBodySize = 4096

// TokenSource отдает сохраненный токен аутентификации.
// Пустая строка означает, что токена нет.
type TokenSource interface {
	Token() (string, error)
}

// AuthAPI - операции аутентификации.
type AuthAPI interface {
	// Signup регистрирует нового пользователя.
	Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error)
	// Login аутентифицирует пользователя и возвращает токен.
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	// GetProfile возвращает пользователя, которому принадлежит текущий токен.
	GetProfile(ctx context.Context) (*models.User, error)
}

// PostsAPI - операции с постами.
type PostsAPI interface {
	GetPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id models.ID) (*models.Post, error)
	CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error)
	UpdatePost(ctx context.Context, id models.ID, in models.PostInput) (*models.Post, error)
	DeletePost(ctx context.Context, id models.ID) error
}

// CommentsAPI - операции с комментариями к посту.
type CommentsAPI interface {
	GetComments(ctx context.Context, postID models.ID) ([]models.Comment, error)
	AddComment(ctx context.Context, postID models.ID, in models.CommentInput) (*models.Comment, error)
	UpdateComment(ctx context.Context, postID, commentID models.ID, in models.CommentInput) (*models.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID models.ID) error
}

// Client определяет интерфейс для взаимодействия с API блога.
type Client interface {
	AuthAPI
	PostsAPI
	CommentsAPI
}

// httpClient реализует интерфейс Client для взаимодействия с сервером по HTTP.
type httpClient struct {
	baseURL    string       // Базовый URL API, например "http://localhost:5000/api"
	httpClient *http.Client // HTTP клиент для выполнения запросов
	tokens     TokenSource  // Источник токена, читается перед каждым запросом
}

// Option настраивает httpClient.
type Option func(*httpClient)

// WithHTTPClient подменяет HTTP клиент (например, в тестах).
func WithHTTPClient(c *http.Client) Option {
	return func(h *httpClient) {
		h.httpClient = c
	}
}

// NewHTTPClient создает новый экземпляр API клиента.
// tokens может быть nil, тогда запросы отправляются без авторизации.
func NewHTTPClient(baseURL string, tokens TokenSource, opts ...Option) Client {
	c := &httpClient{
		baseURL:    baseURL,
		httpClient: &http.Client{}, // Таймауты не задаются, запрос ограничен только контекстом
		tokens:     tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// setAuthHeader добавляет заголовок Authorization, если токен сохранен.
// Отсутствие токена не является ошибкой: заголовок просто не ставится.
func (c *httpClient) setAuthHeader(req *http.Request) {
	if c.tokens == nil {
		return
	}
	token, err := c.tokens.Token()
	if err != nil {
		slog.Warn("Не удалось прочитать токен, запрос уйдет без авторизации", "error", err)
		return
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// do выполняет один запрос к API. in кодируется в JSON, если не nil,
// тело успешного ответа декодируется в out, если out не nil.
func (c *httpClient) do(ctx context.Context, op, method string, in, out any, segments ...string) error {
	endpoint, err := url.JoinPath(c.baseURL, escapeSegments(segments)...)
	if err != nil {
		return fmt.Errorf("%s: ошибка формирования URL: %w", op, err)
	}

	var body io.Reader
	if in != nil {
		jsonData, errMarshal := json.Marshal(in)
		if errMarshal != nil {
			return fmt.Errorf("%s: ошибка кодирования данных: %w", op, errMarshal)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("%s: ошибка создания запроса: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("Запрос к API не выполнен", "op", op, "request_id", requestID, "error", err)
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		slog.Error("API вернул ошибку",
			"op", op,
			"request_id", requestID,
			"status", resp.StatusCode,
			"body", string(errBody),
		)
		return &HTTPError{Op: op, Status: resp.StatusCode, Body: string(errBody), RequestID: requestID}
	}

	slog.Debug("Запрос к API выполнен", "op", op, "request_id", requestID, "status", resp.StatusCode)

	if out == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: ошибка декодирования ответа: %w", op, err)
	}
	return nil
}

// escapeSegments экранирует сегменты пути, чтобы идентификаторы
// не могли изменить структуру URL.
func escapeSegments(segments []string) []string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return escaped
}

// --- Аутентификация --- //

func (c *httpClient) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, "signup", http.MethodPost, req, &resp, "auth", "signup"); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *httpClient) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, "login", http.MethodPost, req, &resp, "auth", "login"); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *httpClient) GetProfile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, "getProfile", http.MethodGet, nil, &user, "auth", "profile"); err != nil {
		return nil, err
	}
	return &user, nil
}

// --- Посты --- //

func (c *httpClient) GetPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(ctx, "getPosts", http.MethodGet, nil, &posts, "posts"); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *httpClient) GetPost(ctx context.Context, id models.ID) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, "getPost", http.MethodGet, nil, &post, "posts", id.String()); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *httpClient) CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, "createPost", http.MethodPost, in, &post, "posts"); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *httpClient) UpdatePost(ctx context.Context, id models.ID, in models.PostInput) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, "updatePost", http.MethodPut, in, &post, "posts", id.String()); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *httpClient) DeletePost(ctx context.Context, id models.ID) error {
	return c.do(ctx, "deletePost", http.MethodDelete, nil, nil, "posts", id.String())
}

// --- Комментарии --- //

func (c *httpClient) GetComments(ctx context.Context, postID models.ID) ([]models.Comment, error) {
	var comments []models.Comment
	if err := c.do(ctx, "getComments", http.MethodGet, nil, &comments,
		"posts", postID.String(), "comments"); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *httpClient) AddComment(
	ctx context.Context,
	postID models.ID,
	in models.CommentInput,
) (*models.Comment, error) {
	var comment models.Comment
	if err := c.do(ctx, "addComment", http.MethodPost, in, &comment,
		"posts", postID.String(), "comments"); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *httpClient) UpdateComment(
	ctx context.Context,
	postID, commentID models.ID,
	in models.CommentInput,
) (*models.Comment, error) {
	var comment models.Comment
	if err := c.do(ctx, "updateComment", http.MethodPut, in, &comment,
		"posts", postID.String(), "comments", commentID.String()); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *httpClient) DeleteComment(ctx context.Context, postID, commentID models.ID) error {
	return c.do(ctx, "deleteComment", http.MethodDelete, nil, nil,
		"posts", postID.String(), "comments", commentID.String())
}
