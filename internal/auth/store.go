// Package auth хранит состояние аутентификации клиента: текущего
// пользователя и сохраненный токен.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/maynagashev/gophblog/internal/api"
	"github.com/maynagashev/gophblog/internal/storage"
	"github.com/maynagashev/gophblog/models"
)

// Сообщения об ошибках, которые показываются пользователю.
const (
	MsgLoginFailed      = "Login failed"
	MsgInvalidLogin     = "Invalid email or password"
	MsgSignupFailed     = "Signup failed"
	MsgCredentialsEmpty = "Email and password are required"
)

// Result - итог операции входа или регистрации.
type Result struct {
	Success bool
	Error   string
}

// Store - контейнер состояния аутентификации.
// Создается один раз при запуске и передается экранам явно.
// Менять состояние можно только через Init, Login, Signup и Logout.
type Store struct {
	client api.AuthAPI
	creds  storage.CredentialStore

	mu           sync.RWMutex
	user         *models.User
	initializing bool
}

// NewStore создает хранилище. До вызова Init оно считается инициализирующимся.
func NewStore(client api.AuthAPI, creds storage.CredentialStore) *Store {
	return &Store{
		client:       client,
		creds:        creds,
		initializing: true,
	}
}

// Init восстанавливает сессию по сохраненному токену.
// Если профиль получить не удалось, токен удаляется и пользователь
// остается неаутентифицированным. Ошибка не фатальна.
func (s *Store) Init(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.initializing = false
		s.mu.Unlock()
	}()

	token, err := s.creds.Token()
	if err != nil {
		slog.Error("Ошибка чтения сохраненного токена", "error", err)
		return
	}
	if token == "" {
		slog.Info("Сохраненный токен не найден, сессия не восстановлена")
		return
	}

	user, err := s.client.GetProfile(ctx)
	if err != nil {
		slog.Warn("Не удалось восстановить сессию, токен удален", "error", err)
		s.clearToken()
		return
	}

	s.setUser(user)
	slog.Info("Сессия восстановлена", "user_id", user.ID)
}

// Login выполняет вход. При успехе сохраняет токен и пользователя.
func (s *Store) Login(ctx context.Context, req models.LoginRequest) Result {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return Result{Error: MsgCredentialsEmpty}
	}

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		slog.Warn("Ошибка входа", "email", req.Email, "error", err)
		if errors.Is(err, api.ErrAuthorization) {
			return Result{Error: MsgInvalidLogin}
		}
		return Result{Error: MsgLoginFailed}
	}
	if err = s.startSession(ctx, resp); err != nil {
		slog.Error("Ошибка начала сессии после входа", "error", err)
		return Result{Error: MsgLoginFailed}
	}
	return Result{Success: true}
}

// Signup регистрирует пользователя и сразу начинает сессию.
func (s *Store) Signup(ctx context.Context, req models.SignupRequest) Result {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return Result{Error: MsgCredentialsEmpty}
	}

	resp, err := s.client.Signup(ctx, req)
	if err != nil {
		slog.Warn("Ошибка регистрации", "email", req.Email, "error", err)
		return Result{Error: MsgSignupFailed}
	}
	if err = s.startSession(ctx, resp); err != nil {
		slog.Error("Ошибка начала сессии после регистрации", "error", err)
		return Result{Error: MsgSignupFailed}
	}
	return Result{Success: true}
}

// startSession сохраняет токен из ответа и определяет пользователя.
// Если сервер не вернул пользователя, он запрашивается через профиль.
func (s *Store) startSession(ctx context.Context, resp *models.AuthResponse) error {
	if resp == nil || resp.Token == "" {
		return errors.New("сервер вернул пустой токен")
	}
	if err := s.creds.SaveToken(resp.Token); err != nil {
		return err
	}

	user := resp.User
	if user == nil {
		profile, err := s.client.GetProfile(ctx)
		if err != nil {
			s.clearToken()
			return err
		}
		user = profile
	}

	s.setUser(user)
	slog.Info("Сессия начата", "user_id", user.ID)
	return nil
}

// Logout завершает сессию локально: удаляет токен и пользователя.
// Запрос к серверу не выполняется.
func (s *Store) Logout() {
	s.clearToken()
	s.setUser(nil)
	slog.Info("Выход выполнен")
}

// User возвращает текущего пользователя или nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Initializing сообщает, что восстановление сессии еще не завершено.
func (s *Store) Initializing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initializing
}

// IsAuthenticated истинно, только если загружен пользователь и сохранен токен.
// Отсутствие токена означает выход, даже если пользователь в памяти остался.
func (s *Store) IsAuthenticated() bool {
	if s.User() == nil {
		return false
	}
	token, err := s.creds.Token()
	if err != nil {
		slog.Error("Ошибка чтения токена при проверке аутентификации", "error", err)
		return false
	}
	return token != ""
}

// IsAuthor сообщает, что текущий пользователь является автором.
func (s *Store) IsAuthor(author *models.User) bool {
	return models.SameUser(s.User(), author)
}

func (s *Store) setUser(user *models.User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

func (s *Store) clearToken() {
	if err := s.creds.ClearToken(); err != nil {
		slog.Error("Ошибка удаления токена", "error", err)
	}
}
