// Package apitest содержит сервер в памяти, повторяющий REST API блога.
// Используется в интеграционных тестах клиента.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server - тестовый сервер API блога.
type Server struct {
	srv    *httptest.Server
	secret []byte

	mu       sync.Mutex
	users    map[string]*user // По идентификатору
	emails   map[string]string
	posts    []*post // Новые в начале
	comments map[string][]*comment
	failures []failure
	requests int
	now      func() time.Time
}

// failure - запланированный ответ с ошибкой.
type failure struct {
	method string
	status int
}

// New запускает тестовый сервер. Остановить его нужно через Close.
func New() *Server {
	s := &Server{
		secret:   []byte("apitest-secret"),
		users:    make(map[string]*user),
		emails:   make(map[string]string),
		comments: make(map[string][]*comment),
		now:      time.Now,
	}
	s.srv = httptest.NewServer(s.Router())
	return s
}

// URL возвращает базовый адрес API.
func (s *Server) URL() string {
	return s.srv.URL + "/api"
}

// Close останавливает сервер.
func (s *Server) Close() {
	s.srv.Close()
}

// Requests возвращает количество обработанных запросов к API.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// FailNext заставляет следующий запрос с методом method вернуть status.
// Пустой method подходит для любого запроса.
func (s *Server) FailNext(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{method: method, status: status})
}

// Router собирает маршруты API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.countRequests)
	r.Use(s.injectFailures)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/login", s.handleLogin)
		r.Get("/posts", s.handleListPosts)
		r.Get("/posts/{postID}", s.handleGetPost)
		r.Get("/posts/{postID}/comments", s.handleListComments)

		// Защищенные маршруты
		r.Group(func(r chi.Router) {
			r.Use(s.authenticator)
			r.Get("/auth/profile", s.handleProfile)
			r.Post("/posts", s.handleCreatePost)
			r.Put("/posts/{postID}", s.handleUpdatePost)
			r.Delete("/posts/{postID}", s.handleDeletePost)
			r.Post("/posts/{postID}/comments", s.handleAddComment)
			r.Put("/posts/{postID}/comments/{commentID}", s.handleUpdateComment)
			r.Delete("/posts/{postID}/comments/{commentID}", s.handleDeleteComment)
		})
	})
	return r
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status := 0
		for i, f := range s.failures {
			if f.method == "" || f.method == r.Method {
				status = f.status
				s.failures = append(s.failures[:i], s.failures[i+1:]...)
				break
			}
		}
		s.mu.Unlock()

		if status != 0 {
			writeError(w, r, status, "запланированная ошибка")
			return
		}
		next.ServeHTTP(w, r)
	})
}
