package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/gophblog/internal/api"
	"github.com/maynagashev/gophblog/models"
)

// staticTokens - источник токена для тестов.
type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) Token() (string, error) {
	return s.token, s.err
}

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) api.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return api.NewHTTPClient(server.URL+"/api", staticTokens{token: token})
}

func TestHTTPClient_Routes(t *testing.T) {
	ctx := context.Background()
	postInput := models.PostInput{Title: "T", Body: "B", Tags: []string{"go"}}
	commentInput := models.CommentInput{Content: "hi"}

	tests := []struct {
		name         string
		method       string
		path         string
		expectedBody string
		response     string
		status       int
		call         func(c api.Client) error
	}{
		{
			name: "signup", method: http.MethodPost, path: "/api/auth/signup",
			expectedBody: `{"firstName":"Ann","email":"a@b.c","password":"p"}`,
			response:     `{"token":"t"}`, status: http.StatusCreated,
			call: func(c api.Client) error {
				_, err := c.Signup(ctx, models.SignupRequest{FirstName: "Ann", Email: "a@b.c", Password: "p"})
				return err
			},
		},
		{
			name: "login", method: http.MethodPost, path: "/api/auth/login",
			expectedBody: `{"email":"a@b.c","password":"p"}`,
			response:     `{"token":"t"}`, status: http.StatusOK,
			call: func(c api.Client) error {
				_, err := c.Login(ctx, models.LoginRequest{Email: "a@b.c", Password: "p"})
				return err
			},
		},
		{
			name: "getProfile", method: http.MethodGet, path: "/api/auth/profile",
			response: `{"id":"u1"}`, status: http.StatusOK,
			call: func(c api.Client) error {
				_, err := c.GetProfile(ctx)
				return err
			},
		},
		{
			name: "getPosts", method: http.MethodGet, path: "/api/posts",
			response: `[]`, status: http.StatusOK,
			call: func(c api.Client) error {
				_, err := c.GetPosts(ctx)
				return err
			},
		},
		{
			name: "getPost", method: http.MethodGet, path: "/api/posts/p1",
			response: `{"id":"p1"}`, status: http.StatusOK,
			call: func(c api.Client) error {
				_, err := c.GetPost(ctx, "p1")
				return err
			},
		},
		{
			name: "createPost", method: http.MethodPost, path: "/api/posts",
			expectedBody: `{"title":"T","body":"B","tags":["go"]}`,
			response:     `{"id":"p1"}`, status: http.StatusCreated,
			call: func(c api.Client) error {
				_, err := c.CreatePost(ctx, postInput)
				return err
			},
		},
		{
			name: "updatePost", method: http.MethodPut, path: "/api/posts/p1",
			expectedBody: `{"title":"T","body":"B","tags":["go"]}`,
			response:     `{"id":"p1"}`, status: http.StatusOK,
			call: func(c api.Client) error {
				_, err := c.UpdatePost(ctx, "p1", postInput)
				return err
			},
		},
		{
			name: "deletePost", method: http.MethodDelete, path: "/api/posts/p1",
			status: http.StatusNoContent,
			call: func(c api.Client) error {
				return c.DeletePost(ctx, "p1")
			},
		},
		{
			name: "getComments", method: http.MethodGet, path: "/api/posts/p1/comments",
			response: `[]`, status: http.StatusOK,
			call: func(c api.Client) error {
				_, err := c.GetComments(ctx, "p1")
				return err
			},
		},
		{
			name: "addComment", method: http.MethodPost, path: "/api/posts/p1/comments",
			expectedBody: `{"content":"hi"}`,
			response:     `{"id":"c1"}`, status: http.StatusCreated,
			call: func(c api.Client) error {
				_, err := c.AddComment(ctx, "p1", commentInput)
				return err
			},
		},
		{
			name: "updateComment", method: http.MethodPut, path: "/api/posts/p1/comments/c1",
			expectedBody: `{"content":"hi"}`,
			response:     `{"id":"c1"}`, status: http.StatusOK,
			call: func(c api.Client) error {
				_, err := c.UpdateComment(ctx, "p1", "c1", commentInput)
				return err
			},
		},
		{
			name: "deleteComment", method: http.MethodDelete, path: "/api/posts/p1/comments/c1",
			status: http.StatusOK,
			call: func(c api.Client) error {
				return c.DeleteComment(ctx, "p1", "c1")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				assert.Equal(t, tt.method, r.Method)
				assert.Equal(t, tt.path, r.URL.Path)
				assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
				assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

				body, err := io.ReadAll(r.Body)
				assert.NoError(t, err)
				if tt.expectedBody != "" {
					assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
					assert.JSONEq(t, tt.expectedBody, string(body))
				} else {
					assert.Empty(t, body)
				}

				w.WriteHeader(tt.status)
				if tt.response != "" {
					_, _ = w.Write([]byte(tt.response))
				}
			}, "secret")

			require.NoError(t, tt.call(client))
			assert.Equal(t, 1, calls, "должен уйти ровно один запрос")
		})
	}
}

func TestHTTPClient_AuthHeader(t *testing.T) {
	t.Run("БезТокенаЗаголовокНеСтавится", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`[]`))
		}, "")

		_, err := client.GetPosts(context.Background())
		require.NoError(t, err)
	})

	t.Run("ОшибкаЧтенияТокенаНеПрерываетЗапрос", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`[]`))
		}))
		defer server.Close()

		client := api.NewHTTPClient(server.URL, staticTokens{err: errors.New("disk failure")})
		_, err := client.GetPosts(context.Background())
		require.NoError(t, err)
	})

	t.Run("ТокенЧитаетсяПередКаждымЗапросом", func(t *testing.T) {
		tokens := &rotatingTokens{values: []string{"first", "second"}}
		var seen []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = append(seen, r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`[]`))
		}))
		defer server.Close()

		client := api.NewHTTPClient(server.URL, tokens)
		_, err := client.GetPosts(context.Background())
		require.NoError(t, err)
		_, err = client.GetPosts(context.Background())
		require.NoError(t, err)

		assert.Equal(t, []string{"Bearer first", "Bearer second"}, seen)
	})
}

type rotatingTokens struct {
	values []string
	calls  int
}

func (r *rotatingTokens) Token() (string, error) {
	v := r.values[r.calls%len(r.values)]
	r.calls++
	return v, nil
}

func TestHTTPClient_Errors(t *testing.T) {
	t.Run("Ошибка авторизации (401)", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "token expired", http.StatusUnauthorized)
		}, "stale")

		_, err := client.GetProfile(context.Background())
		require.Error(t, err)
		require.ErrorIs(t, err, api.ErrAuthorization)
		assert.NotErrorIs(t, err, api.ErrNotFound)

		var httpErr *api.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
		assert.Contains(t, httpErr.Body, "token expired")
		assert.NotEmpty(t, httpErr.RequestID)
	})

	t.Run("Не найдено (404)", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}, "")

		_, err := client.GetPost(context.Background(), "missing")
		require.ErrorIs(t, err, api.ErrNotFound)
		assert.Equal(t, http.StatusNotFound, api.StatusCode(err))
	})

	t.Run("Ошибка сервера (500)", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}, "")

		err := client.DeletePost(context.Background(), "p1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "deletePost: статус 500")
	})

	t.Run("Сетевая ошибка", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := server.URL
		server.Close()

		client := api.NewHTTPClient(url, nil)
		_, err := client.GetPosts(context.Background())

		var netErr *api.NetworkError
		require.ErrorAs(t, err, &netErr)
		assert.Equal(t, "getPosts", netErr.Op)
		assert.Equal(t, 0, api.StatusCode(err))
	})

	t.Run("Невалидный JSON ответ", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"invalid_json`))
		}, "")

		_, err := client.GetPost(context.Background(), "p1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ошибка декодирования ответа")
	})
}

func TestHTTPClient_DecodesEntities(t *testing.T) {
	posts := []map[string]any{
		{"_id": "b", "title": "Second"},
		{"id": 1, "title": "First", "author": map[string]any{"id": "u1", "name": "Ann"}},
	}
	payload, err := json.Marshal(posts)
	require.NoError(t, err)

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(payload)
	}, "")

	got, err := client.GetPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.ID("b"), got[0].ID, "порядок ответа сохраняется")
	assert.Equal(t, models.ID("1"), got[1].ID)
	assert.Equal(t, "Ann", got[1].Author.DisplayName())
}

func TestHTTPClient_EscapesIdentifiers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/posts/a%2Fb", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"id":"a/b"}`))
	}, "")

	post, err := client.GetPost(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, models.ID("a/b"), post.ID)
}
