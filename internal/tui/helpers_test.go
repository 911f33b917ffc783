//nolint:testpackage // Это тесты в том же пакете для доступа к приватным компонентам
package tui

import (
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/gophblog/internal/auth"
	"github.com/maynagashev/gophblog/internal/storage"
	"github.com/maynagashev/gophblog/models"
)

// MockClient - мок api.Client на testify.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.AuthResponse)
	return resp, args.Error(1)
}

func (m *MockClient) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.AuthResponse)
	return resp, args.Error(1)
}

func (m *MockClient) GetProfile(ctx context.Context) (*models.User, error) {
	args := m.Called(ctx)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockClient) GetPosts(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	posts, _ := args.Get(0).([]models.Post)
	return posts, args.Error(1)
}

func (m *MockClient) GetPost(ctx context.Context, id models.ID) (*models.Post, error) {
	args := m.Called(ctx, id)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func (m *MockClient) CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error) {
	args := m.Called(ctx, in)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func (m *MockClient) UpdatePost(ctx context.Context, id models.ID, in models.PostInput) (*models.Post, error) {
	args := m.Called(ctx, id, in)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func (m *MockClient) DeletePost(ctx context.Context, id models.ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClient) GetComments(ctx context.Context, postID models.ID) ([]models.Comment, error) {
	args := m.Called(ctx, postID)
	comments, _ := args.Get(0).([]models.Comment)
	return comments, args.Error(1)
}

func (m *MockClient) AddComment(
	ctx context.Context, postID models.ID, in models.CommentInput,
) (*models.Comment, error) {
	args := m.Called(ctx, postID, in)
	comment, _ := args.Get(0).(*models.Comment)
	return comment, args.Error(1)
}

func (m *MockClient) UpdateComment(
	ctx context.Context, postID, commentID models.ID, in models.CommentInput,
) (*models.Comment, error) {
	args := m.Called(ctx, postID, commentID, in)
	comment, _ := args.Get(0).(*models.Comment)
	return comment, args.Error(1)
}

func (m *MockClient) DeleteComment(ctx context.Context, postID, commentID models.ID) error {
	args := m.Called(ctx, postID, commentID)
	return args.Error(0)
}

// Тестовые пользователи.
//
//nolint:gochecknoglobals // Неизменяемые тестовые данные
var (
	alice = &models.User{ID: "u1", Name: "Alice Smith", FirstName: "Alice", Email: "alice@example.com"}
	bob   = &models.User{ID: "u2", Name: "Bob Stone", FirstName: "Bob"}
)

// testModelOptions - параметры тестовой модели.
type testModelOptions struct {
	user    *models.User // nil - пользователь не вошел
	confirm bool         // Ответ на запрос подтверждения
}

// newTestModel создает готовую к работе модель с мок-клиентом.
func newTestModel(t *testing.T, client *MockClient, opts testModelOptions) *model {
	t.Helper()

	creds := storage.NewMemoryStore("")
	if opts.user != nil {
		require.NoError(t, creds.SaveToken("test-token"))
		client.On("GetProfile", mock.Anything).Return(opts.user, nil).Once()
	}
	store := auth.NewStore(client, creds)
	store.Init(context.Background())

	m := newModel(Options{
		Client:    client,
		Auth:      store,
		Confirmer: ConfirmFunc(func(string) bool { return opts.confirm }),
	})
	m.ready = true
	return m
}

// cmdTimeout ограничивает ожидание команды. Команды с таймерами
// (мигание курсора, тики спиннера) не дожидаются.
const cmdTimeout = 200 * time.Millisecond

// execCmd выполняет команду и возвращает полученные сообщения.
// Пакеты команд раскрываются, тики спиннера отбрасываются.
func execCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(cmdTimeout):
		return nil
	}

	switch msg := msg.(type) {
	case nil, spinner.TickMsg:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, execCmd(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

// settle выполняет команду и передает ее сообщения в модель,
// пока не закончатся новые сообщения. Возвращает все обработанные сообщения.
func settle(t *testing.T, m *model, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	const maxRounds = 20

	var processed []tea.Msg
	queue := execCmd(cmd)
	for round := 0; len(queue) > 0; round++ {
		require.Less(t, round, maxRounds, "слишком длинная цепочка сообщений")
		var next []tea.Msg
		for _, msg := range queue {
			processed = append(processed, msg)
			if _, quit := msg.(tea.QuitMsg); quit {
				continue
			}
			_, c := m.Update(msg)
			next = append(next, execCmd(c)...)
		}
		queue = next
	}
	return processed
}

// press передает нажатие клавиши и обрабатывает последствия.
func press(t *testing.T, m *model, key tea.KeyMsg) []tea.Msg {
	t.Helper()
	_, cmd := m.Update(key)
	return settle(t, m, cmd)
}

// keyRunes создает нажатие обычных символов.
func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// containsMsg сообщает, что среди сообщений есть сообщение типа T.
func containsMsg[T any](msgs []tea.Msg) bool {
	for _, msg := range msgs {
		if _, ok := msg.(T); ok {
			return true
		}
	}
	return false
}

func testPost(id string, author *models.User) models.Post {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return models.Post{
		ID:        models.ID(id),
		Title:     "Post " + id,
		Body:      "Body of post " + id,
		Author:    author,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func testComment(id, content string, author *models.User) models.Comment {
	created := time.Date(2025, 3, 2, 12, 30, 0, 0, time.UTC)
	return models.Comment{
		ID:        models.ID(id),
		Content:   content,
		Author:    author,
		CreatedAt: created,
		UpdatedAt: created,
	}
}
