//nolint:testpackage // Это тесты в том же пакете для доступа к приватным компонентам
package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/gophblog/internal/api"
	"github.com/maynagashev/gophblog/internal/auth"
	"github.com/maynagashev/gophblog/internal/router"
	"github.com/maynagashev/gophblog/models"
)

// TestUpdateLoginScreen проверяет переключение полей на экране входа.
func TestUpdateLoginScreen(t *testing.T) {
	tests := []struct {
		name          string
		inputMsg      tea.Msg
		initialField  int
		expectedField int
		expectedRoute router.Name
	}{
		{
			name:          "ПереключениеПоляВперед",
			inputMsg:      tea.KeyMsg{Type: tea.KeyTab},
			initialField:  0,
			expectedField: 1,
			expectedRoute: router.Login,
		},
		{
			name:          "ПереключениеПоляНазад",
			inputMsg:      tea.KeyMsg{Type: tea.KeyShiftTab},
			initialField:  1,
			expectedField: 0,
			expectedRoute: router.Login,
		},
		{
			name:          "ПереключениеСПервогоНаПоследнее",
			inputMsg:      tea.KeyMsg{Type: tea.KeyShiftTab},
			initialField:  0,
			expectedField: 1,
			expectedRoute: router.Login,
		},
		{
			name:          "НажатиеEnter_ПервоеПоле",
			inputMsg:      tea.KeyMsg{Type: tea.KeyEnter},
			initialField:  0,
			expectedField: 1,
			expectedRoute: router.Login,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockClient)
			m := newTestModel(t, client, testModelOptions{})
			_ = m.navigate("/login")
			if tt.initialField != 0 {
				m.login.inputs[0].Blur()
				m.login.focused = tt.initialField
				m.login.inputs[tt.initialField].Focus()
			}

			m.Update(tt.inputMsg)

			assert.Equal(t, tt.expectedField, m.login.focused)
			assert.Equal(t, tt.expectedRoute, m.route.Name)
			for i, in := range m.login.inputs {
				assert.Equal(t, i == tt.expectedField, in.Focused(), "поле %d", i)
			}
		})
	}
}

// TestLoginScreen_Success проверяет, что после входа сессия активна и токен сохранен.
func TestLoginScreen_Success(t *testing.T) {
	client := new(MockClient)
	m := newTestModel(t, client, testModelOptions{})
	require.False(t, m.auth.IsAuthenticated())

	client.On("Login", mock.Anything, models.LoginRequest{Email: "alice@example.com", Password: "secret"}).
		Return(&models.AuthResponse{Token: "jwt-token", User: alice}, nil).Once()
	client.On("GetPosts", mock.Anything).Return([]models.Post{}, nil).Once()

	settle(t, m, m.navigate("/login"))
	// Ввод с клавиатуры: символы не должны перехватываться навигацией.
	press(t, m, keyRunes("alice@example.com"))
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	press(t, m, keyRunes("secret"))
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.auth.IsAuthenticated())
	assert.Equal(t, router.Home, m.route.Name)
	assert.Contains(t, m.renderNavbar(), "Hello, Alice")
	client.AssertExpectations(t)
}

func TestLoginScreen_Failure(t *testing.T) {
	client := new(MockClient)
	m := newTestModel(t, client, testModelOptions{})
	client.On("Login", mock.Anything, mock.Anything).
		Return(nil, &api.HTTPError{Op: "login", Status: 500}).Once()

	settle(t, m, m.navigate("/login"))
	m.login.inputs[0].SetValue("alice@example.com")
	m.login.inputs[1].SetValue("bad")
	m.login.focused = 1
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.auth.IsAuthenticated())
	assert.Equal(t, router.Login, m.route.Name)
	assert.Equal(t, auth.MsgLoginFailed, m.login.err)
	assert.Contains(t, m.View(), auth.MsgLoginFailed)
	assert.False(t, m.login.submitting)
}

func TestLoginScreen_EscReturnsHome(t *testing.T) {
	client := new(MockClient)
	m := newTestModel(t, client, testModelOptions{})
	client.On("GetPosts", mock.Anything).Return([]models.Post{}, nil).Once()

	settle(t, m, m.navigate("/login"))
	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, router.Home, m.route.Name)
}

func TestSignupScreen_Success(t *testing.T) {
	client := new(MockClient)
	m := newTestModel(t, client, testModelOptions{})
	want := models.SignupRequest{
		FirstName: "Alice", LastName: "Smith", Username: "alice",
		Email: "alice@example.com", Password: "secret",
	}
	client.On("Signup", mock.Anything, want).Return(&models.AuthResponse{Token: "t"}, nil).Once()
	client.On("GetProfile", mock.Anything).Return(alice, nil).Once()
	client.On("GetPosts", mock.Anything).Return([]models.Post{}, nil).Once()

	settle(t, m, m.navigate("/signup"))
	require.Len(t, m.signup.inputs, len(signupFields))
	for _, value := range []string{"Alice", "Smith", "alice", "alice@example.com", "secret"} {
		press(t, m, keyRunes(value))
		press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	}

	assert.True(t, m.auth.IsAuthenticated())
	assert.Equal(t, router.Home, m.route.Name)
	client.AssertExpectations(t)
}

func TestSignupScreen_Failure(t *testing.T) {
	client := new(MockClient)
	m := newTestModel(t, client, testModelOptions{})
	client.On("Signup", mock.Anything, mock.Anything).
		Return(nil, &api.HTTPError{Op: "signup", Status: 409}).Once()

	settle(t, m, m.navigate("/signup"))
	m.signup.inputs[signupEmail].SetValue("taken@example.com")
	m.signup.inputs[signupPassword].SetValue("secret")
	m.signup.focused = signupPassword
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, router.Signup, m.route.Name)
	assert.Equal(t, auth.MsgSignupFailed, m.signup.err)
	assert.False(t, m.auth.IsAuthenticated())
}

// TestAuthResult_Stale проверяет, что ответ на старую попытку входа игнорируется.
func TestAuthResult_Stale(t *testing.T) {
	client := new(MockClient)
	m := newTestModel(t, client, testModelOptions{})
	_ = m.navigate("/login")
	m.login.req = 42

	m.Update(authResultMsg{reqID: 41, result: auth.Result{Error: "old"}})

	assert.Empty(t, m.login.err)
	assert.Equal(t, router.Login, m.route.Name)
}

// TestAuthResult_AfterLeavingScreen проверяет, что поздний ответ на вход
// или регистрацию не уводит пользователя с экрана, открытого после ухода.
func TestAuthResult_AfterLeavingScreen(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		signup bool
	}{
		{name: "Вход", path: "/login"},
		{name: "Регистрация", path: "/signup", signup: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockClient)
			m := newTestModel(t, client, testModelOptions{})
			_ = m.navigate(tt.path)
			reqID := m.nextRequestID()
			if tt.signup {
				m.signup.req = reqID
			} else {
				m.login.req = reqID
			}

			_ = m.navigate("/post/p1")
			m.Update(authResultMsg{reqID: reqID, signup: tt.signup, result: auth.Result{Success: true}})

			assert.Equal(t, router.PostDetail, m.route.Name)
			assert.Equal(t, "/post/p1", m.route.Path())
		})
	}
}
