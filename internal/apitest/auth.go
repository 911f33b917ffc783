package apitest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

// userIDKey - ключ идентификатора пользователя в контексте запроса.
const userIDKey contextKey = "user_id"

const (
	tokenTTL    = 24 * time.Hour
	tokenIssuer = "gophblog-apitest"
)

// jwtClaims - данные, которые хранятся в токене.
type jwtClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

var (
	errInvalidCredentials = errors.New("неверный email или пароль")
	errEmailTaken         = errors.New("email уже зарегистрирован")
)

// hashPassword хэширует пароль bcrypt с минимальной стоимостью,
// тестам не нужна стойкость хэша.
func hashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хэширования пароля: %w", err)
	}
	return hash, nil
}

func checkPassword(hash []byte, password string) error {
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return errInvalidCredentials
	}
	return nil
}

// issueToken генерирует JWT токен для пользователя.
func (s *Server) issueToken(userID string) (string, error) {
	now := s.now()
	claims := jwtClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}
	return signed, nil
}

// parseToken проверяет подпись токена и возвращает идентификатор пользователя.
func (s *Server) parseToken(tokenString string) (string, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.UserID == "" {
		return "", errors.New("невалидный токен")
	}
	return claims.UserID, nil
}

// authenticator проверяет Bearer токен и кладет идентификатор
// пользователя в контекст запроса.
func (s *Server) authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, r, http.StatusUnauthorized, "отсутствует заголовок Authorization")
			return
		}
		parts := strings.SplitN(authHeader, " ", 2) //nolint:mnd // "Bearer <token>"
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeError(w, r, http.StatusUnauthorized, "неверный формат заголовка Authorization")
			return
		}

		userID, err := s.parseToken(parts[1])
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "невалидный токен")
			return
		}
		if s.userByID(userID) == nil {
			writeError(w, r, http.StatusUnauthorized, "пользователь не найден")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUserID извлекает идентификатор пользователя из контекста.
func currentUserID(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}
