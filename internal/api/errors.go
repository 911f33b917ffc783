package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrAuthorization сигнализирует об ошибке авторизации (401).
var ErrAuthorization = errors.New("ошибка авторизации")

// ErrNotFound сигнализирует, что запрошенный ресурс не найден (404).
var ErrNotFound = errors.New("ресурс не найден")

// NetworkError - запрос не дошел до сервера или ответ не был получен.
type NetworkError struct {
	Op  string // Операция API, например "getPosts"
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: ошибка выполнения запроса: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError - сервер ответил статусом вне диапазона 2xx.
type HTTPError struct {
	Op        string
	Status    int
	Body      string // Тело ответа, только для диагностики
	RequestID string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: статус %d", e.Op, e.Status)
}

// Is позволяет сравнивать ошибку с ErrAuthorization и ErrNotFound через errors.Is.
func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrAuthorization:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	default:
		return false
	}
}

// StatusCode возвращает HTTP статус из ошибки API или 0,
// если ошибка не связана с ответом сервера.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}
