// Package storage хранит токен аутентификации между запусками клиента.
// Токен лежит под фиксированным ключом, как в локальном хранилище браузера.
package storage

import "errors"

// TokenKey - фиксированный ключ, под которым сохраняется токен.
const TokenKey = "token"

// ErrEmptyToken возвращается при попытке сохранить пустой токен.
var ErrEmptyToken = errors.New("токен не может быть пустым")

// CredentialStore сохраняет, читает и удаляет токен аутентификации.
// Token возвращает пустую строку без ошибки, если токена нет.
type CredentialStore interface {
	Token() (string, error)
	SaveToken(token string) error
	ClearToken() error
}
