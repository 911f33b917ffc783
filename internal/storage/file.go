package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

const (
	credentialsFilePerm = 0600
	credentialsDirPerm  = 0700
)

// FileStore хранит пары ключ-значение в JSON файле.
// Доступ к файлу защищен блокировкой flock, чтобы два запущенных клиента
// не затирали записи друг друга.
// Горутины одного процесса разделяет mu.
type FileStore struct {
	path string
	mu   sync.RWMutex
	lock *flock.Flock
}

var _ CredentialStore = (*FileStore)(nil)

// NewFileStore создает хранилище в файле path. Файл создается при первой записи.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path возвращает путь к файлу хранилища.
func (s *FileStore) Path() string {
	return s.path
}

// Token читает сохраненный токен.
func (s *FileStore) Token() (string, error) {
	if err := s.ensureDir(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.lock.RLock(); err != nil {
		return "", fmt.Errorf("ошибка блокировки файла учетных данных: %w", err)
	}
	defer s.unlock()

	values, err := s.read()
	if err != nil {
		return "", err
	}
	return values[TokenKey], nil
}

// SaveToken сохраняет токен, перезаписывая предыдущий.
func (s *FileStore) SaveToken(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	return s.update(func(values map[string]string) {
		values[TokenKey] = token
	})
}

// ClearToken удаляет токен. Отсутствие файла ошибкой не считается.
func (s *FileStore) ClearToken() error {
	return s.update(func(values map[string]string) {
		delete(values, TokenKey)
	})
}

// update выполняет изменение под эксклюзивной блокировкой.
func (s *FileStore) update(change func(values map[string]string)) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("ошибка блокировки файла учетных данных: %w", err)
	}
	defer s.unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	change(values)
	return s.write(values)
}

func (s *FileStore) read() (map[string]string, error) {
	values := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла учетных данных '%s': %w", s.path, err)
	}
	if len(data) == 0 {
		return values, nil
	}
	if err = json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("ошибка разбора файла учетных данных '%s': %w", s.path, err)
	}
	return values, nil
}

// write сохраняет данные через временный файл, чтобы не оставить
// наполовину записанный JSON при сбое.
func (s *FileStore) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка кодирования учетных данных: %w", err)
	}
	tmpPath := s.path + ".tmp"
	if err = os.WriteFile(tmpPath, data, credentialsFilePerm); err != nil {
		return fmt.Errorf("ошибка записи файла учетных данных '%s': %w", tmpPath, err)
	}
	if err = os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("ошибка замены файла учетных данных '%s': %w", s.path, err)
	}
	return nil
}

func (s *FileStore) ensureDir() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, credentialsDirPerm); err != nil {
		return fmt.Errorf("ошибка создания каталога '%s': %w", dir, err)
	}
	return nil
}

func (s *FileStore) unlock() {
	if err := s.lock.Unlock(); err != nil {
		slog.Error("Ошибка при снятии блокировки файла", "lockPath", s.lock.Path(), "error", err)
	}
}
