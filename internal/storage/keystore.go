package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/tobischo/gokeepasslib/v3"
	"github.com/tobischo/gokeepasslib/v3/wrappers"
)

// CustomDataKeyToken - ключ пользовательских данных KDBX, под которым лежит токен.
const CustomDataKeyToken = "GophBlogToken" //nolint:gosec // Это имя ключа, а не сам токен

// KeystoreStore хранит токен в зашифрованном файле KDBX,
// в пользовательских данных метаданных базы.
// flock разделяет процессы, mu разделяет горутины одного процесса:
// повторная блокировка того же flock не ждет.
type KeystoreStore struct {
	path     string
	password string
	mu       sync.RWMutex
	lock     *flock.Flock
}

var _ CredentialStore = (*KeystoreStore)(nil)

// NewKeystoreStore создает хранилище в файле KDBX, защищенном паролем.
func NewKeystoreStore(path, password string) (*KeystoreStore, error) {
	if password == "" {
		return nil, errors.New("пароль хранилища ключей не может быть пустым")
	}
	return &KeystoreStore{
		path:     path,
		password: password,
		lock:     flock.New(path + ".lock"),
	}, nil
}

// Token читает токен из KDBX. Если файла нет, токена нет.
func (s *KeystoreStore) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.lock.RLock(); err != nil {
		return "", fmt.Errorf("ошибка блокировки хранилища ключей: %w", err)
	}
	defer s.unlock()

	db, err := s.open()
	if err != nil || db == nil {
		return "", err
	}
	return customDataValue(db.Content.Meta.CustomData, CustomDataKeyToken), nil
}

// SaveToken сохраняет токен, создавая файл KDBX при необходимости.
func (s *KeystoreStore) SaveToken(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	return s.update(func(meta *gokeepasslib.MetaData) {
		meta.CustomData = setCustomDataValue(meta.CustomData, CustomDataKeyToken, token)
	})
}

// ClearToken удаляет токен из KDBX.
func (s *KeystoreStore) ClearToken() error {
	return s.update(func(meta *gokeepasslib.MetaData) {
		meta.CustomData = removeCustomDataValue(meta.CustomData, CustomDataKeyToken)
	})
}

func (s *KeystoreStore) update(change func(meta *gokeepasslib.MetaData)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("ошибка блокировки хранилища ключей: %w", err)
	}
	defer s.unlock()

	db, err := s.open()
	if err != nil {
		return err
	}
	if db == nil {
		db = newKeystoreDatabase(s.password)
	}
	change(db.Content.Meta)
	touchRootGroup(db)
	return s.save(db)
}

// open открывает и дешифрует файл. Возвращает nil без ошибки, если файла нет.
func (s *KeystoreStore) open() (*gokeepasslib.Database, error) {
	file, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil //nolint:nilnil // Отсутствие файла означает пустое хранилище
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла '%s': %w", s.path, err)
	}
	defer file.Close()

	db := gokeepasslib.NewDatabase()
	db.Credentials = gokeepasslib.NewPasswordCredentials(s.password)
	if err = gokeepasslib.NewDecoder(file).Decode(db); err != nil {
		return nil, fmt.Errorf("ошибка дешифрования файла '%s': %w", s.path, err)
	}
	if db.Content == nil || db.Content.Meta == nil {
		return nil, fmt.Errorf("файл '%s' не содержит метаданных", s.path)
	}
	return db, nil
}

// save кодирует базу во временный файл и заменяет им основной,
// читатели не видят наполовину записанный KDBX.
func (s *KeystoreStore) save(db *gokeepasslib.Database) error {
	if err := db.LockProtectedEntries(); err != nil {
		slog.Warn("Не удалось заблокировать поля перед сохранением", "error", err)
	}
	tmpPath := s.path + ".tmp"
	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, credentialsFilePerm)
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла '%s': %w", tmpPath, err)
	}

	if err = gokeepasslib.NewEncoder(file).Encode(db); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("ошибка кодирования и записи БД в файл '%s': %w", tmpPath, err)
	}
	if err = file.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("ошибка закрытия файла '%s': %w", tmpPath, err)
	}
	if err = os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("ошибка замены файла '%s': %w", s.path, err)
	}
	return nil
}

func (s *KeystoreStore) unlock() {
	if err := s.lock.Unlock(); err != nil {
		slog.Error("Ошибка при снятии блокировки хранилища ключей", "lockPath", s.lock.Path(), "error", err)
	}
}

// newKeystoreDatabase создает пустую базу KDBX с корневой группой.
func newKeystoreDatabase(password string) *gokeepasslib.Database {
	db := gokeepasslib.NewDatabase()
	db.Credentials = gokeepasslib.NewPasswordCredentials(password)
	db.Content = gokeepasslib.NewContent()
	db.Content.Meta.DatabaseName = "gophblog"
	db.Content.Meta.CustomData = []gokeepasslib.CustomData{}

	rootGroup := gokeepasslib.NewGroup()
	rootGroup.Name = "Root"
	db.Content.Root = &gokeepasslib.RootData{
		Groups: []gokeepasslib.Group{rootGroup},
	}
	return db
}

// touchRootGroup обновляет время модификации корневой группы.
func touchRootGroup(db *gokeepasslib.Database) {
	if db.Content.Root == nil || len(db.Content.Root.Groups) == 0 {
		return
	}
	modTime := wrappers.TimeWrapper{Time: time.Now().UTC()}
	db.Content.Root.Groups[0].Times.LastModificationTime = &modTime
}

func customDataValue(items []gokeepasslib.CustomData, key string) string {
	for _, item := range items {
		if item.Key == key {
			return item.Value
		}
	}
	return ""
}

// setCustomDataValue обновляет или добавляет значение в слайс CustomData.
func setCustomDataValue(items []gokeepasslib.CustomData, key, value string) []gokeepasslib.CustomData {
	for i := range items {
		if items[i].Key == key {
			items[i].Value = value
			return items
		}
	}
	return append(items, gokeepasslib.CustomData{Key: key, Value: value})
}

// removeCustomDataValue удаляет значение из слайса CustomData по ключу.
func removeCustomDataValue(items []gokeepasslib.CustomData, key string) []gokeepasslib.CustomData {
	kept := make([]gokeepasslib.CustomData, 0, len(items))
	for _, item := range items {
		if item.Key != key {
			kept = append(kept, item)
		}
	}
	return kept
}
