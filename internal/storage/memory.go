package storage

import "sync"

// MemoryStore хранит токен только в памяти процесса.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

var _ CredentialStore = (*MemoryStore)(nil)

// NewMemoryStore создает хранилище с начальным токеном (может быть пустым).
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (s *MemoryStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryStore) SaveToken(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
