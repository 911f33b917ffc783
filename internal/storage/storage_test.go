package storage_test

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/gophblog/internal/storage"
)

const testKeystorePassword = "password123"

// storeFactories перечисляет реализации, которые должны вести себя одинаково.
func storeFactories(t *testing.T) map[string]func() storage.CredentialStore {
	t.Helper()
	return map[string]func() storage.CredentialStore{
		"memory": func() storage.CredentialStore {
			return storage.NewMemoryStore("")
		},
		"file": func() storage.CredentialStore {
			return storage.NewFileStore(filepath.Join(t.TempDir(), "nested", "credentials.json"))
		},
		"keystore": func() storage.CredentialStore {
			s, err := storage.NewKeystoreStore(filepath.Join(t.TempDir(), "keystore.kdbx"), testKeystorePassword)
			require.NoError(t, err)
			return s
		},
	}
}

func TestCredentialStores(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("ПустоеХранилище", func(t *testing.T) {
				s := factory()
				token, err := s.Token()
				require.NoError(t, err)
				assert.Empty(t, token)
			})

			t.Run("СохранениеИЧтение", func(t *testing.T) {
				s := factory()
				require.NoError(t, s.SaveToken("first"))
				require.NoError(t, s.SaveToken("second"))

				token, err := s.Token()
				require.NoError(t, err)
				assert.Equal(t, "second", token)
			})

			t.Run("Очистка", func(t *testing.T) {
				s := factory()
				require.NoError(t, s.SaveToken("value"))
				require.NoError(t, s.ClearToken())

				token, err := s.Token()
				require.NoError(t, err)
				assert.Empty(t, token)
			})

			t.Run("ОчисткаПустого", func(t *testing.T) {
				s := factory()
				require.NoError(t, s.ClearToken())
			})

			t.Run("ПустойТокенЗапрещен", func(t *testing.T) {
				s := factory()
				require.ErrorIs(t, s.SaveToken(""), storage.ErrEmptyToken)
			})
		})
	}
}

func TestFileStore_PersistsBetweenInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	require.NoError(t, storage.NewFileStore(path).SaveToken("persisted"))

	token, err := storage.NewFileStore(path).Token()
	require.NoError(t, err)
	assert.Equal(t, "persisted", token)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "файл с токеном доступен только владельцу")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"token"`, "токен хранится под фиксированным ключом")
}

func TestFileStore_CorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := storage.NewFileStore(path).Token()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ошибка разбора файла учетных данных")
}

func TestKeystoreStore(t *testing.T) {
	t.Run("ПустойПароль", func(t *testing.T) {
		_, err := storage.NewKeystoreStore(filepath.Join(t.TempDir(), "k.kdbx"), "")
		require.Error(t, err)
	})

	t.Run("НеверныйПароль", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "k.kdbx")
		s, err := storage.NewKeystoreStore(path, testKeystorePassword)
		require.NoError(t, err)
		require.NoError(t, s.SaveToken("secret"))

		other, err := storage.NewKeystoreStore(path, "wrong-password")
		require.NoError(t, err)
		_, err = other.Token()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ошибка дешифрования файла")
	})

	t.Run("ТокенНеХранитсяОткрытымТекстом", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "k.kdbx")
		s, err := storage.NewKeystoreStore(path, testKeystorePassword)
		require.NoError(t, err)
		require.NoError(t, s.SaveToken("very-recognizable-token"))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "very-recognizable-token")
	})
}

// TestCredentialStores_ConcurrentAccess проверяет, что чтение во время записи
// из другой горутины того же процесса видит только целый файл.
func TestCredentialStores_ConcurrentAccess(t *testing.T) {
	const iterations = 5
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory()
			require.NoError(t, s.SaveToken("token-initial"))

			var wg sync.WaitGroup
			wg.Add(2) //nolint:mnd // Писатель и читатель
			go func() {
				defer wg.Done()
				for i := 0; i < iterations; i++ {
					assert.NoError(t, s.SaveToken(fmt.Sprintf("token-%d", i)))
				}
			}()
			go func() {
				defer wg.Done()
				for i := 0; i < iterations*2; i++ {
					token, err := s.Token()
					assert.NoError(t, err)
					assert.Contains(t, token, "token-")
				}
			}()
			wg.Wait()

			token, err := s.Token()
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("token-%d", iterations-1), token)
		})
	}
}
