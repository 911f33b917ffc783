package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/gophblog/internal/config"
	"github.com/maynagashev/gophblog/internal/storage"
)

func TestSetupLogging(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := filepath.Join(t.TempDir(), "logs")
	closer, err := setupLogging(dir, true)
	require.NoError(t, err)
	slog.Debug("отладочная запись")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Логгер инициализирован")
	assert.Contains(t, string(data), "отладочная запись")
}

func TestNewCredentialStore(t *testing.T) {
	dir := t.TempDir()

	t.Run("ФайловоеХранилище", func(t *testing.T) {
		cfg := &config.Config{CredentialsPath: filepath.Join(dir, "token.json")}
		creds, err := newCredentialStore(cfg)
		require.NoError(t, err)
		assert.IsType(t, &storage.FileStore{}, creds)
	})

	t.Run("KDBX", func(t *testing.T) {
		cfg := &config.Config{
			CredentialsPath:  filepath.Join(dir, "token.kdbx"),
			KeystorePassword: "secret",
		}
		creds, err := newCredentialStore(cfg)
		require.NoError(t, err)
		assert.IsType(t, &storage.KeystoreStore{}, creds)
		require.NoError(t, creds.SaveToken("abc"))
		token, err := creds.Token()
		require.NoError(t, err)
		assert.Equal(t, "abc", token)
	})
}
