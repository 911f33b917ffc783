package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/maynagashev/gophblog/internal/api"
	"github.com/maynagashev/gophblog/internal/auth"
	"github.com/maynagashev/gophblog/internal/config"
	"github.com/maynagashev/gophblog/internal/storage"
	"github.com/maynagashev/gophblog/internal/tui"
)

const (
	logFileName        = "client.log"
	logFilePermissions = 0o666
)

// Переменные для версии и даты сборки, устанавливаются через ldflags.
//
//nolint:gochecknoglobals // Устанавливается через ldflags при сборке
var (
	version    = "dev"
	buildDate  = "unknown"
	commitHash = "N/A"
)

// setupLogging настраивает логирование в файл <dir>/client.log.
// TUI занимает терминал, поэтому логи в stdout не пишутся.
func setupLogging(dir string, debug bool) (io.Closer, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию для логов: %w", err)
	}
	logPath := filepath.Join(dir, logFileName)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть лог-файл: %w", err)
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logHandler := slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(logHandler))
	slog.Info("Логгер инициализирован", "path", logPath, "level", level.String())
	return logFile, nil
}

// newCredentialStore выбирает хранилище токена по настройкам.
func newCredentialStore(cfg *config.Config) (storage.CredentialStore, error) {
	if cfg.UseKeystore() {
		keystore, err := storage.NewKeystoreStore(cfg.CredentialsPath, cfg.KeystorePassword)
		if err != nil {
			return nil, err
		}
		return keystore, nil
	}
	return storage.NewFileStore(cfg.CredentialsPath), nil
}

func run() int {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2 //nolint:mnd // Код ошибки использования
	}

	if cfg.ShowVersion {
		fmt.Println("GophBlog Client")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Date: %s\n", buildDate)
		fmt.Printf("Commit Hash: %s\n", commitHash)
		return 0
	}

	logFile, err := setupLogging(cfg.LogDir, cfg.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logFile.Close()

	creds, err := newCredentialStore(cfg)
	if err != nil {
		slog.Error("Ошибка открытия хранилища токена", "path", cfg.CredentialsPath, "error", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	slog.Info("Запуск GophBlog",
		"version", version,
		"api_url", cfg.APIURL,
		"credentials", cfg.CredentialsPath,
		"keystore", cfg.UseKeystore(),
		"initial_path", cfg.InitialPath,
	)

	client := api.NewHTTPClient(cfg.APIURL, creds)
	store := auth.NewStore(client, creds)

	if err = tui.Start(tui.Options{
		Client:      client,
		Auth:        store,
		InitialPath: cfg.InitialPath,
		DebugMode:   cfg.Debug,
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	slog.Info("GophBlog завершен")
	return 0
}

func main() {
	os.Exit(run())
}
