// Package config собирает настройки клиента из .env, переменных окружения
// и флагов командной строки. Флаги имеют наивысший приоритет.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	// DefaultAPIURL - адрес API по умолчанию.
	DefaultAPIURL = "http://localhost:5000/api"
	// DefaultCredentialsPath - файл хранилища токена по умолчанию.
	DefaultCredentialsPath = "gophblog.json"
	// DefaultKeystorePath - файл KDBX по умолчанию, если задан пароль хранилища.
	DefaultKeystorePath = "gophblog.kdbx"
	// DefaultLogDir - каталог логов по умолчанию.
	DefaultLogDir = "logs"
)

// Config хранит настройки клиента.
type Config struct {
	APIURL string `env:"GOPHBLOG_API_URL" envDefault:"http://localhost:5000/api"`
	// CredentialsPath по умолчанию зависит от типа хранилища.
	CredentialsPath string `env:"GOPHBLOG_CREDENTIALS"`
	// KeystorePassword включает хранение токена в зашифрованном KDBX-файле.
	KeystorePassword string `env:"GOPHBLOG_KEYSTORE_PASSWORD"`
	LogDir           string `env:"GOPHBLOG_LOG_DIR" envDefault:"logs"`
	Debug            bool   `env:"GOPHBLOG_DEBUG" envDefault:"false"`

	// ShowVersion заполняется только флагом -version.
	ShowVersion bool `env:"-"`
	// InitialPath - маршрут, который откроется после запуска, например "/post/42".
	// Берется из первого позиционного аргумента.
	InitialPath string `env:"-"`
}

// UseKeystore сообщает, нужно ли хранить токен в KDBX вместо JSON-файла.
func (c *Config) UseKeystore() bool {
	return c.KeystorePassword != ""
}

// Load читает .env (если файл есть), переменные окружения и флаги из args.
func Load(args []string) (*Config, error) {
	// Отсутствие .env не ошибка.
	_ = godotenv.Load()
	return parse(args)
}

func parse(args []string) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("ошибка чтения переменных окружения: %w", err)
	}

	if cfg.CredentialsPath == "" {
		cfg.CredentialsPath = DefaultCredentialsPath
		if cfg.UseKeystore() {
			cfg.CredentialsPath = DefaultKeystorePath
		}
	}

	fs := flag.NewFlagSet("gophblog", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	apiURL := fs.String("server-url", "", "URL API блога (env: GOPHBLOG_API_URL, default: "+DefaultAPIURL+")")
	credentials := fs.String("credentials", "", "Путь к файлу с токеном (env: GOPHBLOG_CREDENTIALS)")
	logDir := fs.String("log-dir", "", "Каталог для логов (env: GOPHBLOG_LOG_DIR)")
	debug := fs.Bool("debug", false, "Включить отладочное логирование (env: GOPHBLOG_DEBUG)")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Показать версию и дату сборки")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("ошибка разбора флагов: %w", err)
	}

	cfg.InitialPath = "/"
	if fs.NArg() > 0 {
		cfg.InitialPath = fs.Arg(0)
	}

	// Применяем только явно заданные флаги.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "server-url":
			cfg.APIURL = *apiURL
		case "credentials":
			cfg.CredentialsPath = *credentials
		case "log-dir":
			cfg.LogDir = *logDir
		case "debug":
			cfg.Debug = *debug
		}
	})

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		return errors.New("не указан URL API (-server-url или GOPHBLOG_API_URL)")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("некорректный URL API: %q", c.APIURL)
	}
	if strings.TrimSpace(c.CredentialsPath) == "" {
		return errors.New("не указан путь к файлу токена (-credentials или GOPHBLOG_CREDENTIALS)")
	}
	return nil
}
