package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigFileEnv задает путь к необязательному YAML-файлу конфигурации
const ConfigFileEnv = "CONFIG_FILE"

// Config содержит все настройки приложения
type Config struct {
	// Server
	Host          string `koanf:"host"`
	Port          string `koanf:"port"`
	PublicBaseURL string `koanf:"public_base_url"`
	CORSOrigins   string `koanf:"cors_origins"`

	// Database
	DBDriver string `koanf:"db_driver"`
	DBPath   string `koanf:"db_path"`
	DBDSN    string `koanf:"db_dsn"`

	// Logging
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	// File Storage
	UploadPath            string        `koanf:"upload_path"`
	MaxImageSize          int64         `koanf:"max_image_size"`
	MaxDocumentSize       int64         `koanf:"max_document_size"`
	MaxImagesPerUpload    int           `koanf:"max_images_per_upload"`
	MaxDocumentsPerUpload int           `koanf:"max_documents_per_upload"`
	ThumbnailWidth        int           `koanf:"thumbnail_width"`
	FileGCInterval        time.Duration `koanf:"file_gc_interval"`
	FileGCGrace           time.Duration `koanf:"file_gc_grace"`
	NameCacheSize         int           `koanf:"name_cache_size"`
	NameCacheTTL          time.Duration `koanf:"name_cache_ttl"`

	// Search
	SearchDefaultLimit int `koanf:"search_default_limit"`
	SearchMaxLimit     int `koanf:"search_max_limit"`

	// Security
	JWTSecret          string        `koanf:"jwt_secret"`
	JWTExpiration      time.Duration `koanf:"jwt_expiration"`
	AdminUsername      string        `koanf:"admin_username"`
	AdminPassword      string        `koanf:"admin_password"`
	LoginRatePerMinute int           `koanf:"login_rate_per_minute"`

	// Telegram: анонсы новостей в канал; без токена отключены
	TelegramBotToken string `koanf:"telegram_bot_token"`
	TelegramChatID   int64  `koanf:"telegram_chat_id"`
}

// Default возвращает конфигурацию по умолчанию
func Default() Config {
	return Config{
		Host:                  "0.0.0.0",
		Port:                  "5000",
		CORSOrigins:           "*",
		DBDriver:              "sqlite",
		DBPath:                "./data/college.db",
		LogLevel:              "info",
		LogFormat:             "json",
		UploadPath:            "./uploads",
		MaxImageSize:          5 * 1024 * 1024,
		MaxDocumentSize:       10 * 1024 * 1024,
		MaxImagesPerUpload:    10,
		MaxDocumentsPerUpload: 10,
		ThumbnailWidth:        300,
		FileGCInterval:        12 * time.Hour,
		FileGCGrace:           72 * time.Hour,
		NameCacheSize:         1024,
		NameCacheTTL:          10 * time.Minute,
		SearchDefaultLimit:    20,
		SearchMaxLimit:        100,
		JWTSecret:             "college_secret_key_change_me",
		JWTExpiration:         time.Hour,
		AdminUsername:         "admin",
		AdminPassword:         "admin",
		LoginRatePerMinute:    10,
	}
}

// Load загружает конфигурацию: значения по умолчанию, затем YAML-файл
// (если задан CONFIG_FILE), затем переменные окружения
func Load() (*Config, error) {
	// Загружаем .env файл если он существует
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// PORT -> port, JWT_SECRET -> jwt_secret
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite":
		if c.DBPath == "" {
			return fmt.Errorf("db_path: required for sqlite driver")
		}
	case "postgres":
		if c.DBDSN == "" {
			return fmt.Errorf("db_dsn: required for postgres driver")
		}
	default:
		return fmt.Errorf("db_driver: unsupported driver %q (sqlite, postgres)", c.DBDriver)
	}

	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("log_format: unsupported format %q (json, console)", c.LogFormat)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret: must not be empty")
	}
	if c.JWTExpiration <= 0 {
		return fmt.Errorf("jwt_expiration: must be positive")
	}
	if c.MaxImageSize <= 0 || c.MaxDocumentSize <= 0 {
		return fmt.Errorf("max_image_size/max_document_size: must be positive")
	}
	if c.MaxImagesPerUpload <= 0 || c.MaxDocumentsPerUpload <= 0 {
		return fmt.Errorf("max_images_per_upload/max_documents_per_upload: must be positive")
	}
	if c.SearchDefaultLimit <= 0 || c.SearchMaxLimit < c.SearchDefaultLimit {
		return fmt.Errorf("search_default_limit: must be positive and not exceed search_max_limit")
	}
	if c.FileGCInterval < 0 || c.FileGCGrace < 0 {
		return fmt.Errorf("file_gc_interval/file_gc_grace: must not be negative")
	}
	if c.TelegramBotToken != "" && c.TelegramChatID == 0 {
		return fmt.Errorf("telegram_chat_id: required when telegram_bot_token is set")
	}
	return nil
}

// Addr возвращает адрес для прослушивания
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// AllowedOrigins разбирает список CORS-источников через запятую
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
