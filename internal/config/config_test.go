package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(ConfigFileEnv, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxImageSize != 5*1024*1024 {
		t.Errorf("MaxImageSize = %d, want 5MB", cfg.MaxImageSize)
	}
	if cfg.MaxDocumentSize != 10*1024*1024 {
		t.Errorf("MaxDocumentSize = %d, want 10MB", cfg.MaxDocumentSize)
	}
	if cfg.JWTExpiration != time.Hour {
		t.Errorf("JWTExpiration = %v, want 1h", cfg.JWTExpiration)
	}
	if cfg.SearchDefaultLimit != 20 {
		t.Errorf("SearchDefaultLimit = %d, want 20", cfg.SearchDefaultLimit)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigFileEnv, "")
	t.Setenv("PORT", "8081")
	t.Setenv("JWT_EXPIRATION", "30m")
	t.Setenv("MAX_IMAGE_SIZE", "1024")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8081" {
		t.Errorf("Port = %q, want 8081", cfg.Port)
	}
	if cfg.JWTExpiration != 30*time.Minute {
		t.Errorf("JWTExpiration = %v, want 30m", cfg.JWTExpiration)
	}
	if cfg.MaxImageSize != 1024 {
		t.Errorf("MaxImageSize = %d, want 1024", cfg.MaxImageSize)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: \"7000\"\nsearch_default_limit: 5\nlog_format: console\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigFileEnv, path)
	t.Setenv("PORT", "7001")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7001" {
		t.Errorf("Port = %q, env must win over file", cfg.Port)
	}
	if cfg.SearchDefaultLimit != 5 {
		t.Errorf("SearchDefaultLimit = %d, want 5 from file", cfg.SearchDefaultLimit)
	}
	if cfg.LogFormat != "console" {
		t.Errorf("LogFormat = %q, want console", cfg.LogFormat)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }},
		{"postgres without dsn", func(c *Config) { c.DBDriver = "postgres"; c.DBDSN = "" }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
		{"empty secret", func(c *Config) { c.JWTSecret = "" }},
		{"limit above max", func(c *Config) { c.SearchDefaultLimit = 500 }},
		{"negative gc", func(c *Config) { c.FileGCInterval = -time.Second }},
		{"telegram without chat", func(c *Config) { c.TelegramBotToken = "123:abc" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must be valid: %v", err)
	}
}

func TestAllowedOrigins(t *testing.T) {
	cfg := Default()
	cfg.CORSOrigins = " https://college.ru, ,http://localhost:3000 "
	got := cfg.AllowedOrigins()
	if len(got) != 2 || got[0] != "https://college.ru" || got[1] != "http://localhost:3000" {
		t.Errorf("AllowedOrigins = %v", got)
	}
}
