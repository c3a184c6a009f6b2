// Package logging — единый zerolog-логгер приложения.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Config описывает параметры логирования
type Config struct {
	// Level: trace, debug, info, warn, error
	Level string
	// Format: json или console
	Format string
	// Output по умолчанию os.Stderr
	Output io.Writer
}

var (
	mu     sync.RWMutex
	logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Init настраивает глобальный логгер
func Init(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	mu.Lock()
	logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
	mu.Unlock()
}

// Logger возвращает текущий логгер
func Logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

// Component возвращает логгер с полем component
func Component(name string) zerolog.Logger {
	return Logger().With().Str("component", name).Logger()
}

// GinLogger логирует каждый HTTP-запрос; уровень зависит от статуса ответа
func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		l := Logger()
		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = l.Error()
		case status >= 400:
			ev = l.Warn()
		default:
			ev = l.Info()
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Int("bytes", c.Writer.Size()).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

// GormLevel переводит уровень логирования в уровень gorm-логгера:
// 1 silent, 2 error, 3 warn, 4 info
func GormLevel(level string) int {
	switch strings.ToLower(level) {
	case "trace", "debug":
		return 4
	case "info", "warn":
		return 3
	case "error":
		return 2
	default:
		return 1
	}
}
