package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"collegesite/internal/config"
	"collegesite/internal/handlers"
	"collegesite/internal/services"
	"collegesite/pkg/database"
	"collegesite/pkg/logging"
	"collegesite/pkg/storage"
	"collegesite/pkg/telegram"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		logging.Logger().Fatal().Err(err).Msg("Failed to load config")
	}

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log := logging.Component("main")

	// Подключаемся к базе данных
	db, err := database.NewDatabase(database.Options{
		Driver:   cfg.DBDriver,
		Path:     cfg.DBPath,
		DSN:      cfg.DBDSN,
		LogLevel: cfg.LogLevel,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Создаем администратора по умолчанию
	if err := db.CreateDefaultAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Error().Err(err).Msg("Failed to create default admin")
	}

	// Инициализируем файловое хранилище
	store, err := storage.NewStorage(cfg.UploadPath, cfg.ThumbnailWidth)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	svc := services.New(db.DB, store, services.Options{
		Limits: services.FileLimits{
			MaxImageSize:      cfg.MaxImageSize,
			MaxDocumentSize:   cfg.MaxDocumentSize,
			MaxImagesCount:    cfg.MaxImagesPerUpload,
			MaxDocumentsCount: cfg.MaxDocumentsPerUpload,
		},
		NameCacheSize:      cfg.NameCacheSize,
		NameCacheTTL:       cfg.NameCacheTTL,
		GCInterval:         cfg.FileGCInterval,
		GCGrace:            cfg.FileGCGrace,
		JWTSecret:          cfg.JWTSecret,
		JWTExpiration:      cfg.JWTExpiration,
		SearchDefaultLimit: cfg.SearchDefaultLimit,
		SearchMaxLimit:     cfg.SearchMaxLimit,
	})

	// Анонсы новостей в Telegram
	if cfg.TelegramBotToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramBotToken, cfg.TelegramChatID, cfg.PublicBaseURL)
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize Telegram bot, news announcements disabled")
		} else {
			svc.News.SetAnnouncer(bot)
			log.Info().Int64("chat_id", cfg.TelegramChatID).Msg("Telegram news announcements enabled")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc.FileGC.Start(ctx)
	defer svc.FileGC.Stop()

	gin.SetMode(gin.ReleaseMode)
	router := handlers.SetupRouter(handlers.Deps{
		Services:           svc,
		Store:              store,
		DB:                 db,
		CORSOrigins:        cfg.AllowedOrigins(),
		BodyLimit:          bodyLimit(cfg),
		LoginRatePerMinute: cfg.LoginRatePerMinute,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("db_driver", cfg.DBDriver).Msg("Starting college site server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
}

// bodyLimit — самая большая допустимая загрузка плюс запас на поля формы
func bodyLimit(cfg *config.Config) int64 {
	images := cfg.MaxImageSize * int64(cfg.MaxImagesPerUpload)
	documents := cfg.MaxDocumentSize * int64(cfg.MaxDocumentsPerUpload)
	return max(images, documents) + 1<<20
}
