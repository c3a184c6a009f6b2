package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"collegesite/internal/models"
	"collegesite/pkg/logging"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options параметры подключения
type Options struct {
	// Driver: sqlite или postgres
	Driver   string
	Path     string
	DSN      string
	LogLevel string
}

// Database представляет подключение к базе данных
type Database struct {
	DB *gorm.DB
}

// NewDatabase создает новое подключение к базе данных
func NewDatabase(opts Options) (*Database, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(opts.Driver) {
	case "postgres":
		dialector = postgres.Open(opts.DSN)
	case "", "sqlite":
		// Создаем директорию для базы данных если она не существует
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dialector = sqlite.Open(opts.Path + "?_foreign_keys=on&_busy_timeout=5000")
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(logging.Logger(), logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.LogLevel(logging.GormLevel(opts.LogLevel)),
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	database := &Database{DB: db}

	// Автомиграция моделей
	if err := database.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return database, nil
}

// Migrate выполняет миграцию базы данных
func (d *Database) Migrate() error {
	return d.DB.AutoMigrate(
		&models.AdminUser{},
		&models.UploadedFile{},
		&models.NewsArticle{},
		&models.DocumentRecord{},
		&models.StudentDocument{},
		&models.StructureDocument{},
		&models.Manager{},
		&models.Employee{},
		&models.ScheduleGroup{},
		&models.Lesson{},
		&models.Structure{},
		&models.StructureDepartment{},
		&models.SiteSettings{},
		&models.EducationSettings{},
		&models.AdmissionContact{},
		&models.Slide{},
		&models.Announcement{},
		&models.StudentLifeItem{},
		&models.EducationProgram{},
		&models.Specialty{},
		&models.PaidService{},
		&models.BudgetRecord{},
		&models.Grant{},
		&models.CateringObject{},
	)
}

// Ping проверяет доступность базы
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close закрывает подключение к базе данных
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CreateDefaultAdmin создает администратора, если учетных записей еще нет
func (d *Database) CreateDefaultAdmin(username, password string) error {
	var count int64
	if err := d.DB.Model(&models.AdminUser{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count admin users: %w", err)
	}
	if count > 0 {
		return nil
	}
	if username == "" || password == "" {
		return errors.New("default admin credentials are empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := models.AdminUser{Username: username, PasswordHash: string(hash)}
	if err := d.DB.Create(&admin).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("failed to create default admin: %w", err)
	}

	logging.Logger().Info().Str("username", username).Msg("Default admin created")
	return nil
}
