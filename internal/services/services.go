package services

import (
	"time"

	"collegesite/internal/models"
	"collegesite/internal/repository"
	"collegesite/pkg/storage"

	"gorm.io/gorm"
)

// Options — параметры сервисов из конфигурации
type Options struct {
	Limits             FileLimits
	NameCacheSize      int
	NameCacheTTL       time.Duration
	GCInterval         time.Duration
	GCGrace            time.Duration
	JWTSecret          string
	JWTExpiration      time.Duration
	SearchDefaultLimit int
	SearchMaxLimit     int
}

// Services собирает все сервисы приложения
type Services struct {
	Files             FileService
	FileGC            *FileGC
	Auth              *AuthService
	Catalog           *Catalog
	News              *NewsService
	Schedule          *ScheduleService
	Search            *SearchService
	SiteSettings      *SingletonService[models.SiteSettings]
	EducationSettings *SingletonService[models.EducationSettings]
	Structure         *StructureService
}

// New создает репозитории и сервисы поверх одного подключения к базе
func New(db *gorm.DB, store *storage.Storage, opts Options) *Services {
	fileRepo := repository.NewFileRepository(db, repository.FileOwners(), repository.TextOwners())
	files := NewFileService(store, fileRepo, opts.Limits, opts.NameCacheSize, opts.NameCacheTTL)

	return &Services{
		Files:   files,
		FileGC:  NewFileGC(store, fileRepo, opts.GCInterval, opts.GCGrace),
		Auth:    NewAuthService(repository.NewUserRepository(db), opts.JWTSecret, opts.JWTExpiration),
		Catalog: NewCatalog(db, files),
		News: NewNewsService(
			repository.NewResourceRepository[models.NewsArticle](db, repository.NewsSchema),
			repository.NewNewsRepository(db),
			files,
		),
		Schedule: NewScheduleService(
			repository.NewResourceRepository[models.ScheduleGroup](db, repository.ScheduleGroupSchema),
			repository.NewResourceRepository[models.Lesson](db, repository.LessonSchema),
			repository.NewScheduleRepository(db),
		),
		Search:            NewSearchService(repository.NewSearchRepository(db), opts.SearchDefaultLimit, opts.SearchMaxLimit),
		SiteSettings:      NewSingletonService(repository.NewSingletonRepository[models.SiteSettings](db), "Settings"),
		EducationSettings: NewSingletonService(repository.NewSingletonRepository[models.EducationSettings](db), "Education settings"),
		Structure:         NewStructureService(repository.NewStructureRepository(db)),
	}
}
