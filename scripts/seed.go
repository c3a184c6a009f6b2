package main

import (
	"context"
	"fmt"
	"time"

	"collegesite/internal/config"
	"collegesite/internal/models"
	"collegesite/internal/services"
	"collegesite/pkg/database"
	"collegesite/pkg/logging"
	"collegesite/pkg/storage"

	"github.com/goccy/go-json"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Logger().Fatal().Err(err).Msg("Failed to load config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: "console"})
	log := logging.Component("seed")

	// Подключаемся к базе данных
	db, err := database.NewDatabase(database.Options{
		Driver:   cfg.DBDriver,
		Path:     cfg.DBPath,
		DSN:      cfg.DBDSN,
		LogLevel: "error",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.CreateDefaultAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Error().Err(err).Msg("Failed to create default admin")
	}

	store, err := storage.NewStorage(cfg.UploadPath, cfg.ThumbnailWidth)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	svc := services.New(db.DB, store, services.Options{
		SearchDefaultLimit: cfg.SearchDefaultLimit,
		SearchMaxLimit:     cfg.SearchMaxLimit,
		JWTSecret:          cfg.JWTSecret,
		JWTExpiration:      cfg.JWTExpiration,
	})
	ctx := context.Background()

	// Существующие новости означают, что база уже заполнена
	existing, err := svc.News.List(ctx, false)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to check existing content")
	}
	if len(existing) > 0 {
		log.Info().Int("news", len(existing)).Msg("Database already has content, nothing to seed")
		return
	}

	seedSettings(ctx, svc)
	seedNews(ctx, svc)
	seedSchedule(ctx, svc)
	seedStaff(ctx, svc)

	log.Info().Msg("Demo content created")
	log.Info().Str("username", cfg.AdminUsername).Msg("Use the default admin account to sign in")
}

func put[T any](ctx context.Context, name string, svc interface {
	Put(ctx context.Context, patch []byte) (*T, error)
}, value any) {
	patch, err := json.Marshal(value)
	if err != nil {
		logging.Logger().Fatal().Err(err).Str("section", name).Msg("Failed to encode seed data")
	}
	if _, err := svc.Put(ctx, patch); err != nil {
		logging.Logger().Fatal().Err(err).Str("section", name).Msg("Failed to save seed data")
	}
}

func seedSettings(ctx context.Context, svc *services.Services) {
	put[models.SiteSettings](ctx, "settings", svc.SiteSettings, map[string]any{
		"siteName":     "Колледж информационных технологий",
		"phone":        "+7 (495) 123-45-67",
		"email":        "info@college.example",
		"address":      "г. Москва, ул. Студенческая, д. 1",
		"workingHours": "Пн-Пт 8:30-17:00",
		"directorName": "Соколова Елена Викторовна",
	})
	put[models.Structure](ctx, "structure", svc.Structure, map[string]any{
		"title":        "Структура колледжа",
		"headName":     "Соколова Елена Викторовна",
		"headPosition": "Директор",
		"departments": []map[string]any{
			{"name": "Учебная часть", "head": "Орлов Павел Андреевич", "phone": "+7 (495) 123-45-68"},
			{"name": "Отдел воспитательной работы", "head": "Ким Ольга Игоревна"},
			{"name": "Приемная комиссия", "phone": "+7 (495) 123-45-69", "email": "priem@college.example"},
		},
	})
}

func seedNews(ctx context.Context, svc *services.Services) {
	now := time.Now()
	articles := []models.NewsArticle{
		{
			Title:       "День открытых дверей",
			ShortText:   "Приглашаем абитуриентов и родителей",
			FullText:    "В субботу колледж проводит день открытых дверей. Расскажем о специальностях и условиях поступления.",
			PublishedAt: now.Add(-48 * time.Hour),
		},
		{
			Title:       "Олимпиада по информатике",
			ShortText:   "Студенты заняли призовые места",
			FullText:    "Команда колледжа заняла второе место в региональной олимпиаде по информатике.",
			PublishedAt: now.Add(-24 * time.Hour),
		},
		{
			Title:       "Начало летней сессии",
			ShortText:   "Расписание экзаменов опубликовано",
			FullText:    "Расписание экзаменов доступно в разделе «Расписание».",
			PublishedAt: now,
		},
	}
	for i := range articles {
		item := svc.News.New()
		item.Title = articles[i].Title
		item.ShortText = articles[i].ShortText
		item.FullText = articles[i].FullText
		item.PublishedAt = articles[i].PublishedAt
		if _, err := svc.News.Create(ctx, item); err != nil {
			logging.Logger().Fatal().Err(err).Str("title", item.Title).Msg("Failed to create news")
		}
	}
}

func seedSchedule(ctx context.Context, svc *services.Services) {
	groups := []models.ScheduleGroup{
		{Code: "ИС-21", Name: "Информационные системы и программирование", Course: 3},
		{Code: "СА-22", Name: "Сетевое и системное администрирование", Course: 2},
	}
	subjects := []string{"Математика", "Базы данных", "Английский язык", "Операционные системы"}

	for i := range groups {
		group, err := svc.Schedule.Groups.Create(ctx, &groups[i])
		if err != nil {
			logging.Logger().Fatal().Err(err).Str("code", groups[i].Code).Msg("Failed to create group")
		}
		for day := models.MinLessonSlot; day <= models.MaxLessonSlot; day++ {
			for n := 1; n <= 3; n++ {
				lesson := &models.Lesson{
					GroupID:      group.ID,
					DayOfWeek:    models.FlexInt(day),
					LessonNumber: models.FlexInt(n),
					Subject:      subjects[(day+n+i)%len(subjects)],
					Room:         fmt.Sprintf("Ауд. %d0%d", n, day),
				}
				if _, err := svc.Schedule.Lessons.Create(ctx, lesson); err != nil {
					logging.Logger().Fatal().Err(err).Str("code", group.Code).Msg("Failed to create lesson")
				}
			}
		}
	}
}

func seedStaff(ctx context.Context, svc *services.Services) {
	managers := []models.Manager{
		{FullName: "Соколова Елена Викторовна", Position: "Директор", Reception: "Вт 14:00-17:00"},
		{FullName: "Орлов Павел Андреевич", Position: "Заместитель директора по учебной работе"},
	}
	for i := range managers {
		managers[i].IsActive = true
		managers[i].Order = models.FlexInt(i)
		if _, err := svc.Catalog.Managers.Create(ctx, &managers[i]); err != nil {
			logging.Logger().Fatal().Err(err).Str("name", managers[i].FullName).Msg("Failed to create manager")
		}
	}

	employees := []models.Employee{
		{FullName: "Ким Ольга Игоревна", Position: "Преподаватель", Subjects: "Английский язык", ExperienceYears: 8},
		{FullName: "Лебедев Игорь Николаевич", Position: "Преподаватель", Subjects: "Базы данных, информатика", ExperienceYears: 15},
		{FullName: "Васильева Анна Петровна", Position: "Методист", Subjects: "Математика", ExperienceYears: 21},
	}
	for i := range employees {
		employees[i].IsActive = true
		if _, err := svc.Catalog.Employees.Create(ctx, &employees[i]); err != nil {
			logging.Logger().Fatal().Err(err).Str("name", employees[i].FullName).Msg("Failed to create employee")
		}
	}
}
