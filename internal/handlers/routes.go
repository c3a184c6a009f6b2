package handlers

import (
	"net/http"

	"collegesite/internal/models"
	"collegesite/internal/services"
	"collegesite/pkg/logging"
	"collegesite/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps — зависимости HTTP-слоя
type Deps struct {
	Services *services.Services
	Store    *storage.Storage
	DB       Pinger

	CORSOrigins        []string
	BodyLimit          int64
	LoginRatePerMinute int
}

// SetupRouter создает gin-роутер со всеми маршрутами сайта
func SetupRouter(d Deps) *gin.Engine {
	svc := d.Services

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.GinLogger())
	router.Use(MetricsMiddleware())
	router.Use(CORSMiddleware(d.CORSOrigins))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Загруженные файлы
	static := NewStaticHandler(d.Store, svc.Files, svc.SiteSettings)
	router.GET("/uploads/*filepath", static.Serve)
	router.HEAD("/uploads/*filepath", static.Serve)

	api := router.Group("/api")
	if d.BodyLimit > 0 {
		api.Use(BodyLimit(d.BodyLimit))
	}
	auth := AuthMiddleware(svc.Auth)

	api.GET("/health", NewHealthHandler(d.DB).Health)

	// Авторизация
	authHandler := NewAuthHandler(svc.Auth)
	api.POST("/auth/login", LoginRateLimit(d.LoginRatePerMinute), authHandler.Login)
	api.GET("/auth/me", auth, authHandler.Me)

	// Типовые ресурсы
	catalog := svc.Catalog
	NewResourceHandler(catalog.Documents).Register(api, auth)
	NewResourceHandler(catalog.StudentDocuments).Register(api, auth)
	NewResourceHandler(catalog.StructureDocuments).Register(api, auth)
	NewResourceHandler(catalog.Managers).Register(api, auth)
	NewResourceHandler(catalog.Employees).Register(api, auth)
	NewResourceHandler(catalog.Slides).Register(api, auth)
	NewResourceHandler(catalog.Announcements).Register(api, auth)
	NewResourceHandler(catalog.StudentLife).Register(api, auth)
	NewResourceHandler(catalog.Programs).Register(api, auth)
	NewResourceHandler(catalog.Specialties).Register(api, auth)
	NewResourceHandler(catalog.PaidServices).Register(api, auth)
	NewResourceHandler(catalog.Budget).Register(api, auth)
	NewResourceHandler(catalog.Grants).Register(api, auth)
	NewResourceHandler(catalog.Catering).Register(api, auth)
	NewResourceHandler(catalog.AdmissionContacts).Register(api, auth)

	// Новости: публичная лента по slug, изменение через типовые маршруты
	newsHandler := NewNewsHandler(svc.News)
	NewResourceHandler(svc.News.ResourceService).RegisterAdmin(api, auth)
	api.GET("/news", newsHandler.List)
	api.GET("/news/:slug", newsHandler.Get)

	// Расписание
	scheduleHandler := NewScheduleHandler(svc.Schedule)
	NewResourceHandler(svc.Schedule.Groups).Register(api, auth)
	NewResourceHandler(svc.Schedule.Lessons).Register(api, auth)
	api.GET("/schedule/groups", scheduleHandler.ListGroups)
	api.GET("/schedule/groups/:code", scheduleHandler.GetGroup)

	// Настройки
	NewSettingsHandler[models.SiteSettings](svc.SiteSettings).Register(api, "/settings", auth)
	NewSettingsHandler[models.EducationSettings](svc.EducationSettings).Register(api, "/education-settings", auth)
	NewSettingsHandler[models.Structure](svc.Structure).Register(api, "/structure", auth)

	api.GET("/search", NewSearchHandler(svc.Search).Search)

	// Файлы
	fileHandler := NewFileHandler(svc.Files)
	api.POST("/upload/:category", auth, fileHandler.Upload)
	api.GET("/files", auth, fileHandler.List)
	api.GET("/files/usage", auth, fileHandler.Usage)
	api.DELETE("/files", auth, fileHandler.Delete)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return router
}
