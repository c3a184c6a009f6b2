package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"mime"
	"net/http"
	"os"
	"path"
	"strings"

	"collegesite/internal/models"
	"collegesite/internal/services"
	"collegesite/pkg/logging"
	"collegesite/pkg/storage"

	"github.com/gin-gonic/gin"
)

const defaultSiteName = "Колледж"

//go:embed templates/not_found.html
var templatesFS embed.FS

var notFoundTemplate = template.Must(template.ParseFS(templatesFS, "templates/not_found.html"))

// StaticHandler отдает загруженные файлы с исходным именем в Content-Disposition
type StaticHandler struct {
	store    *storage.Storage
	files    services.FileService
	settings singletonService[models.SiteSettings]
}

func NewStaticHandler(store *storage.Storage, files services.FileService, settings singletonService[models.SiteSettings]) *StaticHandler {
	return &StaticHandler{store: store, files: files, settings: settings}
}

// Serve обрабатывает GET /uploads/*filepath
func (h *StaticHandler) Serve(c *gin.Context) {
	rel := path.Clean(strings.TrimPrefix(c.Param("filepath"), "/"))
	full, err := h.store.Resolve(rel)
	if err != nil {
		h.notFound(c, rel)
		return
	}

	f, err := os.Open(full)
	if err != nil {
		h.notFound(c, rel)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		h.notFound(c, rel)
		return
	}

	meta, ok := h.files.Meta(c.Request.Context(), rel)
	if !ok {
		meta.Name = path.Base(rel)
	}
	// тип берется из записи о загрузке
	if meta.MimeType != "" {
		c.Header("Content-Type", meta.MimeType)
	}
	c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": meta.Name}))
	c.Header("Cache-Control", "public, max-age=86400")
	c.Header("X-Content-Type-Options", "nosniff")

	http.ServeContent(c.Writer, c.Request, full, info.ModTime(), f)
}

func (h *StaticHandler) notFound(c *gin.Context, rel string) {
	siteName := defaultSiteName
	if h.settings != nil {
		if s, err := h.settings.Get(c.Request.Context()); err == nil && s.SiteName != "" {
			siteName = s.SiteName
		}
	}

	var buf bytes.Buffer
	err := notFoundTemplate.Execute(&buf, struct {
		SiteName string
		Path     string
	}{siteName, rel})
	if err != nil {
		logging.Logger().Error().Err(err).Msg("Failed to render not found page")
		c.String(http.StatusNotFound, "Файл не найден")
		return
	}
	c.Data(http.StatusNotFound, "text/html; charset=utf-8", buf.Bytes())
}
