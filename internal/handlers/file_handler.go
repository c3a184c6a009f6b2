package handlers

import (
	"mime/multipart"
	"net/http"

	"collegesite/internal/apperr"
	"collegesite/internal/models"
	"collegesite/internal/services"

	"github.com/gin-gonic/gin"
)

// Поля формы, в которых принимаются файлы
var uploadFields = []string{"files", "file", "image"}

// FileHandler — загрузка и удаление файлов в панели управления
type FileHandler struct {
	files services.FileService
}

func NewFileHandler(files services.FileService) *FileHandler {
	return &FileHandler{files: files}
}

// Upload принимает файлы категории images или documents
func (h *FileHandler) Upload(c *gin.Context) {
	category := models.FileCategory(c.Param("category"))
	if !category.Valid() {
		respondError(c, apperr.Validation("Unknown file category"))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, apperr.Wrap(apperr.KindValidation, "Failed to parse multipart form", err))
		return
	}
	defer form.RemoveAll()

	var headers []*multipart.FileHeader
	for _, field := range uploadFields {
		headers = append(headers, form.File[field]...)
	}

	results, err := h.files.Upload(c.Request.Context(), category, headers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"files": results})
}

// List отдает загруженные файлы: ?category=
func (h *FileHandler) List(c *gin.Context) {
	files, err := h.files.List(c.Request.Context(), models.FileCategory(c.Query("category")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, files)
}

// Usage показывает, какие записи ссылаются на файл: ?path=
func (h *FileHandler) Usage(c *gin.Context) {
	usage, err := h.files.Usage(c.Request.Context(), c.Query("path"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usage)
}

// Delete удаляет файл без ссылок: ?path=
func (h *FileHandler) Delete(c *gin.Context) {
	if err := h.files.Delete(c.Request.Context(), c.Query("path")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "File deleted"})
}
