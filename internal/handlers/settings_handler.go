package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// singletonService — настройки одной строкой: чтение и слияние с телом запроса
type singletonService[T any] interface {
	Get(ctx context.Context) (*T, error)
	Put(ctx context.Context, patch []byte) (*T, error)
}

// SettingsHandler отдает и сохраняет запись-одиночку
type SettingsHandler[T any] struct {
	svc singletonService[T]
}

func NewSettingsHandler[T any](svc singletonService[T]) *SettingsHandler[T] {
	return &SettingsHandler[T]{svc: svc}
}

// Register подключает GET (публичный) и PUT (администратор) по одному пути
func (h *SettingsHandler[T]) Register(api *gin.RouterGroup, path string, auth gin.HandlerFunc) {
	api.GET(path, h.Get)
	api.PUT(path, auth, h.Put)
}

func (h *SettingsHandler[T]) Get(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *SettingsHandler[T]) Put(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}
	item, err := h.svc.Put(c.Request.Context(), body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
