package handlers

import (
	"net/http"

	"collegesite/internal/services"

	"github.com/gin-gonic/gin"
)

// ResourceHandler — типовые маршруты ресурса
type ResourceHandler[T any] struct {
	svc *services.ResourceService[T]
}

func NewResourceHandler[T any](svc *services.ResourceService[T]) *ResourceHandler[T] {
	return &ResourceHandler[T]{svc: svc}
}

// Register подключает маршруты ресурса:
//
//	GET    /api/x        публичный список (только активные)
//	GET    /api/x/:id    публичная карточка
//	GET    /api/admin/x  полный список для панели управления
//	POST   /api/x        создание
//	PUT    /api/x/:id    частичное обновление
//	DELETE /api/x/:id    удаление
//	PUT    /api/x        запись по натуральному ключу, если он есть
func (h *ResourceHandler[T]) Register(api *gin.RouterGroup, auth gin.HandlerFunc) {
	h.RegisterAdmin(api, auth)
	path := "/" + h.svc.Schema().Path
	api.GET(path, h.List)
	api.GET(path+"/:id", h.Get)
}

// RegisterAdmin подключает только маршруты администратора
func (h *ResourceHandler[T]) RegisterAdmin(api *gin.RouterGroup, auth gin.HandlerFunc) {
	path := "/" + h.svc.Schema().Path
	api.GET("/admin"+path, auth, h.AdminList)
	api.GET("/admin"+path+"/:id", auth, h.AdminGet)
	api.POST(path, auth, h.Create)
	api.PUT(path+"/:id", auth, h.Update)
	api.DELETE(path+"/:id", auth, h.Delete)
	if h.svc.Schema().NaturalKey != "" {
		api.PUT(path, auth, h.Upsert)
	}
}

func (h *ResourceHandler[T]) List(c *gin.Context) {
	h.list(c, true)
}

func (h *ResourceHandler[T]) AdminList(c *gin.Context) {
	h.list(c, false)
}

func (h *ResourceHandler[T]) list(c *gin.Context, activeOnly bool) {
	items, err := h.svc.List(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ResourceHandler[T]) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.svc.GetActive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// AdminGet возвращает запись независимо от видимости и даты публикации
func (h *ResourceHandler[T]) AdminGet(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ResourceHandler[T]) Create(c *gin.Context) {
	item, ok := h.decode(c)
	if !ok {
		return
	}
	created, err := h.svc.Create(c.Request.Context(), item)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ResourceHandler[T]) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	body, ok := readBody(c)
	if !ok {
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), id, body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ResourceHandler[T]) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.svc.Schema().Label + " deleted"})
}

func (h *ResourceHandler[T]) Upsert(c *gin.Context) {
	item, ok := h.decode(c)
	if !ok {
		return
	}
	saved, err := h.svc.Upsert(c.Request.Context(), item)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// decode разбирает тело поверх новой записи со значениями по умолчанию
func (h *ResourceHandler[T]) decode(c *gin.Context) (*T, bool) {
	body, ok := readBody(c)
	if !ok {
		return nil, false
	}
	item := h.svc.New()
	if err := services.DecodeJSON(body, item); err != nil {
		respondError(c, err)
		return nil, false
	}
	return item, true
}
