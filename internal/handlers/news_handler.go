package handlers

import (
	"net/http"
	"strconv"

	"collegesite/internal/services"

	"github.com/gin-gonic/gin"
)

// NewsHandler — публичная лента новостей
type NewsHandler struct {
	news *services.NewsService
}

func NewNewsHandler(news *services.NewsService) *NewsHandler {
	return &NewsHandler{news: news}
}

// List отдает опубликованные новости: ?limit=&offset=
func (h *NewsHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	page, err := h.news.ListPublished(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get отдает новость по slug или идентификатору
func (h *NewsHandler) Get(c *gin.Context) {
	article, err := h.news.GetPublished(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}
