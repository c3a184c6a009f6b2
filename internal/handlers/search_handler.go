package handlers

import (
	"net/http"
	"strconv"

	"collegesite/internal/services"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	search *services.SearchService
}

func NewSearchHandler(search *services.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// Search ищет по сайту: ?q=&limit=
func (h *SearchHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	result, err := h.search.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
