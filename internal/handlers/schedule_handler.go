package handlers

import (
	"net/http"

	"collegesite/internal/services"

	"github.com/gin-gonic/gin"
)

// ScheduleHandler — публичное расписание групп
type ScheduleHandler struct {
	schedule *services.ScheduleService
}

func NewScheduleHandler(schedule *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule}
}

func (h *ScheduleHandler) ListGroups(c *gin.Context) {
	groups, err := h.schedule.ListGroups(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// GetGroup отдает группу по коду вместе с парами
func (h *ScheduleHandler) GetGroup(c *gin.Context) {
	group, err := h.schedule.GroupByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}
