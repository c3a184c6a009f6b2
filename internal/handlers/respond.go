package handlers

import (
	"errors"
	"io"
	"net/http"

	"collegesite/internal/apperr"
	"collegesite/pkg/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const internalErrorMessage = "Внутренняя ошибка сервера"

// respondError отвечает JSON-ошибкой; внутренние ошибки журналируются, клиент видит общий текст
func respondError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "Request body is too large",
			"limit": maxErr.Limit,
		})
		return
	}

	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		logging.Logger().Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
		c.AbortWithStatusJSON(status, gin.H{"error": internalErrorMessage})
		return
	}

	body := gin.H{}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		for k, v := range appErr.Details {
			body[k] = v
		}
		body["error"] = appErr.Message
	} else {
		body["error"] = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}

// parseID разбирает идентификатор из пути
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperr.Validation("Invalid ID"))
		return uuid.Nil, false
	}
	return id, true
}

// readBody читает тело запроса целиком
func readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return body, true
}
