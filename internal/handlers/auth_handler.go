package handlers

import (
	"net/http"

	"collegesite/internal/apperr"
	"collegesite/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthHandler представляет обработчик авторизации
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler создает новый обработчик авторизации
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login выдает токен администратору
func (h *AuthHandler) Login(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}
	var req services.LoginRequest
	if err := services.DecodeJSON(body, &req); err != nil {
		respondError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Me возвращает текущего администратора
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := currentAdmin(c)
	if !ok {
		respondError(c, apperr.Unauthorized("Authorization header required"))
		return
	}
	c.JSON(http.StatusOK, user)
}
