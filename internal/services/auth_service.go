package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"collegesite/internal/apperr"
	"collegesite/internal/models"
	"collegesite/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const invalidCredentials = "Invalid username or password"

// dummyHash сравнивается при неизвестном логине, чтобы время ответа не выдавало наличие пользователя
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("college-dummy-password"), bcrypt.DefaultCost)

// LoginRequest — тело запроса на вход
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResult — выданный токен
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthService представляет сервис авторизации администраторов
type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewAuthService создает новый сервис авторизации
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, ttl time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
		now:       time.Now,
	}
}

// Login проверяет пароль и выдает JWT токен
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		return nil, apperr.Unauthorized(invalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.Unauthorized(invalidCredentials)
	}

	return s.generateJWT(user)
}

// ValidateToken валидирует JWT токен и возвращает администратора
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*models.AdminUser, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnauthorized, "Invalid or expired token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, apperr.Unauthorized("Invalid token claims")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid token claims")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("User not found")
		}
		return nil, err
	}
	return user, nil
}

// generateJWT генерирует JWT токен для администратора
func (s *AuthService) generateJWT(user *models.AdminUser) (*LoginResult, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"exp":      expiresAt.Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &LoginResult{Token: signed, ExpiresAt: expiresAt.UTC().Truncate(time.Second)}, nil
}
