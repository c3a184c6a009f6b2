package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"collegesite/internal/apperr"
	"collegesite/internal/models"
	"collegesite/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
)

// Ключ администратора в контексте запроса
const adminKey = "admin"

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "college_http_requests_total",
		Help: "Количество HTTP-запросов",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "college_http_request_duration_seconds",
		Help:    "Длительность обработки HTTP-запросов в секундах",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	loginThrottledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "college_login_throttled_total",
		Help: "Количество попыток входа, отклоненных ограничителем",
	})
)

// AuthMiddleware создает middleware для авторизации администратора
func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Получаем токен из заголовка Authorization или cookie
		var token string
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.Fields(authHeader)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				token = parts[1]
			}
		}
		if token == "" {
			if cookie, err := c.Cookie("jwt"); err == nil {
				token = cookie
			}
		}
		if token == "" {
			respondError(c, apperr.Unauthorized("Authorization header required"))
			return
		}

		user, err := authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			return
		}

		c.Set(adminKey, user)
		c.Next()
	}
}

// currentAdmin возвращает администратора, прошедшего AuthMiddleware
func currentAdmin(c *gin.Context) (*models.AdminUser, bool) {
	v, ok := c.Get(adminKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.AdminUser)
	return user, ok
}

// CORSMiddleware создает middleware для CORS; "*" разрешает любой источник
func CORSMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// MetricsMiddleware считает запросы по шаблону маршрута
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// BodyLimit ограничивает размер тела запроса
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// LoginRateLimit ограничивает частоту попыток входа с одного IP
func LoginRateLimit(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	every := rate.Every(time.Minute / time.Duration(perMinute))
	limiters := expirable.NewLRU[string, *rate.Limiter](4096, nil, 10*time.Minute)
	var mu sync.Mutex

	return func(c *gin.Context) {
		ip := c.ClientIP()
		mu.Lock()
		limiter, ok := limiters.Get(ip)
		if !ok {
			limiter = rate.NewLimiter(every, perMinute)
			limiters.Add(ip, limiter)
		}
		mu.Unlock()

		if !limiter.Allow() {
			loginThrottledTotal.Inc()
			c.Header("Retry-After", "60")
			respondError(c, apperr.TooManyRequests("Too many login attempts, try again later"))
			return
		}
		c.Next()
	}
}
