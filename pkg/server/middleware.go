package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/base-angewandte/baseauth/pkg/config"
	"github.com/base-angewandte/baseauth/pkg/i18n"
	"github.com/base-angewandte/baseauth/pkg/logging"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID reuses the caller's request ID or generates one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog logs one line per request.
func AccessLog(log *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []any{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(requestIDKey),
		}
		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// Recovery turns panics into a JSON 500.
func Recovery(log *logging.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered", "path", c.Request.URL.Path, "panic", recovered, "request_id", c.GetString(requestIDKey))
		writeJSONError(c, http.StatusInternalServerError, "internal error", "internal")
	})
}

// Language picks the active language from Accept-Language and echoes it in
// Content-Language.
func Language(m *i18n.Matcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := m.Match(c.GetHeader("Accept-Language"))
		c.Request = c.Request.WithContext(i18n.WithLanguage(c.Request.Context(), lang))
		c.Header("Content-Language", lang)
		c.Next()
	}
}

// CORS returns the CORS middleware for cfg, or nil when no origin is allowed.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	if !cfg.AllowAllOrigins && len(cfg.AllowedOrigins) == 0 {
		return nil
	}
	cc := cors.Config{
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Accept-Language", "Content-Type", RequestIDHeader},
		ExposeHeaders:    []string{"Content-Language", RequestIDHeader},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}
	if cfg.AllowAllOrigins {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cfg.AllowedOrigins
	}
	return cors.New(cc)
}
