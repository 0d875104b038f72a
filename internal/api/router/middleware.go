package router

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cuongbtq/jobconnect/internal/api/handler"
	"github.com/cuongbtq/jobconnect/internal/api/ratelimit"
)

const (
	// UserIDHeader is set by the upstream authentication layer
	UserIDHeader    = "X-User-ID"
	RequestIDHeader = "X-Request-ID"
)

// Limiter decides whether a user may make another chat request
type Limiter interface {
	Allow(ctx context.Context, userID int64) (ratelimit.Decision, error)
}

// RequestIDMiddleware propagates or generates a request ID
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware logs HTTP requests with slog
func LoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		logger.Info("HTTP Request",
			slog.Int("status", c.Writer.Status()),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("query", query),
			slog.String("ip", c.ClientIP()),
			slog.String("request_id", c.GetString("request_id")),
			slog.Duration("latency", latency),
			slog.Int("body_size", c.Writer.Size()),
		)

		for _, e := range c.Errors {
			logger.Error("Request error",
				slog.String("error", e.Error()),
				slog.Uint64("type", uint64(e.Type)),
			)
		}
	}
}

// ActingUserMiddleware reads the authenticated user from X-User-ID
func ActingUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseInt(c.GetHeader(UserIDHeader), 10, 64)
		if err != nil || userID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}

		c.Set(handler.ActingUserKey, userID)
		c.Next()
	}
}

// RateLimitMiddleware answers 429 once the acting user exhausts the window.
// Limiter errors are logged and the request is let through.
func RateLimitMiddleware(limiter Limiter, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := handler.ActingUserID(c)
		if !ok {
			c.Next()
			return
		}

		decision, err := limiter.Allow(c.Request.Context(), userID)
		if err != nil {
			logger.Warn("Rate limiter unavailable, allowing request",
				slog.Int64("user_id", userID),
				slog.Any("error", err),
			)
			c.Next()
			return
		}

		if !decision.Allowed {
			retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests, please slow down",
			})
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Next()
	}
}
