package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cuongbtq/jobconnect/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes. A nil
// limiter disables chat rate limiting.
func SetupRouter(deps *handler.Dependencies, limiter Limiter) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(cors.New(corsConfig()))

	r.GET("/health", handler.NewHealthHandler(deps).Health)

	chatHandler := handler.NewChatHandler(deps)
	postingHandler := handler.NewPostingHandler(deps)

	v1 := r.Group("/api/v1")
	{
		chat := v1.Group("/chat", ActingUserMiddleware())
		if limiter != nil {
			chat.Use(RateLimitMiddleware(limiter, deps.Logger))
		}
		// POST /api/v1/chat - interpret a natural-language command
		chat.POST("", chatHandler.Chat)

		postings := v1.Group("/postings")
		{
			// GET /api/v1/postings - list postings, newest first
			postings.GET("", postingHandler.ListPostings)

			// GET /api/v1/postings/:id - posting details
			postings.GET("/:id", postingHandler.GetPosting)
		}
	}

	return r
}

func corsConfig() cors.Config {
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = []string{
		"Origin", "Content-Length", "Content-Type", "Authorization",
		UserIDHeader, RequestIDHeader,
	}
	config.ExposeHeaders = []string{RequestIDHeader, "Retry-After", "X-RateLimit-Remaining"}
	config.MaxAge = 12 * time.Hour
	return config
}
