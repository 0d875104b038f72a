package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cuongbtq/jobconnect/internal/api/model"
	"github.com/cuongbtq/jobconnect/internal/api/storage"
	"github.com/cuongbtq/jobconnect/internal/interpreter"
)

// ActingUserKey is the gin context key holding the authenticated user ID
const ActingUserKey = "acting_user_id"

// Interpreter runs one chat message through the command pipeline
type Interpreter interface {
	Interpret(ctx context.Context, msg interpreter.ChatMessage) interpreter.Outcome
}

// PostingReader is the read side of the posting repository
type PostingReader interface {
	FindByID(ctx context.Context, id int64) (*model.JobPosting, error)
	ListPostings(ctx context.Context, filter storage.PostingFilter) ([]model.JobPosting, error)
}

// HealthChecker reports whether a backing service is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger           *slog.Logger
	Interpreter      Interpreter
	Postings         PostingReader
	Database         HealthChecker
	ServiceName      string
	MaxMessageLength int
}

// ActingUserID returns the user set by the acting-user middleware
func ActingUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ActingUserKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}

// HealthHandler serves GET /health
type HealthHandler struct {
	logger      *slog.Logger
	database    HealthChecker
	serviceName string
}

func NewHealthHandler(deps *Dependencies) *HealthHandler {
	return &HealthHandler{
		logger:      deps.Logger,
		database:    deps.Database,
		serviceName: deps.ServiceName,
	}
}

func (h *HealthHandler) Health(c *gin.Context) {
	if h.database != nil {
		if err := h.database.HealthCheck(c.Request.Context()); err != nil {
			h.logger.Error("Health check failed", slog.Any("error", err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": h.serviceName,
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.serviceName,
	})
}
