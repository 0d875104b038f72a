package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/cuongbtq/jobconnect/internal/api/dto"
	"github.com/cuongbtq/jobconnect/internal/interpreter"
)

// ChatHandler serves the natural-language command endpoint
type ChatHandler struct {
	logger           *slog.Logger
	interpreter      Interpreter
	maxMessageLength int
}

func NewChatHandler(deps *Dependencies) *ChatHandler {
	return &ChatHandler{
		logger:           deps.Logger,
		interpreter:      deps.Interpreter,
		maxMessageLength: deps.MaxMessageLength,
	}
}

// Chat handles POST /api/v1/chat. Every interpreted message answers 200;
// the outcome carries success or failure.
func (h *ChatHandler) Chat(c *gin.Context) {
	userID, ok := ActingUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid chat request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "message is required",
		})
		return
	}

	if h.maxMessageLength > 0 && utf8.RuneCountInString(message) > h.maxMessageLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "message is too long",
		})
		return
	}

	outcome := h.interpreter.Interpret(c.Request.Context(), interpreter.ChatMessage{
		Text:         message,
		ActingUserID: userID,
	})

	c.JSON(http.StatusOK, dto.ChatResponse{
		Success: outcome.Success,
		Message: outcome.Message,
	})
}
