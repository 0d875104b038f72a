package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cuongbtq/jobconnect/internal/api/domain"
	"github.com/cuongbtq/jobconnect/internal/api/dto"
	"github.com/cuongbtq/jobconnect/internal/api/model"
	"github.com/cuongbtq/jobconnect/internal/api/storage"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PostingHandler serves read-only posting endpoints
type PostingHandler struct {
	logger   *slog.Logger
	postings PostingReader
}

func NewPostingHandler(deps *Dependencies) *PostingHandler {
	return &PostingHandler{
		logger:   deps.Logger,
		postings: deps.Postings,
	}
}

// GetPosting handles GET /api/v1/postings/:id
func (h *PostingHandler) GetPosting(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "id must be a positive integer",
		})
		return
	}

	posting, err := h.postings.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrPostingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Job posting not found",
			})
			return
		}
		h.logger.Error("Failed to get job posting",
			slog.Int64("posting_id", id),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get job posting",
		})
		return
	}

	c.JSON(http.StatusOK, toPostingDTO(posting))
}

// ListPostings handles GET /api/v1/postings, newest first with cursor paging
func (h *PostingHandler) ListPostings(c *gin.Context) {
	var req dto.ListPostingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Warn("Invalid query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	if req.PageSize <= 0 {
		req.PageSize = defaultPageSize
	}
	if req.PageSize > maxPageSize {
		req.PageSize = maxPageSize
	}

	cursor, err := DecodePostingCursor(req.Cursor)
	if err != nil {
		h.logger.Warn("Invalid cursor", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cursor",
		})
		return
	}

	postings, err := h.postings.ListPostings(c.Request.Context(), storage.PostingFilter{
		OwnerUserID: req.OwnerUserID,
		PageSize:    req.PageSize,
		Cursor:      cursor,
	})
	if err != nil {
		h.logger.Error("Failed to list job postings", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list job postings",
		})
		return
	}

	hasMore := len(postings) > req.PageSize
	if hasMore {
		postings = postings[:req.PageSize]
	}

	items := make([]dto.PostingDTO, len(postings))
	for i := range postings {
		items[i] = toPostingDTO(&postings[i])
	}

	var nextCursor string
	if hasMore {
		last := postings[len(postings)-1]
		nextCursor = EncodePostingCursor(&storage.PostingCursor{
			PostedAt: last.PostedAt,
			ID:       last.ID,
		})
	}

	c.JSON(http.StatusOK, dto.ListPostingsResponse{
		Postings:   items,
		NextCursor: nextCursor,
	})
}

func toPostingDTO(p *model.JobPosting) dto.PostingDTO {
	return dto.PostingDTO{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Company:     p.Company,
		Location:    p.Location,
		Salary:      p.Salary,
		Category:    p.Category,
		OwnerUserID: p.OwnerUserID,
		PostedAt:    p.PostedAt.Format(time.RFC3339),
	}
}
