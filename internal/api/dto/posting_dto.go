package dto

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

type ChatResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ListPostingsRequest struct {
	OwnerUserID int64  `form:"owner_user_id"`
	PageSize    int    `form:"page_size"`
	Cursor      string `form:"cursor"`
}

type ListPostingsResponse struct {
	Postings   []PostingDTO `json:"postings"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

type PostingDTO struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Salary      string `json:"salary"`
	Category    string `json:"category,omitempty"`
	OwnerUserID int64  `json:"owner_user_id"`
	PostedAt    string `json:"posted_at"`
}
