package dto

import "time"

// ======================
// Request DTOs
// ======================

type UpdateReviewStatusRequest struct {
	Status string `json:"status"`
}

// Origin describes who triggered a status change. IsAdmin comes from
// the authenticated role claim when available, otherwise from the
// request-metadata heuristic.
type Origin struct {
	IsAdmin bool
	Actor   string
}

// ======================
// Response DTOs
// ======================

type ReviewResponse struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	FileID    *string   `json:"fileId,omitempty"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ReviewListResponse struct {
	Reviews    []*ReviewResponse `json:"reviews"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}
