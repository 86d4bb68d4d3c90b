package dto

import (
	"time"

	"github.com/google/uuid"
)

type SessionResponse struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type FilterBody struct {
	Type         string `json:"type,omitempty"`
	District     string `json:"district,omitempty"`
	SubType      string `json:"sub_type,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
}

type BulkStateResponse struct {
	Open     bool       `json:"open"`
	Filter   FilterBody `json:"filter"`
	Selected []int64    `json:"selected"`
	View     []int64    `json:"view"`
}

// Opens the panel with filter, replaces the filter of an open panel, or
// closes it when Open is false.
type UpdateBulkRequest struct {
	Open   bool       `json:"open"`
	Filter FilterBody `json:"filter"`
}

type ToggleResponse struct {
	ID       int64 `json:"id"`
	Selected bool  `json:"selected"`
}

type SelectAllResponse struct {
	Selected int `json:"selected"`
}

type BulkResultResponse struct {
	Succeeded []int64          `json:"succeeded"`
	Failed    map[int64]string `json:"failed"`
}

type DeactivateResponse struct {
	Deactivated []int64 `json:"deactivated"`
}
