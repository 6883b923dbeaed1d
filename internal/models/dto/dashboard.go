package dto

import "github.com/atendo/backend/internal/models"

// StatusUpdateRequest is the PUT /api/client/{phone}/status payload.
type StatusUpdateRequest struct {
	Status models.Status `json:"status" validate:"required,oneof=active pause completed"`
}

// RecordList is the dashboard listing payload. Warning is populated when the
// listing could not be strictly scoped to the caller's tenant.
type RecordList struct {
	Records []models.Record `json:"records"`
	Scoping string          `json:"scoping"`
	Warning string          `json:"warning,omitempty"`
}
