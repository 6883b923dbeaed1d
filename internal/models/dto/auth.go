package dto

import "github.com/atendo/backend/internal/models"

// LoginRequest is the /auth/login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token plus identity and tenant summaries.
type LoginResponse struct {
	Token  string          `json:"token"`
	User   models.Identity `json:"user"`
	Tenant models.Tenant   `json:"tenant"`
}

// ValidateResponse is returned by /auth/validate for a live token.
type ValidateResponse struct {
	User   models.Identity `json:"user"`
	Tenant models.Tenant   `json:"tenant"`
}
