package dto

import (
	"time"

	"github.com/staffdesk/helpdesk-api/internal/domain"
)

// ProfileResponse is the public profile shape.
type ProfileResponse struct {
	ID                   string          `json:"id"`
	FullName             *string         `json:"full_name"`
	Email                string          `json:"email"`
	UserType             domain.UserType `json:"user_type"`
	IsActive             bool            `json:"is_active"`
	PreferredCategoryIDs []string        `json:"preferred_category_ids"`
	CreatedAt            time.Time       `json:"created_at"`
}

// UpdatePreferencesRequest payload.
type UpdatePreferencesRequest struct {
	PreferredCategoryIDs []string `json:"preferred_category_ids"`
}
