package dto

import "time"

// CreateCatalogItemRequest payload.
type CreateCatalogItemRequest struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"is_active"`
}

// UpdateCatalogItemRequest payload.
type UpdateCatalogItemRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
}

// CatalogItemResponse is a reference-table row.
type CatalogItemResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// CompanyContactResponse is a company-contact row.
type CompanyContactResponse struct {
	ID        string    `json:"id"`
	CompanyID *string   `json:"company_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}
