package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/staffdesk/helpdesk-api/internal/domain"
	"github.com/staffdesk/helpdesk-api/internal/repository"
	apperrors "github.com/staffdesk/helpdesk-api/pkg/util"
)

// CatalogCreateInput describes a new catalog row.
type CatalogCreateInput struct {
	Name     string
	IsActive *bool
}

// CatalogUpdateInput describes a partial catalog update.
type CatalogUpdateInput struct {
	Name     *string
	IsActive *bool
}

// CatalogService exposes the admin-managed reference tables. Role
// enforcement for writes happens in the routing layer, not here.
type CatalogService struct {
	catalogs repository.CatalogRepository
}

// NewCatalogService constructs the service.
func NewCatalogService(catalogs repository.CatalogRepository) *CatalogService {
	return &CatalogService{catalogs: catalogs}
}

// ListItems lists one of the simple reference tables, ordered by name.
func (s *CatalogService) ListItems(ctx context.Context, table domain.CatalogTable) ([]domain.CatalogItem, error) {
	items, err := s.catalogs.ListItems(ctx, table)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.CatalogItem{}
	}
	return items, nil
}

// ListContacts lists company contacts, ordered by name.
func (s *CatalogService) ListContacts(ctx context.Context) ([]domain.CompanyContact, error) {
	contacts, err := s.catalogs.ListContacts(ctx)
	if err != nil {
		return nil, err
	}
	if contacts == nil {
		contacts = []domain.CompanyContact{}
	}
	return contacts, nil
}

// Create inserts a reference row. New rows default to active.
func (s *CatalogService) Create(ctx context.Context, table domain.CatalogTable, input CatalogCreateInput) (*domain.CatalogItem, error) {
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	return s.catalogs.CreateItem(ctx, table, strings.TrimSpace(input.Name), isActive)
}

// Update applies a partial update; a row that disappeared between the
// write and the read-back is NotFound.
func (s *CatalogService) Update(ctx context.Context, table domain.CatalogTable, id string, input CatalogUpdateInput) (*domain.CatalogItem, error) {
	update := repository.CatalogUpdate{IsActive: input.IsActive}
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		update.Name = &trimmed
	}

	item, err := s.catalogs.UpdateItem(ctx, table, id, update)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("catalog item", map[string]any{"id": id})
		}
		return nil, err
	}
	return item, nil
}
