package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/staffdesk/helpdesk-api/internal/api/dto"
	"github.com/staffdesk/helpdesk-api/internal/domain"
	"github.com/staffdesk/helpdesk-api/internal/service"
	apperrors "github.com/staffdesk/helpdesk-api/pkg/util"
)

// CatalogsHandler exposes the reference-table endpoints. Writes are
// admin-gated at the route level.
type CatalogsHandler struct {
	service *service.CatalogService
}

// NewCatalogsHandler constructs the handler.
func NewCatalogsHandler(catalogService *service.CatalogService) *CatalogsHandler {
	return &CatalogsHandler{service: catalogService}
}

// ListItems GET /catalogs/{departments,products,categories,companies}.
func (h *CatalogsHandler) ListItems(table domain.CatalogTable) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := h.service.ListItems(c.UserContext(), table)
		if err != nil {
			return err
		}
		result := make([]dto.CatalogItemResponse, 0, len(items))
		for _, item := range items {
			result = append(result, catalogItemResponse(item))
		}
		return c.JSON(result)
	}
}

// ListContacts GET /catalogs/company-contacts.
func (h *CatalogsHandler) ListContacts(c *fiber.Ctx) error {
	contacts, err := h.service.ListContacts(c.UserContext())
	if err != nil {
		return err
	}
	result := make([]dto.CompanyContactResponse, 0, len(contacts))
	for _, contact := range contacts {
		result = append(result, dto.CompanyContactResponse{
			ID:        contact.ID,
			CompanyID: contact.CompanyID,
			Name:      contact.Name,
			Email:     contact.Email,
			Phone:     contact.Phone,
			CreatedAt: contact.CreatedAt,
		})
	}
	return c.JSON(result)
}

// CreateItem POST /catalogs/{departments,products,categories}.
func (h *CatalogsHandler) CreateItem(table domain.CatalogTable) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.CreateCatalogItemRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
		if len(strings.TrimSpace(req.Name)) < 2 {
			return apperrors.NewValidationError("name must be at least 2 characters", nil)
		}
		item, err := h.service.Create(c.UserContext(), table, service.CatalogCreateInput{
			Name:     req.Name,
			IsActive: req.IsActive,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(catalogItemResponse(*item))
	}
}

// UpdateItem PATCH /catalogs/{departments,products,categories}/:id.
func (h *CatalogsHandler) UpdateItem(table domain.CatalogTable) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := requireUUIDParam(c, "id")
		if err != nil {
			return err
		}
		var req dto.UpdateCatalogItemRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
		if req.Name != nil && len(strings.TrimSpace(*req.Name)) < 2 {
			return apperrors.NewValidationError("name must be at least 2 characters", nil)
		}
		item, err := h.service.Update(c.UserContext(), table, id, service.CatalogUpdateInput{
			Name:     req.Name,
			IsActive: req.IsActive,
		})
		if err != nil {
			return err
		}
		return c.JSON(catalogItemResponse(*item))
	}
}

func catalogItemResponse(item domain.CatalogItem) dto.CatalogItemResponse {
	return dto.CatalogItemResponse{
		ID:        item.ID,
		Name:      item.Name,
		IsActive:  item.IsActive,
		CreatedAt: item.CreatedAt,
	}
}
