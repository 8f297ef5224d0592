package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/staffdesk/helpdesk-api/internal/api/dto"
	"github.com/staffdesk/helpdesk-api/internal/auth"
	"github.com/staffdesk/helpdesk-api/internal/domain"
	"github.com/staffdesk/helpdesk-api/internal/service"
	apperrors "github.com/staffdesk/helpdesk-api/pkg/util"
)

const maxPreferredCategories = 50

// UsersHandler exposes profile endpoints.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// Me GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(profileResponse(user))
}

// Staff GET /users/staff.
func (h *UsersHandler) Staff(c *fiber.Ctx) error {
	staff, err := h.service.ListStaff(c.UserContext())
	if err != nil {
		return err
	}
	result := make([]dto.ProfileResponse, 0, len(staff))
	for i := range staff {
		result = append(result, profileResponse(&staff[i]))
	}
	return c.JSON(result)
}

// UpdatePreferences PATCH /users/me/preferences.
func (h *UsersHandler) UpdatePreferences(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdatePreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.PreferredCategoryIDs) > maxPreferredCategories {
		return apperrors.NewValidationError("preferred_category_ids exceeds maximum of 50", nil)
	}
	for _, id := range req.PreferredCategoryIDs {
		ref := id
		if err := validateOptionalUUID("preferred_category_ids", &ref); err != nil {
			return err
		}
	}
	updated, err := h.service.UpdatePreferences(c.UserContext(), user, req.PreferredCategoryIDs)
	if err != nil {
		return err
	}
	return c.JSON(profileResponse(updated))
}

func profileResponse(profile *domain.Profile) dto.ProfileResponse {
	preferred := profile.PreferredCategoryIDs
	if preferred == nil {
		preferred = []string{}
	}
	return dto.ProfileResponse{
		ID:                   profile.ID,
		FullName:             profile.FullName,
		Email:                profile.Email,
		UserType:             profile.UserType,
		IsActive:             profile.IsActive,
		PreferredCategoryIDs: preferred,
		CreatedAt:            profile.CreatedAt,
	}
}
