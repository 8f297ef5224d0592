package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/staffdesk/helpdesk-api/internal/domain"
	"github.com/staffdesk/helpdesk-api/internal/repository"
	apperrors "github.com/staffdesk/helpdesk-api/pkg/util"
)

// UserService reads staff profiles and writes preferences.
type UserService struct {
	profiles repository.ProfileRepository
}

// NewUserService constructs the service.
func NewUserService(profiles repository.ProfileRepository) *UserService {
	return &UserService{profiles: profiles}
}

// ListStaff returns active profiles ordered by display name.
func (s *UserService) ListStaff(ctx context.Context) ([]domain.Profile, error) {
	staff, err := s.profiles.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		staff = []domain.Profile{}
	}
	return staff, nil
}

// UpdatePreferences replaces the caller's preferred category list.
func (s *UserService) UpdatePreferences(ctx context.Context, user *domain.Profile, categoryIDs []string) (*domain.Profile, error) {
	updated, err := s.profiles.UpdatePreferredCategories(ctx, user.ID, categoryIDs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("profile", map[string]any{"id": user.ID})
		}
		return nil, err
	}
	return updated, nil
}
