package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staffdesk/helpdesk-api/internal/domain"
)

// ProfileRepository defines persistence access for staff profiles. Rows
// are created by the external identity system; only preferences are
// written here.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	ListActive(ctx context.Context) ([]domain.Profile, error)
	UpdatePreferredCategories(ctx context.Context, id string, categoryIDs []string) (*domain.Profile, error)
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository returns a Postgres-backed implementation.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

const profileColumns = `id, full_name, email, user_type, is_active, preferred_category_ids, created_at`

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	const query = `SELECT ` + profileColumns + ` FROM profiles WHERE id=$1`

	var profile domain.Profile
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.FullName,
		&profile.Email,
		&profile.UserType,
		&profile.IsActive,
		&profile.PreferredCategoryIDs,
		&profile.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) ListActive(ctx context.Context) ([]domain.Profile, error) {
	const query = `SELECT ` + profileColumns + ` FROM profiles WHERE is_active ORDER BY full_name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProfiles(rows)
}

func (r *profileRepository) UpdatePreferredCategories(ctx context.Context, id string, categoryIDs []string) (*domain.Profile, error) {
	const query = `
        UPDATE profiles SET preferred_category_ids=$1
        WHERE id=$2
        RETURNING ` + profileColumns

	if categoryIDs == nil {
		categoryIDs = []string{}
	}

	var profile domain.Profile
	if err := r.pool.QueryRow(ctx, query, categoryIDs, id).Scan(
		&profile.ID,
		&profile.FullName,
		&profile.Email,
		&profile.UserType,
		&profile.IsActive,
		&profile.PreferredCategoryIDs,
		&profile.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}

func scanProfiles(rows pgx.Rows) ([]domain.Profile, error) {
	var result []domain.Profile
	for rows.Next() {
		var profile domain.Profile
		if err := rows.Scan(
			&profile.ID,
			&profile.FullName,
			&profile.Email,
			&profile.UserType,
			&profile.IsActive,
			&profile.PreferredCategoryIDs,
			&profile.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, profile)
	}
	return result, rows.Err()
}
