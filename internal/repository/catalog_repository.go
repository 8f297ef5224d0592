package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staffdesk/helpdesk-api/internal/domain"
)

// CatalogUpdate describes a partial catalog-row update.
type CatalogUpdate struct {
	Name     *string
	IsActive *bool
}

// CatalogRepository gives generic access to the reference tables. Table
// names come from the domain.CatalogTable enum only, never from request
// input, so interpolating them is safe.
type CatalogRepository interface {
	ListItems(ctx context.Context, table domain.CatalogTable) ([]domain.CatalogItem, error)
	ListContacts(ctx context.Context) ([]domain.CompanyContact, error)
	CreateItem(ctx context.Context, table domain.CatalogTable, name string, isActive bool) (*domain.CatalogItem, error)
	UpdateItem(ctx context.Context, table domain.CatalogTable, id string, update CatalogUpdate) (*domain.CatalogItem, error)
}

type catalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository instantiates the repository.
func NewCatalogRepository(pool *pgxpool.Pool) CatalogRepository {
	return &catalogRepository{pool: pool}
}

func (r *catalogRepository) ListItems(ctx context.Context, table domain.CatalogTable) ([]domain.CatalogItem, error) {
	query := fmt.Sprintf(`SELECT id, name, is_active, created_at FROM %s ORDER BY name ASC`, table)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CatalogItem
	for rows.Next() {
		var item domain.CatalogItem
		if err := rows.Scan(&item.ID, &item.Name, &item.IsActive, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *catalogRepository) ListContacts(ctx context.Context) ([]domain.CompanyContact, error) {
	const query = `SELECT id, company_id, name, email, phone, created_at
        FROM company_contacts ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CompanyContact
	for rows.Next() {
		var contact domain.CompanyContact
		if err := rows.Scan(
			&contact.ID,
			&contact.CompanyID,
			&contact.Name,
			&contact.Email,
			&contact.Phone,
			&contact.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, contact)
	}
	return result, rows.Err()
}

func (r *catalogRepository) CreateItem(ctx context.Context, table domain.CatalogTable, name string, isActive bool) (*domain.CatalogItem, error) {
	query := fmt.Sprintf(`INSERT INTO %s (name, is_active) VALUES ($1,$2)
        RETURNING id, name, is_active, created_at`, table)

	var item domain.CatalogItem
	if err := r.pool.QueryRow(ctx, query, name, isActive).Scan(
		&item.ID, &item.Name, &item.IsActive, &item.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *catalogRepository) UpdateItem(ctx context.Context, table domain.CatalogTable, id string, update CatalogUpdate) (*domain.CatalogItem, error) {
	sets := []string{}
	args := []any{}

	if update.Name != nil {
		args = append(args, *update.Name)
		sets = append(sets, fmt.Sprintf("name=$%d", len(args)))
	}
	if update.IsActive != nil {
		args = append(args, *update.IsActive)
		sets = append(sets, fmt.Sprintf("is_active=$%d", len(args)))
	}
	if len(sets) == 0 {
		return r.getItem(ctx, table, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id=$%d RETURNING id, name, is_active, created_at`,
		table, strings.Join(sets, ", "), len(args))

	var item domain.CatalogItem
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&item.ID, &item.Name, &item.IsActive, &item.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *catalogRepository) getItem(ctx context.Context, table domain.CatalogTable, id string) (*domain.CatalogItem, error) {
	query := fmt.Sprintf(`SELECT id, name, is_active, created_at FROM %s WHERE id=$1`, table)

	var item domain.CatalogItem
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.Name, &item.IsActive, &item.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
