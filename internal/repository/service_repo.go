package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"booking-api/internal/model"
)

const serviceColumns = `id, icon, title, description, category, created_at, updated_at`

type ServiceRepository struct {
	pool *pgxpool.Pool
}

func NewServiceRepository(pool *pgxpool.Pool) *ServiceRepository {
	return &ServiceRepository{pool: pool}
}

func scanService(row pgx.Row) (model.ServiceOffering, error) {
	var s model.ServiceOffering
	err := row.Scan(&s.ID, &s.Icon, &s.Title, &s.Description, &s.Category, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *ServiceRepository) Create(ctx context.Context, s model.ServiceOffering) (model.ServiceOffering, error) {
	created, err := scanService(r.pool.QueryRow(ctx,
		`INSERT INTO service_offerings (id, icon, title, description, category)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+serviceColumns,
		s.ID, s.Icon, s.Title, s.Description, s.Category))
	if err != nil {
		return model.ServiceOffering{}, fmt.Errorf("create service: %w", err)
	}
	return created, nil
}

func (r *ServiceRepository) List(ctx context.Context) ([]model.ServiceOffering, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+serviceColumns+` FROM service_offerings ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	services := make([]model.ServiceOffering, 0)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *ServiceRepository) FindByID(ctx context.Context, id string) (model.ServiceOffering, error) {
	s, err := scanService(r.pool.QueryRow(ctx,
		`SELECT `+serviceColumns+` FROM service_offerings WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) || invalidText(err) {
		return model.ServiceOffering{}, model.ErrServiceNotFound
	}
	if err != nil {
		return model.ServiceOffering{}, fmt.Errorf("find service: %w", err)
	}
	return s, nil
}

// Update applies only the non-nil fields of patch.
func (r *ServiceRepository) Update(ctx context.Context, id string, patch model.ServiceOfferingPatch) (model.ServiceOffering, error) {
	s, err := scanService(r.pool.QueryRow(ctx,
		`UPDATE service_offerings SET
		    icon        = COALESCE($2, icon),
		    title       = COALESCE($3, title),
		    description = COALESCE($4, description),
		    category    = COALESCE($5, category),
		    updated_at  = now()
		 WHERE id = $1
		 RETURNING `+serviceColumns,
		id, patch.Icon, patch.Title, patch.Description, patch.Category))
	if errors.Is(err, pgx.ErrNoRows) || invalidText(err) {
		return model.ServiceOffering{}, model.ErrServiceNotFound
	}
	if err != nil {
		return model.ServiceOffering{}, fmt.Errorf("update service: %w", err)
	}
	return s, nil
}

func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM service_offerings WHERE id = $1`, id)
	if invalidText(err) {
		return model.ErrServiceNotFound
	}
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrServiceNotFound
	}
	return nil
}
