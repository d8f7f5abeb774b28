package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación del puerto LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	pool *pgxpool.Pool
}

// NewLocationRepository construye el adaptador de persistencia para sucursales.
func NewLocationRepository(pool *pgxpool.Pool) *LocationRepo {
	return &LocationRepo{pool: pool}
}

// Create persiste una nueva sucursal.
func (r *LocationRepo) Create(location *entity.Location) error {
	query := `
		INSERT INTO locations (id, business_id, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(context.Background(), query,
		location.ID, location.BusinessID, location.Name, location.Address,
		location.CreatedAt, location.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID obtiene una sucursal por ID.
func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	query := `
		SELECT id, business_id, name, address, created_at, updated_at
		FROM locations WHERE id = $1`
	var l entity.Location
	err := r.pool.QueryRow(context.Background(), query, id).Scan(
		&l.ID, &l.BusinessID, &l.Name, &l.Address, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

// Update actualiza una sucursal existente.
func (r *LocationRepo) Update(location *entity.Location) error {
	query := `
		UPDATE locations SET name = $2, address = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query,
		location.ID, location.Name, location.Address, location.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	return nil
}

// ListByBusiness lista sucursales por empresa con paginación.
func (r *LocationRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.Location, error) {
	query := `
		SELECT id, business_id, name, address, created_at, updated_at
		FROM locations WHERE business_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(context.Background(), query, businessID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.BusinessID, &l.Name, &l.Address, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// Delete elimina una sucursal por ID.
func (r *LocationRepo) Delete(id string) error {
	_, err := r.pool.Exec(context.Background(), `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}
