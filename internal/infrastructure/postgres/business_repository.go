package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

// Asegura que BusinessRepo implementa repository.BusinessRepository.
var _ repository.BusinessRepository = (*BusinessRepo)(nil)

// BusinessRepo implementación del puerto BusinessRepository sobre PostgreSQL.
type BusinessRepo struct {
	pool *pgxpool.Pool
}

// NewBusinessRepository construye el adaptador de persistencia para empresas.
func NewBusinessRepository(pool *pgxpool.Pool) *BusinessRepo {
	return &BusinessRepo{pool: pool}
}

// Create persiste una nueva empresa.
func (r *BusinessRepo) Create(business *entity.Business) error {
	query := `
		INSERT INTO businesses (id, name, address, phone, email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(context.Background(), query,
		business.ID, business.Name, business.Address,
		business.Phone, business.Email, business.Status,
		business.CreatedAt, business.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *BusinessRepo) GetByID(id string) (*entity.Business, error) {
	query := `
		SELECT id, name, address, phone, email, status, created_at, updated_at
		FROM businesses WHERE id = $1`
	var b entity.Business
	err := r.pool.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.Name, &b.Address, &b.Phone, &b.Email, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return &b, nil
}

// Update actualiza una empresa existente.
func (r *BusinessRepo) Update(business *entity.Business) error {
	query := `
		UPDATE businesses SET name = $2, address = $3, phone = $4, email = $5, status = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query,
		business.ID, business.Name, business.Address,
		business.Phone, business.Email, business.Status, business.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update business: %w", err)
	}
	return nil
}

// List devuelve empresas con paginación.
func (r *BusinessRepo) List(limit, offset int) ([]*entity.Business, error) {
	query := `
		SELECT id, name, address, phone, email, status, created_at, updated_at
		FROM businesses ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()

	var list []*entity.Business
	for rows.Next() {
		var b entity.Business
		if err := rows.Scan(&b.ID, &b.Name, &b.Address, &b.Phone, &b.Email, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// Delete elimina una empresa por ID.
func (r *BusinessRepo) Delete(id string) error {
	_, err := r.pool.Exec(context.Background(), `DELETE FROM businesses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete business: %w", err)
	}
	return nil
}
