package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Traslados-api/internal/domain"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, business_id, sku, name, description, price, cost, unit_measure, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.BusinessID, product.SKU, product.Name, product.Description,
		product.Price, product.Cost, product.UnitMeasure,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `
		SELECT id, business_id, sku, name, description, price, cost, unit_measure, created_at, updated_at
		FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.BusinessID, &p.SKU, &p.Name, &p.Description,
		&p.Price, &p.Cost, &p.UnitMeasure, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// GetByBusinessAndSKU obtiene un producto por empresa y SKU.
func (r *ProductRepo) GetByBusinessAndSKU(businessID, sku string) (*entity.Product, error) {
	query := `
		SELECT id, business_id, sku, name, description, price, cost, unit_measure, created_at, updated_at
		FROM products WHERE business_id = $1 AND sku = $2`
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, businessID, sku).Scan(
		&p.ID, &p.BusinessID, &p.SKU, &p.Name, &p.Description,
		&p.Price, &p.Cost, &p.UnitMeasure, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return &p, nil
}

// Update actualiza un producto existente.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET sku = $2, name = $3, description = $4, price = $5, cost = $6, unit_measure = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.SKU, product.Name, product.Description,
		product.Price, product.Cost, product.UnitMeasure, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateCost actualiza solo el costo promedio del producto (recalculado en entradas).
func (r *ProductRepo) UpdateCost(productID string, cost decimal.Decimal) error {
	query := `UPDATE products SET cost = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, productID, cost)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	return nil
}

// ListByBusiness lista productos por empresa con paginación.
func (r *ProductRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT id, business_id, sku, name, description, price, cost, unit_measure, created_at, updated_at
		FROM products WHERE business_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, businessID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.BusinessID, &p.SKU, &p.Name, &p.Description,
			&p.Price, &p.Cost, &p.UnitMeasure, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// CreateVariant persiste una variante de producto.
func (r *ProductRepo) CreateVariant(variant *entity.ProductVariant) error {
	query := `
		INSERT INTO product_variants (id, product_id, sku, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		variant.ID, variant.ProductID, variant.SKU, variant.Name,
		variant.CreatedAt, variant.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product variant: %w", err)
	}
	return nil
}

// GetVariantByID obtiene una variante por ID.
func (r *ProductRepo) GetVariantByID(id string) (*entity.ProductVariant, error) {
	query := `
		SELECT id, product_id, sku, name, created_at, updated_at
		FROM product_variants WHERE id = $1`
	var v entity.ProductVariant
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&v.ID, &v.ProductID, &v.SKU, &v.Name, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product variant: %w", err)
	}
	return &v, nil
}

// ListVariants lista las variantes de un producto.
func (r *ProductRepo) ListVariants(productID string) ([]*entity.ProductVariant, error) {
	query := `
		SELECT id, product_id, sku, name, created_at, updated_at
		FROM product_variants WHERE product_id = $1 ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list product variants: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductVariant
	for rows.Next() {
		var v entity.ProductVariant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Name, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product variant: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}
