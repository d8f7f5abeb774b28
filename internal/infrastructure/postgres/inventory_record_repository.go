package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

// InventoryRecordRepo implementación del libro de stock sobre PostgreSQL (usable con pool o tx).
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

const recordColumns = `id, business_id, product_id, variant_id, location_id, quantity,
		min_stock_level, reorder_point, avg_unit_cost, last_restocked_at, created_at, updated_at`

func scanRecord(row interface{ Scan(dest ...any) error }) (*entity.InventoryRecord, error) {
	var rec entity.InventoryRecord
	err := row.Scan(
		&rec.ID, &rec.BusinessID, &rec.ItemRef.ProductID, &rec.ItemRef.VariantID, &rec.LocationID,
		&rec.Quantity, &rec.MinStockLevel, &rec.ReorderPoint, &rec.AvgUnitCost,
		&rec.LastRestockedAt, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Get obtiene la fila de stock de un ítem en una sucursal. Nil si no existe todavía.
func (r *InventoryRecordRepo) Get(businessID string, ref entity.StockItemRef, locationID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM inventory_records
		WHERE business_id = $1 AND product_id = $2 AND variant_id = $3 AND location_id = $4`
	rec, err := scanRecord(r.q.QueryRow(context.Background(), query, businessID, ref.ProductID, ref.VariantID, locationID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return rec, nil
}

// GetByID obtiene una fila de stock por ID.
func (r *InventoryRecordRepo) GetByID(id string) (*entity.InventoryRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM inventory_records WHERE id = $1`
	rec, err := scanRecord(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory record by id: %w", err)
	}
	return rec, nil
}

// GetOrCreateForUpdate crea perezosamente la fila del par (ítem, sucursal) si no
// existe y la devuelve bloqueada (SELECT FOR UPDATE). Llamar siempre dentro de una tx.
// El ON CONFLICT DO NOTHING hace inocua la carrera entre dos creadores: ambos
// terminan bloqueando la misma fila.
func (r *InventoryRecordRepo) GetOrCreateForUpdate(businessID string, ref entity.StockItemRef, locationID string) (*entity.InventoryRecord, error) {
	insert := `
		INSERT INTO inventory_records (id, business_id, product_id, variant_id, location_id, quantity, avg_unit_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, 0, now(), now())
		ON CONFLICT (product_id, variant_id, location_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), insert,
		uuid.New().String(), businessID, ref.ProductID, ref.VariantID, locationID); err != nil {
		return nil, fmt.Errorf("create inventory record: %w", err)
	}

	query := `
		SELECT ` + recordColumns + `
		FROM inventory_records
		WHERE business_id = $1 AND product_id = $2 AND variant_id = $3 AND location_id = $4
		FOR UPDATE`
	rec, err := scanRecord(r.q.QueryRow(context.Background(), query, businessID, ref.ProductID, ref.VariantID, locationID))
	if err != nil {
		return nil, fmt.Errorf("lock inventory record: %w", err)
	}
	return rec, nil
}

// Save persiste cantidad, costo promedio y last_restocked_at (fila ya bloqueada por la tx).
func (r *InventoryRecordRepo) Save(record *entity.InventoryRecord) error {
	query := `
		UPDATE inventory_records
		SET quantity = $2, avg_unit_cost = $3, last_restocked_at = $4, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		record.ID, record.Quantity, record.AvgUnitCost, record.LastRestockedAt)
	if err != nil {
		return fmt.Errorf("save inventory record: %w", err)
	}
	return nil
}

// UpdateStockLevels actualiza solo la configuración de reorden, sin tocar cantidad.
func (r *InventoryRecordRepo) UpdateStockLevels(recordID string, minStockLevel, reorderPoint int64) error {
	query := `
		UPDATE inventory_records
		SET min_stock_level = $2, reorder_point = $3, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, recordID, minStockLevel, reorderPoint)
	if err != nil {
		return fmt.Errorf("update stock levels: %w", err)
	}
	return nil
}

// ListByLocation lista las filas de stock de una sucursal con paginación.
func (r *InventoryRecordRepo) ListByLocation(businessID, locationID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM inventory_records
		WHERE business_id = $1 AND location_id = $2
		ORDER BY updated_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, businessID, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory records: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// GetLowStock devuelve las filas con quantity <= reorder_point, peor primero.
// locationID vacío = todas las sucursales de la empresa.
func (r *InventoryRecordRepo) GetLowStock(ctx context.Context, businessID, locationID string) ([]repository.LowStockRecord, error) {
	query := `
		SELECT ir.id, ir.business_id, ir.product_id, ir.variant_id, ir.location_id, ir.quantity,
		       ir.min_stock_level, ir.reorder_point, ir.avg_unit_cost, ir.last_restocked_at,
		       ir.created_at, ir.updated_at,
		       p.sku, p.name, COALESCE(pv.name, ''), l.name
		FROM inventory_records ir
		JOIN products p ON p.id = ir.product_id
		LEFT JOIN product_variants pv ON pv.id = ir.variant_id
		JOIN locations l ON l.id = ir.location_id
		WHERE ir.business_id = $1
		  AND ir.reorder_point > 0
		  AND ir.quantity <= ir.reorder_point`
	args := []any{businessID}
	if locationID != "" {
		query += ` AND ir.location_id = $2`
		args = append(args, locationID)
	}
	query += ` ORDER BY ir.quantity ASC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get low stock: %w", err)
	}
	defer rows.Close()
	var list []repository.LowStockRecord
	for rows.Next() {
		var ls repository.LowStockRecord
		rec := &ls.Record
		if err := rows.Scan(
			&rec.ID, &rec.BusinessID, &rec.ItemRef.ProductID, &rec.ItemRef.VariantID, &rec.LocationID,
			&rec.Quantity, &rec.MinStockLevel, &rec.ReorderPoint, &rec.AvgUnitCost,
			&rec.LastRestockedAt, &rec.CreatedAt, &rec.UpdatedAt,
			&ls.ProductSKU, &ls.ProductName, &ls.VariantName, &ls.LocationName,
		); err != nil {
			return nil, fmt.Errorf("scan low stock record: %w", err)
		}
		list = append(list, ls)
	}
	return list, rows.Err()
}

// GetAvailability devuelve las sucursales de la empresa con stock del ítem,
// cantidad descendente. No filtra la sucursal del solicitante: eso lo decide el caller.
func (r *InventoryRecordRepo) GetAvailability(ctx context.Context, businessID string, ref entity.StockItemRef) ([]repository.AvailabilityRow, error) {
	query := `
		SELECT ir.location_id, l.name, ir.quantity, ir.reorder_point
		FROM inventory_records ir
		JOIN locations l ON l.id = ir.location_id
		WHERE ir.business_id = $1 AND ir.product_id = $2 AND ir.variant_id = $3
		ORDER BY ir.quantity DESC, l.name`
	rows, err := r.q.Query(ctx, query, businessID, ref.ProductID, ref.VariantID)
	if err != nil {
		return nil, fmt.Errorf("get availability: %w", err)
	}
	defer rows.Close()
	var list []repository.AvailabilityRow
	for rows.Next() {
		var row repository.AvailabilityRow
		if err := rows.Scan(&row.LocationID, &row.LocationName, &row.Quantity, &row.ReorderPoint); err != nil {
			return nil, fmt.Errorf("scan availability row: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}
