package repository

import (
	"context"

	"github.com/jhoicas/Traslados-api/internal/domain/entity"
)

// LowStockRecord resultado crudo del repositorio para una fila bajo reorden,
// enriquecido con los nombres que necesitan las UIs de alertas.
type LowStockRecord struct {
	Record       entity.InventoryRecord
	ProductSKU   string
	ProductName  string
	VariantName  string
	LocationName string
}

// AvailabilityRow una sucursal con stock del ítem consultado.
type AvailabilityRow struct {
	LocationID   string
	LocationName string
	Quantity     int64
	ReorderPoint int64
}

// InventoryRecordRepository define el puerto para el libro de stock por (ítem, sucursal).
// Las mutaciones de cantidad pasan siempre por una transacción con bloqueo de fila.
type InventoryRecordRepository interface {
	Get(businessID string, ref entity.StockItemRef, locationID string) (*entity.InventoryRecord, error)
	GetByID(id string) (*entity.InventoryRecord, error)
	// GetOrCreateForUpdate localiza o crea perezosamente la fila del par
	// (ítem, sucursal) y la bloquea (SELECT FOR UPDATE).
	GetOrCreateForUpdate(businessID string, ref entity.StockItemRef, locationID string) (*entity.InventoryRecord, error)
	// Save persiste cantidad, costo promedio y last_restocked_at (fila ya bloqueada).
	Save(record *entity.InventoryRecord) error
	// UpdateStockLevels actualiza solo la configuración de reorden, no toca cantidad.
	UpdateStockLevels(recordID string, minStockLevel, reorderPoint int64) error
	ListByLocation(businessID, locationID string, limit, offset int) ([]*entity.InventoryRecord, error)

	// GetLowStock devuelve las filas con quantity <= reorder_point, peor primero
	// (cantidad ascendente). locationID vacío = todas las sucursales de la empresa.
	GetLowStock(ctx context.Context, businessID, locationID string) ([]LowStockRecord, error)

	// GetAvailability devuelve dónde hay stock del ítem en toda la empresa,
	// ordenado por cantidad descendente. Siempre el conjunto completo; excluir
	// la sucursal propia es política del caller.
	GetAvailability(ctx context.Context, businessID string, ref entity.StockItemRef) ([]AvailabilityRow, error)
}
