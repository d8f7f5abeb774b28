package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body para POST /api/inventory/movements.
// variant_id vacío = producto sin variante. unit_cost obligatorio en entradas.
type RecordMovementRequest struct {
	ProductID     string           `json:"product_id" validate:"required,uuid"`
	VariantID     string           `json:"variant_id,omitempty"`
	LocationID    string           `json:"location_id" validate:"required,uuid"`
	Type          string           `json:"type" validate:"required,oneof=entry exit adjustment"`
	QuantityDelta int64            `json:"quantity_delta"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
	Notes         string           `json:"notes,omitempty"`
}

// MovementResponse salida de un movimiento de inventario.
type MovementResponse struct {
	ID                string          `json:"id"`
	InventoryRecordID string          `json:"inventory_record_id"`
	Type              string          `json:"type"`
	QuantityDelta     int64           `json:"quantity_delta"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	Notes             string          `json:"notes,omitempty"`
	RelatedTransferID string          `json:"related_transfer_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	CreatedBy         string          `json:"created_by,omitempty"`
}

// MovementListResponse lista paginada de movimientos (más reciente primero).
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// UpdateStockLevelsRequest body para PUT /api/inventory/records/:id/levels.
// Solo configuración de reorden; no toca cantidad.
type UpdateStockLevelsRequest struct {
	MinStockLevel int64 `json:"min_stock_level" validate:"min=0"`
	ReorderPoint  int64 `json:"reorder_point" validate:"min=0"`
}

// InventoryRecordResponse salida de una fila de stock.
type InventoryRecordResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	VariantID       string          `json:"variant_id,omitempty"`
	LocationID      string          `json:"location_id"`
	Quantity        int64           `json:"quantity"`
	MinStockLevel   int64           `json:"min_stock_level"`
	ReorderPoint    int64           `json:"reorder_point"`
	AvgUnitCost     decimal.Decimal `json:"avg_unit_cost"`
	LastRestockedAt *time.Time      `json:"last_restocked_at,omitempty"`
	IsLowStock      bool            `json:"is_low_stock"`
}

// LowStockRecordDTO una fila bajo punto de reorden, enriquecida para alertas.
type LowStockRecordDTO struct {
	RecordID     string `json:"record_id"`
	ProductID    string `json:"product_id"`
	VariantID    string `json:"variant_id,omitempty"`
	ProductSKU   string `json:"product_sku"`
	ProductName  string `json:"product_name"`
	VariantName  string `json:"variant_name,omitempty"`
	LocationID   string `json:"location_id"`
	LocationName string `json:"location_name"`
	Quantity     int64  `json:"quantity"`
	ReorderPoint int64  `json:"reorder_point"`
}
