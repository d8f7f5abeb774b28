package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord representa el stock actual de un ítem en una sucursal.
// Único por par (ítem, sucursal). Invariante: Quantity es siempre la suma
// con signo de todos los movimientos confirmados del par; la fila es una
// vista materializada y nunca se edita directo.
// Se crea perezosamente con el primer movimiento y nunca se elimina
// (las filas en cero se conservan por historial).
type InventoryRecord struct {
	ID              string
	BusinessID      string
	ItemRef         StockItemRef
	LocationID      string
	Quantity        int64
	MinStockLevel   int64
	ReorderPoint    int64
	AvgUnitCost     decimal.Decimal // costo promedio ponderado de las entradas
	LastRestockedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsLowStock indica si la cantidad está en o por debajo del punto de reorden.
func (r *InventoryRecord) IsLowStock() bool { return r.Quantity <= r.ReorderPoint }
