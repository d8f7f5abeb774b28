package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo (colaborador externo del núcleo de stock).
// Cost es promedio ponderado calculado desde movimientos de entrada; el stock
// se maneja por sucursal en InventoryRecord.
type Product struct {
	ID          string
	BusinessID  string
	SKU         string // código único por empresa
	Name        string
	Description string
	Price       decimal.Decimal
	Cost        decimal.Decimal
	UnitMeasure string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductVariant es una alternativa mutuamente excluyente de un producto
// (talla, color). Las variantes nunca se anidan.
type ProductVariant struct {
	ID        string
	ProductID string
	SKU       string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
