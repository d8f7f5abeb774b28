package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU         string          `json:"sku" validate:"required,min=1,max=100"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	UnitMeasure string          `json:"unit_measure" validate:"required"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Cost ni stock).
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	UnitMeasure *string          `json:"unit_measure"`
}

// CreateVariantRequest entrada para crear una variante de producto.
type CreateVariantRequest struct {
	SKU  string `json:"sku" validate:"required,min=1,max=100"`
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// VariantResponse salida de una variante.
type VariantResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string            `json:"id"`
	BusinessID  string            `json:"business_id"`
	SKU         string            `json:"sku"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       decimal.Decimal   `json:"price"`
	Cost        decimal.Decimal   `json:"cost"`
	UnitMeasure string            `json:"unit_measure"`
	Variants    []VariantResponse `json:"variants,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
