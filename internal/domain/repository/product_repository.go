package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Traslados-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product y sus variantes (DIP).
// El núcleo de stock solo lo usa para resolver existencia de producto/variante.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByBusinessAndSKU(businessID, sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateCost(productID string, cost decimal.Decimal) error
	ListByBusiness(businessID string, limit, offset int) ([]*entity.Product, error)
	Delete(id string) error

	CreateVariant(variant *entity.ProductVariant) error
	GetVariantByID(id string) (*entity.ProductVariant, error)
	ListVariants(productID string) ([]*entity.ProductVariant, error)
}
