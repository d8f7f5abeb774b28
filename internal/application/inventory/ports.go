package inventory

import (
	"context"

	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza que la actualización de cantidad y la inserción del
// movimiento sean una sola unidad atómica.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		recordRepo repository.InventoryRecordRepository,
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}
