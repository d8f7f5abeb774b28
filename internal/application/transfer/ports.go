package transfer

import (
	"context"
	"time"

	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

// TxRunner ejecuta una transición de traslado dentro de una transacción de BD,
// pasando repositorios atados a esa tx. El bloqueo de la cabecera y los
// movimientos de ledger de todas las líneas comparten la misma transacción.
type TxRunner interface {
	RunTransfer(ctx context.Context, fn func(
		transferRepo repository.TransferRepository,
		recordRepo repository.InventoryRecordRepository,
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// ExpiryPolicy ventanas de expiración de un traslado pendiente según prioridad.
type ExpiryPolicy struct {
	Normal time.Duration
	Urgent time.Duration
}
