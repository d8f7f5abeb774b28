package repository

import "github.com/jhoicas/Traslados-api/internal/domain/entity"

// InventoryMovementRepository define el puerto de persistencia para movimientos
// de inventario. Solo inserción y lectura: los movimientos son inmutables.
type InventoryMovementRepository interface {
	Create(movement *entity.InventoryMovement) error
	GetByID(id string) (*entity.InventoryMovement, error)
	// ListByRecord lista los movimientos de una fila de stock, más reciente primero.
	ListByRecord(recordID string, limit, offset int) ([]*entity.InventoryMovement, error)
	ListByTransfer(transferID string) ([]*entity.InventoryMovement, error)
}
