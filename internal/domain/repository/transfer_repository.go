package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Traslados-api/internal/domain/entity"
)

// Direcciones para listar traslados desde el punto de vista de una sucursal.
const (
	TransferDirectionIncoming = "incoming"
	TransferDirectionOutgoing = "outgoing"
)

// TransferRepository define el puerto de persistencia para traslados (cabecera + líneas).
type TransferRepository interface {
	// Create inserta la cabecera y todas las líneas.
	Create(transfer *entity.Transfer) error
	GetByID(id string) (*entity.Transfer, error)
	// GetByIDForUpdate bloquea la cabecera (SELECT FOR UPDATE); usar dentro de
	// una transacción para serializar transiciones concurrentes.
	GetByIDForUpdate(id string) (*entity.Transfer, error)
	// UpdateStatusIf persiste estado, notas y actores solo si el estado actual
	// en la fila coincide con expected (guardia optimista). Devuelve false si
	// la fila ya no estaba en expected.
	UpdateStatusIf(transfer *entity.Transfer, expected entity.TransferStatus) (bool, error)
	SaveItems(items []*entity.TransferItem) error
	// ListByLocation lista traslados donde la sucursal es origen (outgoing) o
	// destino (incoming). status vacío = todos.
	ListByLocation(businessID, locationID, direction string, status entity.TransferStatus, limit, offset int) ([]*entity.Transfer, error)
	// FindExpiredPending devuelve IDs de traslados pending con expires_at vencido.
	FindExpiredPending(ctx context.Context, now time.Time, limit int) ([]string, error)
	// NextTransferNumber genera el consecutivo legible (TR-000123).
	NextTransferNumber(businessID string) (string, error)
}
