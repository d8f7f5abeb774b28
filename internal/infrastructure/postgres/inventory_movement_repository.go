package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// Los movimientos son inmutables: solo INSERT y SELECT.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

const movementColumns = `id, inventory_record_id, type, quantity_delta, unit_cost, total_cost, notes, related_transfer_id, created_at, created_by`

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(movement *entity.InventoryMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (id, inventory_record_id, type, quantity_delta, unit_cost, total_cost, notes, related_transfer_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	relatedTransferID := (*string)(nil)
	if movement.RelatedTransferID != "" {
		relatedTransferID = &movement.RelatedTransferID
	}
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.InventoryRecordID, movement.Type, movement.QuantityDelta,
		movement.UnitCost, movement.TotalCost, movement.Notes, relatedTransferID,
		movement.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

func scanMovement(row interface{ Scan(dest ...any) error }) (*entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	var relatedTransferID, createdBy *string
	err := row.Scan(
		&m.ID, &m.InventoryRecordID, &m.Type, &m.QuantityDelta,
		&m.UnitCost, &m.TotalCost, &m.Notes, &relatedTransferID,
		&m.CreatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	if relatedTransferID != nil {
		m.RelatedTransferID = *relatedTransferID
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}

// GetByID obtiene un movimiento por ID.
func (r *InventoryMovementRepo) GetByID(id string) (*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByRecord lista los movimientos de una fila de stock, más reciente primero.
func (r *InventoryMovementRepo) ListByRecord(recordID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM inventory_movements WHERE inventory_record_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, recordID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by record: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ListByTransfer lista los movimientos emitidos por un traslado (ambos lados).
func (r *InventoryMovementRepo) ListByTransfer(transferID string) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM inventory_movements WHERE related_transfer_id = $1
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, transferID)
	if err != nil {
		return nil, fmt.Errorf("list movements by transfer: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
