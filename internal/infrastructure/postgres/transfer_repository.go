package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación del puerto TransferRepository sobre PostgreSQL (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador de persistencia para traslados. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, business_id, transfer_number, from_location_id, to_location_id,
		status, priority, requested_by, requested_at, expires_at,
		approved_by, approved_at, shipped_by, shipped_at, received_by, received_at,
		rejection_reason, request_notes, shipping_notes, receiving_notes, created_at, updated_at`

// Create inserta la cabecera y todas las líneas del traslado.
func (r *TransferRepo) Create(transfer *entity.Transfer) error {
	query := `
		INSERT INTO transfers (id, business_id, transfer_number, from_location_id, to_location_id,
			status, priority, requested_by, requested_at, expires_at,
			rejection_reason, request_notes, shipping_notes, receiving_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		transfer.ID, transfer.BusinessID, transfer.TransferNumber,
		transfer.FromLocationID, transfer.ToLocationID,
		transfer.Status, transfer.Priority, transfer.RequestedBy, transfer.RequestedAt, transfer.ExpiresAt,
		transfer.RejectionReason, transfer.RequestNotes, transfer.ShippingNotes, transfer.ReceivingNotes,
		transfer.CreatedAt, transfer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}

	for _, item := range transfer.Items {
		itemQuery := `
			INSERT INTO transfer_items (id, transfer_id, product_id, variant_id,
				quantity_requested, quantity_approved, quantity_shipped, quantity_received)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		_, err := r.q.Exec(context.Background(), itemQuery,
			item.ID, item.TransferID, item.ItemRef.ProductID, item.ItemRef.VariantID,
			item.QuantityRequested, item.QuantityApproved, item.QuantityShipped, item.QuantityReceived,
		)
		if err != nil {
			return fmt.Errorf("insert transfer item: %w", err)
		}
	}
	return nil
}

func scanTransfer(row interface{ Scan(dest ...any) error }) (*entity.Transfer, error) {
	var t entity.Transfer
	var approvedBy, shippedBy, receivedBy *string
	err := row.Scan(
		&t.ID, &t.BusinessID, &t.TransferNumber, &t.FromLocationID, &t.ToLocationID,
		&t.Status, &t.Priority, &t.RequestedBy, &t.RequestedAt, &t.ExpiresAt,
		&approvedBy, &t.ApprovedAt, &shippedBy, &t.ShippedAt, &receivedBy, &t.ReceivedAt,
		&t.RejectionReason, &t.RequestNotes, &t.ShippingNotes, &t.ReceivingNotes,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if approvedBy != nil {
		t.ApprovedBy = *approvedBy
	}
	if shippedBy != nil {
		t.ShippedBy = *shippedBy
	}
	if receivedBy != nil {
		t.ReceivedBy = *receivedBy
	}
	return &t, nil
}

func (r *TransferRepo) loadItems(transfer *entity.Transfer) error {
	query := `
		SELECT id, transfer_id, product_id, variant_id,
		       quantity_requested, quantity_approved, quantity_shipped, quantity_received
		FROM transfer_items WHERE transfer_id = $1
		ORDER BY product_id, variant_id`
	rows, err := r.q.Query(context.Background(), query, transfer.ID)
	if err != nil {
		return fmt.Errorf("load transfer items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.TransferItem
		if err := rows.Scan(&item.ID, &item.TransferID, &item.ItemRef.ProductID, &item.ItemRef.VariantID,
			&item.QuantityRequested, &item.QuantityApproved, &item.QuantityShipped, &item.QuantityReceived); err != nil {
			return fmt.Errorf("scan transfer item: %w", err)
		}
		transfer.Items = append(transfer.Items, &item)
	}
	return rows.Err()
}

// GetByID obtiene un traslado con sus líneas.
func (r *TransferRepo) GetByID(id string) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`
	t, err := scanTransfer(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	if err := r.loadItems(t); err != nil {
		return nil, err
	}
	return t, nil
}

// GetByIDForUpdate obtiene el traslado bloqueando la cabecera (SELECT FOR UPDATE).
// Llamar siempre dentro de una tx: serializa las transiciones concurrentes sobre
// el mismo traslado.
func (r *TransferRepo) GetByIDForUpdate(id string) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1 FOR UPDATE`
	t, err := scanTransfer(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer for update: %w", err)
	}
	if err := r.loadItems(t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateStatusIf persiste estado, notas y actores solo si la fila sigue en el
// estado esperado (guardia optimista). Devuelve false si otro actor ganó la carrera.
func (r *TransferRepo) UpdateStatusIf(transfer *entity.Transfer, expected entity.TransferStatus) (bool, error) {
	query := `
		UPDATE transfers
		SET status = $3, expires_at = $4,
		    approved_by = $5, approved_at = $6,
		    shipped_by = $7, shipped_at = $8,
		    received_by = $9, received_at = $10,
		    rejection_reason = $11, shipping_notes = $12, receiving_notes = $13,
		    updated_at = now()
		WHERE id = $1 AND status = $2`
	approvedBy := nullableString(transfer.ApprovedBy)
	shippedBy := nullableString(transfer.ShippedBy)
	receivedBy := nullableString(transfer.ReceivedBy)
	cmd, err := r.q.Exec(context.Background(), query,
		transfer.ID, expected,
		transfer.Status, transfer.ExpiresAt,
		approvedBy, transfer.ApprovedAt,
		shippedBy, transfer.ShippedAt,
		receivedBy, transfer.ReceivedAt,
		transfer.RejectionReason, transfer.ShippingNotes, transfer.ReceivingNotes,
	)
	if err != nil {
		return false, fmt.Errorf("update transfer status: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// SaveItems persiste las cantidades por etapa de las líneas.
func (r *TransferRepo) SaveItems(items []*entity.TransferItem) error {
	query := `
		UPDATE transfer_items
		SET quantity_approved = $2, quantity_shipped = $3, quantity_received = $4
		WHERE id = $1`
	for _, item := range items {
		_, err := r.q.Exec(context.Background(), query,
			item.ID, item.QuantityApproved, item.QuantityShipped, item.QuantityReceived)
		if err != nil {
			return fmt.Errorf("save transfer item: %w", err)
		}
	}
	return nil
}

// ListByLocation lista traslados donde la sucursal es origen (outgoing) o destino
// (incoming); direction vacío = ambos lados. status vacío = todos. Más reciente primero.
func (r *TransferRepo) ListByLocation(businessID, locationID, direction string, status entity.TransferStatus, limit, offset int) ([]*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE business_id = $1`
	args := []any{businessID}
	pos := 2

	switch direction {
	case repository.TransferDirectionOutgoing:
		query += fmt.Sprintf(" AND from_location_id = $%d", pos)
		args = append(args, locationID)
		pos++
	case repository.TransferDirectionIncoming:
		query += fmt.Sprintf(" AND to_location_id = $%d", pos)
		args = append(args, locationID)
		pos++
	default:
		query += fmt.Sprintf(" AND (from_location_id = $%d OR to_location_id = $%d)", pos, pos)
		args = append(args, locationID)
		pos++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY requested_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range list {
		if err := r.loadItems(t); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// FindExpiredPending devuelve IDs de traslados pending con ventana vencida.
// Solo IDs: la expiración real re-lee y bloquea cada uno en su propia tx.
func (r *TransferRepo) FindExpiredPending(ctx context.Context, now time.Time, limit int) ([]string, error) {
	query := `
		SELECT id FROM transfers
		WHERE status = 'pending' AND expires_at IS NOT NULL AND expires_at <= $1
		ORDER BY expires_at LIMIT $2`
	rows, err := r.q.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("find expired pending transfers: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan transfer id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// NextTransferNumber genera el consecutivo legible (TR-000123) desde la secuencia.
func (r *TransferRepo) NextTransferNumber(businessID string) (string, error) {
	var n int64
	err := r.q.QueryRow(context.Background(), `SELECT nextval('transfer_number_seq')`).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("next transfer number: %w", err)
	}
	return fmt.Sprintf("TR-%06d", n), nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
