package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Traslados-api/internal/application/inventory"
	"github.com/jhoicas/Traslados-api/internal/application/transfer"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and transfer.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ transfer.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	recordRepo repository.InventoryRecordRepository,
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	recordRepo := NewInventoryRecordRepository(tx)
	movRepo := NewInventoryMovementRepository(tx)
	productRepo := NewProductRepository(tx)

	if err := fn(recordRepo, movRepo, productRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunTransfer inicia una transacción con los repos que necesita una transición de
// traslado: cabecera bloqueada y movimientos de ledger en la misma tx.
func (r *TxRunner) RunTransfer(ctx context.Context, fn func(
	transferRepo repository.TransferRepository,
	recordRepo repository.InventoryRecordRepository,
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	transferRepo := NewTransferRepository(tx)
	recordRepo := NewInventoryRecordRepository(tx)
	movRepo := NewInventoryMovementRepository(tx)
	productRepo := NewProductRepository(tx)

	if err := fn(transferRepo, recordRepo, movRepo, productRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
