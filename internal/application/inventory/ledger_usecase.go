package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Traslados-api/internal/domain"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	invdomain "github.com/jhoicas/Traslados-api/internal/domain/inventory"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

// LedgerUseCase es la única autoridad sobre "cuánto hay del ítem X en la sucursal Y".
// Registra movimientos de forma transaccional con bloqueo de fila (SELECT FOR UPDATE)
// y mantiene la fila de stock como vista materializada de los movimientos.
type LedgerUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	recordRepo   repository.InventoryRecordRepository
	movRepo      repository.InventoryMovementRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	recordRepo repository.InventoryRecordRepository,
	movRepo repository.InventoryMovementRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		recordRepo:   recordRepo,
		movRepo:      movRepo,
	}
}

// RecordMovementInput entrada para registrar un movimiento.
// UnitCost obligatorio en entradas; en salidas se usa el costo promedio de la fila.
// RelatedTransferID solo lo setea el flujo de traslados.
type RecordMovementInput struct {
	ItemRef           entity.StockItemRef
	LocationID        string
	Type              entity.MovementType
	Delta             int64
	UnitCost          *decimal.Decimal
	Notes             string
	RelatedTransferID string
}

// RecordMovement valida, abre una transacción, bloquea (o crea perezosamente) la
// fila de stock y aplica el movimiento. Un débito que dejaría la cantidad por
// debajo de cero falla con InsufficientStockError sin escribir nada, salvo que
// el tipo sea adjustment (corrección explícita).
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, tc domain.TenantContext, in RecordMovementInput) (*entity.InventoryMovement, error) {
	if !tc.Valid() {
		return nil, domain.ErrUnauthorized
	}
	// Los traslados entre sucursales van por el flujo de transfers, nunca directo.
	if in.Type == entity.MovementTransfer && in.RelatedTransferID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Type.Valid() || !in.Type.ValidDelta(in.Delta) {
		return nil, domain.ErrInvalidInput
	}
	if in.Type == entity.MovementEntry && (in.UnitCost == nil || in.UnitCost.LessThan(decimal.Zero)) {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.resolveItemRef(tc, in.ItemRef); err != nil {
		return nil, err
	}
	loc, err := uc.locationRepo.GetByID(in.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil || loc.BusinessID != tc.BusinessID {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	var created *entity.InventoryMovement
	err = uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		mov, err := uc.apply(recordRepo, movRepo, productRepo, tc, in, now)
		if err != nil {
			return err
		}
		created = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RecordMovementInTx aplica un movimiento usando repositorios ya atados a la
// transacción del caller (flujo de traslados: todas las líneas de un ship o un
// receive comparten una sola transacción, todo o nada).
func (uc *LedgerUseCase) RecordMovementInTx(
	recordRepo repository.InventoryRecordRepository,
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	tc domain.TenantContext,
	in RecordMovementInput,
	now time.Time,
) (*entity.InventoryMovement, error) {
	if !in.Type.Valid() || !in.Type.ValidDelta(in.Delta) {
		return nil, domain.ErrInvalidInput
	}
	return uc.apply(recordRepo, movRepo, productRepo, tc, in, now)
}

// apply: bloquea la fila (GetOrCreateForUpdate), verifica sobregiro, actualiza
// cantidad, costo promedio y last_restocked_at, y guarda el movimiento.
// Misma transacción para la fila y el movimiento: aplicación parcial es una
// violación de consistencia.
func (uc *LedgerUseCase) apply(
	recordRepo repository.InventoryRecordRepository,
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	tc domain.TenantContext,
	in RecordMovementInput,
	now time.Time,
) (*entity.InventoryMovement, error) {
	rec, err := recordRepo.GetOrCreateForUpdate(tc.BusinessID, in.ItemRef, in.LocationID)
	if err != nil {
		return nil, err
	}

	newQty := rec.Quantity + in.Delta
	if in.Type != entity.MovementAdjustment && newQty < 0 {
		return nil, &domain.InsufficientStockError{
			ProductID:  in.ItemRef.ProductID,
			VariantID:  in.ItemRef.VariantID,
			LocationID: in.LocationID,
			Current:    rec.Quantity,
			Attempted:  in.Delta,
		}
	}

	// Costo del movimiento: entradas al costo declarado (recalcula promedio),
	// débitos al costo promedio vigente de la fila.
	unitCost := rec.AvgUnitCost
	if in.Delta > 0 && in.UnitCost != nil {
		unitCost = *in.UnitCost
		if in.Type != entity.MovementTransfer {
			newCost := invdomain.CostCalculator(rec.Quantity, rec.AvgUnitCost, in.Delta, unitCost)
			rec.AvgUnitCost = newCost
			if in.ItemRef.VariantID == "" {
				if err := productRepo.UpdateCost(in.ItemRef.ProductID, newCost); err != nil {
					return nil, err
				}
			}
		}
	}

	rec.Quantity = newQty
	if in.Delta > 0 && in.Type != entity.MovementTransfer {
		rec.LastRestockedAt = &now
	}
	rec.UpdatedAt = now
	if err := recordRepo.Save(rec); err != nil {
		return nil, err
	}

	mov := &entity.InventoryMovement{
		ID:                uuid.New().String(),
		InventoryRecordID: rec.ID,
		Type:              in.Type,
		QuantityDelta:     in.Delta,
		UnitCost:          unitCost,
		TotalCost:         decimal.NewFromInt(in.Delta).Mul(unitCost),
		Notes:             in.Notes,
		RelatedTransferID: in.RelatedTransferID,
		CreatedAt:         now,
		CreatedBy:         tc.ActingUserID,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// UpdateStockLevels actualiza la configuración de reorden de una fila de stock.
// Puro metadato: no toca cantidad.
func (uc *LedgerUseCase) UpdateStockLevels(ctx context.Context, tc domain.TenantContext, recordID string, minStockLevel, reorderPoint int64) error {
	if !tc.Valid() {
		return domain.ErrUnauthorized
	}
	if minStockLevel < 0 || reorderPoint < 0 {
		return domain.ErrInvalidInput
	}
	rec, err := uc.recordRepo.GetByID(recordID)
	if err != nil {
		return err
	}
	if rec == nil {
		return domain.ErrNotFound
	}
	if rec.BusinessID != tc.BusinessID {
		return domain.ErrForbidden
	}
	return uc.recordRepo.UpdateStockLevels(recordID, minStockLevel, reorderPoint)
}

// ListMovements lista los movimientos de una fila de stock, más reciente primero.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, tc domain.TenantContext, recordID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	if !tc.Valid() {
		return nil, domain.ErrUnauthorized
	}
	rec, err := uc.recordRepo.GetByID(recordID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	if rec.BusinessID != tc.BusinessID {
		return nil, domain.ErrForbidden
	}
	return uc.movRepo.ListByRecord(recordID, limit, offset)
}

// GetLowStockRecords devuelve las filas con cantidad en o bajo el punto de
// reorden, peor primero. locationID vacío = todas las sucursales de la empresa.
func (uc *LedgerUseCase) GetLowStockRecords(ctx context.Context, tc domain.TenantContext, locationID string) ([]repository.LowStockRecord, error) {
	if !tc.Valid() {
		return nil, domain.ErrUnauthorized
	}
	if locationID != "" {
		loc, err := uc.locationRepo.GetByID(locationID)
		if err != nil {
			return nil, err
		}
		if loc == nil || loc.BusinessID != tc.BusinessID {
			return nil, domain.ErrNotFound
		}
	}
	return uc.recordRepo.GetLowStock(ctx, tc.BusinessID, locationID)
}

// resolveItemRef verifica que el producto (y la variante, si aplica) existan
// y pertenezcan a la empresa del contexto.
func (uc *LedgerUseCase) resolveItemRef(tc domain.TenantContext, ref entity.StockItemRef) error {
	if ref.IsZero() {
		return domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(ref.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if product.BusinessID != tc.BusinessID {
		return domain.ErrForbidden
	}
	if ref.VariantID != "" {
		variant, err := uc.productRepo.GetVariantByID(ref.VariantID)
		if err != nil {
			return err
		}
		if variant == nil || variant.ProductID != ref.ProductID {
			return domain.ErrNotFound
		}
	}
	return nil
}
