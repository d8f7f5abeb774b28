package transfer

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Traslados-api/internal/application/dto"
	appinventory "github.com/jhoicas/Traslados-api/internal/application/inventory"
	"github.com/jhoicas/Traslados-api/internal/domain"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

// UseCase orquesta el ciclo de vida de un traslado entre sucursales:
// pending → approved → in_transit → received | partially_received, con salidas
// terminales rejected, cancelled y expired. Cada transición corre en una sola
// transacción: la cabecera se bloquea con SELECT FOR UPDATE y el cambio de
// estado lleva guardia optimista sobre el estado predecesor, así dos ship
// concurrentes (o un ship contra un cancel) nunca ganan los dos.
type UseCase struct {
	txRunner     TxRunner
	ledger       *appinventory.LedgerUseCase
	transferRepo repository.TransferRepository
	locationRepo repository.LocationRepository
	productRepo  repository.ProductRepository
	expiry       ExpiryPolicy
}

// NewUseCase construye el caso de uso de traslados.
func NewUseCase(
	txRunner TxRunner,
	ledger *appinventory.LedgerUseCase,
	transferRepo repository.TransferRepository,
	locationRepo repository.LocationRepository,
	productRepo repository.ProductRepository,
	expiry ExpiryPolicy,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		ledger:       ledger,
		transferRepo: transferRepo,
		locationRepo: locationRepo,
		productRepo:  productRepo,
		expiry:       expiry,
	}
}

// Create crea un traslado en pending con su consecutivo legible y la ventana
// de expiración según prioridad (urgente = ventana más corta).
func (uc *UseCase) Create(ctx context.Context, tc domain.TenantContext, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	if !tc.Valid() {
		return nil, domain.ErrUnauthorized
	}
	if in.FromLocationID == "" || in.ToLocationID == "" || in.FromLocationID == in.ToLocationID {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	priority := entity.TransferPriority(in.Priority)
	if in.Priority == "" {
		priority = entity.PriorityNormal
	}
	if !priority.Valid() {
		return nil, domain.ErrInvalidInput
	}

	seen := make(map[entity.StockItemRef]bool, len(in.Items))
	for _, it := range in.Items {
		if it.QuantityRequested <= 0 {
			return nil, domain.ErrInvalidInput
		}
		ref := entity.StockItemRef{ProductID: it.ProductID, VariantID: it.VariantID}
		if seen[ref] {
			return nil, domain.ErrDuplicate
		}
		seen[ref] = true
		if err := uc.resolveItemRef(tc, ref); err != nil {
			return nil, err
		}
	}

	for _, locID := range []string{in.FromLocationID, in.ToLocationID} {
		loc, err := uc.locationRepo.GetByID(locID)
		if err != nil {
			return nil, err
		}
		if loc == nil || loc.BusinessID != tc.BusinessID {
			return nil, domain.ErrNotFound
		}
	}

	number, err := uc.transferRepo.NextTransferNumber(tc.BusinessID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	window := uc.expiry.Normal
	if priority == entity.PriorityUrgent {
		window = uc.expiry.Urgent
	}
	expiresAt := now.Add(window)

	tr := &entity.Transfer{
		ID:             uuid.New().String(),
		BusinessID:     tc.BusinessID,
		TransferNumber: number,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Status:         entity.TransferPending,
		Priority:       priority,
		RequestedBy:    tc.ActingUserID,
		RequestedAt:    now,
		ExpiresAt:      &expiresAt,
		RequestNotes:   in.RequestNotes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, it := range in.Items {
		tr.Items = append(tr.Items, &entity.TransferItem{
			ID:                uuid.New().String(),
			TransferID:        tr.ID,
			ItemRef:           entity.StockItemRef{ProductID: it.ProductID, VariantID: it.VariantID},
			QuantityRequested: it.QuantityRequested,
		})
	}

	// Cabecera y líneas en la misma transacción.
	err = uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		_ repository.InventoryRecordRepository,
		_ repository.InventoryMovementRepository,
		_ repository.ProductRepository,
	) error {
		return transferRepo.Create(tr)
	})
	if err != nil {
		return nil, err
	}
	return toTransferResponse(tr), nil
}

// Approve aprueba un traslado pendiente fijando la cantidad aprobada por línea.
// Contrato explícito: las líneas omitidas en el request se aprueban por la
// cantidad solicitada; una línea presente puede aprobar menos (incluso cero),
// nunca más que lo solicitado.
func (uc *UseCase) Approve(ctx context.Context, tc domain.TenantContext, transferID string, in dto.ApproveTransferRequest) (*dto.TransferResponse, error) {
	if !tc.Valid() {
		return nil, domain.ErrUnauthorized
	}
	overrides := make(map[string]int64, len(in.Items))
	for _, it := range in.Items {
		overrides[it.ItemID] = it.QuantityApproved
	}

	var result *entity.Transfer
	err := uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		_ repository.InventoryRecordRepository,
		_ repository.InventoryMovementRepository,
		_ repository.ProductRepository,
	) error {
		tr, err := uc.lockTransfer(transferRepo, tc, transferID)
		if err != nil {
			return err
		}
		if tr.Status != entity.TransferPending {
			return &domain.InvalidTransitionError{TransferID: tr.ID, Current: string(tr.Status), Attempted: string(entity.TransferApproved)}
		}
		matched := 0
		for _, item := range tr.Items {
			qty, ok := overrides[item.ID]
			if !ok {
				qty = item.QuantityRequested
			} else {
				matched++
			}
			if qty < 0 || qty > item.QuantityRequested {
				return domain.ErrInvalidInput
			}
			item.QuantityApproved = qty
		}
		if matched != len(overrides) {
			// Alguna línea del request no pertenece a este traslado.
			return domain.ErrNotFound
		}

		now := time.Now()
		tr.Status = entity.TransferApproved
		tr.ApprovedBy = tc.ActingUserID
		tr.ApprovedAt = &now
		tr.UpdatedAt = now
		if err := uc.commitTransition(transferRepo, tr, entity.TransferPending); err != nil {
			return err
		}
		if err := transferRepo.SaveItems(tr.Items); err != nil {
			return err
		}
		result = tr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toTransferResponse(result), nil
}

// Reject rechaza un traslado pendiente. Terminal; exige motivo no vacío.
func (uc *UseCase) Reject(ctx context.Context, tc domain.TenantContext, transferID, reason string) (*dto.TransferResponse, error) {
	if !tc.Valid() {
		return nil, domain.ErrUnauthorized
	}
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.Transfer
	err := uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		_ repository.InventoryRecordRepository,
		_ repository.InventoryMovementRepository,
		_ repository.ProductRepository,
	) error {
		tr, err := uc.lockTransfer(transferRepo, tc, transferID)
		if err != nil {
			return err
		}
		if tr.Status != entity.TransferPending {
			return &domain.InvalidTransitionError{TransferID: tr.ID, Current: string(tr.Status), Attempted: string(entity.TransferRejected)}
		}
		now := time.Now()
		tr.Status = entity.TransferRejected
		tr.RejectionReason = reason
		tr.UpdatedAt = now
		if err := uc.commitTransition(transferRepo, tr, entity.TransferPending); err != nil {
			return err
		}
		result = tr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toTransferResponse(result), nil
}

// Ship despacha un traslado aprobado: emite la salida de ledger de cada línea
// en la sucursal origen dentro de la misma transacción (todo o nada: si una
// sola línea sobregira, ninguna se aplica) y pasa a in_transit. El stock en
// tránsito no pertenece a ninguna de las dos sucursales hasta receive.
func (uc *UseCase) Ship(ctx context.Context, tc domain.TenantContext, transferID string, in dto.ShipTransferRequest) (*dto.TransferResponse, error) {
	if !tc.Valid() {
		return nil, domain.ErrUnauthorized
	}
	overrides := make(map[string]int64, len(in.Items))
	for _, it := range in.Items {
		overrides[it.ItemID] = it.QuantityShipped
	}

	var result *entity.Transfer
	err := uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		recordRepo repository.InventoryRecordRepository,
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		tr, err := uc.lockTransfer(transferRepo, tc, transferID)
		if err != nil {
			return err
		}
		if tr.Status != entity.TransferApproved {
			return &domain.InvalidTransitionError{TransferID: tr.ID, Current: string(tr.Status), Attempted: string(entity.TransferInTransit)}
		}

		matched := 0
		total := int64(0)
		for _, item := range tr.Items {
			qty, ok := overrides[item.ID]
			if !ok {
				qty = item.QuantityApproved
			} else {
				matched++
			}
			if qty < 0 || qty > item.QuantityApproved {
				return domain.ErrInvalidInput
			}
			item.QuantityShipped = qty
			total += qty
		}
		if matched != len(overrides) {
			return domain.ErrNotFound
		}
		if total == 0 {
			return domain.ErrInvalidInput
		}

		now := time.Now()
		// Bloquear filas de stock en orden determinista para evitar interbloqueos
		// entre transiciones concurrentes que compartan ítems.
		for _, item := range sortedByItemRef(tr.Items) {
			if item.QuantityShipped == 0 {
				continue
			}
			cost, err := uc.itemCost(productRepo, item.ItemRef)
			if err != nil {
				return err
			}
			_, err = uc.ledger.RecordMovementInTx(recordRepo, movRepo, productRepo, tc, appinventory.RecordMovementInput{
				ItemRef:           item.ItemRef,
				LocationID:        tr.FromLocationID,
				Type:              entity.MovementTransfer,
				Delta:             -item.QuantityShipped,
				UnitCost:          &cost,
				Notes:             "salida por traslado " + tr.TransferNumber,
				RelatedTransferID: tr.ID,
			}, now)
			if err != nil {
				return err
			}
		}

		tr.Status = entity.TransferInTransit
		tr.ShippedBy = tc.ActingUserID
		tr.ShippedAt = &now
		tr.ShippingNotes = in.ShippingNotes
		tr.UpdatedAt = now
		if err := uc.commitTransition(transferRepo, tr, entity.TransferApproved); err != nil {
			return err
		}
		if err := transferRepo.SaveItems(tr.Items); err != nil {
			return err
		}
		result = tr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toTransferResponse(result), nil
}

// Receive registra la llegada al destino: entrada de ledger por línea en la
// misma transacción. Queda received solo si cada línea recibió todo lo enviado;
// cualquier unidad faltante deja el traslado en partially_received, nunca se
// redondea hacia arriba.
func (uc *UseCase) Receive(ctx context.Context, tc domain.TenantContext, transferID string, in dto.ReceiveTransferRequest) (*dto.TransferResponse, error) {
	if !tc.Valid() {
		return nil, domain.ErrUnauthorized
	}
	overrides := make(map[string]int64, len(in.Items))
	for _, it := range in.Items {
		overrides[it.ItemID] = it.QuantityReceived
	}

	var result *entity.Transfer
	err := uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		recordRepo repository.InventoryRecordRepository,
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		tr, err := uc.lockTransfer(transferRepo, tc, transferID)
		if err != nil {
			return err
		}
		if tr.Status != entity.TransferInTransit {
			return &domain.InvalidTransitionError{TransferID: tr.ID, Current: string(tr.Status), Attempted: string(entity.TransferReceived)}
		}

		matched := 0
		for _, item := range tr.Items {
			qty, ok := overrides[item.ID]
			if !ok {
				qty = item.QuantityShipped
			} else {
				matched++
			}
			if qty < 0 || qty > item.QuantityShipped {
				return domain.ErrInvalidInput
			}
			item.QuantityReceived = qty
		}
		if matched != len(overrides) {
			return domain.ErrNotFound
		}

		now := time.Now()
		for _, item := range sortedByItemRef(tr.Items) {
			if item.QuantityReceived == 0 {
				continue
			}
			cost, err := uc.itemCost(productRepo, item.ItemRef)
			if err != nil {
				return err
			}
			_, err = uc.ledger.RecordMovementInTx(recordRepo, movRepo, productRepo, tc, appinventory.RecordMovementInput{
				ItemRef:           item.ItemRef,
				LocationID:        tr.ToLocationID,
				Type:              entity.MovementTransfer,
				Delta:             item.QuantityReceived,
				UnitCost:          &cost,
				Notes:             "entrada por traslado " + tr.TransferNumber,
				RelatedTransferID: tr.ID,
			}, now)
			if err != nil {
				return err
			}
		}

		next := entity.TransferPartiallyReceived
		if tr.FullyReceived() {
			next = entity.TransferReceived
		}
		tr.Status = next
		tr.ReceivedBy = tc.ActingUserID
		tr.ReceivedAt = &now
		tr.ReceivingNotes = in.ReceivingNotes
		tr.UpdatedAt = now
		if err := uc.commitTransition(transferRepo, tr, entity.TransferInTransit); err != nil {
			return err
		}
		if err := transferRepo.SaveItems(tr.Items); err != nil {
			return err
		}
		result = tr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toTransferResponse(result), nil
}

// Cancel anula un traslado que aún no movió stock (pending o approved).
// Terminal; sin efecto de ledger porque ship es el primer punto donde sale stock.
func (uc *UseCase) Cancel(ctx context.Context, tc domain.TenantContext, transferID string) (*dto.TransferResponse, error) {
	if !tc.Valid() {
		return nil, domain.ErrUnauthorized
	}
	var result *entity.Transfer
	err := uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		_ repository.InventoryRecordRepository,
		_ repository.InventoryMovementRepository,
		_ repository.ProductRepository,
	) error {
		tr, err := uc.lockTransfer(transferRepo, tc, transferID)
		if err != nil {
			return err
		}
		if tr.Status != entity.TransferPending && tr.Status != entity.TransferApproved {
			return &domain.InvalidTransitionError{TransferID: tr.ID, Current: string(tr.Status), Attempted: string(entity.TransferCancelled)}
		}
		expected := tr.Status
		now := time.Now()
		tr.Status = entity.TransferCancelled
		tr.UpdatedAt = now
		if err := uc.commitTransition(transferRepo, tr, expected); err != nil {
			return err
		}
		result = tr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toTransferResponse(result), nil
}

// Expire marca como expirado un traslado pendiente cuya ventana venció.
// Transición disparada por el barrido periódico: debe ser segura de invocar
// redundante — sobre un traslado ya terminal es un no-op exitoso, no un error.
func (uc *UseCase) Expire(ctx context.Context, transferID string) error {
	return uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		_ repository.InventoryRecordRepository,
		_ repository.InventoryMovementRepository,
		_ repository.ProductRepository,
	) error {
		tr, err := transferRepo.GetByIDForUpdate(transferID)
		if err != nil {
			return err
		}
		if tr == nil {
			return domain.ErrNotFound
		}
		if tr.Status.IsTerminal() {
			return nil
		}
		if tr.Status != entity.TransferPending {
			return &domain.InvalidTransitionError{TransferID: tr.ID, Current: string(tr.Status), Attempted: string(entity.TransferExpired)}
		}
		if !tr.IsExpired(time.Now()) {
			return domain.ErrInvalidInput
		}
		tr.Status = entity.TransferExpired
		tr.UpdatedAt = time.Now()
		return uc.commitTransition(transferRepo, tr, entity.TransferPending)
	})
}

// GetByID devuelve un traslado con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, tc domain.TenantContext, transferID string) (*dto.TransferResponse, error) {
	if !tc.Valid() {
		return nil, domain.ErrUnauthorized
	}
	tr, err := uc.transferRepo.GetByID(transferID)
	if err != nil {
		return nil, err
	}
	if tr == nil || tr.BusinessID != tc.BusinessID {
		return nil, domain.ErrNotFound
	}
	return toTransferResponse(tr), nil
}

// ListByLocation lista traslados donde la sucursal es origen o destino.
func (uc *UseCase) ListByLocation(ctx context.Context, tc domain.TenantContext, locationID, direction string, status entity.TransferStatus, limit, offset int) (*dto.TransferListResponse, error) {
	if !tc.Valid() {
		return nil, domain.ErrUnauthorized
	}
	// Dirección vacía = ambos lados (origen o destino).
	if direction != "" && direction != repository.TransferDirectionIncoming && direction != repository.TransferDirectionOutgoing {
		return nil, domain.ErrInvalidInput
	}
	if status != "" && !status.Valid() {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.transferRepo.ListByLocation(tc.BusinessID, locationID, direction, status, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, tr := range list {
		items = append(items, *toTransferResponse(tr))
	}
	return &dto.TransferListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// lockTransfer bloquea la cabecera y valida pertenencia a la empresa.
func (uc *UseCase) lockTransfer(transferRepo repository.TransferRepository, tc domain.TenantContext, transferID string) (*entity.Transfer, error) {
	tr, err := transferRepo.GetByIDForUpdate(transferID)
	if err != nil {
		return nil, err
	}
	if tr == nil || tr.BusinessID != tc.BusinessID {
		return nil, domain.ErrNotFound
	}
	return tr, nil
}

// commitTransition persiste el cambio de estado con guardia optimista.
// Bajo el FOR UPDATE la guardia no debería perder; si pierde, la fila cambió
// por fuera y el caller debe reintentar la operación completa.
func (uc *UseCase) commitTransition(transferRepo repository.TransferRepository, tr *entity.Transfer, expected entity.TransferStatus) error {
	ok, err := transferRepo.UpdateStatusIf(tr, expected)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.ConcurrencyConflictError{Resource: "transfer", ID: tr.ID}
	}
	return nil
}

// itemCost devuelve el costo promedio vigente del producto para valorar el movimiento.
func (uc *UseCase) itemCost(productRepo repository.ProductRepository, ref entity.StockItemRef) (decimal.Decimal, error) {
	product, err := productRepo.GetByID(ref.ProductID)
	if err != nil {
		return decimal.Zero, err
	}
	if product == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	return product.Cost, nil
}

// resolveItemRef verifica producto y variante contra la empresa del contexto.
func (uc *UseCase) resolveItemRef(tc domain.TenantContext, ref entity.StockItemRef) error {
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

// sortedByItemRef devuelve las líneas ordenadas por (producto, variante) para
// bloquear filas de stock siempre en el mismo orden.
func sortedByItemRef(items []*entity.TransferItem) []*entity.TransferItem {
	sorted := make([]*entity.TransferItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ItemRef.ProductID != sorted[j].ItemRef.ProductID {
			return sorted[i].ItemRef.ProductID < sorted[j].ItemRef.ProductID
		}
		return sorted[i].ItemRef.VariantID < sorted[j].ItemRef.VariantID
	})
	return sorted
}

func toTransferResponse(tr *entity.Transfer) *dto.TransferResponse {
	if tr == nil {
		return nil
	}
	items := make([]dto.TransferItemResponse, 0, len(tr.Items))
	for _, it := range tr.Items {
		items = append(items, dto.TransferItemResponse{
			ID:                it.ID,
			ProductID:         it.ItemRef.ProductID,
			VariantID:         it.ItemRef.VariantID,
			QuantityRequested: it.QuantityRequested,
			QuantityApproved:  it.QuantityApproved,
			QuantityShipped:   it.QuantityShipped,
			QuantityReceived:  it.QuantityReceived,
		})
	}
	return &dto.TransferResponse{
		ID:              tr.ID,
		TransferNumber:  tr.TransferNumber,
		FromLocationID:  tr.FromLocationID,
		ToLocationID:    tr.ToLocationID,
		Status:          string(tr.Status),
		Priority:        string(tr.Priority),
		RequestedBy:     tr.RequestedBy,
		RequestedAt:     tr.RequestedAt,
		ExpiresAt:       tr.ExpiresAt,
		ApprovedAt:      tr.ApprovedAt,
		ShippedAt:       tr.ShippedAt,
		ReceivedAt:      tr.ReceivedAt,
		RejectionReason: tr.RejectionReason,
		RequestNotes:    tr.RequestNotes,
		ShippingNotes:   tr.ShippingNotes,
		ReceivingNotes:  tr.ReceivingNotes,
		Items:           items,
	}
}
