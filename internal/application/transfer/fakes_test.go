package transfer_test

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

// memStore almacén en memoria compartido por los repositorios fake.
// snapshot/restore emula el rollback de una transacción real: un error en
// cualquier punto de la transición deshace todo lo escrito.
type memStore struct {
	products  map[string]entity.Product
	variants  map[string]entity.ProductVariant
	locations map[string]entity.Location
	records   map[string]entity.InventoryRecord
	recordIdx map[string]string
	movements []entity.InventoryMovement
	transfers map[string]*entity.Transfer
	recSeq    int
	numSeq    int

	// beforeUpdateStatus corre justo antes de la guardia optimista; permite
	// simular a otro actor ganando la carrera entre el lock y el commit.
	beforeUpdateStatus func()
}

func newMemStore() *memStore {
	return &memStore{
		products:  map[string]entity.Product{},
		variants:  map[string]entity.ProductVariant{},
		locations: map[string]entity.Location{},
		records:   map[string]entity.InventoryRecord{},
		recordIdx: map[string]string{},
		transfers: map[string]*entity.Transfer{},
	}
}

func cloneTransfer(t *entity.Transfer) *entity.Transfer {
	cp := *t
	cp.Items = make([]*entity.TransferItem, len(t.Items))
	for i, it := range t.Items {
		itc := *it
		cp.Items[i] = &itc
	}
	return &cp
}

func (s *memStore) snapshot() memStore {
	snap := memStore{
		products:           maps.Clone(s.products),
		variants:           maps.Clone(s.variants),
		locations:          maps.Clone(s.locations),
		records:            maps.Clone(s.records),
		recordIdx:          maps.Clone(s.recordIdx),
		movements:          slices.Clone(s.movements),
		transfers:          make(map[string]*entity.Transfer, len(s.transfers)),
		recSeq:             s.recSeq,
		numSeq:             s.numSeq,
		beforeUpdateStatus: s.beforeUpdateStatus,
	}
	for id, tr := range s.transfers {
		snap.transfers[id] = cloneTransfer(tr)
	}
	return snap
}

func (s *memStore) restore(snap memStore) { *s = snap }

func recordKey(businessID string, ref entity.StockItemRef, locationID string) string {
	return businessID + "|" + ref.ProductID + "|" + ref.VariantID + "|" + locationID
}

// ─── ProductRepository ────────────────────────────────────────────────────────

type memProductRepo struct{ s *memStore }

var _ repository.ProductRepository = (*memProductRepo)(nil)

func (r *memProductRepo) Create(p *entity.Product) error { r.s.products[p.ID] = *p; return nil }

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memProductRepo) GetByBusinessAndSKU(businessID, sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.BusinessID == businessID && p.SKU == sku {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) Update(p *entity.Product) error { r.s.products[p.ID] = *p; return nil }

func (r *memProductRepo) UpdateCost(productID string, cost decimal.Decimal) error {
	p, ok := r.s.products[productID]
	if !ok {
		return fmt.Errorf("producto %s no existe", productID)
	}
	p.Cost = cost
	r.s.products[productID] = p
	return nil
}

func (r *memProductRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

func (r *memProductRepo) Delete(id string) error { delete(r.s.products, id); return nil }

func (r *memProductRepo) CreateVariant(v *entity.ProductVariant) error {
	r.s.variants[v.ID] = *v
	return nil
}

func (r *memProductRepo) GetVariantByID(id string) (*entity.ProductVariant, error) {
	v, ok := r.s.variants[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *memProductRepo) ListVariants(productID string) ([]*entity.ProductVariant, error) {
	return nil, nil
}

// ─── LocationRepository ───────────────────────────────────────────────────────

type memLocationRepo struct{ s *memStore }

var _ repository.LocationRepository = (*memLocationRepo)(nil)

func (r *memLocationRepo) Create(l *entity.Location) error { r.s.locations[l.ID] = *l; return nil }

func (r *memLocationRepo) GetByID(id string) (*entity.Location, error) {
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *memLocationRepo) Update(l *entity.Location) error { r.s.locations[l.ID] = *l; return nil }

func (r *memLocationRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.Location, error) {
	return nil, nil
}

func (r *memLocationRepo) Delete(id string) error { delete(r.s.locations, id); return nil }

// ─── InventoryRecordRepository ────────────────────────────────────────────────

type memRecordRepo struct{ s *memStore }

var _ repository.InventoryRecordRepository = (*memRecordRepo)(nil)

func (r *memRecordRepo) Get(businessID string, ref entity.StockItemRef, locationID string) (*entity.InventoryRecord, error) {
	id, ok := r.s.recordIdx[recordKey(businessID, ref, locationID)]
	if !ok {
		return nil, nil
	}
	rec := r.s.records[id]
	return &rec, nil
}

func (r *memRecordRepo) GetByID(id string) (*entity.InventoryRecord, error) {
	rec, ok := r.s.records[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *memRecordRepo) GetOrCreateForUpdate(businessID string, ref entity.StockItemRef, locationID string) (*entity.InventoryRecord, error) {
	key := recordKey(businessID, ref, locationID)
	if id, ok := r.s.recordIdx[key]; ok {
		rec := r.s.records[id]
		return &rec, nil
	}
	r.s.recSeq++
	rec := entity.InventoryRecord{
		ID:         fmt.Sprintf("rec-%d", r.s.recSeq),
		BusinessID: businessID,
		ItemRef:    ref,
		LocationID: locationID,
	}
	r.s.records[rec.ID] = rec
	r.s.recordIdx[key] = rec.ID
	return &rec, nil
}

func (r *memRecordRepo) Save(rec *entity.InventoryRecord) error {
	r.s.records[rec.ID] = *rec
	r.s.recordIdx[recordKey(rec.BusinessID, rec.ItemRef, rec.LocationID)] = rec.ID
	return nil
}

func (r *memRecordRepo) UpdateStockLevels(recordID string, minStockLevel, reorderPoint int64) error {
	rec, ok := r.s.records[recordID]
	if !ok {
		return fmt.Errorf("fila %s no existe", recordID)
	}
	rec.MinStockLevel = minStockLevel
	rec.ReorderPoint = reorderPoint
	r.s.records[recordID] = rec
	return nil
}

func (r *memRecordRepo) ListByLocation(businessID, locationID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	return nil, nil
}

func (r *memRecordRepo) GetLowStock(_ context.Context, businessID, locationID string) ([]repository.LowStockRecord, error) {
	return nil, nil
}

func (r *memRecordRepo) GetAvailability(_ context.Context, businessID string, ref entity.StockItemRef) ([]repository.AvailabilityRow, error) {
	return nil, nil
}

// ─── InventoryMovementRepository ──────────────────────────────────────────────

type memMovementRepo struct{ s *memStore }

var _ repository.InventoryMovementRepository = (*memMovementRepo)(nil)

func (r *memMovementRepo) Create(m *entity.InventoryMovement) error {
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r *memMovementRepo) GetByID(id string) (*entity.InventoryMovement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			m := m
			return &m, nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) ListByRecord(recordID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		if r.s.movements[i].InventoryRecordID == recordID {
			m := r.s.movements[i]
			out = append(out, &m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) ListByTransfer(transferID string) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.s.movements {
		if m.RelatedTransferID == transferID {
			m := m
			out = append(out, &m)
		}
	}
	return out, nil
}

// ─── TransferRepository ───────────────────────────────────────────────────────

type memTransferRepo struct{ s *memStore }

var _ repository.TransferRepository = (*memTransferRepo)(nil)

func (r *memTransferRepo) Create(tr *entity.Transfer) error {
	r.s.transfers[tr.ID] = cloneTransfer(tr)
	return nil
}

func (r *memTransferRepo) GetByID(id string) (*entity.Transfer, error) {
	tr, ok := r.s.transfers[id]
	if !ok {
		return nil, nil
	}
	return cloneTransfer(tr), nil
}

func (r *memTransferRepo) GetByIDForUpdate(id string) (*entity.Transfer, error) {
	return r.GetByID(id)
}

func (r *memTransferRepo) UpdateStatusIf(tr *entity.Transfer, expected entity.TransferStatus) (bool, error) {
	if r.s.beforeUpdateStatus != nil {
		r.s.beforeUpdateStatus()
	}
	stored, ok := r.s.transfers[tr.ID]
	if !ok || stored.Status != expected {
		return false, nil
	}
	stored.Status = tr.Status
	stored.ApprovedBy, stored.ApprovedAt = tr.ApprovedBy, tr.ApprovedAt
	stored.ShippedBy, stored.ShippedAt = tr.ShippedBy, tr.ShippedAt
	stored.ReceivedBy, stored.ReceivedAt = tr.ReceivedBy, tr.ReceivedAt
	stored.RejectionReason = tr.RejectionReason
	stored.ShippingNotes = tr.ShippingNotes
	stored.ReceivingNotes = tr.ReceivingNotes
	stored.UpdatedAt = tr.UpdatedAt
	return true, nil
}

func (r *memTransferRepo) SaveItems(items []*entity.TransferItem) error {
	for _, it := range items {
		tr, ok := r.s.transfers[it.TransferID]
		if !ok {
			return fmt.Errorf("traslado %s no existe", it.TransferID)
		}
		for i, stored := range tr.Items {
			if stored.ID == it.ID {
				itc := *it
				tr.Items[i] = &itc
				break
			}
		}
	}
	return nil
}

func (r *memTransferRepo) ListByLocation(businessID, locationID, direction string, status entity.TransferStatus, limit, offset int) ([]*entity.Transfer, error) {
	var out []*entity.Transfer
	for _, tr := range r.s.transfers {
		if tr.BusinessID != businessID {
			continue
		}
		switch direction {
		case repository.TransferDirectionOutgoing:
			if tr.FromLocationID != locationID {
				continue
			}
		case repository.TransferDirectionIncoming:
			if tr.ToLocationID != locationID {
				continue
			}
		default:
			if tr.FromLocationID != locationID && tr.ToLocationID != locationID {
				continue
			}
		}
		if status != "" && tr.Status != status {
			continue
		}
		out = append(out, cloneTransfer(tr))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.After(out[j].RequestedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memTransferRepo) FindExpiredPending(_ context.Context, now time.Time, limit int) ([]string, error) {
	var ids []string
	for id, tr := range r.s.transfers {
		if tr.IsExpired(now) {
			ids = append(ids, id)
		}
		if len(ids) == limit {
			break
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *memTransferRepo) NextTransferNumber(string) (string, error) {
	r.s.numSeq++
	return fmt.Sprintf("TR-%06d", r.s.numSeq), nil
}

// ─── TxRunner ─────────────────────────────────────────────────────────────────

// memTxRunner implementa los TxRunner de inventario y de traslados sobre el
// mismo almacén, con rollback por snapshot.
type memTxRunner struct{ s *memStore }

func (t *memTxRunner) Run(_ context.Context, fn func(
	recordRepo repository.InventoryRecordRepository,
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	snap := t.s.snapshot()
	if err := fn(&memRecordRepo{t.s}, &memMovementRepo{t.s}, &memProductRepo{t.s}); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

func (t *memTxRunner) RunTransfer(_ context.Context, fn func(
	transferRepo repository.TransferRepository,
	recordRepo repository.InventoryRecordRepository,
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	snap := t.s.snapshot()
	if err := fn(&memTransferRepo{t.s}, &memRecordRepo{t.s}, &memMovementRepo{t.s}, &memProductRepo{t.s}); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}
