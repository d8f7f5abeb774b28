package inventory_test

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

// memStore almacén en memoria compartido por los repositorios fake.
// Guarda valores (no punteros) para que snapshot/restore emule el rollback
// de una transacción real.
type memStore struct {
	products  map[string]entity.Product
	variants  map[string]entity.ProductVariant
	locations map[string]entity.Location
	records   map[string]entity.InventoryRecord // por ID
	recordIdx map[string]string                 // clave (empresa|ítem|sucursal) → ID
	movements []entity.InventoryMovement
	seq       int
}

func newMemStore() *memStore {
	return &memStore{
		products:  map[string]entity.Product{},
		variants:  map[string]entity.ProductVariant{},
		locations: map[string]entity.Location{},
		records:   map[string]entity.InventoryRecord{},
		recordIdx: map[string]string{},
	}
}

func (s *memStore) snapshot() memStore {
	return memStore{
		products:  maps.Clone(s.products),
		variants:  maps.Clone(s.variants),
		locations: maps.Clone(s.locations),
		records:   maps.Clone(s.records),
		recordIdx: maps.Clone(s.recordIdx),
		movements: slices.Clone(s.movements),
		seq:       s.seq,
	}
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
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.BusinessID == businessID {
			p := p
			out = append(out, &p)
		}
	}
	return out, nil
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
	var out []*entity.ProductVariant
	for _, v := range r.s.variants {
		if v.ProductID == productID {
			v := v
			out = append(out, &v)
		}
	}
	return out, nil
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
	var out []*entity.Location
	for _, l := range r.s.locations {
		if l.BusinessID == businessID {
			l := l
			out = append(out, &l)
		}
	}
	return out, nil
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
	r.s.seq++
	rec := entity.InventoryRecord{
		ID:         fmt.Sprintf("rec-%d", r.s.seq),
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
	var out []*entity.InventoryRecord
	for _, rec := range r.s.records {
		if rec.BusinessID == businessID && rec.LocationID == locationID {
			rec := rec
			out = append(out, &rec)
		}
	}
	return out, nil
}

func (r *memRecordRepo) GetLowStock(_ context.Context, businessID, locationID string) ([]repository.LowStockRecord, error) {
	var out []repository.LowStockRecord
	for _, rec := range r.s.records {
		if rec.BusinessID != businessID || rec.ReorderPoint <= 0 || rec.Quantity > rec.ReorderPoint {
			continue
		}
		if locationID != "" && rec.LocationID != locationID {
			continue
		}
		row := repository.LowStockRecord{Record: rec}
		if p, ok := r.s.products[rec.ItemRef.ProductID]; ok {
			row.ProductSKU, row.ProductName = p.SKU, p.Name
		}
		if v, ok := r.s.variants[rec.ItemRef.VariantID]; ok {
			row.VariantName = v.Name
		}
		if l, ok := r.s.locations[rec.LocationID]; ok {
			row.LocationName = l.Name
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Record.Quantity < out[j].Record.Quantity })
	return out, nil
}

func (r *memRecordRepo) GetAvailability(_ context.Context, businessID string, ref entity.StockItemRef) ([]repository.AvailabilityRow, error) {
	var out []repository.AvailabilityRow
	for _, rec := range r.s.records {
		if rec.BusinessID != businessID || !rec.ItemRef.Equals(ref) {
			continue
		}
		row := repository.AvailabilityRow{
			LocationID:   rec.LocationID,
			Quantity:     rec.Quantity,
			ReorderPoint: rec.ReorderPoint,
		}
		if l, ok := r.s.locations[rec.LocationID]; ok {
			row.LocationName = l.Name
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Quantity > out[j].Quantity })
	return out, nil
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
	for i := len(r.s.movements) - 1; i >= 0; i-- { // más reciente primero
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

// ─── TxRunner ─────────────────────────────────────────────────────────────────

// memTxRunner ejecuta la función sobre el mismo almacén y deshace todos los
// cambios si retorna error, igual que el rollback de una transacción.
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
