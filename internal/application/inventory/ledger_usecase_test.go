package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Traslados-api/internal/application/inventory"
	"github.com/jhoicas/Traslados-api/internal/domain"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type ledgerFixture struct {
	store  *memStore
	uc     *inventory.LedgerUseCase
	tc     domain.TenantContext
	ref    entity.StockItemRef
	locID  string
	loc2ID string
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	store := newMemStore()
	store.products["prod-1"] = entity.Product{
		ID: "prod-1", BusinessID: "biz-1", SKU: "SKU-001", Name: "Camiseta",
		Cost: decimal.NewFromInt(10),
	}
	store.locations["loc-1"] = entity.Location{ID: "loc-1", BusinessID: "biz-1", Name: "Bodega Centro"}
	store.locations["loc-2"] = entity.Location{ID: "loc-2", BusinessID: "biz-1", Name: "Sucursal Norte"}

	uc := inventory.NewLedgerUseCase(
		&memTxRunner{store},
		&memProductRepo{store},
		&memLocationRepo{store},
		&memRecordRepo{store},
		&memMovementRepo{store},
	)
	return &ledgerFixture{
		store:  store,
		uc:     uc,
		tc:     domain.TenantContext{BusinessID: "biz-1", ActingUserID: "user-1"},
		ref:    entity.StockItemRef{ProductID: "prod-1"},
		locID:  "loc-1",
		loc2ID: "loc-2",
	}
}

func (f *ledgerFixture) mustEntry(t *testing.T, qty int64, cost int64) *entity.InventoryMovement {
	t.Helper()
	c := decimal.NewFromInt(cost)
	mov, err := f.uc.RecordMovement(context.Background(), f.tc, inventory.RecordMovementInput{
		ItemRef:    f.ref,
		LocationID: f.locID,
		Type:       entity.MovementEntry,
		Delta:      qty,
		UnitCost:   &c,
	})
	require.NoError(t, err)
	return mov
}

func (f *ledgerFixture) record(t *testing.T) *entity.InventoryRecord {
	t.Helper()
	rec, err := (&memRecordRepo{f.store}).Get(f.tc.BusinessID, f.ref, f.locID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	return rec
}

// ──────────────────────────────────────────────────────────────────────────────
// RecordMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_EntradaCreaFilaPerezosamente(t *testing.T) {
	f := newLedgerFixture(t)

	mov := f.mustEntry(t, 10, 12)

	rec := f.record(t)
	assert.Equal(t, int64(10), rec.Quantity)
	assert.True(t, rec.AvgUnitCost.Equal(decimal.NewFromInt(12)), "primera entrada fija el costo promedio")
	assert.NotNil(t, rec.LastRestockedAt, "una entrada actualiza last_restocked_at")

	assert.Equal(t, rec.ID, mov.InventoryRecordID)
	assert.Equal(t, entity.MovementEntry, mov.Type)
	assert.True(t, mov.TotalCost.Equal(decimal.NewFromInt(120)), "total = delta * costo unitario")
	assert.Equal(t, "user-1", mov.CreatedBy)

	// El costo del producto sin variante sigue al promedio de la fila.
	prod := f.store.products["prod-1"]
	assert.True(t, prod.Cost.Equal(decimal.NewFromInt(12)))
}

func TestRecordMovement_SalidaDescuentaAlCostoPromedio(t *testing.T) {
	f := newLedgerFixture(t)
	f.mustEntry(t, 10, 12)

	mov, err := f.uc.RecordMovement(context.Background(), f.tc, inventory.RecordMovementInput{
		ItemRef:    f.ref,
		LocationID: f.locID,
		Type:       entity.MovementExit,
		Delta:      -4,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(6), f.record(t).Quantity)
	assert.True(t, mov.UnitCost.Equal(decimal.NewFromInt(12)),
		"la salida se valora al costo promedio vigente")
}

func TestRecordMovement_CostoPromedioPonderado(t *testing.T) {
	f := newLedgerFixture(t)
	f.mustEntry(t, 10, 10)
	f.mustEntry(t, 10, 20)

	// (10*10 + 10*20) / 20 = 15
	rec := f.record(t)
	assert.True(t, rec.AvgUnitCost.Equal(decimal.NewFromInt(15)),
		"promedio ponderado: esperaba 15, obtuve %s", rec.AvgUnitCost)
	prod := f.store.products["prod-1"]
	assert.True(t, prod.Cost.Equal(decimal.NewFromInt(15)))
}

func TestRecordMovement_SobregiroRechazadoSinEscribirNada(t *testing.T) {
	f := newLedgerFixture(t)
	f.mustEntry(t, 5, 10)
	movsAntes := len(f.store.movements)

	_, err := f.uc.RecordMovement(context.Background(), f.tc, inventory.RecordMovementInput{
		ItemRef:    f.ref,
		LocationID: f.locID,
		Type:       entity.MovementExit,
		Delta:      -6,
	})

	var insErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	assert.Equal(t, int64(5), insErr.Current)
	assert.Equal(t, int64(-6), insErr.Attempted)
	assert.Equal(t, "loc-1", insErr.LocationID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(5), f.record(t).Quantity, "la cantidad no debe cambiar")
	assert.Len(t, f.store.movements, movsAntes, "un rechazo no escribe movimientos")
}

func TestRecordMovement_AjustePuedeDejarCantidadNegativa(t *testing.T) {
	// Un ajuste es una corrección explícita (conteo físico): se admite aun si
	// deja la cantidad bajo cero, para que el sistema refleje la realidad.
	f := newLedgerFixture(t)
	f.mustEntry(t, 3, 10)

	_, err := f.uc.RecordMovement(context.Background(), f.tc, inventory.RecordMovementInput{
		ItemRef:    f.ref,
		LocationID: f.locID,
		Type:       entity.MovementAdjustment,
		Delta:      -5,
		Notes:      "conteo físico",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-2), f.record(t).Quantity)
}

func TestRecordMovement_ValidacionesDeEntrada(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	cost := decimal.NewFromInt(10)

	tests := []struct {
		name string
		in   inventory.RecordMovementInput
		want error
	}{
		{
			"entrada sin costo unitario",
			inventory.RecordMovementInput{ItemRef: f.ref, LocationID: f.locID, Type: entity.MovementEntry, Delta: 5},
			domain.ErrInvalidInput,
		},
		{
			"entrada con delta negativo",
			inventory.RecordMovementInput{ItemRef: f.ref, LocationID: f.locID, Type: entity.MovementEntry, Delta: -5, UnitCost: &cost},
			domain.ErrInvalidInput,
		},
		{
			"salida con delta positivo",
			inventory.RecordMovementInput{ItemRef: f.ref, LocationID: f.locID, Type: entity.MovementExit, Delta: 5},
			domain.ErrInvalidInput,
		},
		{
			"ajuste con delta cero",
			inventory.RecordMovementInput{ItemRef: f.ref, LocationID: f.locID, Type: entity.MovementAdjustment, Delta: 0},
			domain.ErrInvalidInput,
		},
		{
			"tipo desconocido",
			inventory.RecordMovementInput{ItemRef: f.ref, LocationID: f.locID, Type: "venta", Delta: -1},
			domain.ErrInvalidInput,
		},
		{
			"traslado directo sin transferencia asociada",
			inventory.RecordMovementInput{ItemRef: f.ref, LocationID: f.locID, Type: entity.MovementTransfer, Delta: -1},
			domain.ErrInvalidInput,
		},
		{
			"producto inexistente",
			inventory.RecordMovementInput{ItemRef: entity.StockItemRef{ProductID: "prod-x"}, LocationID: f.locID, Type: entity.MovementEntry, Delta: 5, UnitCost: &cost},
			domain.ErrNotFound,
		},
		{
			"sucursal inexistente",
			inventory.RecordMovementInput{ItemRef: f.ref, LocationID: "loc-x", Type: entity.MovementEntry, Delta: 5, UnitCost: &cost},
			domain.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.RecordMovement(ctx, f.tc, tt.in)
			assert.True(t, errors.Is(err, tt.want), "esperaba %v, obtuve %v", tt.want, err)
		})
	}
}

func TestRecordMovement_TenantInvalido(t *testing.T) {
	f := newLedgerFixture(t)
	cost := decimal.NewFromInt(10)
	_, err := f.uc.RecordMovement(context.Background(), domain.TenantContext{}, inventory.RecordMovementInput{
		ItemRef: f.ref, LocationID: f.locID, Type: entity.MovementEntry, Delta: 1, UnitCost: &cost,
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRecordMovement_ProductoDeOtraEmpresa(t *testing.T) {
	f := newLedgerFixture(t)
	f.store.products["prod-ajeno"] = entity.Product{ID: "prod-ajeno", BusinessID: "biz-2", SKU: "X-1"}

	cost := decimal.NewFromInt(10)
	_, err := f.uc.RecordMovement(context.Background(), f.tc, inventory.RecordMovementInput{
		ItemRef:    entity.StockItemRef{ProductID: "prod-ajeno"},
		LocationID: f.locID,
		Type:       entity.MovementEntry,
		Delta:      1,
		UnitCost:   &cost,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// La fila de stock es una vista materializada: su cantidad debe ser siempre la
// suma con signo de todos los movimientos registrados del par (ítem, sucursal).
func TestRecordMovement_CantidadEsSumaDeMovimientos(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	cost := decimal.NewFromInt(10)

	ops := []inventory.RecordMovementInput{
		{ItemRef: f.ref, LocationID: f.locID, Type: entity.MovementEntry, Delta: 20, UnitCost: &cost},
		{ItemRef: f.ref, LocationID: f.locID, Type: entity.MovementExit, Delta: -3},
		{ItemRef: f.ref, LocationID: f.locID, Type: entity.MovementAdjustment, Delta: -2},
		{ItemRef: f.ref, LocationID: f.locID, Type: entity.MovementEntry, Delta: 7, UnitCost: &cost},
		{ItemRef: f.ref, LocationID: f.locID, Type: entity.MovementExit, Delta: -12},
		{ItemRef: f.ref, LocationID: f.locID, Type: entity.MovementExit, Delta: -30}, // sobregiro: rechazado
	}
	for _, in := range ops {
		_, _ = f.uc.RecordMovement(ctx, f.tc, in)
	}

	rec := f.record(t)
	var sum int64
	for _, m := range f.store.movements {
		if m.InventoryRecordID == rec.ID {
			sum += m.QuantityDelta
		}
	}
	assert.Equal(t, sum, rec.Quantity, "cantidad = suma con signo de los movimientos")
	assert.Equal(t, int64(10), rec.Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateStockLevels / ListMovements / GetLowStockRecords
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateStockLevels_SoloConfiguracion(t *testing.T) {
	f := newLedgerFixture(t)
	f.mustEntry(t, 10, 12)
	rec := f.record(t)

	require.NoError(t, f.uc.UpdateStockLevels(context.Background(), f.tc, rec.ID, 2, 5))

	after := f.record(t)
	assert.Equal(t, int64(2), after.MinStockLevel)
	assert.Equal(t, int64(5), after.ReorderPoint)
	assert.Equal(t, int64(10), after.Quantity, "los niveles nunca tocan la cantidad")
}

func TestUpdateStockLevels_Errores(t *testing.T) {
	f := newLedgerFixture(t)
	f.mustEntry(t, 10, 12)
	rec := f.record(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.uc.UpdateStockLevels(ctx, f.tc, "rec-x", 1, 1), domain.ErrNotFound)
	assert.ErrorIs(t, f.uc.UpdateStockLevels(ctx, f.tc, rec.ID, -1, 1), domain.ErrInvalidInput)

	otraEmpresa := domain.TenantContext{BusinessID: "biz-2", ActingUserID: "user-9"}
	assert.ErrorIs(t, f.uc.UpdateStockLevels(ctx, otraEmpresa, rec.ID, 1, 1), domain.ErrForbidden)
}

func TestListMovements_MasRecientePrimero(t *testing.T) {
	f := newLedgerFixture(t)
	f.mustEntry(t, 10, 12)
	_, err := f.uc.RecordMovement(context.Background(), f.tc, inventory.RecordMovementInput{
		ItemRef: f.ref, LocationID: f.locID, Type: entity.MovementExit, Delta: -1,
	})
	require.NoError(t, err)

	movs, err := f.uc.ListMovements(context.Background(), f.tc, f.record(t).ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementExit, movs[0].Type, "el más reciente va primero")
	assert.Equal(t, entity.MovementEntry, movs[1].Type)
}

func TestGetLowStockRecords_PeorPrimero(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	cost := decimal.NewFromInt(10)

	// Dos filas bajo reorden con cantidades distintas.
	seed := []struct {
		loc     string
		qty     int64
		reorder int64
	}{
		{"loc-1", 2, 5},
		{"loc-2", 1, 5},
	}
	for _, s := range seed {
		_, err := f.uc.RecordMovement(ctx, f.tc, inventory.RecordMovementInput{
			ItemRef: f.ref, LocationID: s.loc, Type: entity.MovementEntry, Delta: s.qty, UnitCost: &cost,
		})
		require.NoError(t, err)
		rec, err := (&memRecordRepo{f.store}).Get("biz-1", f.ref, s.loc)
		require.NoError(t, err)
		require.NoError(t, f.uc.UpdateStockLevels(ctx, f.tc, rec.ID, 0, s.reorder))
	}

	records, err := f.uc.GetLowStockRecords(ctx, f.tc, "")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(1), records[0].Record.Quantity, "el peor (menor cantidad) primero")
	assert.Equal(t, "Sucursal Norte", records[0].LocationName)
	assert.Equal(t, "SKU-001", records[0].ProductSKU)

	// Filtrado por sucursal.
	records, err = f.uc.GetLowStockRecords(ctx, f.tc, "loc-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "loc-1", records[0].Record.LocationID)

	// Sucursal inexistente.
	_, err = f.uc.GetLowStockRecords(ctx, f.tc, "loc-x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
