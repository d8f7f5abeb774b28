package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Traslados-api/internal/application/inventory"
	"github.com/jhoicas/Traslados-api/internal/domain"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
)

func TestGetAvailability_OrdenadaPorCantidadDescendente(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	cost := decimal.NewFromInt(10)

	for _, s := range []struct {
		loc string
		qty int64
	}{
		{"loc-1", 3},
		{"loc-2", 9},
	} {
		_, err := f.uc.RecordMovement(ctx, f.tc, inventory.RecordMovementInput{
			ItemRef: f.ref, LocationID: s.loc, Type: entity.MovementEntry, Delta: s.qty, UnitCost: &cost,
		})
		require.NoError(t, err)
	}

	avail := inventory.NewAvailabilityUseCase(&memRecordRepo{f.store}, &memProductRepo{f.store})
	out, err := avail.GetAvailabilityAcrossLocations(ctx, f.tc, f.ref)
	require.NoError(t, err)

	assert.Equal(t, "prod-1", out.ProductID)
	require.Len(t, out.Locations, 2)
	assert.Equal(t, "loc-2", out.Locations[0].LocationID, "la sucursal con más stock primero")
	assert.Equal(t, int64(9), out.Locations[0].Quantity)
	assert.Equal(t, "Sucursal Norte", out.Locations[0].LocationName)
	assert.Equal(t, "loc-1", out.Locations[1].LocationID)
}

func TestGetAvailability_MarcaFilasBajoReorden(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	cost := decimal.NewFromInt(10)

	_, err := f.uc.RecordMovement(ctx, f.tc, inventory.RecordMovementInput{
		ItemRef: f.ref, LocationID: "loc-1", Type: entity.MovementEntry, Delta: 2, UnitCost: &cost,
	})
	require.NoError(t, err)
	rec := f.record(t)
	require.NoError(t, f.uc.UpdateStockLevels(ctx, f.tc, rec.ID, 0, 5))

	avail := inventory.NewAvailabilityUseCase(&memRecordRepo{f.store}, &memProductRepo{f.store})
	out, err := avail.GetAvailabilityAcrossLocations(ctx, f.tc, f.ref)
	require.NoError(t, err)
	require.Len(t, out.Locations, 1)
	assert.True(t, out.Locations[0].IsLowStock)
}

func TestGetAvailability_Errores(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	avail := inventory.NewAvailabilityUseCase(&memRecordRepo{f.store}, &memProductRepo{f.store})

	_, err := avail.GetAvailabilityAcrossLocations(ctx, domain.TenantContext{}, f.ref)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = avail.GetAvailabilityAcrossLocations(ctx, f.tc, entity.StockItemRef{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = avail.GetAvailabilityAcrossLocations(ctx, f.tc, entity.StockItemRef{ProductID: "prod-x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Variante que no pertenece al producto consultado.
	f.store.variants["var-1"] = entity.ProductVariant{ID: "var-1", ProductID: "prod-otro"}
	_, err = avail.GetAvailabilityAcrossLocations(ctx, f.tc, entity.StockItemRef{ProductID: "prod-1", VariantID: "var-1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Producto de otra empresa.
	f.store.products["prod-ajeno"] = entity.Product{ID: "prod-ajeno", BusinessID: "biz-2"}
	_, err = avail.GetAvailabilityAcrossLocations(ctx, f.tc, entity.StockItemRef{ProductID: "prod-ajeno"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Sin filas: respuesta vacía, no error.
	out, err := avail.GetAvailabilityAcrossLocations(ctx, f.tc, f.ref)
	require.NoError(t, err)
	assert.Empty(t, out.Locations)
}
