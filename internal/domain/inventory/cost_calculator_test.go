package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Traslados-api/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// TestCostCalculator valida el promedio ponderado que valora cada entrada:
//
//	NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) /
//	             (StockActual + CantEntrada)
//
// Este costo alimenta tanto la fila de stock como el costo del producto, así
// que un error aquí contamina todas las valoraciones posteriores.
// ──────────────────────────────────────────────────────────────────────────────

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	tests := []struct {
		name         string
		stock        int64
		costo        decimal.Decimal
		cantEntrada  int64
		costoEntrada decimal.Decimal
		want         decimal.Decimal
	}{
		{
			name:  "primera entrada fija el costo",
			stock: 0, costo: decimal.Zero,
			cantEntrada: 10, costoEntrada: decimal.NewFromInt(12),
			want: decimal.NewFromInt(12),
		},
		{
			name:  "mismas cantidades promedian a la mitad",
			stock: 10, costo: decimal.NewFromInt(10),
			cantEntrada: 10, costoEntrada: decimal.NewFromInt(20),
			want: decimal.NewFromInt(15),
		},
		{
			name:  "la entrada grande domina el promedio",
			stock: 1, costo: decimal.NewFromInt(100),
			cantEntrada: 99, costoEntrada: decimal.NewFromInt(10),
			// (1*100 + 99*10) / 100 = 10.90
			want: decimal.NewFromFloat(10.90),
		},
		{
			name:  "entrada al mismo costo no cambia el promedio",
			stock: 50, costo: decimal.NewFromInt(7),
			cantEntrada: 25, costoEntrada: decimal.NewFromInt(7),
			want: decimal.NewFromInt(7),
		},
		{
			name:  "suma no positiva colapsa a cero",
			stock: -5, costo: decimal.NewFromInt(10),
			cantEntrada: 5, costoEntrada: decimal.NewFromInt(10),
			want: decimal.Zero,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inventory.CostCalculator(tt.stock, tt.costo, tt.cantEntrada, tt.costoEntrada)
			assert.True(t, tt.want.Equal(got), "esperaba %s, obtuve %s", tt.want, got)
		})
	}
}
