package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Traslados-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de transiciones del traslado
// ──────────────────────────────────────────────────────────────────────────────

func TestTransferStatus_CanTransitionTo(t *testing.T) {
	all := []entity.TransferStatus{
		entity.TransferPending, entity.TransferApproved, entity.TransferInTransit,
		entity.TransferReceived, entity.TransferPartiallyReceived,
		entity.TransferRejected, entity.TransferCancelled, entity.TransferExpired,
	}

	allowed := map[entity.TransferStatus][]entity.TransferStatus{
		entity.TransferPending:   {entity.TransferApproved, entity.TransferRejected, entity.TransferCancelled, entity.TransferExpired},
		entity.TransferApproved:  {entity.TransferInTransit, entity.TransferCancelled},
		entity.TransferInTransit: {entity.TransferReceived, entity.TransferPartiallyReceived},
	}

	for _, from := range all {
		perm := map[entity.TransferStatus]bool{}
		for _, to := range allowed[from] {
			perm[to] = true
		}
		for _, to := range all {
			got := from.CanTransitionTo(to)
			assert.Equal(t, perm[to], got, "transición %s → %s", from, to)
		}
	}
}

func TestTransferStatus_EstadosTerminalesSinSalida(t *testing.T) {
	terminales := []entity.TransferStatus{
		entity.TransferReceived, entity.TransferPartiallyReceived,
		entity.TransferRejected, entity.TransferCancelled, entity.TransferExpired,
	}
	destinos := []entity.TransferStatus{
		entity.TransferPending, entity.TransferApproved, entity.TransferInTransit,
		entity.TransferReceived, entity.TransferPartiallyReceived,
		entity.TransferRejected, entity.TransferCancelled, entity.TransferExpired,
	}
	for _, from := range terminales {
		assert.True(t, from.IsTerminal(), "%s debe ser terminal", from)
		for _, to := range destinos {
			assert.False(t, from.CanTransitionTo(to),
				"estado terminal %s no debe transicionar a %s", from, to)
		}
	}
}

func TestTransferStatus_NoReentraEstadosAnteriores(t *testing.T) {
	// Ninguna transición regresa a pending ni de in_transit a approved.
	assert.False(t, entity.TransferApproved.CanTransitionTo(entity.TransferPending))
	assert.False(t, entity.TransferInTransit.CanTransitionTo(entity.TransferApproved))
	assert.False(t, entity.TransferInTransit.CanTransitionTo(entity.TransferPending))
}

func TestTransferStatus_Valid(t *testing.T) {
	assert.True(t, entity.TransferPending.Valid())
	assert.True(t, entity.TransferPartiallyReceived.Valid())
	assert.False(t, entity.TransferStatus("enviado").Valid())
	assert.False(t, entity.TransferStatus("").Valid())
}

func TestTransferPriority_Valid(t *testing.T) {
	assert.True(t, entity.PriorityNormal.Valid())
	assert.True(t, entity.PriorityUrgent.Valid())
	assert.False(t, entity.TransferPriority("alta").Valid())
}

// ──────────────────────────────────────────────────────────────────────────────
// Invariantes de las líneas
// ──────────────────────────────────────────────────────────────────────────────

func TestTransferItem_QuantitiesMonotonic(t *testing.T) {
	tests := []struct {
		name                                   string
		requested, approved, shipped, received int64
		want                                   bool
	}{
		{"cadena completa válida", 10, 8, 8, 5, true},
		{"todo en cero", 10, 0, 0, 0, true},
		{"recepción completa", 10, 10, 10, 10, true},
		{"aprobado mayor que solicitado", 10, 12, 0, 0, false},
		{"enviado mayor que aprobado", 10, 8, 9, 0, false},
		{"recibido mayor que enviado", 10, 8, 8, 9, false},
		{"recibido negativo", 10, 8, 8, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &entity.TransferItem{
				QuantityRequested: tt.requested,
				QuantityApproved:  tt.approved,
				QuantityShipped:   tt.shipped,
				QuantityReceived:  tt.received,
			}
			assert.Equal(t, tt.want, item.QuantitiesMonotonic())
		})
	}
}

func TestTransfer_FullyReceived(t *testing.T) {
	tr := &entity.Transfer{Items: []*entity.TransferItem{
		{QuantityShipped: 5, QuantityReceived: 5},
		{QuantityShipped: 3, QuantityReceived: 3},
	}}
	assert.True(t, tr.FullyReceived())

	tr.Items[1].QuantityReceived = 2
	assert.False(t, tr.FullyReceived(), "una línea incompleta implica recepción parcial")
}

func TestTransfer_IsExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	pendienteVencido := &entity.Transfer{Status: entity.TransferPending, ExpiresAt: &past}
	assert.True(t, pendienteVencido.IsExpired(now))

	pendienteVigente := &entity.Transfer{Status: entity.TransferPending, ExpiresAt: &future}
	assert.False(t, pendienteVigente.IsExpired(now))

	// La ventana solo aplica al estado pending.
	aprobadoVencido := &entity.Transfer{Status: entity.TransferApproved, ExpiresAt: &past}
	assert.False(t, aprobadoVencido.IsExpired(now))

	sinVentana := &entity.Transfer{Status: entity.TransferPending}
	assert.False(t, sinVentana.IsExpired(now))
}
