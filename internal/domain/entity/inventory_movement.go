package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento de inventario (enum cerrado).
type MovementType string

const (
	MovementEntry      MovementType = "entry"      // entrada
	MovementExit       MovementType = "exit"       // salida
	MovementAdjustment MovementType = "adjustment" // corrección manual (stock inicial, conteo físico)
	MovementTransfer   MovementType = "transfer"   // traslado entre sucursales
)

// Valid indica si el tipo pertenece al enum.
func (t MovementType) Valid() bool {
	switch t {
	case MovementEntry, MovementExit, MovementAdjustment, MovementTransfer:
		return true
	}
	return false
}

// ValidDelta verifica la convención de signo: entradas positivas, salidas
// negativas, ajustes con cualquier signo distinto de cero, traslados con
// signo según dirección (negativo al salir del origen, positivo al entrar al destino).
func (t MovementType) ValidDelta(delta int64) bool {
	switch t {
	case MovementEntry:
		return delta > 0
	case MovementExit:
		return delta < 0
	case MovementAdjustment, MovementTransfer:
		return delta != 0
	}
	return false
}

// InventoryMovement es el registro inmutable de un cambio de cantidad sobre un
// InventoryRecord. Una vez escrito nunca se actualiza ni se borra (auditoría).
type InventoryMovement struct {
	ID                string
	InventoryRecordID string
	Type              MovementType
	QuantityDelta     int64
	UnitCost          decimal.Decimal
	TotalCost         decimal.Decimal
	Notes             string
	RelatedTransferID string // vacío salvo movimientos emitidos por un traslado
	CreatedAt         time.Time
	CreatedBy         string
}
