package entity

import "time"

// TransferStatus estado del ciclo de vida de un traslado (enum cerrado).
type TransferStatus string

const (
	TransferPending           TransferStatus = "pending"
	TransferApproved          TransferStatus = "approved"
	TransferInTransit         TransferStatus = "in_transit"
	TransferReceived          TransferStatus = "received"
	TransferPartiallyReceived TransferStatus = "partially_received"
	TransferRejected          TransferStatus = "rejected"
	TransferCancelled         TransferStatus = "cancelled"
	TransferExpired           TransferStatus = "expired"
)

// Valid indica si el estado pertenece al enum.
func (s TransferStatus) Valid() bool {
	switch s {
	case TransferPending, TransferApproved, TransferInTransit, TransferReceived,
		TransferPartiallyReceived, TransferRejected, TransferCancelled, TransferExpired:
		return true
	}
	return false
}

// IsTerminal indica si desde este estado no hay más transiciones definidas.
func (s TransferStatus) IsTerminal() bool {
	switch s {
	case TransferReceived, TransferPartiallyReceived, TransferRejected, TransferCancelled, TransferExpired:
		return true
	}
	return false
}

// CanTransitionTo es la tabla cerrada de transiciones del traslado.
// Ninguna transición re-entra a un estado anterior.
func (s TransferStatus) CanTransitionTo(next TransferStatus) bool {
	switch s {
	case TransferPending:
		switch next {
		case TransferApproved, TransferRejected, TransferCancelled, TransferExpired:
			return true
		}
	case TransferApproved:
		switch next {
		case TransferInTransit, TransferCancelled:
			return true
		}
	case TransferInTransit:
		switch next {
		case TransferReceived, TransferPartiallyReceived:
			return true
		}
	}
	return false
}

// TransferPriority prioridad del traslado; define la ventana de expiración del pending.
type TransferPriority string

const (
	PriorityNormal TransferPriority = "normal"
	PriorityUrgent TransferPriority = "urgent"
)

// Valid indica si la prioridad pertenece al enum.
func (p TransferPriority) Valid() bool {
	return p == PriorityNormal || p == PriorityUrgent
}

// Transfer representa una solicitud de traslado de stock entre dos sucursales
// de la misma empresa. El stock sale del origen en ship y entra al destino en
// receive; mientras está en tránsito no pertenece a ninguna de las dos.
type Transfer struct {
	ID              string
	BusinessID      string
	TransferNumber  string
	FromLocationID  string
	ToLocationID    string
	Status          TransferStatus
	Priority        TransferPriority
	RequestedBy     string
	RequestedAt     time.Time
	ExpiresAt       *time.Time // solo aplica en pending
	ApprovedBy      string
	ApprovedAt      *time.Time
	ShippedBy       string
	ShippedAt       *time.Time
	ReceivedBy      string
	ReceivedAt      *time.Time
	RejectionReason string
	RequestNotes    string
	ShippingNotes   string
	ReceivingNotes  string
	Items           []*TransferItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Item devuelve la línea con el ID dado, o nil.
func (t *Transfer) Item(itemID string) *TransferItem {
	for _, it := range t.Items {
		if it.ID == itemID {
			return it
		}
	}
	return nil
}

// FullyReceived indica si cada línea recibió todo lo enviado.
func (t *Transfer) FullyReceived() bool {
	for _, it := range t.Items {
		if it.QuantityReceived != it.QuantityShipped {
			return false
		}
	}
	return true
}

// IsExpired indica si el traslado pendiente ya pasó su ventana de expiración.
func (t *Transfer) IsExpired(now time.Time) bool {
	return t.Status == TransferPending && t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}

// TransferItem es una línea del traslado. Cadena de invariantes:
// 0 ≤ aprobado ≤ solicitado; 0 ≤ enviado ≤ aprobado; 0 ≤ recibido ≤ enviado.
// Cada cantidad se fija una sola vez por etapa y nunca se reduce.
type TransferItem struct {
	ID                string
	TransferID        string
	ItemRef           StockItemRef
	QuantityRequested int64
	QuantityApproved  int64
	QuantityShipped   int64
	QuantityReceived  int64
}

// QuantitiesMonotonic verifica la cadena de invariantes de la línea.
func (i *TransferItem) QuantitiesMonotonic() bool {
	return i.QuantityReceived >= 0 &&
		i.QuantityReceived <= i.QuantityShipped &&
		i.QuantityShipped <= i.QuantityApproved &&
		i.QuantityApproved <= i.QuantityRequested
}
