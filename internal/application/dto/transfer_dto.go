package dto

import "time"

// TransferItemRequest una línea solicitada al crear un traslado.
type TransferItemRequest struct {
	ProductID         string `json:"product_id" validate:"required,uuid"`
	VariantID         string `json:"variant_id,omitempty"`
	QuantityRequested int64  `json:"quantity_requested" validate:"required,gt=0"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	FromLocationID string                `json:"from_location_id" validate:"required,uuid"`
	ToLocationID   string                `json:"to_location_id" validate:"required,uuid"`
	Priority       string                `json:"priority" validate:"omitempty,oneof=normal urgent"`
	RequestNotes   string                `json:"request_notes,omitempty"`
	Items          []TransferItemRequest `json:"items" validate:"required,min=1"`
}

// ApproveTransferItem cantidad aprobada para una línea. Las líneas omitidas
// se aprueban por la cantidad solicitada (contrato explícito).
type ApproveTransferItem struct {
	ItemID           string `json:"item_id" validate:"required,uuid"`
	QuantityApproved int64  `json:"quantity_approved" validate:"min=0"`
}

// ApproveTransferRequest body para POST /api/transfers/:id/approve.
type ApproveTransferRequest struct {
	Items []ApproveTransferItem `json:"items,omitempty"`
}

// RejectTransferRequest body para POST /api/transfers/:id/reject.
type RejectTransferRequest struct {
	Reason string `json:"reason" validate:"required,min=1"`
}

// ShipTransferItem cantidad enviada para una línea. Las líneas omitidas se
// envían por la cantidad aprobada.
type ShipTransferItem struct {
	ItemID          string `json:"item_id" validate:"required,uuid"`
	QuantityShipped int64  `json:"quantity_shipped" validate:"min=0"`
}

// ShipTransferRequest body para POST /api/transfers/:id/ship.
type ShipTransferRequest struct {
	Items         []ShipTransferItem `json:"items,omitempty"`
	ShippingNotes string             `json:"shipping_notes,omitempty"`
}

// ReceiveTransferItem cantidad recibida para una línea. Las líneas omitidas
// se reciben por la cantidad enviada.
type ReceiveTransferItem struct {
	ItemID           string `json:"item_id" validate:"required,uuid"`
	QuantityReceived int64  `json:"quantity_received" validate:"min=0"`
}

// ReceiveTransferRequest body para POST /api/transfers/:id/receive.
type ReceiveTransferRequest struct {
	Items          []ReceiveTransferItem `json:"items,omitempty"`
	ReceivingNotes string                `json:"receiving_notes,omitempty"`
}

// TransferItemResponse salida de una línea de traslado.
type TransferItemResponse struct {
	ID                string `json:"id"`
	ProductID         string `json:"product_id"`
	VariantID         string `json:"variant_id,omitempty"`
	QuantityRequested int64  `json:"quantity_requested"`
	QuantityApproved  int64  `json:"quantity_approved"`
	QuantityShipped   int64  `json:"quantity_shipped"`
	QuantityReceived  int64  `json:"quantity_received"`
}

// TransferResponse salida de un traslado con sus líneas.
type TransferResponse struct {
	ID              string                 `json:"id"`
	TransferNumber  string                 `json:"transfer_number"`
	FromLocationID  string                 `json:"from_location_id"`
	ToLocationID    string                 `json:"to_location_id"`
	Status          string                 `json:"status"`
	Priority        string                 `json:"priority"`
	RequestedBy     string                 `json:"requested_by"`
	RequestedAt     time.Time              `json:"requested_at"`
	ExpiresAt       *time.Time             `json:"expires_at,omitempty"`
	ApprovedAt      *time.Time             `json:"approved_at,omitempty"`
	ShippedAt       *time.Time             `json:"shipped_at,omitempty"`
	ReceivedAt      *time.Time             `json:"received_at,omitempty"`
	RejectionReason string                 `json:"rejection_reason,omitempty"`
	RequestNotes    string                 `json:"request_notes,omitempty"`
	ShippingNotes   string                 `json:"shipping_notes,omitempty"`
	ReceivingNotes  string                 `json:"receiving_notes,omitempty"`
	Items           []TransferItemResponse `json:"items"`
}

// TransferListResponse lista paginada de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
