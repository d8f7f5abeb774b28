package dto

// AvailabilityLocationDTO una sucursal con stock del ítem consultado.
type AvailabilityLocationDTO struct {
	LocationID   string `json:"location_id"`
	LocationName string `json:"location_name"`
	Quantity     int64  `json:"quantity"`
	ReorderPoint int64  `json:"reorder_point"`
	IsLowStock   bool   `json:"is_low_stock"`
}

// AvailabilityResponse dónde hay stock del ítem en toda la empresa,
// ordenado por cantidad descendente. El caller decide si excluye su propia sucursal.
type AvailabilityResponse struct {
	ProductID string                    `json:"product_id"`
	VariantID string                    `json:"variant_id,omitempty"`
	Locations []AvailabilityLocationDTO `json:"locations"`
}
