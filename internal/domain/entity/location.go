package entity

import "time"

// Location representa una sucursal o bodega de una empresa donde se almacena stock.
type Location struct {
	ID         string
	BusinessID string
	Name       string
	Address    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
