package entity

import "time"

// Business representa una organización/tenant del sistema. Todas las sucursales
// de una empresa comparten un único almacén autoritativo de stock.
type Business struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
