package repository

import "github.com/jhoicas/Traslados-api/internal/domain/entity"

// LocationRepository define el puerto de persistencia para Location (DIP).
// El registro de sucursales aporta los nombres legibles del índice de disponibilidad.
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	Update(location *entity.Location) error
	ListByBusiness(businessID string, limit, offset int) ([]*entity.Location, error)
	Delete(id string) error
}
