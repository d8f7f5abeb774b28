package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Traslados-api/internal/application/dto"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

// LocationUseCase casos de uso CRUD para sucursales.
type LocationUseCase struct {
	repo repository.LocationRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo}
}

// Create crea una nueva sucursal.
func (uc *LocationUseCase) Create(businessID string, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	now := time.Now()
	location := &entity.Location{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		Name:       in.Name,
		Address:    in.Address,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// GetByID obtiene una sucursal por ID.
func (uc *LocationUseCase) GetByID(id string) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, nil
	}
	return toLocationResponse(location), nil
}

// Update actualiza una sucursal.
func (uc *LocationUseCase) Update(id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, nil
	}
	if in.Name != nil {
		location.Name = *in.Name
	}
	if in.Address != nil {
		location.Address = *in.Address
	}
	location.UpdatedAt = time.Now()
	if err := uc.repo.Update(location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// List lista sucursales por empresa con paginación.
func (uc *LocationUseCase) List(businessID string, limit, offset int) (*dto.LocationListResponse, error) {
	list, err := uc.repo.ListByBusiness(businessID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLocationResponse(l))
	}
	return &dto.LocationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina una sucursal por ID.
func (uc *LocationUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	if l == nil {
		return nil
	}
	return &dto.LocationResponse{
		ID:         l.ID,
		BusinessID: l.BusinessID,
		Name:       l.Name,
		Address:    l.Address,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}
