package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Traslados-api/internal/application/dto"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

// BusinessUseCase casos de uso CRUD para empresas.
type BusinessUseCase struct {
	repo repository.BusinessRepository
}

// NewBusinessUseCase construye el caso de uso.
func NewBusinessUseCase(repo repository.BusinessRepository) *BusinessUseCase {
	return &BusinessUseCase{repo: repo}
}

// Create crea una nueva empresa.
func (uc *BusinessUseCase) Create(in dto.CreateBusinessRequest) (*dto.BusinessResponse, error) {
	now := time.Now()
	business := &entity.Business{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     in.Email,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(business); err != nil {
		return nil, err
	}
	return toBusinessResponse(business), nil
}

// GetByID obtiene una empresa por ID.
func (uc *BusinessUseCase) GetByID(id string) (*dto.BusinessResponse, error) {
	business, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, nil
	}
	return toBusinessResponse(business), nil
}

// List lista empresas con paginación.
func (uc *BusinessUseCase) List(limit, offset int) (*dto.BusinessListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BusinessResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toBusinessResponse(b))
	}
	return &dto.BusinessListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toBusinessResponse(b *entity.Business) *dto.BusinessResponse {
	if b == nil {
		return nil
	}
	return &dto.BusinessResponse{
		ID:        b.ID,
		Name:      b.Name,
		Address:   b.Address,
		Phone:     b.Phone,
		Email:     b.Email,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
