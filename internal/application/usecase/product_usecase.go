package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Traslados-api/internal/application/dto"
	"github.com/jhoicas/Traslados-api/internal/domain"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ProductUseCase casos de uso CRUD para productos y variantes.
// Cost y stock se manejan vía movimientos, nunca por edición directa.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto. Cost inicia en 0.
func (uc *ProductUseCase) Create(businessID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	existing, _ := uc.repo.GetByBusinessAndSKU(businessID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.UnitMeasure == "" {
		in.UnitMeasure = "unidad"
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		BusinessID:  businessID,
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Cost:        decimal.Zero,
		UnitMeasure: in.UnitMeasure,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return uc.toResponse(product, nil), nil
}

// GetByID obtiene un producto con sus variantes.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	variants, err := uc.repo.ListVariants(id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(product, variants), nil
}

// Update actualiza un producto (sin tocar Cost ni stock).
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.UnitMeasure != nil {
		product.UnitMeasure = *in.UnitMeasure
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return uc.toResponse(product, nil), nil
}

// List lista productos por empresa con paginación.
func (uc *ProductUseCase) List(businessID string, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListByBusiness(businessID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *uc.toResponse(p, nil))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

// CreateVariant agrega una variante a un producto existente.
func (uc *ProductUseCase) CreateVariant(productID string, in dto.CreateVariantRequest) (*dto.VariantResponse, error) {
	product, err := uc.repo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	variant := &entity.ProductVariant{
		ID:        uuid.New().String(),
		ProductID: productID,
		SKU:       in.SKU,
		Name:      in.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.CreateVariant(variant); err != nil {
		return nil, err
	}
	return toVariantResponse(variant), nil
}

func (uc *ProductUseCase) toResponse(p *entity.Product, variants []*entity.ProductVariant) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	resp := &dto.ProductResponse{
		ID:          p.ID,
		BusinessID:  p.BusinessID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Cost:        p.Cost,
		UnitMeasure: p.UnitMeasure,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, v := range variants {
		resp.Variants = append(resp.Variants, *toVariantResponse(v))
	}
	return resp
}

func toVariantResponse(v *entity.ProductVariant) *dto.VariantResponse {
	return &dto.VariantResponse{
		ID:        v.ID,
		ProductID: v.ProductID,
		SKU:       v.SKU,
		Name:      v.Name,
		CreatedAt: v.CreatedAt,
	}
}
