package inventory

import (
	"context"

	"github.com/jhoicas/Traslados-api/internal/application/dto"
	"github.com/jhoicas/Traslados-api/internal/domain"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

// AvailabilityUseCase responde "en qué sucursales hay stock del ítem X y cuánto".
// Lee directo de las filas de stock actuales, sin caché: a esta escala importa
// más la frescura que la latencia de lectura.
type AvailabilityUseCase struct {
	recordRepo  repository.InventoryRecordRepository
	productRepo repository.ProductRepository
}

// NewAvailabilityUseCase construye el caso de uso.
func NewAvailabilityUseCase(recordRepo repository.InventoryRecordRepository, productRepo repository.ProductRepository) *AvailabilityUseCase {
	return &AvailabilityUseCase{recordRepo: recordRepo, productRepo: productRepo}
}

// GetAvailabilityAcrossLocations devuelve todas las sucursales de la empresa con
// su cantidad del ítem, ordenadas por cantidad descendente. Devuelve siempre el
// conjunto completo; excluir la sucursal del solicitante es política del caller.
func (uc *AvailabilityUseCase) GetAvailabilityAcrossLocations(ctx context.Context, tc domain.TenantContext, ref entity.StockItemRef) (*dto.AvailabilityResponse, error) {
	if !tc.Valid() {
		return nil, domain.ErrUnauthorized
	}
	if ref.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(ref.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.BusinessID != tc.BusinessID {
		return nil, domain.ErrForbidden
	}
	if ref.VariantID != "" {
		variant, err := uc.productRepo.GetVariantByID(ref.VariantID)
		if err != nil {
			return nil, err
		}
		if variant == nil || variant.ProductID != ref.ProductID {
			return nil, domain.ErrNotFound
		}
	}

	rows, err := uc.recordRepo.GetAvailability(ctx, tc.BusinessID, ref)
	if err != nil {
		return nil, err
	}
	locations := make([]dto.AvailabilityLocationDTO, 0, len(rows))
	for _, row := range rows {
		locations = append(locations, dto.AvailabilityLocationDTO{
			LocationID:   row.LocationID,
			LocationName: row.LocationName,
			Quantity:     row.Quantity,
			ReorderPoint: row.ReorderPoint,
			IsLowStock:   row.Quantity <= row.ReorderPoint,
		})
	}
	return &dto.AvailabilityResponse{
		ProductID: ref.ProductID,
		VariantID: ref.VariantID,
		Locations: locations,
	}, nil
}
