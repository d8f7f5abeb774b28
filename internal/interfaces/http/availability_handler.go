package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Traslados-api/internal/application/dto"
	"github.com/jhoicas/Traslados-api/internal/application/inventory"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
)

// AvailabilityHandler responde consultas de disponibilidad entre sucursales (protegido).
type AvailabilityHandler struct {
	uc *inventory.AvailabilityUseCase
}

// NewAvailabilityHandler construye el handler.
func NewAvailabilityHandler(uc *inventory.AvailabilityUseCase) *AvailabilityHandler {
	return &AvailabilityHandler{uc: uc}
}

// GetAvailability godoc
// @Summary      Disponibilidad de un ítem en todas las sucursales
// @Description  Cantidad por sucursal, ordenada descendente. Incluye la sucursal propia.
// @Tags         availability
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true   "ID del producto (UUID)"
// @Param        variant_id  query  string  false  "ID de la variante (UUID)"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/availability [get]
func (h *AvailabilityHandler) GetAvailability(c *fiber.Ctx) error {
	tc := TenantFromCtx(c)
	if !tc.Valid() {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Query("product_id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	}
	ref := entity.StockItemRef{ProductID: productID, VariantID: c.Query("variant_id")}
	out, err := h.uc.GetAvailabilityAcrossLocations(c.Context(), tc, ref)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}
