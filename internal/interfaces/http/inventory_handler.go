package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Traslados-api/internal/application/dto"
	"github.com/jhoicas/Traslados-api/internal/application/inventory"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP del libro de stock (protegido).
type InventoryHandler struct {
	ledger *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  entry/exit/adjustment directos; los traslados entre sucursales van por /api/transfers.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "product_id, location_id, type, quantity_delta, unit_cost (entradas)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	tc := TenantFromCtx(c)
	if !tc.Valid() {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.ledger.RecordMovement(c.Context(), tc, inventory.RecordMovementInput{
		ItemRef:    entity.StockItemRef{ProductID: in.ProductID, VariantID: in.VariantID},
		LocationID: in.LocationID,
		Type:       entity.MovementType(in.Type),
		Delta:      in.QuantityDelta,
		UnitCost:   in.UnitCost,
		Notes:      in.Notes,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// ListMovements godoc
// @Summary      Historial de movimientos de una fila de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la fila de stock"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.MovementListResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/inventory/records/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	tc := TenantFromCtx(c)
	recordID := c.Params("id")
	if recordID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	limit, offset := pageParams(c)
	movements, err := h.ledger.ListMovements(c.Context(), tc, recordID, limit, offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, toMovementResponse(m))
	}
	return c.JSON(dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	})
}

// UpdateStockLevels godoc
// @Summary      Configurar niveles de reorden de una fila de stock
// @Description  Solo configuración (min_stock_level, reorder_point); nunca toca la cantidad.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la fila de stock"
// @Param        body  body  dto.UpdateStockLevelsRequest  true  "Niveles"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/records/{id}/levels [put]
func (h *InventoryHandler) UpdateStockLevels(c *fiber.Ctx) error {
	tc := TenantFromCtx(c)
	recordID := c.Params("id")
	if recordID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateStockLevelsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.ledger.UpdateStockLevels(c.Context(), tc, recordID, in.MinStockLevel, in.ReorderPoint); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetLowStock godoc
// @Summary      Filas en o bajo el punto de reorden
// @Description  Peor primero (cantidad ascendente). location_id vacío = todas las sucursales.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Filtrar por sucursal (UUID)"
// @Success      200  {array}   dto.LowStockRecordDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) GetLowStock(c *fiber.Ctx) error {
	tc := TenantFromCtx(c)
	if !tc.Valid() {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	locationID := c.Query("location_id")
	records, err := h.ledger.GetLowStockRecords(c.Context(), tc, locationID)
	if err != nil {
		return writeDomainError(c, err)
	}
	items := make([]dto.LowStockRecordDTO, 0, len(records))
	for _, r := range records {
		items = append(items, dto.LowStockRecordDTO{
			RecordID:     r.Record.ID,
			ProductID:    r.Record.ItemRef.ProductID,
			VariantID:    r.Record.ItemRef.VariantID,
			ProductSKU:   r.ProductSKU,
			ProductName:  r.ProductName,
			VariantName:  r.VariantName,
			LocationID:   r.Record.LocationID,
			LocationName: r.LocationName,
			Quantity:     r.Record.Quantity,
			ReorderPoint: r.Record.ReorderPoint,
		})
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}

func toMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:                m.ID,
		InventoryRecordID: m.InventoryRecordID,
		Type:              string(m.Type),
		QuantityDelta:     m.QuantityDelta,
		UnitCost:          m.UnitCost,
		TotalCost:         m.TotalCost,
		Notes:             m.Notes,
		RelatedTransferID: m.RelatedTransferID,
		CreatedAt:         m.CreatedAt,
		CreatedBy:         m.CreatedBy,
	}
}
