package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Traslados-api/internal/application/dto"
	"github.com/jhoicas/Traslados-api/internal/application/transfer"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
)

// TransferHandler maneja el ciclo de vida de traslados entre sucursales (protegido).
type TransferHandler struct {
	uc *transfer.UseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.UseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create godoc
// @Summary      Solicitar traslado entre sucursales
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "origen, destino, prioridad, líneas"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	tc := TenantFromCtx(c)
	if !tc.Valid() {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), tc, in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener traslado por ID
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	tc := TenantFromCtx(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(c.Context(), tc, id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar traslados de una sucursal
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  true   "Sucursal (UUID)"
// @Param        direction    query  string  false  "incoming | outgoing (vacío = ambos)"
// @Param        status       query  string  false  "Filtrar por estado"
// @Param        limit        query  int     false  "Límite"   default(20)
// @Param        offset       query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.TransferListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	tc := TenantFromCtx(c)
	locationID := c.Query("location_id")
	if locationID == "" {
		locationID = GetLocationID(c)
	}
	if locationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "location_id es requerido"})
	}
	limit, offset := pageParams(c)
	out, err := h.uc.ListByLocation(c.Context(), tc, locationID, c.Query("direction"),
		entity.TransferStatus(c.Query("status")), limit, offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar traslado pendiente
// @Description  Líneas omitidas se aprueban por la cantidad solicitada.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del traslado"
// @Param        body  body  dto.ApproveTransferRequest  false  "Cantidades aprobadas por línea"
// @Success      200   {object}  dto.TransferResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/approve [post]
func (h *TransferHandler) Approve(c *fiber.Ctx) error {
	tc := TenantFromCtx(c)
	id := c.Params("id")
	var in dto.ApproveTransferRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	out, err := h.uc.Approve(c.Context(), tc, id, in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar traslado pendiente
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del traslado"
// @Param        body  body  dto.RejectTransferRequest  true  "Motivo del rechazo"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/reject [post]
func (h *TransferHandler) Reject(c *fiber.Ctx) error {
	tc := TenantFromCtx(c)
	id := c.Params("id")
	var in dto.RejectTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "reason es requerido"})
	}
	out, err := h.uc.Reject(c.Context(), tc, id, in.Reason)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// Ship godoc
// @Summary      Despachar traslado aprobado
// @Description  Descuenta el stock del origen en una sola transacción. Líneas omitidas se envían por lo aprobado.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del traslado"
// @Param        body  body  dto.ShipTransferRequest  false  "Cantidades enviadas por línea"
// @Success      200   {object}  dto.TransferResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/ship [post]
func (h *TransferHandler) Ship(c *fiber.Ctx) error {
	tc := TenantFromCtx(c)
	id := c.Params("id")
	var in dto.ShipTransferRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	out, err := h.uc.Ship(c.Context(), tc, id, in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// Receive godoc
// @Summary      Recibir traslado en tránsito
// @Description  Suma el stock al destino. Si alguna línea llega incompleta el estado final es partially_received.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del traslado"
// @Param        body  body  dto.ReceiveTransferRequest  false  "Cantidades recibidas por línea"
// @Success      200   {object}  dto.TransferResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/receive [post]
func (h *TransferHandler) Receive(c *fiber.Ctx) error {
	tc := TenantFromCtx(c)
	id := c.Params("id")
	var in dto.ReceiveTransferRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	out, err := h.uc.Receive(c.Context(), tc, id, in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar traslado (pending o approved)
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	tc := TenantFromCtx(c)
	id := c.Params("id")
	out, err := h.uc.Cancel(c.Context(), tc, id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}
