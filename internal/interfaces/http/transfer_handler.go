package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/gestionapp/negocio-api/internal/application/dto"
	apptransfer "github.com/gestionapp/negocio-api/internal/application/transfer"
	"github.com/gestionapp/negocio-api/internal/domain"
	"github.com/gestionapp/negocio-api/internal/domain/entity"
	"github.com/gestionapp/negocio-api/internal/domain/repository"
)

// TransferHandler maneja las peticiones HTTP del motor de traslados (protegido).
type TransferHandler struct {
	uc  *apptransfer.TransferUseCase
	pdf *apptransfer.PDFUseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *apptransfer.TransferUseCase, pdf *apptransfer.PDFUseCase) *TransferHandler {
	return &TransferHandler{uc: uc, pdf: pdf}
}

// transferError mapea errores de dominio a respuestas HTTP.
func transferError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrTransfersDisabled):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "TRANSFERS_DISABLED", Message: "traslados deshabilitados para el negocio"})
	case errors.Is(err, domain.ErrUnknownProduct):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "UNKNOWN_PRODUCT", Message: "producto no existe en el catálogo"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "traslado no encontrado"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE_TRANSITION", Message: "transición de estado inválida"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENCY_CONFLICT", Message: "conflicto con el estado actual"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// Create godoc
// @Summary      Crear borrador de traslado
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "origin_scope, destination_scope, items opcionales"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]entity.TransferItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, entity.TransferItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	id, err := h.uc.CreateDraft(c.Context(), businessID, apptransfer.CreateTransferInput{
		OriginScope:      in.OriginScope,
		DestinationScope: in.DestinationScope,
		Comment:          in.Comment,
		Items:            items,
	})
	if err != nil {
		return transferError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
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
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	t, err := h.uc.GetByID(c.Context(), businessID, c.Params("id"))
	if err != nil {
		return transferError(c, err)
	}
	return c.JSON(dto.TransferFromEntity(t))
}

// List godoc
// @Summary      Listar traslados
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "draft|confirmed|received|cancelled"
// @Param        origin       query  string  false  "Filtrar por scope origen"
// @Param        destination  query  string  false  "Filtrar por scope destino"
// @Param        limit        query  int     false  "Máximo de resultados"  default(50)
// @Success      200  {object}  dto.TransferListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	filter := repository.TransferFilter{
		Status:           c.Query("status"),
		OriginScope:      c.Query("origin"),
		DestinationScope: c.Query("destination"),
	}
	list, err := h.uc.List(c.Context(), businessID, filter, c.QueryInt("limit"))
	if err != nil {
		return transferError(c, err)
	}
	out := dto.TransferListResponse{Total: len(list), Transfers: make([]dto.TransferResponse, 0, len(list))}
	for _, t := range list {
		out.Transfers = append(out.Transfers, dto.TransferFromEntity(t))
	}
	return c.JSON(out)
}

// AddItem godoc
// @Summary      Agregar línea a un borrador
// @Description  Si el producto ya está en el traslado, la cantidad se suma a la línea existente.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del traslado"
// @Param        body  body  dto.AddItemRequest  true  "product_id, quantity"
// @Success      200   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/items [post]
func (h *TransferHandler) AddItem(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AddItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.AddItem(c.Context(), businessID, c.Params("id"), in.ProductID, in.Quantity); err != nil {
		return transferError(c, err)
	}
	return c.JSON(fiber.Map{"message": "línea agregada"})
}

// RemoveItem godoc
// @Summary      Quitar línea de un borrador
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id          path  string  true  "ID del traslado"
// @Param        product_id  path  string  true  "ID del producto"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/items/{product_id} [delete]
func (h *TransferHandler) RemoveItem(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.RemoveItem(c.Context(), businessID, c.Params("id"), c.Params("product_id")); err != nil {
		return transferError(c, err)
	}
	return c.JSON(fiber.Map{"message": "línea eliminada"})
}

// Confirm godoc
// @Summary      Confirmar traslado
// @Description  Compromete la salida del origen. En modo per_branch descuenta el stock
//               del origen línea a línea; si alguna no alcanza, nada se aplica y el
//               traslado sigue en borrador.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/confirm [post]
func (h *TransferHandler) Confirm(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.Confirm(c.Context(), businessID, c.Params("id")); err != nil {
		return transferError(c, err)
	}
	return c.JSON(fiber.Map{"message": "traslado confirmado"})
}

// Receive godoc
// @Summary      Recibir traslado
// @Description  Compromete la entrada en destino de un traslado confirmado.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/receive [post]
func (h *TransferHandler) Receive(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.Receive(c.Context(), businessID, c.Params("id")); err != nil {
		return transferError(c, err)
	}
	return c.JSON(fiber.Map{"message": "traslado recibido"})
}

// Cancel godoc
// @Summary      Cancelar traslado (administrativo)
// @Description  Anula un borrador o un traslado confirmado. Si estaba confirmado en
//               modo per_branch, devuelve las cantidades al origen.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.Cancel(c.Context(), businessID, c.Params("id")); err != nil {
		return transferError(c, err)
	}
	return c.JSON(fiber.Map{"message": "traslado cancelado"})
}

// Delete godoc
// @Summary      Eliminar borrador
// @Description  Borrado físico, sin efecto sobre inventario. Solo borradores.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [delete]
func (h *TransferHandler) Delete(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.Delete(c.Context(), businessID, c.Params("id")); err != nil {
		return transferError(c, err)
	}
	return c.JSON(fiber.Map{"message": "borrador eliminado"})
}

// PDF godoc
// @Summary      Guía de traslado en PDF
// @Tags         transfers
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {file}  binary
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/pdf [get]
func (h *TransferHandler) PDF(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	data, err := h.pdf.GenerateTransferPDF(c.Context(), businessID, c.Params("id"))
	if err != nil {
		return transferError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(data)
}
