package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/gestionapp/negocio-api/internal/application/dto"
	appinventory "github.com/gestionapp/negocio-api/internal/application/inventory"
	"github.com/gestionapp/negocio-api/internal/domain"
	"github.com/gestionapp/negocio-api/internal/domain/repository"
)

// InventoryHandler maneja las lecturas consultivas: disponibilidad, directorio
// de sucursales y configuración del negocio (protegido).
type InventoryHandler struct {
	availability *appinventory.AvailabilityUseCase
	branchRepo   repository.BranchRepository
	businessRepo repository.BusinessRepository
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	availability *appinventory.AvailabilityUseCase,
	branchRepo repository.BranchRepository,
	businessRepo repository.BusinessRepository,
) *InventoryHandler {
	return &InventoryHandler{availability: availability, branchRepo: branchRepo, businessRepo: businessRepo}
}

// Availability godoc
// @Summary      Disponibilidad de un producto en un scope
// @Description  Lectura consultiva para la UI. known=false indica que no hay
//               registro de stock para el par (scope, producto).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        scope_id    query  string  true  "Sucursal (per_branch); ignorado en centralized"
// @Param        product_id  query  string  true  "Producto"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/availability [get]
func (h *InventoryHandler) Availability(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Query("product_id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	}
	av, err := h.availability.Available(c.Context(), businessID, c.Query("scope_id"), productID)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownProduct) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "UNKNOWN_PRODUCT", Message: "producto no existe en el catálogo"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "scope_id es requerido"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "negocio no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.AvailabilityResponse{
		ScopeID:   av.ScopeID,
		ProductID: av.ProductID,
		Quantity:  av.Quantity,
		Known:     av.Known,
	})
}

// Branches godoc
// @Summary      Directorio de sucursales del negocio
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BranchResponse
// @Router       /api/branches [get]
func (h *InventoryHandler) Branches(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	branches, err := h.branchRepo.ListByBusiness(businessID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.BranchResponse, 0, len(branches))
	for _, b := range branches {
		out = append(out, dto.BranchResponse{ID: b.ID, Name: b.Name, IsMain: b.IsMain})
	}
	return c.JSON(out)
}

// Settings godoc
// @Summary      Configuración del negocio relevante para traslados
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BusinessSettingsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/business/settings [get]
func (h *InventoryHandler) Settings(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	business, err := h.businessRepo.GetByID(businessID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if business == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "negocio no encontrado"})
	}
	return c.JSON(dto.BusinessSettingsResponse{
		InventoryMode:    business.InventoryMode,
		TransfersEnabled: business.TransfersEnabled,
	})
}
