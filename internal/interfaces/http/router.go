package http

import (
	"github.com/gofiber/fiber/v2"

	appinventory "github.com/gestionapp/negocio-api/internal/application/inventory"
	apptransfer "github.com/gestionapp/negocio-api/internal/application/transfer"
	"github.com/gestionapp/negocio-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	TransferUC   *apptransfer.TransferUseCase
	TransferPDF  *apptransfer.PDFUseCase
	Availability *appinventory.AvailabilityUseCase
	BranchRepo   repository.BranchRepository
	BusinessRepo repository.BusinessRepository
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Traslados (protegido)
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC, deps.TransferPDF)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Delete("/:id", transferHandler.Delete)
	transfers.Post("/:id/items", transferHandler.AddItem)
	transfers.Delete("/:id/items/:product_id", transferHandler.RemoveItem)
	transfers.Post("/:id/confirm", transferHandler.Confirm)
	transfers.Post("/:id/receive", transferHandler.Receive)
	transfers.Get("/:id/pdf", transferHandler.PDF)
	// Cancelación administrativa: requiere rol admin
	transfers.Post("/:id/cancel", RequireRole("admin"), transferHandler.Cancel)

	// Lecturas consultivas (protegido)
	inventoryHandler := NewInventoryHandler(deps.Availability, deps.BranchRepo, deps.BusinessRepo)
	protected.Get("/inventory/availability", inventoryHandler.Availability)
	protected.Get("/branches", inventoryHandler.Branches)
	protected.Get("/business/settings", inventoryHandler.Settings)
}
