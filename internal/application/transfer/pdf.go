package transfer

import (
	"context"

	"github.com/gestionapp/negocio-api/internal/domain"
	"github.com/gestionapp/negocio-api/internal/domain/repository"
)

// PDFUseCase genera la guía de traslado (representación gráfica imprimible)
// de un traslado confirmado, recibido o cancelado. Los borradores no tienen
// guía: todavía no comprometen inventario.
type PDFUseCase struct {
	transferRepo repository.TransferRepository
	businessRepo repository.BusinessRepository
	branchRepo   repository.BranchRepository
	productRepo  repository.ProductRepository
	generator    TransferPDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(
	transferRepo repository.TransferRepository,
	businessRepo repository.BusinessRepository,
	branchRepo repository.BranchRepository,
	productRepo repository.ProductRepository,
	generator TransferPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		transferRepo: transferRepo,
		businessRepo: businessRepo,
		branchRepo:   branchRepo,
		productRepo:  productRepo,
		generator:    generator,
	}
}

// GenerateTransferPDF devuelve los bytes del PDF de la guía de traslado.
func (uc *PDFUseCase) GenerateTransferPDF(ctx context.Context, businessID, transferID string) ([]byte, error) {
	t, err := uc.transferRepo.GetByID(transferID)
	if err != nil {
		return nil, err
	}
	if t == nil || t.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	if t.IsDraft() {
		return nil, domain.ErrInvalidTransition
	}

	business, err := uc.businessRepo.GetByID(businessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, domain.ErrNotFound
	}
	origin, err := uc.branchRepo.GetByID(t.OriginScope)
	if err != nil {
		return nil, err
	}
	destination, err := uc.branchRepo.GetByID(t.DestinationScope)
	if err != nil {
		return nil, err
	}
	if origin == nil || destination == nil {
		return nil, domain.ErrNotFound
	}

	lines := make([]TransferLineForPDF, 0, len(t.Items))
	for _, it := range t.Items {
		line := TransferLineForPDF{ProductName: it.ProductID, Quantity: it.Quantity.String()}
		if p, err := uc.productRepo.GetByID(it.ProductID); err == nil && p != nil {
			line.ProductName = p.Name
			line.ProductCode = p.Code
		}
		lines = append(lines, line)
	}
	return uc.generator.GenerateTransferPDF(ctx, t, business, origin, destination, lines)
}
