package transfer

import (
	"context"

	"github.com/gestionapp/negocio-api/internal/domain/entity"
	"github.com/gestionapp/negocio-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. El cambio de estado del traslado y las
// mutaciones de stock de un confirm/receive/cancel son una sola unidad
// atómica: o se aplica todo o no se aplica nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		transferRepo repository.TransferRepository,
		stockRepo repository.StockRepository,
	) error) error
}

// TransferLineForPDF línea de la guía de traslado con datos de catálogo.
type TransferLineForPDF struct {
	ProductName string
	ProductCode string
	Quantity    string
}

// TransferPDFGenerator genera la representación gráfica (guía de traslado).
type TransferPDFGenerator interface {
	GenerateTransferPDF(
		ctx context.Context,
		t *entity.StockTransfer,
		business *entity.Business,
		origin, destination *entity.Branch,
		lines []TransferLineForPDF,
	) ([]byte, error)
}
