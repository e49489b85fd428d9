package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/gestionapp/negocio-api/internal/domain"
	"github.com/gestionapp/negocio-api/internal/domain/entity"
	"github.com/gestionapp/negocio-api/internal/domain/repository"
)

// Availability resultado de una consulta de disponibilidad. Known=false
// indica que no existe registro de stock para el par (scope, producto);
// la cantidad en ese caso es cero.
type Availability struct {
	ScopeID   string
	ProductID string
	Quantity  decimal.Decimal
	Known     bool
}

// AvailabilityUseCase resuelve la cantidad disponible de un producto en un
// scope. Lectura pura, sin efectos: el valor es consultivo (para la UI); la
// verificación que decide un confirm ocurre dentro de la transacción.
type AvailabilityUseCase struct {
	businessRepo repository.BusinessRepository
	productRepo  repository.ProductRepository
	stockRepo    repository.StockRepository
	cache        AvailabilityCache // nil = sin cache
}

// NewAvailabilityUseCase construye el caso de uso. cache puede ser nil.
func NewAvailabilityUseCase(
	businessRepo repository.BusinessRepository,
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	cache AvailabilityCache,
) *AvailabilityUseCase {
	return &AvailabilityUseCase{
		businessRepo: businessRepo,
		productRepo:  productRepo,
		stockRepo:    stockRepo,
		cache:        cache,
	}
}

// Available devuelve la disponibilidad de un producto en un scope. En modo
// centralizado el scope pedido se colapsa al pool del negocio. Devuelve
// domain.ErrUnknownProduct si el producto no existe en el catálogo del negocio
// (distinto de no tener registro de stock, que es Known=false).
func (uc *AvailabilityUseCase) Available(ctx context.Context, businessID, scopeID, productID string) (*Availability, error) {
	business, err := uc.businessRepo.GetByID(businessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, domain.ErrNotFound
	}

	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.BusinessID != businessID {
		return nil, domain.ErrUnknownProduct
	}

	if business.IsCentralized() {
		scopeID = entity.PoolScope(businessID)
	}
	if scopeID == "" {
		return nil, domain.ErrInvalidInput
	}

	if uc.cache != nil {
		if qty, ok, err := uc.cache.GetQuantity(ctx, scopeID, productID); err == nil && ok {
			return &Availability{ScopeID: scopeID, ProductID: productID, Quantity: qty, Known: true}, nil
		}
	}

	record, err := uc.stockRepo.Get(scopeID, productID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return &Availability{ScopeID: scopeID, ProductID: productID, Quantity: decimal.Zero, Known: false}, nil
	}

	if uc.cache != nil {
		// Mejor esfuerzo: un fallo del cache no afecta la lectura.
		_ = uc.cache.SetQuantity(ctx, scopeID, productID, record.Quantity)
	}
	return &Availability{ScopeID: scopeID, ProductID: productID, Quantity: record.Quantity, Known: true}, nil
}
