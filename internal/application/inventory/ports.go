package inventory

import (
	"context"

	"github.com/shopspring/decimal"
)

// AvailabilityCache cache opcional (solo lectura consultiva) de cantidades
// disponibles. El motor de traslados nunca decide con datos del cache: la
// verificación autoritativa ocurre dentro de la transacción de confirmación.
type AvailabilityCache interface {
	GetQuantity(ctx context.Context, scopeID, productID string) (decimal.Decimal, bool, error)
	SetQuantity(ctx context.Context, scopeID, productID string, quantity decimal.Decimal) error
	// Invalidate elimina las entradas de los productos dados en un scope.
	Invalidate(ctx context.Context, scopeID string, productIDs ...string) error
}
