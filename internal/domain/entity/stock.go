package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockRecord representa la cantidad disponible de un producto en un scope.
// En modo per_branch el scope es una sucursal; en modo centralized el scope
// es el negocio entero (ScopeID == BusinessID, el pool compartido).
type StockRecord struct {
	BusinessID string
	ScopeID    string
	ProductID  string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}

// PoolScope devuelve el scope sentinela del pool centralizado de un negocio.
func PoolScope(businessID string) string {
	return businessID
}
