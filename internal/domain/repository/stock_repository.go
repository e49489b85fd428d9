package repository

import (
	"github.com/shopspring/decimal"

	"github.com/gestionapp/negocio-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/mutar stock por scope+producto.
//
// Decrement e Increment son las únicas operaciones de escritura del motor de
// traslados y deben ser atómicas por fila: un Decrement concurrente sobre la
// misma (scope, producto) nunca deja la cantidad en negativo. Usarlas solo
// dentro de la transacción que también escribe el estado del traslado.
type StockRepository interface {
	Get(scopeID, productID string) (*entity.StockRecord, error)
	Upsert(stock *entity.StockRecord) error
	// Decrement resta quantity si la cantidad actual alcanza; si no alcanza
	// no escribe nada y devuelve domain.ErrInsufficientStock.
	Decrement(scopeID, productID string, quantity decimal.Decimal) error
	// Increment suma quantity, creando la fila si no existe. Siempre aplica.
	Increment(businessID, scopeID, productID string, quantity decimal.Decimal) error
}
