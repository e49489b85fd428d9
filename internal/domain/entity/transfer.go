package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un traslado entre sucursales.
const (
	TransferStatusDraft     = "draft"     // borrador, editable
	TransferStatusConfirmed = "confirmed" // salida de origen comprometida
	TransferStatusReceived  = "received"  // entrada en destino comprometida
	TransferStatusCancelled = "cancelled" // anulado por vía administrativa
)

// StockTransfer representa un traslado de inventario entre dos scopes de un
// negocio. En modo per_branch origen y destino son sucursales y el confirm/
// receive mueve cantidades; en modo centralized el documento es solo registro
// (el pool no cambia).
type StockTransfer struct {
	ID               string
	BusinessID       string
	OriginScope      string
	DestinationScope string
	Status           string
	Items            []TransferItem
	Comment          string
	CreatedAt        time.Time
	ConfirmedAt      *time.Time
	ReceivedAt       *time.Time
}

// TransferItem es una línea del traslado: un producto y su cantidad.
// Un producto aparece a lo sumo una vez por traslado.
type TransferItem struct {
	ProductID string
	Quantity  decimal.Decimal
}

// IsDraft indica si el traslado sigue en borrador (editable y borrable).
func (t *StockTransfer) IsDraft() bool {
	return t.Status == TransferStatusDraft
}

// ItemFor devuelve la línea del producto dado, o nil si no existe.
func (t *StockTransfer) ItemFor(productID string) *TransferItem {
	for i := range t.Items {
		if t.Items[i].ProductID == productID {
			return &t.Items[i]
		}
	}
	return nil
}

// TotalQuantity suma las cantidades de todas las líneas.
func (t *StockTransfer) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, it := range t.Items {
		total = total.Add(it.Quantity)
	}
	return total
}
