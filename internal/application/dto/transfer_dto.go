package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestionapp/negocio-api/internal/domain/entity"
)

// TransferItemRequest línea de un traslado en requests.
type TransferItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
}

// CreateTransferRequest body para POST /api/transfers.
// Items es opcional: un borrador puede crearse vacío y llenarse después.
type CreateTransferRequest struct {
	OriginScope      string                `json:"origin_scope" validate:"required"`
	DestinationScope string                `json:"destination_scope" validate:"required"`
	Comment          string                `json:"comment"`
	Items            []TransferItemRequest `json:"items"`
}

// AddItemRequest body para POST /api/transfers/:id/items.
type AddItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
}

// TransferItemResponse línea de un traslado en respuestas.
type TransferItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// TransferResponse salida de un traslado.
type TransferResponse struct {
	ID               string                 `json:"id"`
	BusinessID       string                 `json:"business_id"`
	OriginScope      string                 `json:"origin_scope"`
	DestinationScope string                 `json:"destination_scope"`
	Status           string                 `json:"status"`
	Comment          string                 `json:"comment,omitempty"`
	Items            []TransferItemResponse `json:"items"`
	CreatedAt        time.Time              `json:"created_at"`
	ConfirmedAt      *time.Time             `json:"confirmed_at,omitempty"`
	ReceivedAt       *time.Time             `json:"received_at,omitempty"`
}

// TransferListResponse listado de traslados.
type TransferListResponse struct {
	Total     int                `json:"total"`
	Transfers []TransferResponse `json:"transfers"`
}

// TransferFromEntity mapea la entidad de dominio a la respuesta HTTP.
func TransferFromEntity(t *entity.StockTransfer) TransferResponse {
	items := make([]TransferItemResponse, 0, len(t.Items))
	for _, it := range t.Items {
		items = append(items, TransferItemResponse{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return TransferResponse{
		ID:               t.ID,
		BusinessID:       t.BusinessID,
		OriginScope:      t.OriginScope,
		DestinationScope: t.DestinationScope,
		Status:           t.Status,
		Comment:          t.Comment,
		Items:            items,
		CreatedAt:        t.CreatedAt,
		ConfirmedAt:      t.ConfirmedAt,
		ReceivedAt:       t.ReceivedAt,
	}
}
