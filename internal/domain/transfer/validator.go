package transfer

import (
	"github.com/shopspring/decimal"

	"github.com/gestionapp/negocio-api/internal/domain"
	"github.com/gestionapp/negocio-api/internal/domain/entity"
)

// ValidateScopes verifica que origen y destino estén presentes y sean distintos.
func ValidateScopes(origin, destination string) error {
	if origin == "" || destination == "" || origin == destination {
		return domain.ErrInvalidInput
	}
	return nil
}

// ValidateItems verifica que cada línea tenga producto, cantidad positiva y
// que no haya productos repetidos. No consulta stock: la suficiencia se
// verifica únicamente dentro de la transacción de confirmación.
func ValidateItems(items []entity.TransferItem) error {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.ProductID == "" || !it.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
		if seen[it.ProductID] {
			return domain.ErrInvalidInput
		}
		seen[it.ProductID] = true
	}
	return nil
}

// ValidateDraft valida la estructura de un borrador. Un borrador puede estar
// vacío; la no-vacuidad se exige recién al confirmar (ValidateForConfirm).
func ValidateDraft(t *entity.StockTransfer) error {
	if t.BusinessID == "" {
		return domain.ErrInvalidInput
	}
	if err := ValidateScopes(t.OriginScope, t.DestinationScope); err != nil {
		return err
	}
	return ValidateItems(t.Items)
}

// ValidateForConfirm valida un traslado justo antes de confirmarlo:
// estructura de borrador válida y al menos una línea.
func ValidateForConfirm(t *entity.StockTransfer) error {
	if len(t.Items) == 0 {
		return domain.ErrInvalidInput
	}
	return ValidateDraft(t)
}

// MergeItems normaliza una lista de líneas: cantidades de un mismo producto
// se suman en una sola línea, conservando el orden de primera aparición.
// Devuelve ErrInvalidInput si alguna línea es inválida.
func MergeItems(items []entity.TransferItem) ([]entity.TransferItem, error) {
	merged := make([]entity.TransferItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, it := range items {
		if it.ProductID == "" || !it.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if i, ok := index[it.ProductID]; ok {
			merged[i].Quantity = merged[i].Quantity.Add(it.Quantity)
			continue
		}
		index[it.ProductID] = len(merged)
		merged = append(merged, it)
	}
	return merged, nil
}
