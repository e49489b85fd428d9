package dto

import "github.com/shopspring/decimal"

// AvailabilityResponse disponibilidad de un producto en un scope.
// Known=false significa que el catálogo no tiene registro de stock para ese
// par (scope, producto): la cantidad se trata como cero pero la UI puede
// advertir en vez de bloquear.
type AvailabilityResponse struct {
	ScopeID   string          `json:"scope_id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Known     bool            `json:"known"`
}

// BranchResponse salida del directorio de sucursales.
type BranchResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsMain bool   `json:"is_main"`
}

// BusinessSettingsResponse configuración del negocio relevante para traslados.
type BusinessSettingsResponse struct {
	InventoryMode    string `json:"inventory_mode"`
	TransfersEnabled bool   `json:"transfers_enabled"`
}
