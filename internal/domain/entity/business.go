package entity

import "time"

// Modos de inventario del negocio.
const (
	InventoryModePerBranch   = "per_branch"  // stock por sucursal
	InventoryModeCentralized = "centralized" // pool único compartido por todas las sucursales
)

// Business representa un negocio (tenant). InventoryMode decide si el stock se
// lleva por sucursal o en un pool centralizado; TransfersEnabled es el feature
// flag de traslados entre sucursales.
type Business struct {
	ID               string
	Name             string
	InventoryMode    string
	TransfersEnabled bool
	CreatedAt        time.Time
}

// IsCentralized indica si el negocio lleva inventario centralizado.
func (b *Business) IsCentralized() bool {
	return b.InventoryMode == InventoryModeCentralized
}
