package entity

import "time"

// Branch representa una sucursal (ubicación física) de un negocio.
type Branch struct {
	ID         string
	BusinessID string
	Name       string
	IsMain     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
