package entity

import "time"

// Product representa un producto del catálogo del negocio.
type Product struct {
	ID         string
	BusinessID string
	Name       string
	Code       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
