package repository

import "github.com/gestionapp/negocio-api/internal/domain/entity"

// BranchRepository define el puerto de lectura del directorio de sucursales.
// El CRUD de sucursales pertenece a otro servicio; aquí solo se consume.
type BranchRepository interface {
	GetByID(id string) (*entity.Branch, error)
	ListByBusiness(businessID string) ([]*entity.Branch, error)
}
