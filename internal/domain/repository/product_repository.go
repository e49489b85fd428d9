package repository

import "github.com/gestionapp/negocio-api/internal/domain/entity"

// ProductRepository define el puerto de lectura del catálogo de productos.
// El CRUD de productos pertenece a otro servicio; aquí solo se consume.
type ProductRepository interface {
	GetByID(id string) (*entity.Product, error)
}
