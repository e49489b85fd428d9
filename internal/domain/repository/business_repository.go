package repository

import "github.com/gestionapp/negocio-api/internal/domain/entity"

// BusinessRepository define el puerto de lectura de la configuración del
// negocio (modo de inventario y feature flag de traslados).
type BusinessRepository interface {
	GetByID(id string) (*entity.Business, error)
}
