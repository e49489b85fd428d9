package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestionapp/negocio-api/internal/domain/entity"
)

// TransferFilter filtros del listado de traslados. Campos vacíos no filtran.
type TransferFilter struct {
	Status           string
	OriginScope      string
	DestinationScope string
}

// TransferRepository define el puerto de persistencia para traslados (DIP).
//
// UpdateStatus es un compare-and-swap: solo escribe si el estado actual es
// fromStatus y devuelve si hubo escritura. Es la única vía de cambio de
// estado, lo que impide confirmar dos veces el mismo traslado.
type TransferRepository interface {
	Create(t *entity.StockTransfer) error
	GetByID(id string) (*entity.StockTransfer, error)
	// GetByIDForUpdate bloquea la fila del traslado (SELECT FOR UPDATE);
	// usar solo dentro de una transacción.
	GetByIDForUpdate(id string) (*entity.StockTransfer, error)
	UpdateStatus(id, fromStatus, toStatus string, at time.Time) (bool, error)
	Delete(id string) error
	// UpsertItem inserta la línea o, si el producto ya existe en el traslado,
	// suma la cantidad a la línea existente (nunca crea una segunda línea).
	UpsertItem(transferID, productID string, quantity decimal.Decimal) error
	DeleteItem(transferID, productID string) error
	List(businessID string, filter TransferFilter, limit int) ([]*entity.StockTransfer, error)
}
