package transfer

import (
	"context"

	"github.com/gestionapp/negocio-api/internal/domain"
	"github.com/gestionapp/negocio-api/internal/domain/entity"
	"github.com/gestionapp/negocio-api/internal/domain/repository"
)

// Límites del listado: protegen al store de escaneos sin cota.
const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// List devuelve los traslados del negocio filtrados por estado, origen y/o
// destino, ordenados por fecha de creación descendente. Lectura pura; cada
// documento es un snapshot consistente (nunca una transición a medias).
func (uc *TransferUseCase) List(ctx context.Context, businessID string, filter repository.TransferFilter, limit int) ([]*entity.StockTransfer, error) {
	if businessID == "" {
		return nil, domain.ErrInvalidInput
	}
	if filter.Status != "" && !validStatus(filter.Status) {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return uc.transferRepo.List(businessID, filter, limit)
}

func validStatus(s string) bool {
	switch s {
	case entity.TransferStatusDraft, entity.TransferStatusConfirmed,
		entity.TransferStatusReceived, entity.TransferStatusCancelled:
		return true
	}
	return false
}
