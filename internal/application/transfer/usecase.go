package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gestionapp/negocio-api/internal/application/inventory"
	"github.com/gestionapp/negocio-api/internal/domain"
	"github.com/gestionapp/negocio-api/internal/domain/entity"
	"github.com/gestionapp/negocio-api/internal/domain/repository"
	domtransfer "github.com/gestionapp/negocio-api/internal/domain/transfer"
)

// TransferUseCase es el motor del ciclo de vida de traslados entre sucursales:
// crear borrador, editar líneas, confirmar (compromete la salida del origen),
// recibir (compromete la entrada en destino), cancelar y eliminar borradores.
//
// Cada transición corre en una transacción: primero el compare-and-swap de
// estado (que toma el lock de la fila del traslado y serializa a los que
// compiten por el mismo documento) y después las mutaciones de stock fila a
// fila. En modo centralizado el documento recorre la misma máquina de estados
// pero ninguna cantidad cambia.
type TransferUseCase struct {
	txRunner     TxRunner
	transferRepo repository.TransferRepository
	businessRepo repository.BusinessRepository
	branchRepo   repository.BranchRepository
	productRepo  repository.ProductRepository
	cache        inventory.AvailabilityCache // nil = sin cache consultivo
}

// NewTransferUseCase construye el motor. cache puede ser nil.
func NewTransferUseCase(
	txRunner TxRunner,
	transferRepo repository.TransferRepository,
	businessRepo repository.BusinessRepository,
	branchRepo repository.BranchRepository,
	productRepo repository.ProductRepository,
	cache inventory.AvailabilityCache,
) *TransferUseCase {
	return &TransferUseCase{
		txRunner:     txRunner,
		transferRepo: transferRepo,
		businessRepo: businessRepo,
		branchRepo:   branchRepo,
		productRepo:  productRepo,
		cache:        cache,
	}
}

// CreateTransferInput entrada para crear un borrador de traslado.
type CreateTransferInput struct {
	OriginScope      string
	DestinationScope string
	Comment          string
	Items            []entity.TransferItem
}

// CreateDraft valida y persiste un traslado en borrador. Las líneas con el
// mismo producto se fusionan sumando cantidades. Devuelve el ID asignado.
func (uc *TransferUseCase) CreateDraft(ctx context.Context, businessID string, input CreateTransferInput) (string, error) {
	if _, err := uc.loadBusiness(businessID); err != nil {
		return "", err
	}
	if err := domtransfer.ValidateScopes(input.OriginScope, input.DestinationScope); err != nil {
		return "", err
	}
	if err := uc.checkBranch(businessID, input.OriginScope); err != nil {
		return "", err
	}
	if err := uc.checkBranch(businessID, input.DestinationScope); err != nil {
		return "", err
	}
	items, err := domtransfer.MergeItems(input.Items)
	if err != nil {
		return "", err
	}
	for _, it := range items {
		if err := uc.checkProduct(businessID, it.ProductID); err != nil {
			return "", err
		}
	}
	t := &entity.StockTransfer{
		ID:               uuid.New().String(),
		BusinessID:       businessID,
		OriginScope:      input.OriginScope,
		DestinationScope: input.DestinationScope,
		Status:           entity.TransferStatusDraft,
		Items:            items,
		Comment:          input.Comment,
		CreatedAt:        time.Now(),
	}
	if err := domtransfer.ValidateDraft(t); err != nil {
		return "", err
	}
	if err := uc.transferRepo.Create(t); err != nil {
		return "", err
	}
	return t.ID, nil
}

// AddItem agrega una línea a un borrador. Si el producto ya está en el
// traslado, la cantidad se suma a la línea existente.
func (uc *TransferUseCase) AddItem(ctx context.Context, businessID, transferID, productID string, quantity decimal.Decimal) error {
	if !quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if err := uc.checkProduct(businessID, productID); err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(transferRepo repository.TransferRepository, _ repository.StockRepository) error {
		t, err := uc.loadForUpdate(transferRepo, businessID, transferID)
		if err != nil {
			return err
		}
		if !t.IsDraft() {
			return domain.ErrInvalidTransition
		}
		return transferRepo.UpsertItem(transferID, productID, quantity)
	})
}

// RemoveItem quita una línea de un borrador.
func (uc *TransferUseCase) RemoveItem(ctx context.Context, businessID, transferID, productID string) error {
	return uc.txRunner.Run(ctx, func(transferRepo repository.TransferRepository, _ repository.StockRepository) error {
		t, err := uc.loadForUpdate(transferRepo, businessID, transferID)
		if err != nil {
			return err
		}
		if !t.IsDraft() {
			return domain.ErrInvalidTransition
		}
		if t.ItemFor(productID) == nil {
			return domain.ErrNotFound
		}
		return transferRepo.DeleteItem(transferID, productID)
	})
}

// Confirm compromete la salida del origen: valida el borrador, pasa el estado
// a confirmed y, en modo per_branch, descuenta cada línea del stock del
// origen. Si alguna línea no alcanza, toda la operación se revierte y el
// traslado queda en borrador. Confirmar un traslado ya confirmado (o ya
// recibido) es un éxito idempotente y no vuelve a descontar.
func (uc *TransferUseCase) Confirm(ctx context.Context, businessID, transferID string) error {
	business, err := uc.loadBusiness(businessID)
	if err != nil {
		return err
	}
	var origin string
	var productIDs []string
	err = uc.txRunner.Run(ctx, func(transferRepo repository.TransferRepository, stockRepo repository.StockRepository) error {
		t, err := uc.loadForUpdate(transferRepo, businessID, transferID)
		if err != nil {
			return err
		}
		switch t.Status {
		case entity.TransferStatusConfirmed, entity.TransferStatusReceived:
			// Otro caller ya confirmó: el efecto pedido ya es verdad.
			return nil
		case entity.TransferStatusDraft:
		default:
			return domain.ErrInvalidTransition
		}
		if err := domtransfer.ValidateForConfirm(t); err != nil {
			return err
		}

		now := time.Now()
		ok, err := transferRepo.UpdateStatus(transferID, entity.TransferStatusDraft, entity.TransferStatusConfirmed, now)
		if err != nil {
			return err
		}
		if !ok {
			// Bajo el lock de fila el estado no puede haber cambiado; si pasó,
			// algo más escribió fuera del motor.
			return domain.ErrConflict
		}

		if business.IsCentralized() {
			// Movimiento solo documental: el pool no cambia.
			return nil
		}
		for _, it := range t.Items {
			if err := stockRepo.Decrement(t.OriginScope, it.ProductID, it.Quantity); err != nil {
				return fmt.Errorf("%w: producto %s", err, it.ProductID)
			}
			productIDs = append(productIDs, it.ProductID)
		}
		origin = t.OriginScope
		return nil
	})
	if err != nil {
		return err
	}
	uc.invalidate(ctx, origin, productIDs)
	return nil
}

// Receive compromete la entrada en destino: pasa el estado a received y, en
// modo per_branch, suma cada línea al stock del destino. Recibir un traslado
// ya recibido es un éxito idempotente.
func (uc *TransferUseCase) Receive(ctx context.Context, businessID, transferID string) error {
	business, err := uc.loadBusiness(businessID)
	if err != nil {
		return err
	}
	var destination string
	var productIDs []string
	err = uc.txRunner.Run(ctx, func(transferRepo repository.TransferRepository, stockRepo repository.StockRepository) error {
		t, err := uc.loadForUpdate(transferRepo, businessID, transferID)
		if err != nil {
			return err
		}
		switch t.Status {
		case entity.TransferStatusReceived:
			return nil
		case entity.TransferStatusConfirmed:
		default:
			return domain.ErrInvalidTransition
		}

		now := time.Now()
		ok, err := transferRepo.UpdateStatus(transferID, entity.TransferStatusConfirmed, entity.TransferStatusReceived, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}

		if business.IsCentralized() {
			return nil
		}
		for _, it := range t.Items {
			if err := stockRepo.Increment(businessID, t.DestinationScope, it.ProductID, it.Quantity); err != nil {
				return err
			}
			productIDs = append(productIDs, it.ProductID)
		}
		destination = t.DestinationScope
		return nil
	})
	if err != nil {
		return err
	}
	uc.invalidate(ctx, destination, productIDs)
	return nil
}

// Cancel anula un traslado por vía administrativa. Desde borrador solo cambia
// el estado; desde confirmed además devuelve las cantidades al origen (modo
// per_branch), para que la ley de conservación se mantenga en traslados
// abandonados. Cancelar un traslado ya cancelado es idempotente.
func (uc *TransferUseCase) Cancel(ctx context.Context, businessID, transferID string) error {
	business, err := uc.loadBusiness(businessID)
	if err != nil {
		return err
	}
	var origin string
	var productIDs []string
	err = uc.txRunner.Run(ctx, func(transferRepo repository.TransferRepository, stockRepo repository.StockRepository) error {
		t, err := uc.loadForUpdate(transferRepo, businessID, transferID)
		if err != nil {
			return err
		}
		if t.Status == entity.TransferStatusCancelled {
			return nil
		}
		if !domtransfer.CanTransition(t.Status, entity.TransferStatusCancelled) {
			return domain.ErrInvalidTransition
		}

		fromStatus := t.Status
		ok, err := transferRepo.UpdateStatus(transferID, fromStatus, entity.TransferStatusCancelled, time.Now())
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}

		if fromStatus == entity.TransferStatusConfirmed && !business.IsCentralized() {
			// Devolver al origen lo que el confirm descontó.
			for _, it := range t.Items {
				if err := stockRepo.Increment(businessID, t.OriginScope, it.ProductID, it.Quantity); err != nil {
					return err
				}
				productIDs = append(productIDs, it.ProductID)
			}
			origin = t.OriginScope
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.invalidate(ctx, origin, productIDs)
	return nil
}

// Delete elimina un borrador (borrado físico, sin efecto sobre inventario).
func (uc *TransferUseCase) Delete(ctx context.Context, businessID, transferID string) error {
	return uc.txRunner.Run(ctx, func(transferRepo repository.TransferRepository, _ repository.StockRepository) error {
		t, err := uc.loadForUpdate(transferRepo, businessID, transferID)
		if err != nil {
			return err
		}
		if !domtransfer.CanDelete(t.Status) {
			return domain.ErrInvalidTransition
		}
		return transferRepo.Delete(transferID)
	})
}

// GetByID devuelve un traslado con sus líneas, validando la pertenencia al negocio.
func (uc *TransferUseCase) GetByID(ctx context.Context, businessID, transferID string) (*entity.StockTransfer, error) {
	t, err := uc.transferRepo.GetByID(transferID)
	if err != nil {
		return nil, err
	}
	if t == nil || t.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// loadBusiness carga el negocio y verifica el feature flag de traslados.
func (uc *TransferUseCase) loadBusiness(businessID string) (*entity.Business, error) {
	business, err := uc.businessRepo.GetByID(businessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, domain.ErrNotFound
	}
	if !business.TransfersEnabled {
		return nil, domain.ErrTransfersDisabled
	}
	return business, nil
}

// loadForUpdate carga el traslado con lock de fila y verifica tenant.
func (uc *TransferUseCase) loadForUpdate(transferRepo repository.TransferRepository, businessID, transferID string) (*entity.StockTransfer, error) {
	t, err := transferRepo.GetByIDForUpdate(transferID)
	if err != nil {
		return nil, err
	}
	if t == nil || t.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// checkBranch verifica que la sucursal exista y pertenezca al negocio.
func (uc *TransferUseCase) checkBranch(businessID, branchID string) error {
	branch, err := uc.branchRepo.GetByID(branchID)
	if err != nil {
		return err
	}
	if branch == nil || branch.BusinessID != businessID {
		return domain.ErrNotFound
	}
	return nil
}

// checkProduct verifica que el producto exista en el catálogo del negocio.
func (uc *TransferUseCase) checkProduct(businessID, productID string) error {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil || product.BusinessID != businessID {
		return domain.ErrUnknownProduct
	}
	return nil
}

// invalidate limpia el cache consultivo tras una mutación de stock (mejor esfuerzo).
func (uc *TransferUseCase) invalidate(ctx context.Context, scopeID string, productIDs []string) {
	if uc.cache == nil || scopeID == "" || len(productIDs) == 0 {
		return
	}
	_ = uc.cache.Invalidate(ctx, scopeID, productIDs...)
}
