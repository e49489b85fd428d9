package transfer_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apptransfer "github.com/gestionapp/negocio-api/internal/application/transfer"
	"github.com/gestionapp/negocio-api/internal/domain"
	"github.com/gestionapp/negocio-api/internal/domain/entity"
	"github.com/gestionapp/negocio-api/internal/domain/repository"
)

const (
	testBusinessID = "negocio-1"
	branchA        = "sucursal-a"
	branchB        = "sucursal-b"
	prodUno        = "producto-1"
	prodDos        = "producto-2"
)

// seedPerBranch registra un negocio per_branch con traslados habilitados,
// dos sucursales y dos productos. El stock lo fija cada test.
func seedPerBranch(store *memStore) {
	store.businesses[testBusinessID] = &entity.Business{
		ID:               testBusinessID,
		Name:             "Negocio de prueba",
		InventoryMode:    entity.InventoryModePerBranch,
		TransfersEnabled: true,
	}
	store.branches[branchA] = &entity.Branch{ID: branchA, BusinessID: testBusinessID, Name: "Sucursal A", IsMain: true}
	store.branches[branchB] = &entity.Branch{ID: branchB, BusinessID: testBusinessID, Name: "Sucursal B"}
	store.products[prodUno] = &entity.Product{ID: prodUno, BusinessID: testBusinessID, Name: "Producto Uno"}
	store.products[prodDos] = &entity.Product{ID: prodDos, BusinessID: testBusinessID, Name: "Producto Dos"}
}

func newEngine(store *memStore) *apptransfer.TransferUseCase {
	return apptransfer.NewTransferUseCase(
		&memTxRunner{store: store},
		&memTransferRepo{store: store, external: true},
		&memBusinessRepo{store: store},
		&memBranchRepo{store: store},
		&memProductRepo{store: store},
		nil,
	)
}

func mustCreate(t *testing.T, uc *apptransfer.TransferUseCase, input apptransfer.CreateTransferInput) string {
	t.Helper()
	id, err := uc.CreateDraft(context.Background(), testBusinessID, input)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	return id
}

func itemsDe(pares ...any) []entity.TransferItem {
	items := make([]entity.TransferItem, 0, len(pares)/2)
	for i := 0; i < len(pares); i += 2 {
		items = append(items, entity.TransferItem{
			ProductID: pares[i].(string),
			Quantity:  decimal.NewFromInt(int64(pares[i+1].(int))),
		})
	}
	return items
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación de borradores
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateDraft_FusionaLineasDelMismoProducto(t *testing.T) {
	store := newMemStore()
	seedPerBranch(store)
	uc := newEngine(store)

	id := mustCreate(t, uc, apptransfer.CreateTransferInput{
		OriginScope:      branchA,
		DestinationScope: branchB,
		Items:            itemsDe(prodUno, 2, prodDos, 1, prodUno, 3),
	})

	got, err := uc.GetByID(context.Background(), testBusinessID, id)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusDraft, got.Status)
	require.Len(t, got.Items, 2)
	assert.Equal(t, prodUno, got.Items[0].ProductID)
	assert.True(t, got.Items[0].Quantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, got.Items[1].Quantity.Equal(decimal.NewFromInt(1)))
}

func TestCreateDraft_PermiteBorradorVacio(t *testing.T) {
	store := newMemStore()
	seedPerBranch(store)
	uc := newEngine(store)

	id := mustCreate(t, uc, apptransfer.CreateTransferInput{
		OriginScope:      branchA,
		DestinationScope: branchB,
	})

	got, err := uc.GetByID(context.Background(), testBusinessID, id)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestCreateDraft_Validaciones(t *testing.T) {
	store := newMemStore()
	seedPerBranch(store)
	uc := newEngine(store)
	ctx := context.Background()

	// Origen y destino no pueden coincidir.
	_, err := uc.CreateDraft(ctx, testBusinessID, apptransfer.CreateTransferInput{
		OriginScope:      branchA,
		DestinationScope: branchA,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Sucursal de otro negocio o inexistente.
	_, err = uc.CreateDraft(ctx, testBusinessID, apptransfer.CreateTransferInput{
		OriginScope:      branchA,
		DestinationScope: "sucursal-fantasma",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Producto fuera del catálogo del negocio.
	_, err = uc.CreateDraft(ctx, testBusinessID, apptransfer.CreateTransferInput{
		OriginScope:      branchA,
		DestinationScope: branchB,
		Items:            itemsDe("producto-fantasma", 1),
	})
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)

	// Cantidad no positiva.
	_, err = uc.CreateDraft(ctx, testBusinessID, apptransfer.CreateTransferInput{
		OriginScope:      branchA,
		DestinationScope: branchB,
		Items:            []entity.TransferItem{{ProductID: prodUno, Quantity: decimal.Zero}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateDraft_FeatureFlagApagado(t *testing.T) {
	store := newMemStore()
	seedPerBranch(store)
	store.businesses[testBusinessID].TransfersEnabled = false
	uc := newEngine(store)

	_, err := uc.CreateDraft(context.Background(), testBusinessID, apptransfer.CreateTransferInput{
		OriginScope:      branchA,
		DestinationScope: branchB,
	})
	assert.ErrorIs(t, err, domain.ErrTransfersDisabled)
}

// ──────────────────────────────────────────────────────────────────────────────
// Confirmar y recibir: conservación de cantidades
// ──────────────────────────────────────────────────────────────────────────────

func TestConfirmYReceive_ConservanLaCantidadTotal(t *testing.T) {
	store := newMemStore()
	seedPerBranch(store)
	store.setStock(branchA, prodUno, 10)
	uc := newEngine(store)
	ctx := context.Background()

	id := mustCreate(t, uc, apptransfer.CreateTransferInput{
		OriginScope:      branchA,
		DestinationScope: branchB,
		Items:            itemsDe(prodUno, 4),
	})

	require.NoError(t, uc.Confirm(ctx, testBusinessID, id))
	got, err := uc.GetByID(ctx, testBusinessID, id)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusConfirmed, got.Status)
	require.NotNil(t, got.ConfirmedAt)
	assert.True(t, store.stockOf(branchA, prodUno).Equal(decimal.NewFromInt(6)))
	// Entre confirm y receive las unidades están en tránsito: no aparecen
	// en el destino todavía.
	assert.True(t, store.stockOf(branchB, prodUno).Equal(decimal.Zero))

	require.NoError(t, uc.Receive(ctx, testBusinessID, id))
	got, err = uc.GetByID(ctx, testBusinessID, id)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusReceived, got.Status)
	require.NotNil(t, got.ReceivedAt)
	assert.True(t, store.stockOf(branchA, prodUno).Equal(decimal.NewFromInt(6)))
	assert.True(t, store.stockOf(branchB, prodUno).Equal(decimal.NewFromInt(4)))
}

func TestConfirm_StockInsuficienteNoCambiaNada(t *testing.T) {
	store := newMemStore()
	seedPerBranch(store)
	store.setStock(branchA, prodUno, 10)
	uc := newEngine(store)
	ctx := context.Background()

	id := mustCreate(t, uc, apptransfer.CreateTransferInput{
		OriginScope:      branchA,
		DestinationScope: branchB,
		Items:            itemsDe(prodUno, 15),
	})

	err := uc.Confirm(ctx, testBusinessID, id)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := uc.GetByID(ctx, testBusinessID, id)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusDraft, got.Status)
	assert.True(t, store.stockOf(branchA, prodUno).Equal(decimal.NewFromInt(10)))
}

func TestConfirm_MultilineaEsTodoONada(t *testing.T) {
	store := newMemStore()
	seedPerBranch(store)
	store.setStock(branchA, prodUno, 10)
	store.setStock(branchA, prodDos, 1)
	uc := newEngine(store)
	ctx := context.Background()

	id := mustCreate(t, uc, apptransfer.CreateTransferInput{
		OriginScope:      branchA,
		DestinationScope: branchB,
		Items:            itemsDe(prodUno, 5, prodDos, 5),
	})

	err := uc.Confirm(ctx, testBusinessID, id)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// La primera línea alcanzaba, pero la transacción revierte ambas.
	assert.True(t, store.stockOf(branchA, prodUno).Equal(decimal.NewFromInt(10)))
	assert.True(t, store.stockOf(branchA, prodDos).Equal(decimal.NewFromInt(1)))
	got, err := uc.GetByID(ctx, testBusinessID, id)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusDraft, got.Status)
}

func TestConfirm_BorradorVacioNoSePuedeConfirmar(t *testing.T) {
	store := newMemStore()
	seedPerBranch(store)
	uc := newEngine(store)

	id := mustCreate(t, uc, apptransfer.CreateTransferInput{
		OriginScope:      branchA,
		DestinationScope: branchB,
	})
	err := uc.Confirm(context.Background(), testBusinessID, id)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConfirm_EsIdempotente(t *testing.T) {
	store := newMemStore()
	seedPerBranch(store)
	store.setStock(branchA, prodUno, 10)
	uc := newEngine(store)
	ctx := context.Background()

	id := mustCreate(t, uc, apptransfer.CreateTransferInput{
		OriginScope:      branchA,
		DestinationScope: branchB,
		Items:            itemsDe(prodUno, 4),
	})

	require.NoError(t, uc.Confirm(ctx, testBusinessID, id))
	require.NoError(t, uc.Confirm(ctx, testBusinessID, id))

	// Un solo descuento aunque se confirme dos veces.
	assert.True(t, store.stockOf(branchA, prodUno).Equal(decimal.NewFromInt(6)))
}

func TestReceive_EsIdempotenteYExigeConfirmado(t *testing.T) {
	store := newMemStore()
	seedPerBranch(store)
	store.setStock(branchA, prodUno, 10)
	uc := newEngine(store)
	ctx := context.Background()

	id := mustCreate(t, uc, apptransfer.CreateTransferInput{
		OriginScope:      branchA,
		DestinationScope: branchB,
		Items:            itemsDe(prodUno, 4),
	})

	// Recibir un borrador es una transición ilegal.
	assert.ErrorIs(t, uc.Receive(ctx, testBusinessID, id), domain.ErrInvalidTransition)

	require.NoError(t, uc.Confirm(ctx, testBusinessID, id))
	require.NoError(t, uc.Receive(ctx, testBusinessID, id))
	require.NoError(t, uc.Receive(ctx, testBusinessID, id))

	// Un solo incremento aunque se reciba dos veces.
	assert.True(t, store.stockOf(branchB, prodUno).Equal(decimal.NewFromInt(4)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia: dos confirmaciones compitiendo por el mismo stock
// ──────────────────────────────────────────────────────────────────────────────

func TestConfirm_ConcurrentesSoloUnoAlcanza(t *testing.T) {
	store := newMemStore()
	seedPerBranch(store)
	store.setStock(branchA, prodUno, 10)
	uc := newEngine(store)
	ctx := context.Background()

	// Dos traslados de 6 unidades contra un stock de 10: alcanza para uno.
	ids := [2]string{
		mustCreate(t, uc, apptransfer.CreateTransferInput{
			OriginScope:      branchA,
			DestinationScope: branchB,
			Items:            itemsDe(prodUno, 6),
		}),
		mustCreate(t, uc, apptransfer.CreateTransferInput{
			OriginScope:      branchA,
			DestinationScope: branchB,
			Items:            itemsDe(prodUno, 6),
		}),
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = uc.Confirm(ctx, testBusinessID, ids[i])
		}(i)
	}
	wg.Wait()

	var oks, insuficientes int
	for _, err := range errs {
		switch {
		case err == nil:
			oks++
		case errors.Is(err, domain.ErrInsufficientStock):
			insuficientes++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, oks)
	assert.Equal(t, 1, insuficientes)
	assert.True(t, store.stockOf(branchA, prodUno).Equal(decimal.NewFromInt(4)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancelación y eliminación
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_DesdeBorradorSoloCambiaElEstado(t *testing.T) {
	store := newMemStore()
	seedPerBranch(store)
	store.setStock(branchA, prodUno, 10)
	uc := newEngine(store)
	ctx := context.Background()

	id := mustCreate(t, uc, apptransfer.CreateTransferInput{
		OriginScope:      branchA,
		DestinationScope: branchB,
		Items:            itemsDe(prodUno, 4),
	})

	require.NoError(t, uc.Cancel(ctx, testBusinessID, id))
	got, err := uc.GetByID(ctx, testBusinessID, id)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCancelled, got.Status)
	assert.True(t, store.stockOf(branchA, prodUno).Equal(decimal.NewFromInt(10)))

	// Cancelar dos veces es idempotente.
	require.NoError(t, uc.Cancel(ctx, testBusinessID, id))
}

func TestCancel_DesdeConfirmadoDevuelveElStockAlOrigen(t *testing.T) {
	store := newMemStore()
	seedPerBranch(store)
	store.setStock(branchA, prodUno, 10)
	uc := newEngine(store)
	ctx := context.Background()

	id := mustCreate(t, uc, apptransfer.CreateTransferInput{
		OriginScope:      branchA,
		DestinationScope: branchB,
		Items:            itemsDe(prodUno, 4),
	})
	require.NoError(t, uc.Confirm(ctx, testBusinessID, id))
	require.True(t, store.stockOf(branchA, prodUno).Equal(decimal.NewFromInt(6)))

	require.NoError(t, uc.Cancel(ctx, testBusinessID, id))
	got, err := uc.GetByID(ctx, testBusinessID, id)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCancelled, got.Status)
	assert.True(t, store.stockOf(branchA, prodUno).Equal(decimal.NewFromInt(10)))
	assert.True(t, store.stockOf(branchB, prodUno).Equal(decimal.Zero))
}

func TestCancel_UnRecibidoEsTerminal(t *testing.T) {
	store := newMemStore()
	seedPerBranch(store)
	store.setStock(branchA, prodUno, 10)
	uc := newEngine(store)
	ctx := context.Background()

	id := mustCreate(t, uc, apptransfer.CreateTransferInput{
		OriginScope:      branchA,
		DestinationScope: branchB,
		Items:            itemsDe(prodUno, 4),
	})
	require.NoError(t, uc.Confirm(ctx, testBusinessID, id))
	require.NoError(t, uc.Receive(ctx, testBusinessID, id))

	assert.ErrorIs(t, uc.Cancel(ctx, testBusinessID, id), domain.ErrInvalidTransition)
}

func TestDelete_SoloBorradores(t *testing.T) {
	store := newMemStore()
	seedPerBranch(store)
	store.setStock(branchA, prodUno, 10)
	uc := newEngine(store)
	ctx := context.Background()

	borrador := mustCreate(t, uc, apptransfer.CreateTransferInput{
		OriginScope:      branchA,
		DestinationScope: branchB,
		Items:            itemsDe(prodUno, 2),
	})
	require.NoError(t, uc.Delete(ctx, testBusinessID, borrador))
	_, err := uc.GetByID(ctx, testBusinessID, borrador)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, store.stockOf(branchA, prodUno).Equal(decimal.NewFromInt(10)))

	confirmado := mustCreate(t, uc, apptransfer.CreateTransferInput{
		OriginScope:      branchA,
		DestinationScope: branchB,
		Items:            itemsDe(prodUno, 2),
	})
	require.NoError(t, uc.Confirm(ctx, testBusinessID, confirmado))
	assert.ErrorIs(t, uc.Delete(ctx, testBusinessID, confirmado), domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición de líneas
// ──────────────────────────────────────────────────────────────────────────────

func TestAddItem_SumaSobreLaLineaExistente(t *testing.T) {
	store := newMemStore()
	seedPerBranch(store)
	uc := newEngine(store)
	ctx := context.Background()

	id := mustCreate(t, uc, apptransfer.CreateTransferInput{
		OriginScope:      branchA,
		DestinationScope: branchB,
		Items:            itemsDe(prodUno, 2),
	})

	require.NoError(t, uc.AddItem(ctx, testBusinessID, id, prodUno, decimal.NewFromInt(3)))
	got, err := uc.GetByID(ctx, testBusinessID, id)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].Quantity.Equal(decimal.NewFromInt(5)))

	assert.ErrorIs(t, uc.AddItem(ctx, testBusinessID, id, prodUno, decimal.Zero), domain.ErrInvalidInput)
	assert.ErrorIs(t, uc.AddItem(ctx, testBusinessID, id, "producto-fantasma", decimal.NewFromInt(1)), domain.ErrUnknownProduct)
}

func TestAddRemoveItem_SoloSobreBorradores(t *testing.T) {
	store := newMemStore()
	seedPerBranch(store)
	store.setStock(branchA, prodUno, 10)
	uc := newEngine(store)
	ctx := context.Background()

	id := mustCreate(t, uc, apptransfer.CreateTransferInput{
		OriginScope:      branchA,
		DestinationScope: branchB,
		Items:            itemsDe(prodUno, 2),
	})
	require.NoError(t, uc.Confirm(ctx, testBusinessID, id))

	assert.ErrorIs(t, uc.AddItem(ctx, testBusinessID, id, prodDos, decimal.NewFromInt(1)), domain.ErrInvalidTransition)
	assert.ErrorIs(t, uc.RemoveItem(ctx, testBusinessID, id, prodUno), domain.ErrInvalidTransition)
}

func TestRemoveItem_LineaInexistente(t *testing.T) {
	store := newMemStore()
	seedPerBranch(store)
	uc := newEngine(store)

	id := mustCreate(t, uc, apptransfer.CreateTransferInput{
		OriginScope:      branchA,
		DestinationScope: branchB,
		Items:            itemsDe(prodUno, 2),
	})
	err := uc.RemoveItem(context.Background(), testBusinessID, id, prodDos)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Modo centralizado: el documento viaja, el pool no cambia
// ──────────────────────────────────────────────────────────────────────────────

func TestModoCentralizado_ConfirmYReceiveNoMuevenStock(t *testing.T) {
	store := newMemStore()
	seedPerBranch(store)
	store.businesses[testBusinessID].InventoryMode = entity.InventoryModeCentralized
	pool := entity.PoolScope(testBusinessID)
	store.setStock(pool, prodUno, 20)
	uc := newEngine(store)
	ctx := context.Background()

	id := mustCreate(t, uc, apptransfer.CreateTransferInput{
		OriginScope:      branchA,
		DestinationScope: branchB,
		Items:            itemsDe(prodUno, 8),
	})

	require.NoError(t, uc.Confirm(ctx, testBusinessID, id))
	assert.True(t, store.stockOf(pool, prodUno).Equal(decimal.NewFromInt(20)))

	require.NoError(t, uc.Receive(ctx, testBusinessID, id))
	got, err := uc.GetByID(ctx, testBusinessID, id)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusReceived, got.Status)
	assert.True(t, store.stockOf(pool, prodUno).Equal(decimal.NewFromInt(20)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Listado y aislamiento por negocio
// ──────────────────────────────────────────────────────────────────────────────

func TestList_FiltraPorEstadoYScopes(t *testing.T) {
	store := newMemStore()
	seedPerBranch(store)
	store.setStock(branchA, prodUno, 10)
	uc := newEngine(store)
	ctx := context.Background()

	primero := mustCreate(t, uc, apptransfer.CreateTransferInput{
		OriginScope:      branchA,
		DestinationScope: branchB,
		Items:            itemsDe(prodUno, 1),
	})
	segundo := mustCreate(t, uc, apptransfer.CreateTransferInput{
		OriginScope:      branchB,
		DestinationScope: branchA,
	})
	require.NoError(t, uc.Confirm(ctx, testBusinessID, primero))

	todos, err := uc.List(ctx, testBusinessID, repository.TransferFilter{}, 0)
	require.NoError(t, err)
	assert.Len(t, todos, 2)

	confirmados, err := uc.List(ctx, testBusinessID, repository.TransferFilter{Status: entity.TransferStatusConfirmed}, 0)
	require.NoError(t, err)
	require.Len(t, confirmados, 1)
	assert.Equal(t, primero, confirmados[0].ID)

	desdeB, err := uc.List(ctx, testBusinessID, repository.TransferFilter{OriginScope: branchB}, 0)
	require.NoError(t, err)
	require.Len(t, desdeB, 1)
	assert.Equal(t, segundo, desdeB[0].ID)

	_, err = uc.List(ctx, testBusinessID, repository.TransferFilter{Status: "pendiente"}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestList_OrdenDescendenteYLimite(t *testing.T) {
	store := newMemStore()
	seedPerBranch(store)
	uc := newEngine(store)

	// Se insertan directo al store para controlar los CreatedAt.
	base := time.Now()
	for i := 0; i < 3; i++ {
		id := string(rune('a' + i))
		store.transfers[id] = &entity.StockTransfer{
			ID:               id,
			BusinessID:       testBusinessID,
			OriginScope:      branchA,
			DestinationScope: branchB,
			Status:           entity.TransferStatusDraft,
			CreatedAt:        base.Add(time.Duration(i) * time.Minute),
		}
	}

	lista, err := uc.List(context.Background(), testBusinessID, repository.TransferFilter{}, 2)
	require.NoError(t, err)
	require.Len(t, lista, 2)
	assert.Equal(t, "c", lista[0].ID)
	assert.Equal(t, "b", lista[1].ID)
}

func TestGetByID_NoVeTrasladosDeOtroNegocio(t *testing.T) {
	store := newMemStore()
	seedPerBranch(store)
	uc := newEngine(store)
	ctx := context.Background()

	id := mustCreate(t, uc, apptransfer.CreateTransferInput{
		OriginScope:      branchA,
		DestinationScope: branchB,
	})

	store.businesses["negocio-2"] = &entity.Business{
		ID:               "negocio-2",
		InventoryMode:    entity.InventoryModePerBranch,
		TransfersEnabled: true,
	}
	_, err := uc.GetByID(ctx, "negocio-2", id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Confirm(ctx, "negocio-2", id), domain.ErrNotFound)
}
