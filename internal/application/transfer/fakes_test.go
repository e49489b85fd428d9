package transfer_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestionapp/negocio-api/internal/domain"
	"github.com/gestionapp/negocio-api/internal/domain/entity"
	"github.com/gestionapp/negocio-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// memStore simula el almacenamiento; memTxRunner simula la transacción:
// toma un lock global (equivalente grueso de los locks de fila), saca un
// snapshot antes de ejecutar fn y lo restaura si fn falla, igual que haría
// el Rollback de la BD.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu         sync.Mutex
	transfers  map[string]*entity.StockTransfer
	stock      map[string]decimal.Decimal // "scope|product" -> cantidad
	businesses map[string]*entity.Business
	branches   map[string]*entity.Branch
	products   map[string]*entity.Product
}

func newMemStore() *memStore {
	return &memStore{
		transfers:  make(map[string]*entity.StockTransfer),
		stock:      make(map[string]decimal.Decimal),
		businesses: make(map[string]*entity.Business),
		branches:   make(map[string]*entity.Branch),
		products:   make(map[string]*entity.Product),
	}
}

func stockKey(scopeID, productID string) string { return scopeID + "|" + productID }

func (s *memStore) setStock(scopeID, productID string, qty int64) {
	s.stock[stockKey(scopeID, productID)] = decimal.NewFromInt(qty)
}

func (s *memStore) stockOf(scopeID, productID string) decimal.Decimal {
	return s.stock[stockKey(scopeID, productID)]
}

type memSnapshot struct {
	transfers map[string]*entity.StockTransfer
	stock     map[string]decimal.Decimal
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		transfers: make(map[string]*entity.StockTransfer, len(s.transfers)),
		stock:     make(map[string]decimal.Decimal, len(s.stock)),
	}
	for id, t := range s.transfers {
		snap.transfers[id] = copyTransfer(t)
	}
	for k, v := range s.stock {
		snap.stock[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.transfers = snap.transfers
	s.stock = snap.stock
}

func copyTransfer(t *entity.StockTransfer) *entity.StockTransfer {
	cp := *t
	cp.Items = append([]entity.TransferItem(nil), t.Items...)
	if t.ConfirmedAt != nil {
		at := *t.ConfirmedAt
		cp.ConfirmedAt = &at
	}
	if t.ReceivedAt != nil {
		at := *t.ReceivedAt
		cp.ReceivedAt = &at
	}
	return &cp
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

type memTxRunner struct{ store *memStore }

func (r *memTxRunner) Run(_ context.Context, fn func(
	transferRepo repository.TransferRepository,
	stockRepo repository.StockRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap := r.store.snapshot()
	err := fn(&memTransferRepo{store: r.store}, &memStockRepo{store: r.store})
	if err != nil {
		r.store.restore(snap)
	}
	return err
}

// ── TransferRepository ────────────────────────────────────────────────────────

// memTransferRepo accede al store. Con external=true toma el lock en cada
// llamada (uso directo); con false asume que memTxRunner ya lo tiene.
type memTransferRepo struct {
	store    *memStore
	external bool
}

func (r *memTransferRepo) enter() func() {
	if !r.external {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *memTransferRepo) Create(t *entity.StockTransfer) error {
	defer r.enter()()
	r.store.transfers[t.ID] = copyTransfer(t)
	return nil
}

func (r *memTransferRepo) GetByID(id string) (*entity.StockTransfer, error) {
	defer r.enter()()
	t, ok := r.store.transfers[id]
	if !ok {
		return nil, nil
	}
	return copyTransfer(t), nil
}

func (r *memTransferRepo) GetByIDForUpdate(id string) (*entity.StockTransfer, error) {
	return r.GetByID(id)
}

func (r *memTransferRepo) UpdateStatus(id, fromStatus, toStatus string, at time.Time) (bool, error) {
	defer r.enter()()
	t, ok := r.store.transfers[id]
	if !ok || t.Status != fromStatus {
		return false, nil
	}
	t.Status = toStatus
	switch toStatus {
	case entity.TransferStatusConfirmed:
		t.ConfirmedAt = &at
	case entity.TransferStatusReceived:
		t.ReceivedAt = &at
	}
	return true, nil
}

func (r *memTransferRepo) Delete(id string) error {
	defer r.enter()()
	delete(r.store.transfers, id)
	return nil
}

func (r *memTransferRepo) UpsertItem(transferID, productID string, quantity decimal.Decimal) error {
	defer r.enter()()
	t, ok := r.store.transfers[transferID]
	if !ok {
		return domain.ErrNotFound
	}
	if it := t.ItemFor(productID); it != nil {
		it.Quantity = it.Quantity.Add(quantity)
		return nil
	}
	t.Items = append(t.Items, entity.TransferItem{ProductID: productID, Quantity: quantity})
	return nil
}

func (r *memTransferRepo) DeleteItem(transferID, productID string) error {
	defer r.enter()()
	t, ok := r.store.transfers[transferID]
	if !ok {
		return domain.ErrNotFound
	}
	items := t.Items[:0]
	for _, it := range t.Items {
		if it.ProductID != productID {
			items = append(items, it)
		}
	}
	t.Items = items
	return nil
}

func (r *memTransferRepo) List(businessID string, filter repository.TransferFilter, limit int) ([]*entity.StockTransfer, error) {
	defer r.enter()()
	var list []*entity.StockTransfer
	for _, t := range r.store.transfers {
		if t.BusinessID != businessID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.OriginScope != "" && t.OriginScope != filter.OriginScope {
			continue
		}
		if filter.DestinationScope != "" && t.DestinationScope != filter.DestinationScope {
			continue
		}
		list = append(list, copyTransfer(t))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// ── StockRepository ───────────────────────────────────────────────────────────

type memStockRepo struct {
	store    *memStore
	external bool
}

func (r *memStockRepo) enter() func() {
	if !r.external {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *memStockRepo) Get(scopeID, productID string) (*entity.StockRecord, error) {
	defer r.enter()()
	qty, ok := r.store.stock[stockKey(scopeID, productID)]
	if !ok {
		return nil, nil
	}
	return &entity.StockRecord{ScopeID: scopeID, ProductID: productID, Quantity: qty}, nil
}

func (r *memStockRepo) Upsert(stock *entity.StockRecord) error {
	defer r.enter()()
	r.store.stock[stockKey(stock.ScopeID, stock.ProductID)] = stock.Quantity
	return nil
}

func (r *memStockRepo) Decrement(scopeID, productID string, quantity decimal.Decimal) error {
	defer r.enter()()
	key := stockKey(scopeID, productID)
	current, ok := r.store.stock[key]
	if !ok || current.LessThan(quantity) {
		return domain.ErrInsufficientStock
	}
	r.store.stock[key] = current.Sub(quantity)
	return nil
}

func (r *memStockRepo) Increment(_, scopeID, productID string, quantity decimal.Decimal) error {
	defer r.enter()()
	key := stockKey(scopeID, productID)
	r.store.stock[key] = r.store.stock[key].Add(quantity)
	return nil
}

// ── Repos de solo lectura ─────────────────────────────────────────────────────

type memBusinessRepo struct{ store *memStore }

func (r *memBusinessRepo) GetByID(id string) (*entity.Business, error) {
	b, ok := r.store.businesses[id]
	if !ok {
		return nil, nil
	}
	return b, nil
}

type memBranchRepo struct{ store *memStore }

func (r *memBranchRepo) GetByID(id string) (*entity.Branch, error) {
	b, ok := r.store.branches[id]
	if !ok {
		return nil, nil
	}
	return b, nil
}

func (r *memBranchRepo) ListByBusiness(businessID string) ([]*entity.Branch, error) {
	var list []*entity.Branch
	for _, b := range r.store.branches {
		if b.BusinessID == businessID {
			list = append(list, b)
		}
	}
	return list, nil
}

type memProductRepo struct{ store *memStore }

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}
