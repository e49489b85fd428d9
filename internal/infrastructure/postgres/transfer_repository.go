package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/gestionapp/negocio-api/internal/domain"
	"github.com/gestionapp/negocio-api/internal/domain/entity"
	"github.com/gestionapp/negocio-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL
// (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador de traslados. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Create persiste el documento y sus líneas.
func (r *TransferRepo) Create(t *entity.StockTransfer) error {
	query := `
		INSERT INTO stock_transfers (id, business_id, origin_scope, destination_scope, status, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.BusinessID, t.OriginScope, t.DestinationScope, t.Status, t.Comment, t.CreatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert transfer: %w", err)
	}
	for i, it := range t.Items {
		itemQuery := `
			INSERT INTO transfer_items (transfer_id, product_id, quantity, position)
			VALUES ($1, $2, $3, $4)`
		if _, err := r.q.Exec(context.Background(), itemQuery, t.ID, it.ProductID, it.Quantity, i); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrInvalidInput
			}
			return fmt.Errorf("insert transfer item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un traslado con sus líneas, o nil si no existe.
func (r *TransferRepo) GetByID(id string) (*entity.StockTransfer, error) {
	return r.get(id, false)
}

// GetByIDForUpdate obtiene el traslado bloqueando su fila (SELECT FOR UPDATE).
// Usar solo dentro de una transacción: el lock serializa confirm/receive/
// delete concurrentes sobre el mismo documento.
func (r *TransferRepo) GetByIDForUpdate(id string) (*entity.StockTransfer, error) {
	return r.get(id, true)
}

func (r *TransferRepo) get(id string, forUpdate bool) (*entity.StockTransfer, error) {
	query := `
		SELECT id, business_id, origin_scope, destination_scope, status, comment, created_at, confirmed_at, received_at
		FROM stock_transfers WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var t entity.StockTransfer
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.BusinessID, &t.OriginScope, &t.DestinationScope,
		&t.Status, &t.Comment, &t.CreatedAt, &t.ConfirmedAt, &t.ReceivedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	items, err := r.itemsFor(t.ID)
	if err != nil {
		return nil, err
	}
	t.Items = items
	return &t, nil
}

func (r *TransferRepo) itemsFor(transferID string) ([]entity.TransferItem, error) {
	query := `
		SELECT product_id, quantity
		FROM transfer_items WHERE transfer_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, transferID)
	if err != nil {
		return nil, fmt.Errorf("list transfer items: %w", err)
	}
	defer rows.Close()
	var items []entity.TransferItem
	for rows.Next() {
		var it entity.TransferItem
		if err := rows.Scan(&it.ProductID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan transfer item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateStatus es el compare-and-swap de estado: escribe toStatus y el
// timestamp de la transición solo si el estado actual es fromStatus.
// Devuelve false (sin error) si el CAS no aplicó.
func (r *TransferRepo) UpdateStatus(id, fromStatus, toStatus string, at time.Time) (bool, error) {
	var query string
	args := []any{id, fromStatus, toStatus}
	switch toStatus {
	case entity.TransferStatusConfirmed:
		query = `UPDATE stock_transfers SET status = $3, confirmed_at = $4 WHERE id = $1 AND status = $2`
		args = append(args, at)
	case entity.TransferStatusReceived:
		query = `UPDATE stock_transfers SET status = $3, received_at = $4 WHERE id = $1 AND status = $2`
		args = append(args, at)
	default:
		// cancelled no registra timestamp propio.
		query = `UPDATE stock_transfers SET status = $3 WHERE id = $1 AND status = $2`
	}
	cmd, err := r.q.Exec(context.Background(), query, args...)
	if err != nil {
		return false, fmt.Errorf("update transfer status: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// Delete elimina el documento; las líneas caen por ON DELETE CASCADE.
func (r *TransferRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM stock_transfers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transfer: %w", err)
	}
	return nil
}

// UpsertItem inserta la línea o suma la cantidad a la existente
// (un producto nunca genera dos líneas en el mismo traslado).
func (r *TransferRepo) UpsertItem(transferID, productID string, quantity decimal.Decimal) error {
	query := `
		INSERT INTO transfer_items (transfer_id, product_id, quantity, position)
		VALUES ($1, $2, $3,
			COALESCE((SELECT MAX(position) + 1 FROM transfer_items WHERE transfer_id = $1), 0))
		ON CONFLICT (transfer_id, product_id)
		DO UPDATE SET quantity = transfer_items.quantity + EXCLUDED.quantity`
	_, err := r.q.Exec(context.Background(), query, transferID, productID, quantity)
	if err != nil {
		return fmt.Errorf("upsert transfer item: %w", err)
	}
	return nil
}

// DeleteItem quita la línea de un producto.
func (r *TransferRepo) DeleteItem(transferID, productID string) error {
	query := `DELETE FROM transfer_items WHERE transfer_id = $1 AND product_id = $2`
	_, err := r.q.Exec(context.Background(), query, transferID, productID)
	if err != nil {
		return fmt.Errorf("delete transfer item: %w", err)
	}
	return nil
}

// List devuelve traslados del negocio filtrados, más recientes primero.
func (r *TransferRepo) List(businessID string, filter repository.TransferFilter, limit int) ([]*entity.StockTransfer, error) {
	query := `
		SELECT id, business_id, origin_scope, destination_scope, status, comment, created_at, confirmed_at, received_at
		FROM stock_transfers WHERE business_id = $1`
	args := []any{businessID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.OriginScope != "" {
		args = append(args, filter.OriginScope)
		query += fmt.Sprintf(" AND origin_scope = $%d", len(args))
	}
	if filter.DestinationScope != "" {
		args = append(args, filter.DestinationScope)
		query += fmt.Sprintf(" AND destination_scope = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTransfer
	for rows.Next() {
		var t entity.StockTransfer
		if err := rows.Scan(
			&t.ID, &t.BusinessID, &t.OriginScope, &t.DestinationScope,
			&t.Status, &t.Comment, &t.CreatedAt, &t.ConfirmedAt, &t.ReceivedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range list {
		items, err := r.itemsFor(t.ID)
		if err != nil {
			return nil, err
		}
		t.Items = items
	}
	return list, nil
}
