package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/gestionapp/negocio-api/internal/domain"
	"github.com/gestionapp/negocio-api/internal/domain/entity"
	"github.com/gestionapp/negocio-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el registro de stock de un producto en un scope, o nil si no
// existe registro (cantidad desconocida, no cero persistido).
func (r *StockRepo) Get(scopeID, productID string) (*entity.StockRecord, error) {
	query := `
		SELECT business_id, scope_id, product_id, quantity, updated_at
		FROM stock WHERE scope_id = $1 AND product_id = $2`
	var s entity.StockRecord
	err := r.q.QueryRow(context.Background(), query, scopeID, productID).Scan(
		&s.BusinessID, &s.ScopeID, &s.ProductID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad de stock (por scope y producto).
func (r *StockRepo) Upsert(stock *entity.StockRecord) error {
	query := `
		INSERT INTO stock (business_id, scope_id, product_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (scope_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		stock.BusinessID, stock.ScopeID, stock.ProductID, stock.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// Decrement resta quantity solo si la cantidad actual alcanza. Un único
// UPDATE condicional: el lock de fila de PostgreSQL serializa a los
// decrementos concurrentes sobre la misma (scope, producto), así que dos
// confirms que juntos sobregirarían el stock nunca pasan ambos.
func (r *StockRepo) Decrement(scopeID, productID string, quantity decimal.Decimal) error {
	query := `
		UPDATE stock SET quantity = quantity - $3, updated_at = now()
		WHERE scope_id = $1 AND product_id = $2 AND quantity >= $3`
	cmd, err := r.q.Exec(context.Background(), query, scopeID, productID, quantity)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

// Increment suma quantity, creando la fila si no existe. Siempre aplica:
// un destino no puede desbordarse en este dominio.
func (r *StockRepo) Increment(businessID, scopeID, productID string, quantity decimal.Decimal) error {
	query := `
		INSERT INTO stock (business_id, scope_id, product_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (scope_id, product_id)
		DO UPDATE SET quantity = stock.quantity + EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, businessID, scopeID, productID, quantity)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	return nil
}
