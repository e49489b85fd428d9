package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/gestionapp/negocio-api/internal/application/inventory"
)

var _ inventory.AvailabilityCache = (*AvailabilityRedisCache)(nil)

// AvailabilityRedisCache cache consultivo de disponibilidad sobre Redis.
// Guarda cantidades con TTL corto; las transiciones del motor invalidan las
// claves afectadas. Nunca participa en la decisión de un confirm.
type AvailabilityRedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New construye el cache. Devuelve nil si addr está vacío: el resto de la
// aplicación trata un cache nil como "sin cache".
func New(addr, password string, ttl time.Duration) *AvailabilityRedisCache {
	if addr == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	return &AvailabilityRedisCache{client: client, ttl: ttl}
}

func key(scopeID, productID string) string {
	return fmt.Sprintf("stock:%s:%s", scopeID, productID)
}

// GetQuantity devuelve la cantidad cacheada y si hubo hit.
func (c *AvailabilityRedisCache) GetQuantity(ctx context.Context, scopeID, productID string) (decimal.Decimal, bool, error) {
	val, err := c.client.Get(ctx, key(scopeID, productID)).Result()
	if err != nil {
		if err == redis.Nil {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, err
	}
	qty, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false, err
	}
	return qty, true, nil
}

// SetQuantity guarda la cantidad con TTL.
func (c *AvailabilityRedisCache) SetQuantity(ctx context.Context, scopeID, productID string, quantity decimal.Decimal) error {
	return c.client.Set(ctx, key(scopeID, productID), quantity.String(), c.ttl).Err()
}

// Invalidate elimina las entradas de los productos dados en un scope.
func (c *AvailabilityRedisCache) Invalidate(ctx context.Context, scopeID string, productIDs ...string) error {
	if len(productIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(productIDs))
	for _, pid := range productIDs {
		keys = append(keys, key(scopeID, pid))
	}
	return c.client.Del(ctx, keys...).Err()
}

// Close cierra la conexión con Redis.
func (c *AvailabilityRedisCache) Close() error {
	return c.client.Close()
}
