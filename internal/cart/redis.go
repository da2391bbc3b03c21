package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/vedantkasargod/walmart-x1/internal/domain"
)

// Each cart is a Redis hash: field = entry id, value = JSON entry. The whole
// record expires after an hour of inactivity; every mutation resets the clock.
const cartTTL = time.Hour

func NewRedisManager(client *redis.Client, log *zap.Logger) *RedisManager {
	return &RedisManager{
		client: client,
		log:    log,
	}
}

type RedisManager struct {
	client *redis.Client
	log    *zap.Logger
	sfg    singleflight.Group // Prevents stampede on concurrent List calls
}

func (m *RedisManager) Add(ctx context.Context, userID string, product domain.Product, quantity int) (*domain.CartEntry, error) {
	if quantity < 1 {
		quantity = 1
	}

	entry := &domain.CartEntry{
		EntryID:   uuid.NewString(),
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		ImageURL:  product.ImageURL,
		Quantity:  quantity,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("marshal cart entry: %w", err)
	}

	key := cartKey(userID)
	if err := m.client.HSet(ctx, key, entry.EntryID, data).Err(); err != nil {
		return nil, fmt.Errorf("%w: hset cart: %v", domain.ErrStoreUnavailable, err)
	}
	if err := m.client.Expire(ctx, key, cartTTL).Err(); err != nil {
		return nil, fmt.Errorf("%w: refresh cart ttl: %v", domain.ErrStoreUnavailable, err)
	}

	m.log.Info("added cart entry",
		zap.String("user_id", userID),
		zap.String("entry_id", entry.EntryID),
		zap.Int64("product_id", product.ID))
	return entry, nil
}

// Remove deletes one entry by id. Removing an entry that is not there is not
// an error; it reports removed=false.
func (m *RedisManager) Remove(ctx context.Context, userID, entryID string) (bool, error) {
	key := cartKey(userID)
	n, err := m.client.HDel(ctx, key, entryID).Result()
	if err != nil {
		return false, fmt.Errorf("%w: hdel cart entry: %v", domain.ErrStoreUnavailable, err)
	}

	// Expire on a now-empty or missing key is a no-op, which is fine.
	if err := m.client.Expire(ctx, key, cartTTL).Err(); err != nil {
		return false, fmt.Errorf("%w: refresh cart ttl: %v", domain.ErrStoreUnavailable, err)
	}

	if n == 0 {
		m.log.Warn("attempted to remove non-existent cart entry",
			zap.String("user_id", userID),
			zap.String("entry_id", entryID))
	}
	return n > 0, nil
}

// List returns all current entries, order not guaranteed.
func (m *RedisManager) List(ctx context.Context, userID string) ([]domain.CartEntry, error) {
	v, err, _ := m.sfg.Do(userID, func() (interface{}, error) {
		fields, err := m.client.HGetAll(ctx, cartKey(userID)).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: hgetall cart: %v", domain.ErrStoreUnavailable, err)
		}

		entries := make([]domain.CartEntry, 0, len(fields))
		for field, raw := range fields {
			var entry domain.CartEntry
			if err := json.Unmarshal([]byte(raw), &entry); err != nil {
				return nil, fmt.Errorf("unmarshal cart entry %s: %w", field, err)
			}
			entries = append(entries, entry)
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.CartEntry), nil
}

func (m *RedisManager) Clear(ctx context.Context, userID string) error {
	if err := m.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("%w: delete cart: %v", domain.ErrStoreUnavailable, err)
	}
	m.log.Info("cleared cart", zap.String("user_id", userID))
	return nil
}

func cartKey(userID string) string {
	return fmt.Sprintf("temp_cart:%s", userID)
}
