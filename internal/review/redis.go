package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vedantkasargod/walmart-x1/internal/domain"
)

// The session is one Redis string holding the whole JSON item list. It is
// deliberately not field-addressable: a save replaces the previous value in
// full, and expiry is the only garbage collection.
const sessionTTL = 30 * time.Minute

func NewRedisManager(client *redis.Client, log *zap.Logger) *RedisManager {
	return &RedisManager{
		client: client,
		log:    log,
	}
}

type RedisManager struct {
	client *redis.Client
	log    *zap.Logger
}

func (m *RedisManager) Save(ctx context.Context, userID string, items []domain.CandidateItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal review session: %w", err)
	}

	if err := m.client.Set(ctx, sessionKey(userID), data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("%w: set review session: %v", domain.ErrStoreUnavailable, err)
	}

	m.log.Info("saved review session",
		zap.String("user_id", userID),
		zap.Int("items", len(items)))
	return nil
}

func (m *RedisManager) Get(ctx context.Context, userID string) ([]domain.CandidateItem, error) {
	data, err := m.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get review session: %v", domain.ErrStoreUnavailable, err)
	}

	var items []domain.CandidateItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal review session: %w", err)
	}
	return items, nil
}

func (m *RedisManager) Clear(ctx context.Context, userID string) error {
	if err := m.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("%w: delete review session: %v", domain.ErrStoreUnavailable, err)
	}
	m.log.Info("cleared review session", zap.String("user_id", userID))
	return nil
}

func sessionKey(userID string) string {
	return fmt.Sprintf("review_session:%s", userID)
}
