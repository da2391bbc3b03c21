package review

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vedantkasargod/walmart-x1/internal/domain"
)

func setupTestManager(t *testing.T) (*RedisManager, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisManager(client, zap.NewNop()), mr
}

func TestSaveGet_RoundTripPreservesOrder(t *testing.T) {
	m, _ := setupTestManager(t)
	ctx := context.Background()

	items := []domain.CandidateItem{
		{ID: 3, Name: "cake", Price: 12, Quantity: 1, Source: domain.SourceCurated},
		{ID: 1, Name: "candles", Price: 4, Quantity: 2, Source: domain.SourceCurated},
		{ID: 9, Name: "balloons", Price: 6, Quantity: 3, Source: domain.SourceCurated},
	}
	require.NoError(t, m.Save(ctx, "user1", items))

	got, err := m.Get(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, items, got)
}

func TestSave_ReplacesPriorSession(t *testing.T) {
	m, _ := setupTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, "user1", []domain.CandidateItem{{ID: 1, Name: "a", Quantity: 1}}))
	require.NoError(t, m.Save(ctx, "user1", []domain.CandidateItem{{ID: 2, Name: "b", Quantity: 5}}))

	got, err := m.Get(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestSave_SetsTTL(t *testing.T) {
	m, mr := setupTestManager(t)

	require.NoError(t, m.Save(context.Background(), "user1", []domain.CandidateItem{{ID: 1, Quantity: 1}}))
	assert.Equal(t, 30*time.Minute, mr.TTL(sessionKey("user1")))
}

func TestGet_NoSession(t *testing.T) {
	m, _ := setupTestManager(t)

	_, err := m.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestGet_ExpiredSession(t *testing.T) {
	m, mr := setupTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, "user1", []domain.CandidateItem{{ID: 1, Quantity: 1}}))
	mr.FastForward(31 * time.Minute)

	_, err := m.Get(ctx, "user1")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestClear_RemovesSession(t *testing.T) {
	m, _ := setupTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, "user1", []domain.CandidateItem{{ID: 1, Quantity: 1}}))
	require.NoError(t, m.Clear(ctx, "user1"))

	_, err := m.Get(ctx, "user1")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSave_StoreUnavailable(t *testing.T) {
	m, mr := setupTestManager(t)
	mr.Close()

	err := m.Save(context.Background(), "user1", []domain.CandidateItem{{ID: 1, Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
