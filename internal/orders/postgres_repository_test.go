package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vedantkasargod/walmart-x1/internal/domain"
)

func setupTestDB(t *testing.T) (*PostgresRepository, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	creds := &Credentials{
		Host:              host,
		Port:              port.Int(),
		User:              "testuser",
		Password:          "testpass",
		DBName:            "testdb",
		MigrationsDirPath: "../../migrations",
	}

	repo, err := NewPostgresRepository(creds)
	require.NoError(t, err)

	err = repo.RunMigrations(creds)
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func newTestOrder(userID string, createdAt time.Time) *domain.Order {
	order := &domain.Order{
		ID:          uuid.New(),
		UserID:      userID,
		TotalAmount: 17.5,
		CreatedAt:   createdAt,
	}
	order.Items = []domain.OrderLineItem{
		{OrderID: order.ID, ProductID: 1, ProductName: "milk", ImageURL: "http://img/milk", Quantity: 3, PriceAtPurchase: 2.5},
		{OrderID: order.ID, ProductID: 2, ProductName: "eggs", Quantity: 2, PriceAtPurchase: 5},
	}
	return order
}

func TestCreateOrder_Success(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	order := newTestOrder("user-123", time.Now().UTC())
	require.NoError(t, repo.CreateOrder(context.Background(), order))

	items, err := repo.LastOrderItems(context.Background(), "user-123")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "milk", items[0].ProductName)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 2.5, items[0].PriceAtPurchase)
}

func TestLastOrderItems_PicksMostRecentOrder(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	older := newTestOrder("user-123", time.Now().UTC().Add(-time.Hour))
	require.NoError(t, repo.CreateOrder(context.Background(), older))

	newer := &domain.Order{
		ID:          uuid.New(),
		UserID:      "user-123",
		TotalAmount: 4,
		CreatedAt:   time.Now().UTC(),
	}
	newer.Items = []domain.OrderLineItem{
		{OrderID: newer.ID, ProductID: 9, ProductName: "bread", Quantity: 1, PriceAtPurchase: 4},
	}
	require.NoError(t, repo.CreateOrder(context.Background(), newer))

	items, err := repo.LastOrderItems(context.Background(), "user-123")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "bread", items[0].ProductName)
}

func TestLastOrderItems_NoOrders(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.LastOrderItems(context.Background(), "user-without-orders")
	assert.ErrorIs(t, err, ErrNoOrders)
}

func TestLastOrderItems_OtherUsersOrdersInvisible(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	order := newTestOrder("user-a", time.Now().UTC())
	require.NoError(t, repo.CreateOrder(context.Background(), order))

	_, err := repo.LastOrderItems(context.Background(), "user-b")
	assert.ErrorIs(t, err, ErrNoOrders)
}
