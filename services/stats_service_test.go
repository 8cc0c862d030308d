package services

import (
	"context"
	"modfy_server/structs/tables"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	products := []*tables.Product{
		{ID: uuid.New(), Name: "Plenty", IsActive: true, StockQuantity: 40},
		{ID: uuid.New(), Name: "Few", IsActive: true, StockQuantity: 4},
		{ID: uuid.New(), Name: "None", IsActive: true, StockQuantity: 0},
		{ID: uuid.New(), Name: "Hidden", IsActive: false, StockQuantity: 1},
	}
	orders := []*tables.Order{
		{Status: tables.OrderStatusPending, TotalAmount: 1000},
		{Status: tables.OrderStatusDelivered, TotalAmount: 2500},
		{Status: tables.OrderStatusCancelled, TotalAmount: 9999},
	}

	stats := Aggregate(products, orders, 7)

	assert.Equal(t, 4, stats.TotalProducts)
	assert.Equal(t, 3, stats.ActiveProducts)
	assert.Equal(t, 3, stats.TotalOrders)
	assert.Equal(t, 7, stats.TotalUsers)
	assert.Equal(t, uint64(3500), stats.TotalRevenue)
	assert.Equal(t, 1, stats.OrdersByStatus[tables.OrderStatusCancelled])

	require.Len(t, stats.LowStock, 2)
	assert.Equal(t, "None", stats.LowStock[0].Name)
	assert.Equal(t, "Few", stats.LowStock[1].Name)
}

func TestDashboardAndHealth(t *testing.T) {
	sm, store := newTestServices(t)
	ctx := context.Background()
	seedProduct(t, store, "Dashboard Tee", 2500)
	seedUser(t, sm, "dash@example.com")

	stats, err := sm.StatsService.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalProducts)
	assert.Equal(t, 1, stats.TotalUsers)
	assert.Empty(t, stats.LowStock)

	db, err := sm.HealthService.GetDatabaseHealthStatus(ctx)
	require.NoError(t, err)
	assert.True(t, db.Connected)

	cache, err := sm.HealthService.GetCacheHealthStatus(ctx)
	require.NoError(t, err)
	assert.False(t, cache.Configured)
}
