package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/model"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/repository"
)

func setupDashboard(t *testing.T) (*DashboardService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Order{}, &model.ChatSession{}, &model.InventoryItem{}))

	svc := NewDashboardService(
		repository.NewOrderRepository(db),
		repository.NewSessionRepository(db),
		repository.NewInventoryRepository(db),
		4,
	)
	return svc, db
}

func TestSummaryPendingActions(t *testing.T) {
	svc, db := setupDashboard(t)
	now := time.Now()
	stale := now.Add(-30 * time.Hour)
	freshQuote := now.Add(-time.Hour)

	sessions := []model.ChatSession{
		{ID: "s1", Phone: "1", PipelineStage: model.StageExploring, HandledBy: model.HandledByBot, UnreadCount: 3, CreatedAt: now},
		{ID: "s2", Phone: "2", PipelineStage: model.StageQuoted, HandledBy: model.HandledByBot, LastMessageAt: &stale, CreatedAt: now},
		{ID: "s3", Phone: "3", PipelineStage: model.StageQuoted, HandledBy: model.HandledByBot, LastMessageAt: &freshQuote, CreatedAt: now},
	}
	for i := range sessions {
		require.NoError(t, db.Create(&sessions[i]).Error)
	}

	paid := now.Add(-2 * time.Hour)
	orders := []model.Order{
		{ID: "o1", Phone: "1", CustomerName: "a", Status: model.OrderStatusPaid, Total: 1000, PaidAt: &paid, CreatedAt: paid},
		{ID: "o2", Phone: "2", CustomerName: "b", Status: model.OrderStatusPendingPayment, Total: 500, CreatedAt: now},
	}
	for i := range orders {
		require.NoError(t, db.Create(&orders[i]).Error)
	}

	sum, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 1, sum.Pending.UnreadConversations)
	assert.EqualValues(t, 1, sum.Pending.OrdersToShip)
	// Only the quote untouched for more than a day counts.
	assert.EqualValues(t, 1, sum.Pending.StaleQuotes)
	assert.EqualValues(t, 1, sum.Pending.PendingPaymentLinks)
}

func TestSummarySalesAndDeltas(t *testing.T) {
	svc, db := setupDashboard(t)
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today := dayStart
	yesterday := dayStart.Add(-12 * time.Hour)

	orders := []model.Order{
		{ID: "o1", Phone: "1", CustomerName: "a", Status: model.OrderStatusPaid, Total: 2000, PaidAt: &today, CreatedAt: today},
		{ID: "o2", Phone: "2", CustomerName: "b", Status: model.OrderStatusDelivered, Total: 1000, PaidAt: &yesterday, CreatedAt: yesterday},
	}
	for i := range orders {
		require.NoError(t, db.Create(&orders[i]).Error)
	}

	sum, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2000.0, sum.Today.Revenue)
	assert.Equal(t, 1, sum.Today.Orders)
	assert.Equal(t, 3000.0, sum.Week.Revenue)
	assert.Equal(t, 2, sum.Week.Orders)
	// Yesterday had 1000, today 2000: +100%.
	assert.InDelta(t, 100.0, sum.Today.RevenueDelta, 0.01)

	require.Len(t, sum.LastSeven, 7)
	var total float64
	for _, d := range sum.LastSeven {
		total += d.Revenue
	}
	assert.Equal(t, 3000.0, total)
}

func TestSummaryLowStockAlerts(t *testing.T) {
	svc, db := setupDashboard(t)
	items := []model.InventoryItem{
		{SnapshotID: "i1", Description: "LLANTA A", Size: "205/55R16", Stock: 2},
		{SnapshotID: "i2", Description: "LLANTA B", Size: "185/65R15", Stock: 9},
		{SnapshotID: "i3", Description: "LLANTA C", Size: "225/45R17", Stock: 0},
	}
	for i := range items {
		require.NoError(t, db.Create(&items[i]).Error)
	}

	sum, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Len(t, sum.LowStock, 1)
	assert.Equal(t, "i1", sum.LowStock[0].SnapshotID)
	assert.EqualValues(t, 2, sum.LowStock[0].Stock)
}

func TestPercentDelta(t *testing.T) {
	assert.Equal(t, 0.0, percentDelta(0, 0))
	assert.Equal(t, 100.0, percentDelta(50, 0))
	assert.Equal(t, -50.0, percentDelta(50, 100))
	assert.Equal(t, 25.0, percentDelta(125, 100))
}
