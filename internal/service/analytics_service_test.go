package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/model"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/repository"
)

func setupAnalytics(t *testing.T) (*AnalyticsService, *gorm.DB, *miniredis.Miniredis) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Order{}, &model.ChatSession{}, &model.Message{}))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	svc := NewAnalyticsService(
		repository.NewOrderRepository(db),
		repository.NewSessionRepository(db),
		repository.NewMessageRepository(db),
		client,
		time.Minute,
	)
	return svc, db, mr
}

func seedAnalyticsData(t *testing.T, db *gorm.DB) {
	t.Helper()
	now := time.Now()

	sessions := []model.ChatSession{
		{ID: "a", Phone: "1", SelectedSize: "205/55R16", PipelineStage: model.StagePaid, HandledBy: model.HandledByBot, CreatedAt: now.Add(-time.Hour)},
		{ID: "b", Phone: "2", SelectedSize: "205/55R16", PipelineStage: model.StageQuoted, HandledBy: model.HandledByBot, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "c", Phone: "3", PipelineStage: model.StageExploring, HandledBy: model.HandledByAgent, CreatedAt: now.Add(-3 * time.Hour)},
		{ID: "d", Phone: "4", SelectedSize: "185/65R15", PipelineStage: model.StageLinkSent, HandledBy: model.HandledByBot, CreatedAt: now.Add(-4 * time.Hour)},
	}
	for i := range sessions {
		require.NoError(t, db.Create(&sessions[i]).Error)
	}

	paid := now.Add(-30 * time.Minute)
	orders := []model.Order{
		{ID: "o1", Phone: "1", CustomerName: "x", Status: model.OrderStatusPaid, PaymentMethod: model.PaymentStripe, Subtotal: 3000, Total: 3000, PaidAt: &paid, CreatedAt: paid},
		{ID: "o2", Phone: "9", CustomerName: "y", Status: model.OrderStatusDelivered, PaymentMethod: model.PaymentCashInStore, Subtotal: 1000, Total: 1000, PaidAt: &paid, CreatedAt: paid},
		// Pending orders carry no revenue.
		{ID: "o3", Phone: "8", CustomerName: "z", Status: model.OrderStatusPendingPayment, Subtotal: 9000, Total: 9000, CreatedAt: paid},
	}
	for i := range orders {
		require.NoError(t, db.Create(&orders[i]).Error)
	}

	msgs := []model.Message{
		{ID: "m1", SessionID: "a", Kind: model.MessageFromCustomer, CreatedAt: now.Add(-10 * time.Minute)},
		{ID: "m2", SessionID: "a", Kind: model.MessageFromBot, CreatedAt: now.Add(-9 * time.Minute)},
		{ID: "m3", SessionID: "c", Kind: model.MessageFromCustomer, CreatedAt: now.Add(-20 * time.Minute)},
		{ID: "m4", SessionID: "c", Kind: model.MessageFromAgent, CreatedAt: now.Add(-10 * time.Minute)},
	}
	for i := range msgs {
		require.NoError(t, db.Create(&msgs[i]).Error)
	}
}

func TestSnapshotKPIs(t *testing.T) {
	svc, db, _ := setupAnalytics(t)
	seedAnalyticsData(t, db)

	snap, err := svc.Snapshot(context.Background(), Range30d)
	require.NoError(t, err)

	assert.Equal(t, 4000.0, snap.KPIs.Revenue)
	assert.Equal(t, 2, snap.KPIs.Orders)
	assert.Equal(t, 2000.0, snap.KPIs.AverageTicket)
	// 1 of 4 sessions reached pagado or beyond.
	assert.InDelta(t, 25.0, snap.KPIs.ConversionRate, 0.01)
}

func TestSnapshotFunnelIsCumulative(t *testing.T) {
	svc, db, _ := setupAnalytics(t)
	seedAnalyticsData(t, db)

	snap, err := svc.Snapshot(context.Background(), Range30d)
	require.NoError(t, err)

	assert.Equal(t, 4, snap.Funnel.Conversations)
	assert.Equal(t, 3, snap.Funnel.WithSize)
	// Paid and link-sent sessions count as quoted too.
	assert.Equal(t, 3, snap.Funnel.Quoted)
	assert.Equal(t, 2, snap.Funnel.LinkSent)
	assert.Equal(t, 1, snap.Funnel.Paid)
}

func TestSnapshotTopSizesAndMethods(t *testing.T) {
	svc, db, _ := setupAnalytics(t)
	seedAnalyticsData(t, db)

	snap, err := svc.Snapshot(context.Background(), Range30d)
	require.NoError(t, err)

	require.NotEmpty(t, snap.TopSizes)
	assert.Equal(t, "205/55R16", snap.TopSizes[0].Size)
	assert.Equal(t, 2, snap.TopSizes[0].Count)

	require.Len(t, snap.PaymentMethods, 2)
	for _, m := range snap.PaymentMethods {
		if m.Method == string(model.PaymentStripe) {
			assert.Equal(t, 3000.0, m.Revenue)
		}
	}
}

func TestSnapshotBotVsAgent(t *testing.T) {
	svc, db, _ := setupAnalytics(t)
	seedAnalyticsData(t, db)

	snap, err := svc.Snapshot(context.Background(), Range30d)
	require.NoError(t, err)

	assert.Equal(t, 3, snap.Bot.Sessions)
	assert.Equal(t, 1, snap.Bot.Conversions)
	assert.InDelta(t, 1.0, snap.Bot.AvgResponseMins, 0.01)

	assert.Equal(t, 1, snap.Agent.Sessions)
	assert.Equal(t, 0, snap.Agent.Conversions)
	assert.InDelta(t, 10.0, snap.Agent.AvgResponseMins, 0.01)
}

func TestSnapshotCachedInRedis(t *testing.T) {
	svc, db, mr := setupAnalytics(t)
	seedAnalyticsData(t, db)
	ctx := context.Background()

	first, err := svc.Snapshot(ctx, Range7d)
	require.NoError(t, err)
	assert.True(t, mr.Exists("analytics:7d"))

	// New data does not show until the cache entry expires.
	paid := time.Now()
	require.NoError(t, db.Create(&model.Order{
		ID: "o-late", Phone: "7", CustomerName: "w",
		Status: model.OrderStatusPaid, Total: 500, PaidAt: &paid, CreatedAt: paid,
	}).Error)

	cached, err := svc.Snapshot(ctx, Range7d)
	require.NoError(t, err)
	assert.Equal(t, first.KPIs.Revenue, cached.KPIs.Revenue)

	mr.FastForward(2 * time.Minute)
	fresh, err := svc.Snapshot(ctx, Range7d)
	require.NoError(t, err)
	assert.Equal(t, first.KPIs.Revenue+500, fresh.KPIs.Revenue)
}

func TestSnapshotRangeWindow(t *testing.T) {
	svc, db, _ := setupAnalytics(t)

	old := time.Now().AddDate(0, 0, -60)
	require.NoError(t, db.Create(&model.Order{
		ID: "o-old", Phone: "5", CustomerName: "v",
		Status: model.OrderStatusPaid, Total: 9999, PaidAt: &old, CreatedAt: old,
	}).Error)

	snap30, err := svc.Snapshot(context.Background(), Range30d)
	require.NoError(t, err)
	assert.Zero(t, snap30.KPIs.Revenue)

	snapAll, err := svc.Snapshot(context.Background(), RangeAll)
	require.NoError(t, err)
	assert.Equal(t, 9999.0, snapAll.KPIs.Revenue)
}
