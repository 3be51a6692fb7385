package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/model"
)

func TestSortAttentionOrder(t *testing.T) {
	items := []*AttentionItem{
		{Session: model.ChatSession{ID: "low"}, Priority: 2, WaitMinutes: 500},
		{Session: model.ChatSession{ID: "handoff-short"}, Priority: 101, WaitMinutes: 5},
		{Session: model.ChatSession{ID: "handoff-long"}, Priority: 101, WaitMinutes: 90},
		{Session: model.ChatSession{ID: "unread"}, Priority: 8, WaitMinutes: 30},
	}
	sortAttention(items)

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.Session.ID
	}
	// Priority first, longer wait breaking ties.
	assert.Equal(t, []string{"handoff-long", "handoff-short", "unread", "low"}, ids)
}

func TestAttentionRankedPrioritizesHandoffs(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.ChatSession{}))
	repo := NewSessionRepository(db)

	old := time.Now().Add(-3 * time.Hour)
	recent := time.Now().Add(-10 * time.Minute)
	sessions := []model.ChatSession{
		{ID: "bot-quiet", Phone: "1", HandledBy: model.HandledByBot, UnreadCount: 0, LastMessageAt: &old},
		{ID: "bot-unread", Phone: "2", HandledBy: model.HandledByBot, UnreadCount: 5, LastMessageAt: &recent},
		{ID: "agent-waiting", Phone: "3", HandledBy: model.HandledByAgent, UnreadCount: 0, LastMessageAt: &old},
	}
	for i := range sessions {
		require.NoError(t, db.Create(&sessions[i]).Error)
	}

	items, err := repo.AttentionRanked(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, items, 2, "quiet bot session must not appear")
	assert.Equal(t, "agent-waiting", items[0].Session.ID)
	assert.Equal(t, "bot-unread", items[1].Session.ID)
	assert.GreaterOrEqual(t, items[0].WaitMinutes, 170)
}
