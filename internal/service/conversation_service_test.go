package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/model"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/repository"
)

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) SendReply(ctx context.Context, sessionID, message, userID string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, message)
	return nil
}

func setupConversations(t *testing.T) (*ConversationService, *gorm.DB, *fakeSender, *fakeFeed) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.ChatSession{}, &model.Message{}))

	sender := &fakeSender{}
	feed := &fakeFeed{}
	svc := NewConversationService(
		repository.NewSessionRepository(db),
		repository.NewMessageRepository(db),
		sender,
		feed,
	)
	return svc, db, sender, feed
}

func seedConvSession(t *testing.T, db *gorm.DB, id, phone, name string, handled model.HandledBy, lastMsg time.Time) {
	t.Helper()
	sess := model.ChatSession{
		ID:            id,
		Phone:         phone,
		CustomerName:  name,
		PipelineStage: model.StageExploring,
		HandledBy:     handled,
		LastMessageAt: &lastMsg,
		CreatedAt:     lastMsg.Add(-time.Hour),
	}
	require.NoError(t, db.Create(&sess).Error)
}

func TestListHandoffsSortFirst(t *testing.T) {
	svc, db, _, _ := setupConversations(t)
	now := time.Now()
	seedConvSession(t, db, "bot-new", "111", "Ana", model.HandledByBot, now)
	seedConvSession(t, db, "agent-old", "222", "Beto", model.HandledByAgent, now.Add(-time.Hour))

	out, err := svc.List(context.Background(), FilterAll, "", "")
	require.NoError(t, err)
	require.Len(t, out, 2)
	// Agent-handled sessions lead even with older activity.
	assert.Equal(t, "agent-old", out[0].ID)
	assert.Equal(t, "bot-new", out[1].ID)
}

func TestListFilters(t *testing.T) {
	svc, db, _, _ := setupConversations(t)
	now := time.Now()
	seedConvSession(t, db, "s-bot", "111", "Ana", model.HandledByBot, now)
	seedConvSession(t, db, "s-agent", "222", "Beto", model.HandledByAgent, now)

	agentID := "agent-1"
	require.NoError(t, db.Model(&model.ChatSession{}).
		Where("id = ?", "s-agent").
		Update("vendedor_asignado_id", agentID).Error)

	handoff, err := svc.List(context.Background(), FilterHandoff, "", "")
	require.NoError(t, err)
	require.Len(t, handoff, 1)
	assert.Equal(t, "s-agent", handoff[0].ID)

	bot, err := svc.List(context.Background(), FilterBot, "", "")
	require.NoError(t, err)
	require.Len(t, bot, 1)
	assert.Equal(t, "s-bot", bot[0].ID)

	mine, err := svc.List(context.Background(), FilterMine, "", agentID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "s-agent", mine[0].ID)

	notMine, err := svc.List(context.Background(), FilterMine, "", "otro")
	require.NoError(t, err)
	assert.Empty(t, notMine)
}

func TestListSearchByNameAndPhone(t *testing.T) {
	svc, db, _, _ := setupConversations(t)
	now := time.Now()
	seedConvSession(t, db, "s1", "+5213312345678", "María López", model.HandledByBot, now)
	seedConvSession(t, db, "s2", "+5219988776655", "Juan Pérez", model.HandledByBot, now)

	byName, err := svc.List(context.Background(), FilterAll, "maría", "")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "s1", byName[0].ID)

	byPhone, err := svc.List(context.Background(), FilterAll, "998877", "")
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, "s2", byPhone[0].ID)
}

func TestTakeoverAndReturnToBot(t *testing.T) {
	svc, db, _, feed := setupConversations(t)
	seedConvSession(t, db, "s1", "111", "Ana", model.HandledByBot, time.Now())

	require.NoError(t, svc.Takeover(context.Background(), "s1", "agent-1"))
	var got model.ChatSession
	require.NoError(t, db.First(&got, "id = ?", "s1").Error)
	assert.Equal(t, model.HandledByAgent, got.HandledBy)
	require.NotNil(t, got.AssignedAgentID)
	assert.Equal(t, "agent-1", *got.AssignedAgentID)
	assert.NotNil(t, got.AssignedAt)

	require.NoError(t, svc.ReturnToBot(context.Background(), "s1"))
	// Read into a fresh struct: gorm does not reset pointer fields left
	// over in a reused destination when the column is NULL.
	var after model.ChatSession
	require.NoError(t, db.First(&after, "id = ?", "s1").Error)
	assert.Equal(t, model.HandledByBot, after.HandledBy)
	assert.Nil(t, after.AssignedAgentID)
	assert.Nil(t, after.AssignedAt)

	assert.Len(t, feed.events, 2)
}

func TestTakeoverRequiresAgent(t *testing.T) {
	svc, _, _, _ := setupConversations(t)
	err := svc.Takeover(context.Background(), "s1", "")
	assert.ErrorIs(t, err, ErrNoAgent)
}

func TestSendReply(t *testing.T) {
	svc, db, sender, _ := setupConversations(t)
	seedConvSession(t, db, "s1", "111", "Ana", model.HandledByAgent, time.Now())
	ctx := context.Background()

	require.NoError(t, svc.SendReply(ctx, "s1", "Hola, con gusto le cotizo", "agent-1"))
	assert.Equal(t, []string{"Hola, con gusto le cotizo"}, sender.sent)

	assert.ErrorIs(t, svc.SendReply(ctx, "s1", "   ", "agent-1"), ErrEmptyMessage)
	assert.ErrorIs(t, svc.SendReply(ctx, "s1", "hola", ""), ErrNoAgent)

	// Gateway failures surface to the caller.
	sender.err = errors.New("whatsapp caído")
	assert.Error(t, svc.SendReply(ctx, "s1", "hola", "agent-1"))
}

func TestSearchLeadNormalizesPhone(t *testing.T) {
	svc, db, _, _ := setupConversations(t)
	seedConvSession(t, db, "s1", "+5213312345678", "Ana", model.HandledByBot, time.Now())

	leads, err := svc.SearchLead(context.Background(), "33 1234-56")
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "s1", leads[0].ID)

	empty, err := svc.SearchLead(context.Background(), "abc")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestResetUnread(t *testing.T) {
	svc, db, _, _ := setupConversations(t)
	now := time.Now()
	sess := model.ChatSession{
		ID: "s1", Phone: "111", PipelineStage: model.StageExploring,
		HandledBy: model.HandledByBot, UnreadCount: 5, CreatedAt: now,
	}
	require.NoError(t, db.Create(&sess).Error)

	require.NoError(t, svc.ResetUnread(context.Background(), "s1"))
	var got model.ChatSession
	require.NoError(t, db.First(&got, "id = ?", "s1").Error)
	assert.Zero(t, got.UnreadCount)
}
