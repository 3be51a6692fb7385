package repository

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/model"
)

// AttentionItem is one row from the attention-ranked conversation listing:
// a session plus its computed wait and priority.
type AttentionItem struct {
	Session     model.ChatSession `json:"sesion"`
	WaitMinutes int               `json:"tiempo_espera_minutos"`
	Priority    int               `json:"prioridad"`
}

type SessionRepository interface {
	GetByID(ctx context.Context, id string) (*model.ChatSession, error)

	// GetByPhone returns the most recently active session for a phone.
	GetByPhone(ctx context.Context, phone string) (*model.ChatSession, error)

	// SearchByPhone matches sessions whose phone contains the (normalized)
	// fragment, most recent first.
	SearchByPhone(ctx context.Context, phone string, limit int) ([]*model.ChatSession, error)

	// ListSince returns sessions created on or after "from" (zero = all),
	// most recent activity first.
	ListSince(ctx context.Context, from time.Time) ([]*model.ChatSession, error)

	// UpdateStage persists the pipeline stage only. It never touches
	// assignment or handled-by fields.
	UpdateStage(ctx context.Context, id string, stage model.PipelineStage) error

	UpdateFields(ctx context.Context, id string, fields map[string]any) error

	// Takeover assigns the session to an agent and marks it agent-handled.
	Takeover(ctx context.Context, id, agentID string) error

	// ReturnToBot is the only path that clears assignment: handled-by back
	// to bot, agent reference and handoff reason dropped.
	ReturnToBot(ctx context.Context, id string) error

	// ResetUnread zeroes the unread counter for a session.
	ResetUnread(ctx context.Context, id string) error

	// AttentionRanked returns up to limit sessions needing staff attention,
	// ordered by priority then wait time.
	AttentionRanked(ctx context.Context, limit int) ([]*AttentionItem, error)

	CountUnread(ctx context.Context) (int64, error)
	CountStaleQuoted(ctx context.Context, olderThan time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*model.ChatSession, error) {
	var s model.ChatSession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) GetByPhone(ctx context.Context, phone string) (*model.ChatSession, error) {
	var s model.ChatSession
	err := r.db.WithContext(ctx).
		Where("telefono = ?", phone).
		Order("ultimo_mensaje_at DESC").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) SearchByPhone(ctx context.Context, phone string, limit int) ([]*model.ChatSession, error) {
	if limit <= 0 {
		limit = 10
	}
	var res []*model.ChatSession
	err := r.db.WithContext(ctx).
		Where("telefono LIKE ?", "%"+phone+"%").
		Order("ultimo_mensaje_at DESC").
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *sessionRepository) ListSince(ctx context.Context, from time.Time) ([]*model.ChatSession, error) {
	q := r.db.WithContext(ctx).Model(&model.ChatSession{})
	if !from.IsZero() {
		q = q.Where("created_at >= ?", from)
	}
	var res []*model.ChatSession
	err := q.Order("ultimo_mensaje_at DESC").Find(&res).Error
	return res, err
}

func (r *sessionRepository) UpdateStage(ctx context.Context, id string, stage model.PipelineStage) error {
	res := r.db.WithContext(ctx).
		Model(&model.ChatSession{}).
		Where("id = ?", id).
		Updates(map[string]any{"pipeline_stage": stage, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *sessionRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&model.ChatSession{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *sessionRepository) Takeover(ctx context.Context, id, agentID string) error {
	now := time.Now()
	return r.UpdateFields(ctx, id, map[string]any{
		"vendedor_asignado_id": agentID,
		"vendedor_asignado_at": now,
		"atendido_por":         model.HandledByAgent,
		"updated_at":           now,
	})
}

func (r *sessionRepository) ReturnToBot(ctx context.Context, id string) error {
	return r.UpdateFields(ctx, id, map[string]any{
		"atendido_por":         model.HandledByBot,
		"vendedor_asignado_id": nil,
		"vendedor_asignado_at": nil,
		"motivo_handoff":       "",
		"updated_at":           time.Now(),
	})
}

func (r *sessionRepository) ResetUnread(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.ChatSession{}).
		Where("id = ?", id).
		Update("mensajes_no_leidos", 0).Error
}

func (r *sessionRepository) AttentionRanked(ctx context.Context, limit int) ([]*AttentionItem, error) {
	if limit <= 0 {
		limit = 5
	}
	// Handoffs first, then unread backlog, oldest activity breaking ties.
	var sessions []*model.ChatSession
	err := r.db.WithContext(ctx).
		Where("atendido_por = ? OR mensajes_no_leidos > 0", model.HandledByAgent).
		Order("ultimo_mensaje_at").
		Limit(limit * 4).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]*AttentionItem, 0, len(sessions))
	for _, s := range sessions {
		wait := int(now.Sub(s.ActivityTime()).Minutes())
		if wait < 0 {
			wait = 0
		}
		priority := s.UnreadCount
		if s.HandledBy == model.HandledByAgent {
			priority += 100
		}
		items = append(items, &AttentionItem{Session: *s, WaitMinutes: wait, Priority: priority})
	}
	sortAttention(items)
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func sortAttention(items []*AttentionItem) {
	// Highest priority first, longest wait breaking ties.
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority > items[j].Priority
		}
		return items[i].WaitMinutes > items[j].WaitMinutes
	})
}

func (r *sessionRepository) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ChatSession{}).
		Where("mensajes_no_leidos > 0").
		Count(&count).Error
	return count, err
}

func (r *sessionRepository) CountStaleQuoted(ctx context.Context, olderThan time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ChatSession{}).
		Where("pipeline_stage = ? AND ultimo_mensaje_at < ?", model.StageQuoted, olderThan).
		Count(&count).Error
	return count, err
}
