package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/model"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	ListBySession(ctx context.Context, sessionID string) ([]*model.Message, error)
	// ListSince returns all messages from "from" on (zero = all), oldest
	// first, for the analytics activity and response-time calculations.
	ListSince(ctx context.Context, from time.Time) ([]*model.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageRepository) ListBySession(ctx context.Context, sessionID string) ([]*model.Message, error) {
	var msgs []*model.Message
	err := r.db.WithContext(ctx).
		Where("sesion_id = ?", sessionID).
		Order("created_at").
		Find(&msgs).Error
	return msgs, err
}

func (r *messageRepository) ListSince(ctx context.Context, from time.Time) ([]*model.Message, error) {
	q := r.db.WithContext(ctx).Model(&model.Message{})
	if !from.IsZero() {
		q = q.Where("created_at >= ?", from)
	}
	var msgs []*model.Message
	err := q.Order("created_at").Find(&msgs).Error
	return msgs, err
}
