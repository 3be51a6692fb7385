package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/model"
)

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderListFilter) ([]*model.Order, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{})
	if filter.Status != "" {
		q = q.Where("estado = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("telefono LIKE ? OR nombre_cliente LIKE ? OR id LIKE ?", like, like, like)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var orders []*model.Order
	err := q.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
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

func (r *orderRepository) CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("estado = ?", status).
		Count(&count).Error
	return count, err
}

func (r *orderRepository) ListPaidBetween(ctx context.Context, from, to time.Time) ([]*model.Order, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("estado IN ?", []model.OrderStatus{
			model.OrderStatusPaid, model.OrderStatusShipped, model.OrderStatusDelivered,
		})
	if !from.IsZero() {
		q = q.Where("fecha_pago >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("fecha_pago < ?", to)
	}

	var orders []*model.Order
	err := q.Order("fecha_pago").Find(&orders).Error
	return orders, err
}
