package repository

import (
	"context"
	"time"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/model"
)

// OrderListFilter narrows List results. Zero values mean "no filter".
type OrderListFilter struct {
	Status model.OrderStatus
	// Search matches phone, customer name or order id.
	Search string
	Limit  int
	Offset int
}

// OrderRepository owns all reads and writes against the pedidos table.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error

	GetByID(ctx context.Context, id string) (*model.Order, error)

	List(ctx context.Context, filter OrderListFilter) ([]*model.Order, error)

	// UpdateFields applies a partial update to one order.
	UpdateFields(ctx context.Context, id string, fields map[string]any) error

	// CountByStatus counts orders currently in the given status.
	CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error)

	// ListPaidBetween returns revenue-bearing orders (paid, shipped or
	// delivered) whose payment time falls in [from, to). A zero "from"
	// drops the lower bound.
	ListPaidBetween(ctx context.Context, from, to time.Time) ([]*model.Order, error)
}
