package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/gateway"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/model"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/realtime"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/repository"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/pkg/logger"
)

var (
	ErrUnknownStatus    = errors.New("estado de pedido desconocido")
	ErrTrackingRequired = errors.New("el número de guía es requerido")
	ErrPhoneRequired    = errors.New("el teléfono es requerido")
	ErrNameRequired     = errors.New("el nombre del cliente es requerido")
	ErrItemsRequired    = errors.New("debe agregar al menos un producto")
)

// statusNotifier is the async, best-effort notification hook.
type statusNotifier interface {
	Enqueue(orderID string, status model.OrderStatus, tracking *gateway.TrackingInfo)
}

// feedPublisher pushes session change events to the realtime feed.
type feedPublisher interface {
	Publish(ctx context.Context, ev realtime.Event)
}

// OrderService applies order status changes and fans out their side effects:
// the session pipeline-stage sync, the customer notification and the change
// feed. Only the primary write can fail the operation; everything after it
// is best-effort.
type OrderService struct {
	orders   repository.OrderRepository
	sessions repository.SessionRepository
	notifier statusNotifier
	feed     feedPublisher
}

func NewOrderService(orders repository.OrderRepository, sessions repository.SessionRepository, notifier statusNotifier, feed feedPublisher) *OrderService {
	return &OrderService{orders: orders, sessions: sessions, notifier: notifier, feed: feed}
}

func (s *OrderService) Get(ctx context.Context, id string) (*model.Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *OrderService) List(ctx context.Context, filter repository.OrderListFilter) ([]*model.Order, error) {
	return s.orders.List(ctx, filter)
}

// UpdateStatus persists a status change and runs its side effects. The
// target must be a recognized value; reachability from the stored status is
// not re-checked here (the table in status.go drives the UI only).
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	if !status.Valid() {
		return ErrUnknownStatus
	}

	now := time.Now()
	fields := map[string]any{"estado": status, "updated_at": now}
	switch status {
	case model.OrderStatusPaid:
		fields["fecha_pago"] = now
	case model.OrderStatusShipped:
		fields["fecha_envio"] = now
	case model.OrderStatusDelivered:
		fields["fecha_entrega"] = now
	}

	if err := s.orders.UpdateFields(ctx, orderID, fields); err != nil {
		return err
	}

	s.syncPipelineStage(ctx, orderID, status)

	switch status {
	case model.OrderStatusPaid, model.OrderStatusShipped, model.OrderStatusDelivered:
		if s.notifier != nil {
			s.notifier.Enqueue(orderID, status, nil)
		}
	}
	return nil
}

// MarkShipped bundles the shipped transition with mandatory tracking info.
func (s *OrderService) MarkShipped(ctx context.Context, orderID, trackingNumber, carrier string) error {
	if strings.TrimSpace(trackingNumber) == "" {
		return ErrTrackingRequired
	}

	now := time.Now()
	err := s.orders.UpdateFields(ctx, orderID, map[string]any{
		"estado":      model.OrderStatusShipped,
		"fecha_envio": now,
		"numero_guia": trackingNumber,
		"carrier":     carrier,
		"updated_at":  now,
	})
	if err != nil {
		return err
	}

	s.syncPipelineStage(ctx, orderID, model.OrderStatusShipped)

	if s.notifier != nil {
		s.notifier.Enqueue(orderID, model.OrderStatusShipped, &gateway.TrackingInfo{
			TrackingNumber: trackingNumber,
			Carrier:        carrier,
		})
	}
	return nil
}

func (s *OrderService) UpdateTracking(ctx context.Context, orderID, trackingNumber, carrier string) error {
	return s.orders.UpdateFields(ctx, orderID, map[string]any{
		"numero_guia": trackingNumber,
		"carrier":     carrier,
		"updated_at":  time.Now(),
	})
}

func (s *OrderService) UpdateNotes(ctx context.Context, orderID, notes string) error {
	return s.orders.UpdateFields(ctx, orderID, map[string]any{
		"notas":      notes,
		"updated_at": time.Now(),
	})
}

// syncPipelineStage reflects an order status onto the linked session's
// pipeline stage. The session is found by explicit reference first, phone
// match as fallback. Assignment fields are never touched: the agent keeps
// the conversation until an explicit return-to-bot. Failures here are
// logged, never propagated — the order update is already committed.
func (s *OrderService) syncPipelineStage(ctx context.Context, orderID string, status model.OrderStatus) {
	stage, ok := StageForStatus(status)
	if !ok {
		return
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		logger.Warn("pipeline sync: fetch order", zap.String("order", orderID), zap.Error(err))
		return
	}

	var session *model.ChatSession
	if order.SessionID != nil && *order.SessionID != "" {
		session, err = s.sessions.GetByID(ctx, *order.SessionID)
	} else if order.Phone != "" {
		session, err = s.sessions.GetByPhone(ctx, order.Phone)
	}
	if err != nil || session == nil {
		return
	}

	if err := s.sessions.UpdateStage(ctx, session.ID, stage); err != nil {
		logger.Warn("pipeline sync: update stage",
			zap.String("session", session.ID),
			zap.String("stage", string(stage)),
			zap.Error(err))
		return
	}

	if s.feed != nil {
		session.PipelineStage = stage
		s.feed.Publish(ctx, realtime.Event{Type: realtime.EventUpdate, Record: session})
	}
}

// ManualSaleItem is one product sold over the counter.
type ManualSaleItem struct {
	SnapshotID  string  `json:"snapshot_id"`
	Description string  `json:"descripcion"`
	Size        string  `json:"medida"`
	UnitPrice   float64 `json:"precio_con_iva"`
	Quantity    int     `json:"cantidad"`
}

// ManualSaleInput describes an in-store sale.
type ManualSaleInput struct {
	Phone         string              `json:"telefono" binding:"required,mxphone"`
	CustomerName  string              `json:"nombre_cliente"`
	Items         []ManualSaleItem    `json:"items"`
	PaymentMethod model.PaymentMethod `json:"metodo_pago"`
	Notes         string              `json:"notas"`
	SessionID     string              `json:"lead_id"`
}

// CreateManualSale records an in-store sale. The order is created directly
// in entregado — the customer already paid and took the product — so the
// transition table is bypassed entirely. No shipping for store pickup.
func (s *OrderService) CreateManualSale(ctx context.Context, in ManualSaleInput) (*model.Order, error) {
	if strings.TrimSpace(in.Phone) == "" {
		return nil, ErrPhoneRequired
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		return nil, ErrNameRequired
	}
	if len(in.Items) == 0 {
		return nil, ErrItemsRequired
	}

	var subtotal float64
	items := make(model.OrderItems, 0, len(in.Items))
	for _, it := range in.Items {
		subtotal += it.UnitPrice * float64(it.Quantity)
		size := it.Size
		if size == "" {
			size = "N/A"
		}
		items = append(items, model.OrderItem{
			Size:        size,
			Brand:       brandFromDescription(it.Description),
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}

	now := time.Now()
	order := &model.Order{
		ID:              uuid.NewString(),
		Phone:           in.Phone,
		CustomerName:    in.CustomerName,
		ShippingAddress: "Recoger en sucursal",
		Items:           items,
		Subtotal:        subtotal,
		ShippingCost:    0,
		Total:           subtotal,
		Status:          model.OrderStatusDelivered,
		PaymentMethod:   in.PaymentMethod,
		Origin:          model.OriginStore,
		PaidAt:          &now,
		DeliveredAt:     &now,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.SessionID != "" {
		order.SessionID = &in.SessionID
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	// Linked lead jumps straight to entregado; nothing else is cleared.
	if in.SessionID != "" {
		err := s.sessions.UpdateFields(ctx, in.SessionID, map[string]any{
			"pipeline_stage": model.StageDelivered,
			"pedido_id":      order.ID,
			"updated_at":     now,
		})
		if err != nil {
			logger.Warn("manual sale: update session", zap.String("session", in.SessionID), zap.Error(err))
		} else if s.feed != nil {
			if session, err := s.sessions.GetByID(ctx, in.SessionID); err == nil {
				s.feed.Publish(ctx, realtime.Event{Type: realtime.EventUpdate, Record: session})
			}
		}
	}
	return order, nil
}

func brandFromDescription(desc string) string {
	upper := strings.ToUpper(desc)
	switch {
	case strings.Contains(upper, "NEREUS"):
		return "NEREUS"
	case strings.Contains(upper, "TORNEL"):
		return "TORNEL"
	default:
		return "Otro"
	}
}
