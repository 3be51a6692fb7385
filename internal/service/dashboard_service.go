package service

import (
	"context"
	"time"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/model"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/repository"
)

// staleQuoteAge is how long a quoted session may sit untouched before it
// counts as needing follow-up.
const staleQuoteAge = 24 * time.Hour

// PendingActions are the "needs attention now" counters on the dashboard.
type PendingActions struct {
	UnreadConversations int64 `json:"conversaciones_sin_leer"`
	OrdersToShip        int64 `json:"pedidos_por_enviar"`
	StaleQuotes         int64 `json:"cotizaciones_sin_seguimiento"`
	PendingPaymentLinks int64 `json:"links_pendientes"`
}

// SalesPeriod holds revenue and order count for one window plus the delta
// against the equivalent previous window, in percent.
type SalesPeriod struct {
	Revenue      float64 `json:"ingresos"`
	Orders       int     `json:"pedidos"`
	RevenueDelta float64 `json:"delta_ingresos"`
	OrdersDelta  float64 `json:"delta_pedidos"`
}

type DailySales struct {
	Date    string  `json:"fecha"`
	Revenue float64 `json:"ingresos"`
	Orders  int     `json:"pedidos"`
}

type StockAlert struct {
	SnapshotID  string `json:"id"`
	Size        string `json:"medida"`
	Description string `json:"descripcion"`
	Stock       int64  `json:"existencia"`
}

// DashboardSummary is everything the landing screen shows in one payload.
type DashboardSummary struct {
	Pending   PendingActions              `json:"pendientes"`
	Today     SalesPeriod                 `json:"hoy"`
	Week      SalesPeriod                 `json:"semana"`
	Month     SalesPeriod                 `json:"mes"`
	LastSeven []DailySales                `json:"ultimos_siete"`
	Attention []*repository.AttentionItem `json:"requieren_atencion"`
	LowStock  []StockAlert                `json:"stock_bajo"`
}

// DashboardService assembles the summary from the operational tables. It is
// computed per request; the heavy historic aggregation lives in
// AnalyticsService instead.
type DashboardService struct {
	orders            repository.OrderRepository
	sessions          repository.SessionRepository
	inventory         repository.InventoryRepository
	lowStockThreshold int64
}

func NewDashboardService(orders repository.OrderRepository, sessions repository.SessionRepository, inventory repository.InventoryRepository, lowStockThreshold int64) *DashboardService {
	return &DashboardService{
		orders:            orders,
		sessions:          sessions,
		inventory:         inventory,
		lowStockThreshold: lowStockThreshold,
	}
}

func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	now := time.Now()
	out := &DashboardSummary{}

	var err error
	if out.Pending.UnreadConversations, err = s.sessions.CountUnread(ctx); err != nil {
		return nil, err
	}
	if out.Pending.OrdersToShip, err = s.orders.CountByStatus(ctx, model.OrderStatusPaid); err != nil {
		return nil, err
	}
	if out.Pending.StaleQuotes, err = s.sessions.CountStaleQuoted(ctx, now.Add(-staleQuoteAge)); err != nil {
		return nil, err
	}
	if out.Pending.PendingPaymentLinks, err = s.orders.CountByStatus(ctx, model.OrderStatusPendingPayment); err != nil {
		return nil, err
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := dayStart.AddDate(0, 0, -6)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	if out.Today, err = s.salesPeriod(ctx, dayStart, now, 24*time.Hour); err != nil {
		return nil, err
	}
	if out.Week, err = s.salesPeriod(ctx, weekStart, now, 7*24*time.Hour); err != nil {
		return nil, err
	}
	prevMonthStart := monthStart.AddDate(0, -1, 0)
	if out.Month, err = s.salesPeriodBounds(ctx, monthStart, now, prevMonthStart, monthStart); err != nil {
		return nil, err
	}

	if out.LastSeven, err = s.lastSevenDays(ctx, dayStart); err != nil {
		return nil, err
	}

	if out.Attention, err = s.sessions.AttentionRanked(ctx, 8); err != nil {
		return nil, err
	}

	low, err := s.inventory.LowStock(ctx, s.lowStockThreshold, 10)
	if err != nil {
		return nil, err
	}
	for _, item := range low {
		out.LowStock = append(out.LowStock, StockAlert{
			SnapshotID:  item.SnapshotID,
			Size:        item.Size,
			Description: item.Description,
			Stock:       item.Stock,
		})
	}

	return out, nil
}

// salesPeriod compares [from, to) against the window of the same span
// immediately before it.
func (s *DashboardService) salesPeriod(ctx context.Context, from, to time.Time, span time.Duration) (SalesPeriod, error) {
	return s.salesPeriodBounds(ctx, from, to, from.Add(-span), from)
}

func (s *DashboardService) salesPeriodBounds(ctx context.Context, from, to, prevFrom, prevTo time.Time) (SalesPeriod, error) {
	cur, err := s.orders.ListPaidBetween(ctx, from, to)
	if err != nil {
		return SalesPeriod{}, err
	}
	prev, err := s.orders.ListPaidBetween(ctx, prevFrom, prevTo)
	if err != nil {
		return SalesPeriod{}, err
	}

	p := SalesPeriod{Orders: len(cur)}
	for _, o := range cur {
		p.Revenue += o.Total
	}
	var prevRevenue float64
	for _, o := range prev {
		prevRevenue += o.Total
	}
	p.RevenueDelta = percentDelta(p.Revenue, prevRevenue)
	p.OrdersDelta = percentDelta(float64(p.Orders), float64(len(prev)))
	return p, nil
}

// percentDelta returns the change from prev to cur in percent. A zero
// previous value yields 100 when there is any current value, 0 otherwise.
func percentDelta(cur, prev float64) float64 {
	if prev == 0 {
		if cur == 0 {
			return 0
		}
		return 100
	}
	return (cur - prev) / prev * 100
}

func (s *DashboardService) lastSevenDays(ctx context.Context, dayStart time.Time) ([]DailySales, error) {
	from := dayStart.AddDate(0, 0, -6)
	orders, err := s.orders.ListPaidBetween(ctx, from, time.Time{})
	if err != nil {
		return nil, err
	}

	days := make([]DailySales, 7)
	index := make(map[string]int, 7)
	for i := 0; i < 7; i++ {
		date := from.AddDate(0, 0, i).Format("2006-01-02")
		days[i] = DailySales{Date: date}
		index[date] = i
	}
	for _, o := range orders {
		if o.PaidAt == nil {
			continue
		}
		if i, ok := index[o.PaidAt.Format("2006-01-02")]; ok {
			days[i].Revenue += o.Total
			days[i].Orders++
		}
	}
	return days, nil
}
