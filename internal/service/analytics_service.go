package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/model"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/repository"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/pkg/logger"
)

// DateRange selects the analytics window.
type DateRange string

const (
	Range7d  DateRange = "7d"
	Range30d DateRange = "30d"
	Range90d DateRange = "90d"
	RangeAll DateRange = "all"
)

// Start returns the window's lower bound; zero for RangeAll.
func (r DateRange) Start(now time.Time) time.Time {
	switch r {
	case Range7d:
		return now.AddDate(0, 0, -7)
	case Range30d:
		return now.AddDate(0, 0, -30)
	case Range90d:
		return now.AddDate(0, 0, -90)
	}
	return time.Time{}
}

// KPIs are the headline numbers.
type KPIs struct {
	Revenue        float64 `json:"ingresos"`
	Orders         int     `json:"pedidos"`
	ConversionRate float64 `json:"tasa_conversion"`
	AverageTicket  float64 `json:"ticket_promedio"`
}

type RevenuePoint struct {
	Date    string  `json:"fecha"` // yyyy-mm-dd
	Revenue float64 `json:"ingresos"`
}

type Funnel struct {
	Conversations int `json:"conversaciones"`
	WithSize      int `json:"con_medida"`
	Quoted        int `json:"cotizado"`
	LinkSent      int `json:"link_enviado"`
	Paid          int `json:"pagado"`
}

type SizeCount struct {
	Size  string `json:"medida"`
	Count int    `json:"cantidad"`
}

type PaymentMethodStat struct {
	Method  string  `json:"metodo"`
	Count   int     `json:"cantidad"`
	Revenue float64 `json:"ingresos"`
}

type AgentStat struct {
	Sessions        int     `json:"sesiones"`
	Conversions     int     `json:"conversiones"`
	AvgResponseMins float64 `json:"tiempo_respuesta"`
}

type WeekdayActivity struct {
	Day   int    `json:"dia"` // 0 = Sunday
	Name  string `json:"nombre"`
	Count int    `json:"cantidad"`
}

type HourlyActivity struct {
	Hour  int `json:"hora"`
	Count int `json:"cantidad"`
}

// Snapshot is the full analytics payload for one date range.
type Snapshot struct {
	Range          DateRange           `json:"rango"`
	GeneratedAt    time.Time           `json:"generado_at"`
	KPIs           KPIs                `json:"kpis"`
	RevenueByDay   []RevenuePoint      `json:"ingresos_por_dia"`
	Funnel         Funnel              `json:"funnel"`
	TopSizes       []SizeCount         `json:"top_medidas"`
	PaymentMethods []PaymentMethodStat `json:"metodos_pago"`
	Bot            AgentStat           `json:"bot"`
	Agent          AgentStat           `json:"vendedor"`
	ByWeekday      []WeekdayActivity   `json:"actividad_dia"`
	ByHour         []HourlyActivity    `json:"actividad_hora"`
}

var weekdayNames = []string{"Dom", "Lun", "Mar", "Mié", "Jue", "Vie", "Sáb"}

// AnalyticsService aggregates orders, sessions and messages into the
// analytics snapshot. Snapshots are cached in Redis with a short TTL; cache
// failures fall through to a fresh computation.
type AnalyticsService struct {
	orders   repository.OrderRepository
	sessions repository.SessionRepository
	messages repository.MessageRepository
	cache    *redis.Client
	cacheTTL time.Duration
}

func NewAnalyticsService(orders repository.OrderRepository, sessions repository.SessionRepository, messages repository.MessageRepository, cache *redis.Client, ttl time.Duration) *AnalyticsService {
	return &AnalyticsService{orders: orders, sessions: sessions, messages: messages, cache: cache, cacheTTL: ttl}
}

// Snapshot returns the analytics for a range, from cache when fresh.
func (s *AnalyticsService) Snapshot(ctx context.Context, r DateRange) (*Snapshot, error) {
	key := fmt.Sprintf("analytics:%s", r)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var snap Snapshot
			if err := json.Unmarshal(data, &snap); err == nil {
				return &snap, nil
			}
		}
	}

	snap, err := s.compute(ctx, r)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(snap); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
				logger.Warn("cache analytics snapshot", zap.Error(err))
			}
		}
	}
	return snap, nil
}

func (s *AnalyticsService) compute(ctx context.Context, r DateRange) (*Snapshot, error) {
	now := time.Now()
	from := r.Start(now)

	orders, err := s.orders.ListPaidBetween(ctx, from, time.Time{})
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessions.ListSince(ctx, from)
	if err != nil {
		return nil, err
	}
	messages, err := s.messages.ListSince(ctx, from)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Range: r, GeneratedAt: now}

	// KPIs.
	for _, o := range orders {
		snap.KPIs.Revenue += o.Total
	}
	snap.KPIs.Orders = len(orders)
	closed := 0
	for _, sess := range sessions {
		if sess.PipelineStage == model.StagePaid || sess.PipelineStage == model.StageDelivered {
			closed++
		}
	}
	if len(sessions) > 0 {
		snap.KPIs.ConversionRate = float64(closed) / float64(len(sessions)) * 100
	}
	if len(orders) > 0 {
		snap.KPIs.AverageTicket = snap.KPIs.Revenue / float64(len(orders))
	}

	// Revenue by day, keyed by payment date.
	byDay := make(map[string]float64)
	for _, o := range orders {
		if o.PaidAt == nil {
			continue
		}
		byDay[o.PaidAt.Format("2006-01-02")] += o.Total
	}
	for date, rev := range byDay {
		snap.RevenueByDay = append(snap.RevenueByDay, RevenuePoint{Date: date, Revenue: rev})
	}
	sort.Slice(snap.RevenueByDay, func(i, j int) bool {
		return snap.RevenueByDay[i].Date < snap.RevenueByDay[j].Date
	})

	// Funnel: each step counts sessions at that stage or beyond.
	snap.Funnel.Conversations = len(sessions)
	for _, sess := range sessions {
		if sess.SelectedSize != "" {
			snap.Funnel.WithSize++
		}
		switch sess.PipelineStage {
		case model.StageQuoted:
			snap.Funnel.Quoted++
		case model.StageLinkSent:
			snap.Funnel.Quoted++
			snap.Funnel.LinkSent++
		case model.StagePaid, model.StageDelivered:
			snap.Funnel.Quoted++
			snap.Funnel.LinkSent++
			snap.Funnel.Paid++
		}
	}

	// Top searched sizes.
	sizeCount := make(map[string]int)
	for _, sess := range sessions {
		if sess.SelectedSize != "" {
			sizeCount[sess.SelectedSize]++
		}
	}
	for size, n := range sizeCount {
		snap.TopSizes = append(snap.TopSizes, SizeCount{Size: size, Count: n})
	}
	sort.Slice(snap.TopSizes, func(i, j int) bool {
		if snap.TopSizes[i].Count != snap.TopSizes[j].Count {
			return snap.TopSizes[i].Count > snap.TopSizes[j].Count
		}
		return snap.TopSizes[i].Size < snap.TopSizes[j].Size
	})
	if len(snap.TopSizes) > 10 {
		snap.TopSizes = snap.TopSizes[:10]
	}

	// Payment methods.
	type pm struct {
		count   int
		revenue float64
	}
	methods := make(map[string]*pm)
	for _, o := range orders {
		m := string(o.PaymentMethod)
		if m == "" {
			m = string(model.PaymentStripe)
		}
		if methods[m] == nil {
			methods[m] = &pm{}
		}
		methods[m].count++
		methods[m].revenue += o.Total
	}
	for m, v := range methods {
		snap.PaymentMethods = append(snap.PaymentMethods, PaymentMethodStat{Method: m, Count: v.count, Revenue: v.revenue})
	}
	sort.Slice(snap.PaymentMethods, func(i, j int) bool {
		return snap.PaymentMethods[i].Method < snap.PaymentMethods[j].Method
	})

	// Bot vs agent.
	snap.Bot, snap.Agent = splitAgentStats(sessions, messages)

	// Activity by weekday and hour, customer messages only.
	weekday := make(map[int]int)
	hour := make(map[int]int)
	for _, m := range messages {
		if m.Kind != model.MessageFromCustomer {
			continue
		}
		weekday[int(m.CreatedAt.Weekday())]++
		hour[m.CreatedAt.Hour()]++
	}
	for d := 0; d < 7; d++ {
		snap.ByWeekday = append(snap.ByWeekday, WeekdayActivity{Day: d, Name: weekdayNames[d], Count: weekday[d]})
	}
	for h := 0; h < 24; h++ {
		snap.ByHour = append(snap.ByHour, HourlyActivity{Hour: h, Count: hour[h]})
	}

	return snap, nil
}

// splitAgentStats computes session counts, conversions and mean
// customer→reply latency for bot-handled and agent-handled traffic.
func splitAgentStats(sessions []*model.ChatSession, messages []*model.Message) (bot, agent AgentStat) {
	for _, s := range sessions {
		converted := s.PipelineStage == model.StagePaid || s.PipelineStage == model.StageDelivered
		if s.HandledBy == model.HandledByAgent {
			agent.Sessions++
			if converted {
				agent.Conversions++
			}
		} else {
			bot.Sessions++
			if converted {
				bot.Conversions++
			}
		}
	}

	bySession := make(map[string][]*model.Message)
	for _, m := range messages {
		bySession[m.SessionID] = append(bySession[m.SessionID], m)
	}
	respTime := func(kind model.MessageKind) float64 {
		var sum float64
		var n int
		for _, msgs := range bySession {
			for i := 0; i+1 < len(msgs); i++ {
				if msgs[i].Kind == model.MessageFromCustomer && msgs[i+1].Kind == kind {
					sum += msgs[i+1].CreatedAt.Sub(msgs[i].CreatedAt).Minutes()
					n++
				}
			}
		}
		if n == 0 {
			return 0
		}
		return sum / float64(n)
	}
	bot.AvgResponseMins = respTime(model.MessageFromBot)
	agent.AvgResponseMins = respTime(model.MessageFromAgent)
	return bot, agent
}
