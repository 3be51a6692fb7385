// Package handler holds the HTTP layer. Handlers bind and validate input,
// call one service method and wrap the result in the response envelope;
// business rules stay in internal/service.
package handler

import (
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/service"
)

type Handler struct {
	auth          *service.AuthService
	orders        *service.OrderService
	conversations *service.ConversationService
	pipeline      *service.PipelineService
	quotes        *service.QuoteService
	inventory     *service.InventoryService
	analytics     *service.AnalyticsService
	dashboard     *service.DashboardService
}

func NewHandler(
	auth *service.AuthService,
	orders *service.OrderService,
	conversations *service.ConversationService,
	pipeline *service.PipelineService,
	quotes *service.QuoteService,
	inventory *service.InventoryService,
	analytics *service.AnalyticsService,
	dashboard *service.DashboardService,
) *Handler {
	return &Handler{
		auth:          auth,
		orders:        orders,
		conversations: conversations,
		pipeline:      pipeline,
		quotes:        quotes,
		inventory:     inventory,
		analytics:     analytics,
		dashboard:     dashboard,
	}
}
