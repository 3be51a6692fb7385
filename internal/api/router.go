package api

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/api/handler"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/service"
)

// NewRouter wires middleware and routes. Everything under /api/v1 except
// login requires a bearer token.
func NewRouter(h *handler.Handler, auth *service.AuthService, rps float64, burst int) *gin.Engine {
	registerValidations()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	r.Use(otelgin.Middleware("reluvsa-dashboard"))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(RateLimit(rps, burst))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	v1.POST("/auth/login", h.Login)

	authed := v1.Group("")
	authed.Use(AuthRequired(auth))
	{
		authed.GET("/auth/me", h.Me)
		authed.POST("/auth/logout", h.Logout)

		authed.GET("/dashboard", h.GetDashboard)

		authed.GET("/conversations", h.ListConversations)
		authed.GET("/conversations/:id", h.GetConversation)
		authed.POST("/conversations/:id/takeover", h.TakeoverConversation)
		authed.POST("/conversations/:id/return", h.ReturnConversationToBot)
		authed.POST("/conversations/:id/read", h.MarkConversationRead)
		authed.POST("/conversations/:id/reply", h.ReplyConversation)
		authed.GET("/leads/search", h.SearchLeads)

		authed.GET("/pipeline/board", h.GetBoard)
		authed.POST("/pipeline/move", h.MoveCard)

		authed.GET("/orders", h.ListOrders)
		authed.GET("/orders/export", h.ExportOrders)
		authed.POST("/orders/manual", h.CreateManualSale)
		authed.GET("/orders/:id", h.GetOrder)
		authed.PATCH("/orders/:id/status", h.UpdateOrderStatus)
		authed.POST("/orders/:id/ship", h.ShipOrder)
		authed.PATCH("/orders/:id/tracking", h.UpdateTracking)
		authed.PATCH("/orders/:id/notes", h.UpdateNotes)

		authed.POST("/quotes/calculate", h.CalculateQuote)
		authed.POST("/quotes/text", h.RenderQuoteText)
		authed.POST("/quotes/pdf", h.DownloadQuotePDF)
		authed.POST("/quotes/payment-link", h.CreatePaymentLink)

		authed.GET("/inventory", h.GetInventory)
		authed.GET("/inventory/search", h.SearchInventory)
		authed.GET("/inventory/export", h.ExportInventory)

		authed.GET("/analytics", h.GetAnalytics)
		authed.GET("/analytics/export", h.ExportAnalytics)
	}

	return r
}
