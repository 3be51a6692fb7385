package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/config"
	_ "github.com/rushdatamx/llantas-reluvsa-rushdata/docs"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/api"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/api/handler"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/board"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/gateway"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/quote"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/realtime"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/repository"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/service"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/pkg/database"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/pkg/logger"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/pkg/tracing"
)

// @title RELUVSA Dashboard API
// @version 1.0
// @description Backend del panel administrativo de RELUVSA.
// @BasePath /api/v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level); err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			logger.Warn("sentry init", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	shutdownTracing, err := tracing.Init(ctx, cfg)
	if err != nil {
		logger.Fatal("tracing init", zap.Error(err))
	}
	defer shutdownTracing(context.Background())

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("database init", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}
	rdb := database.InitRedis(cfg)
	defer rdb.Close()

	orderRepo := repository.NewOrderRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	gw := gateway.NewClient(cfg.Gateway)
	feed := realtime.NewFeed(rdb, cfg.Redis.FeedChannel)

	notifier := service.NewNotifier(gw, 1024)
	stopNotifier := notifier.Start(4)

	kanban := board.New()
	pipelineSvc := service.NewPipelineService(sessionRepo, kanban, feed)
	if err := pipelineSvc.Warm(ctx); err != nil {
		logger.Fatal("warm board", zap.Error(err))
	}
	// Keep the board in sync with writes from the bot and other replicas.
	feed.Subscribe(ctx, pipelineSvc.Apply)

	authSvc := service.NewAuthService(profileRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	orderSvc := service.NewOrderService(orderRepo, sessionRepo, notifier, feed)
	convSvc := service.NewConversationService(sessionRepo, messageRepo, gw, feed)
	quoteSvc := service.NewQuoteService(quote.PricingFromConfig(cfg.Business), gw)
	inventorySvc := service.NewInventoryService(inventoryRepo, cfg.Business.LowStockThreshold)
	analyticsSvc := service.NewAnalyticsService(orderRepo, sessionRepo, messageRepo, rdb, cfg.Redis.AnalyticsTTL)
	dashboardSvc := service.NewDashboardService(orderRepo, sessionRepo, inventoryRepo, cfg.Business.LowStockThreshold)

	h := handler.NewHandler(authSvc, orderSvc, convSvc, pipelineSvc, quoteSvc, inventorySvc, analyticsSvc, dashboardSvc)

	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(h, authSvc, cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: router}
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := stopNotifier(shutdownCtx); err != nil {
		logger.Error("notifier shutdown", zap.Error(err))
	}
}
