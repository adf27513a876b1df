package main

import (
	"context"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"shop-checkout/internal/core/auth"
	"shop-checkout/internal/core/cache"
	"shop-checkout/internal/core/config"
	"shop-checkout/internal/core/database"
	"shop-checkout/internal/core/httpclient"
	"shop-checkout/internal/core/logger"
	"shop-checkout/internal/core/proxy"
	"shop-checkout/internal/core/server"
	logisticsadapter "shop-checkout/internal/features/logistics/adapters"
	logisticsdomain "shop-checkout/internal/features/logistics/domain"
	logisticshandler "shop-checkout/internal/features/logistics/handler"
	logisticsservice "shop-checkout/internal/features/logistics/service"
	notificationadapter "shop-checkout/internal/features/notifications/adapters"
	notificationports "shop-checkout/internal/features/notifications/ports"
	notificationservice "shop-checkout/internal/features/notifications/service"
	orderadapter "shop-checkout/internal/features/orders/adapters"
	orderhandler "shop-checkout/internal/features/orders/handler"
	orderservice "shop-checkout/internal/features/orders/service"
	paymentadapter "shop-checkout/internal/features/payments/adapters"
	pricingadapter "shop-checkout/internal/features/pricing/adapters"
	pricingservice "shop-checkout/internal/features/pricing/service"
	routingadapter "shop-checkout/internal/features/routing/adapters"
	routingservice "shop-checkout/internal/features/routing/service"
	useradapter "shop-checkout/internal/features/users/adapters"

	"go.uber.org/zap"
)

const routingConfigTTL = 30 * time.Second

// @title Shop Checkout API
// @version 1.0
// @description Order submission, pricing, delivery routing, wallet payments and courier store selection.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		l.Fatal("Invalid timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		l.Fatal("Database connection failed", zap.Error(err))
	}
	defer db.Close()

	store := newCache(ctx, cfg.Redis)
	defer store.Close()

	gatewayClient, err := httpclient.NewProxiedClient(time.Duration(cfg.LinePay.TimeoutSeconds)*time.Second, proxy.FromConfig(cfg.Proxy))
	if err != nil {
		l.Fatal("Invalid proxy configuration", zap.Error(err))
	}

	// Identity
	users := useradapter.NewPostgresDirectory(db)
	tokens := auth.NewTokenService(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL())
	resolver := auth.NewResolver(tokens, users)

	// Pricing and routing
	catalog := pricingadapter.NewPostgresCatalog(db)
	quoter := pricingservice.NewQuoter(catalog, catalog)
	routing := routingservice.NewConfigSource(routingadapter.NewPostgresSettingsStore(db), routingConfigTTL)

	// Wallet
	if cfg.LinePay.ChannelID == "" {
		l.Warn("LINE Pay channel is not configured, wallet payments will fail")
	}
	wallet := paymentadapter.NewLinePayClient(
		cfg.LinePay.ChannelID,
		cfg.LinePay.ChannelSecret,
		paymentadapter.LinePayBaseURL(cfg.LinePay.Sandbox),
		gatewayClient,
	)

	// Notifications
	notifier := notificationservice.NewNotifier(newPublisher(cfg.Kafka), notificationservice.DefaultTimeout)
	defer func() {
		if err := notifier.Close(); err != nil {
			l.Warn("Failed to close notification publisher", zap.Error(err))
		}
	}()

	// Orders
	orderSvc := orderservice.NewOrderService(
		orderadapter.NewPostgresRepository(db),
		quoter,
		routing,
		users,
		wallet,
		notifier,
		orderservice.Config{
			PublicBaseURL: cfg.PublicBaseURL,
			Currency:      cfg.LinePay.Currency,
			Location:      location,
		},
	)
	orderHdl := orderhandler.NewOrderHandler(orderSvc)

	// Logistics
	ecpayHost := logisticsadapter.ECPayHost(cfg.ECPay.Sandbox)
	storeList := logisticsadapter.NewCachedStoreList(
		logisticsadapter.NewECPayStoreList(cfg.ECPay.MerchantID, cfg.ECPay.HashKey, cfg.ECPay.HashIV, ecpayHost, gatewayClient),
		store,
		time.Duration(cfg.ECPay.CourierListTTLSeconds)*time.Second,
	)
	origins := logisticsdomain.NewOriginAllowList(append(cfg.ECPay.AllowedOrigins(), cfg.PublicBaseURL)...)
	mapSvc := logisticsservice.NewMapSessionService(
		logisticsadapter.NewPostgresSessionRepository(db),
		logisticsadapter.NewECPayMap(cfg.ECPay.MerchantID, cfg.ECPay.HashKey, cfg.ECPay.HashIV, ecpayHost),
		storeList,
		origins,
		strings.TrimRight(cfg.PublicBaseURL, "/")+"/logistics/map-callback",
	)
	logisticsHdl := logisticshandler.NewLogisticsHandler(mapSvc)

	srv := server.New(cfg,
		server.Check{Name: "postgres", Ping: db.PingContext},
		server.Check{Name: "cache", Ping: store.Ping},
	)

	// Register Routes
	optionalAuth := auth.OptionalAuth(resolver)
	srv.App.Post("/orders", optionalAuth, orderHdl.Submit)
	srv.App.Get("/orders/:id", optionalAuth, orderHdl.GetOrder)
	srv.App.Get("/payments/linepay/confirm", orderHdl.ConfirmPayment)
	srv.App.Get("/payments/linepay/cancel", orderHdl.CancelPayment)

	srv.App.Post("/logistics/map-sessions", logisticsHdl.StartSession)
	srv.App.Post("/logistics/map-callback", logisticsHdl.Callback)
	srv.App.Get("/logistics/map-sessions/:token", logisticsHdl.PollSession)
	srv.App.Get("/logistics/stores/:subType", logisticsHdl.StoreList)

	admin := srv.App.Group("/admin", auth.AdminOnly(resolver))
	admin.Get("/orders", orderHdl.ListOrders)
	admin.Put("/orders/:id/status", orderHdl.UpdateStatus)
	admin.Post("/orders/:id/refund", orderHdl.Refund)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			l.Error("Server failed to start", zap.Error(err))
		}
	case <-ctx.Done():
		l.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Error("Graceful shutdown failed", zap.Error(err))
		}
	}
}

// newCache selects Redis when configured and reachable, otherwise the in-process cache.
func newCache(ctx context.Context, cfg config.RedisConfig) cache.Cache {
	l := logger.Get()
	if cfg.URL == "" {
		l.Info("REDIS_URL not set, using in-process cache")
		return cache.NewMemoryAdapter()
	}

	redisCache, err := cache.NewRedisAdapter(cfg.URL)
	if err != nil {
		l.Fatal("Invalid Redis configuration", zap.Error(err))
	}
	if err := redisCache.Ping(ctx); err != nil {
		l.Warn("Redis unreachable, using in-process cache", zap.Error(err))
		redisCache.Close()
		return cache.NewMemoryAdapter()
	}
	l.Info("Connected to redis")
	return redisCache
}

// newPublisher selects the Kafka publisher when brokers are configured, otherwise the log publisher.
func newPublisher(cfg config.KafkaConfig) notificationports.Publisher {
	brokers := cfg.BrokerList()
	if len(brokers) == 0 {
		logger.Get().Info("KAFKA_BROKERS not set, notifications are logged only")
		return notificationadapter.NewLogPublisher()
	}
	logger.Get().Info("Publishing notifications to kafka",
		zap.Strings("brokers", brokers),
		zap.String("topic", cfg.NotificationTopic),
	)
	return notificationadapter.NewKafkaPublisher(brokers, cfg.NotificationTopic)
}
