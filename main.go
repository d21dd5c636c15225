package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tourbook/config"
	"tourbook/cron"
	"tourbook/database"
	ledgerRepo "tourbook/database/repository/ledger"
	"tourbook/handlers"
	"tourbook/routes"
	"tourbook/services/cancellation"
	"tourbook/services/gateway"
	"tourbook/services/notes"
	"tourbook/services/notification"
	"tourbook/services/reconcile"
	"tourbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer utils.SyncLogger()

	if config.AppConfig.RazorpayWebhookSecret == "" {
		logger.Sugar().Fatal("main: RAZORPAY_WEBHOOK_SECRET is required")
	}

	database.InitDB()
	utils.InitLockCache()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	ledger, err := ledgerRepo.NewMongoLedgerRepo(database.MongoClient, config.AppConfig.DatabaseName)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize ledger repository: %v", err)
	}

	decoder, err := notes.NewDecoder(config.AppConfig.NotesFormat)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid notes format: %v", err)
	}

	// background tasks.
	taskClient := asynq.NewClient(cron.QueueRedisOpt())
	defer taskClient.Close()

	notificationService, err := notification.NewDefaultNotificationService(logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}
	worker := cron.InitConfirmationWorker(ctx, notificationService)

	// services.
	reconcileService := &reconcile.DefaultReconciliationService{
		Ledger:  ledger,
		Decoder: decoder,
		Locker:  reconcile.NewRedisLocker(utils.GetLockCacheClient()),
		LockTTL: config.AppConfig.WebhookLockTTL,
		Tasks:   taskClient,
		Logger:  logger,
	}
	cancellationService := &cancellation.DefaultCancellationService{
		Ledger: ledger,
		Logger: logger,
	}

	razorpayHandler := handlers.NewWebhookHandler(gateway.NewRazorpayProcessor(config.AppConfig.RazorpayWebhookSecret), reconcileService)
	bookingHandler := handlers.NewBookingHandler(ledger)
	cancellationHandler := handlers.NewCancellationHandler(cancellationService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		RazorpayWebhookHandler:     razorpayHandler.HandleWebhook,
		GetBookingHandler:          bookingHandler.GetBookingHandler,
		GetAgentStatsHandler:       bookingHandler.GetAgentStatsHandler,
		RequestCancellationHandler: cancellationHandler.RequestCancellationHandler,
		AdminHandler:               handlers.NewAdminHandler(cancellationService),
	}
	if secret := config.AppConfig.StripeWebhookSecret; secret != "" {
		stripeHandler := handlers.NewWebhookHandler(gateway.NewStripeProcessor(secret), reconcileService)
		handlerBundle.StripeWebhookHandler = stripeHandler.HandleWebhook
	}

	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(ctx, []*redis.Client{utils.GetLockCacheClient()}, database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	worker.Shutdown()

	if err := database.Close(shutdownCtx); err != nil {
		logger.Sugar().Warnf("main: failed to disconnect MongoDB: %v", err)
	}
	logger.Sugar().Info("main: server stopped gracefully")
}
