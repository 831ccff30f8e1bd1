// File: medibook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medibook/config"
	"medibook/cron"
	"medibook/database"
	scheduleRepo "medibook/database/repository/schedule"
	"medibook/handlers"
	"medibook/models"
	"medibook/routes"
	"medibook/services/booking"
	"medibook/services/conversation"
	"medibook/services/notification"
	"medibook/services/schedule"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	cfg := config.AppConfig

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()
	checks := map[string]utils.HealthCheck{}

	// availability store
	var repo scheduleRepo.ScheduleRepository
	switch cfg.StoreBackend {
	case "memory":
		logger.Warn("Using in-memory schedule store; data is lost on restart")
		repo = scheduleRepo.NewMemoryScheduleRepo()
	default:
		database.InitDB()
		repo = scheduleRepo.NewMongoScheduleRepo(database.Database())
		checks["mongo"] = utils.MongoCheck(database.MongoClient)
	}
	if err := repo.EnsureIndexes(rootCtx); err != nil {
		logger.Fatal("main: failed to ensure schedule indexes", zap.Error(err))
	}

	// conversation sessions
	var sessions conversation.SessionStore
	switch cfg.SessionBackend {
	case "memory":
		sessions = conversation.NewMemorySessionStore(cfg.SessionTTL)
	default:
		client := utils.GetSessionCacheClient()
		sessions = conversation.NewRedisSessionStore(client, cfg.SessionTTL, logger)
		checks["redis"] = utils.RedisCheck(client)
	}

	// delivery reaches the client; notifier is what the services call
	var delivery notification.Notifier = notification.NewLogNotifier(logger)
	if cfg.NotifyBackend != "log" && cfg.FirebaseCredentialsPath != "" {
		fcm, err := utils.FirebaseMessaging(rootCtx, cfg.FirebaseCredentialsPath)
		if err != nil {
			logger.Error("main: firebase unavailable, notifications will only be logged", zap.Error(err))
		} else {
			delivery = notification.NewPushNotifier(fcm, logger)
		}
	}

	notifier := delivery
	var reminders booking.ReminderScheduler
	var queueClient *asynq.Client
	var worker *asynq.Server
	if cfg.NotifyBackend == "queue" {
		redisOpts := asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisQueueDB,
		}
		queueClient = asynq.NewClient(redisOpts)
		queued := notification.NewQueueNotifier(queueClient, logger)
		notifier = queued
		reminders = queued
		worker = cron.InitTaskWorker(redisOpts, cron.NewTaskMux(delivery, repo, logger), logger)
	}

	// services
	loc := config.Location()
	bookingService := booking.NewBookingService(repo, reminders, cfg.ReminderLead, loc, logger)
	scheduleService := schedule.NewScheduleService(repo, notifier, map[string]schedule.Window{
		models.SessionMorning:   {Start: cfg.MorningStart, End: cfg.MorningEnd},
		models.SessionAfternoon: {Start: cfg.AfternoonStart, End: cfg.AfternoonEnd},
	}, cfg.SlotsPerSession, cfg.NotifyConcurrency, logger)

	engine := conversation.NewEngine(sessions, bookingService, scheduleService,
		conversation.NewProviderGate(cfg.ProviderID),
		conversation.Options{
			Locations:         cfg.Locations,
			BookingWindowDays: cfg.BookingWindowDays,
			Location:          loc,
			Logger:            logger,
		})

	utils.StartHealthMonitor(rootCtx, time.Minute, checks)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	handlerBundle := &handlers.HandlerBundle{
		GatewaySecret:        []byte(cfg.GatewayJWTSecret),
		MaxEventsPerMin:      cfg.MaxEventsPerMin,
		DialogueEventHandler: handlers.NewDialogueEventHandler(engine),
		HealthHandler:        handlers.HealthHandler,
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := cfg.AppPort
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	stop()

	if worker != nil {
		worker.Shutdown()
	}
	if queueClient != nil {
		if err := queueClient.Close(); err != nil {
			logger.Warn("main: closing task queue client", zap.Error(err))
		}
	}
	if database.MongoClient != nil {
		if err := database.MongoClient.Disconnect(ctx); err != nil {
			logger.Warn("main: disconnecting from MongoDB", zap.Error(err))
		}
	}

	logger.Sugar().Info("main: server stopped gracefully")
	_ = logger.Sync()
}
