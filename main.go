package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"massobook/config"
	"massobook/cron"
	"massobook/database"
	recordsRepo "massobook/database/repository/records"
	"massobook/handlers"
	"massobook/middleware"
	"massobook/routes"
	"massobook/services/availability"
	"massobook/services/booking"
	"massobook/services/calendar"
	"massobook/services/notification"
	"massobook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	policy, err := config.ParseWeeklyPolicy(config.AppConfig.WeeklyPolicy)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid weekly policy: %v", err)
	}
	tz, err := availability.NewTimezoneConverter(config.AppConfig.ProviderTimezone)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid provider timezone: %v", err)
	}

	// Credentials are read per operation so a missing secret fails requests, not startup.
	gateway := calendar.NewGoogleGateway(calendar.GatewayConfig{
		Credentials: config.AppConfig.ServiceAccountCredentials,
		CalendarID:  config.AppConfig.CalendarID,
		TimeZone:    config.AppConfig.ProviderTimezone,
		Logger:      logger.Named("calendar"),
	})
	if config.AppConfig.CalendarID == "" {
		logger.Warn("CALENDAR_ID is not set; slot and booking requests will fail")
	}

	resolver := availability.NewResolver(policy, tz, gateway,
		availability.WithTimeout(config.AppConfig.CalendarTimeout),
		availability.WithLogger(logger.Named("availability")),
	)

	// stops background monitors on shutdown
	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	var redisClients []*redis.Client
	var holds booking.HoldStore
	if config.AppConfig.BookingGuard == config.GuardHold {
		if err := utils.InitHoldCache(); err != nil {
			logger.Sugar().Fatalf("main: booking guard %q needs redis: %v", config.AppConfig.BookingGuard, err)
		}
		redisClients = append(redisClients, utils.HoldCacheClient)
		holds = booking.NewRedisHoldStore(utils.HoldCacheClient)
	}
	guard, err := booking.NewGuard(config.AppConfig.BookingGuard, resolver, holds, config.AppConfig.HoldTTL)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	mailer := notification.NewSendGridMailer(notification.SendGridConfig{
		APIKey:       config.AppConfig.SendGridAPIKey,
		From:         config.AppConfig.MailFrom,
		FromName:     config.AppConfig.MailFromName,
		ProviderName: config.AppConfig.ProviderName,
	})
	if config.AppConfig.SendGridAPIKey == "" {
		logger.Warn("SENDGRID_API_KEY is not set; confirmation emails will not be sent")
	}

	var dispatcher notification.Dispatcher = notification.NewInlineDispatcher(mailer)
	var queueClient *asynq.Client
	var worker *asynq.Server
	if config.AppConfig.EmailDelivery == config.EmailDeliveryQueue {
		queueClient = asynq.NewClient(cron.QueueRedisOpt())
		dispatcher = notification.NewQueueDispatcher(queueClient, logger.Named("queue"))
		worker = cron.InitConfirmationWorker(bgCtx, mailer, logger.Named("worker"))
	}

	bookingOpts := []booking.Option{
		booking.WithGuard(guard),
		booking.WithTimeout(config.AppConfig.CalendarTimeout),
		booking.WithDispatcher(dispatcher),
		booking.WithSummaryPrefix(config.AppConfig.EventSummaryPrefix),
		booking.WithLogger(logger.Named("booking")),
	}

	var mongoClient *mongo.Client
	switch err := database.InitDB(); {
	case err == nil:
		mongoClient = database.MongoClient
		archive := recordsRepo.NewMongoRecordRepo(database.Database())
		if err := archive.EnsureIndexes(); err != nil {
			logger.Warn("booking archive indexes not created", zap.Error(err))
		}
		bookingOpts = append(bookingOpts, booking.WithArchive(archive))
		logger.Info("booking archive enabled", zap.String("database", config.AppConfig.DatabaseName))
	case errors.Is(err, database.ErrNotConfigured):
		logger.Info("booking archive disabled")
	default:
		logger.Warn("booking archive unavailable", zap.Error(err))
	}

	bookingService := booking.NewService(gateway, tz, bookingOpts...)

	utils.StartHealthMonitor(bgCtx, redisClients, mongoClient, time.Minute)

	// Create the Gin router.
	router := gin.New()
	if err := router.SetTrustedProxies(trustedProxies(config.AppConfig.TrustedProxies)); err != nil {
		logger.Sugar().Fatalf("main: invalid TRUSTED_PROXIES: %v", err)
	}
	router.Use(utils.ErrorHandler())

	handlerBundle := &handlers.HandlerBundle{
		Availability: &handlers.AvailabilityHandler{Resolver: resolver},
		Booking:      &handlers.BookingHandler{Bookings: bookingService},
	}
	routes.RegisterRoutes(router, handlerBundle,
		middleware.RequestLogger(logger),
		middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin),
	)

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	stopBackground()
	if worker != nil {
		worker.Shutdown()
	}
	if queueClient != nil {
		_ = queueClient.Close()
	}
	if utils.HoldCacheClient != nil {
		_ = utils.HoldCacheClient.Close()
	}
	if err := database.Close(ctx); err != nil {
		logger.Warn("main: database disconnect failed", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// trustedProxies returns nil for an empty list so gin trusts no forwarding headers.
func trustedProxies(list []string) []string {
	var out []string
	for _, p := range list {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
