// File: main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace/config"
	"marketplace/cron"
	"marketplace/database"
	bookingRepo "marketplace/database/repository/booking"
	eventRepo "marketplace/database/repository/event"
	giftcardRepo "marketplace/database/repository/giftcard"
	memoryRepo "marketplace/database/repository/memory"
	vendorRepo "marketplace/database/repository/vendor"
	"marketplace/handlers"
	"marketplace/middleware"
	"marketplace/routes"
	"marketplace/services/booking"
	"marketplace/services/catalog"
	"marketplace/services/tasks"
	"marketplace/services/vendor"
	"marketplace/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// stores are the repositories behind every service.
type stores struct {
	vendors   vendorRepo.VendorRepository
	bookings  bookingRepo.PartyBookingRepository
	events    eventRepo.EventRepository
	giftCards giftcardRepo.GiftCardRepository
}

func memoryStores() stores {
	return stores{
		vendors:   memoryRepo.NewVendorRepo(),
		bookings:  memoryRepo.NewPartyBookingRepo(),
		events:    memoryRepo.NewEventRepo(),
		giftCards: memoryRepo.NewGiftCardRepo(),
	}
}

func mongoStores(logger *zap.Logger) stores {
	s := stores{
		vendors:   vendorRepo.NewMongoVendorRepo(),
		bookings:  bookingRepo.NewMongoPartyBookingRepo(),
		events:    eventRepo.NewMongoEventRepo(),
		giftCards: giftcardRepo.NewMongoGiftCardRepo(),
	}
	for name, ensure := range map[string]func() error{
		"vendors":        s.vendors.EnsureIndexes,
		"party_bookings": s.bookings.EnsureIndexes,
		"events":         s.events.EnsureIndexes,
		"gift_cards":     s.giftCards.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Fatal("main: failed to ensure indexes", zap.String("collection", name), zap.Error(err))
		}
	}
	if err := database.EnsureAdmissionIndexes(database.DB()); err != nil {
		logger.Fatal("main: failed to ensure indexes", zap.String("collection", database.AdmissionDaysCollection), zap.Error(err))
	}
	return s
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	loc := config.Location()

	var (
		repos     stores
		guard     booking.AdmissionGuard
		cache     booking.ScheduleCache
		scheduler tasks.Scheduler
		authCache *redis.Client
		mongoCli  *mongo.Client
	)

	if config.UsesMemoryStorage() {
		logger.Warn("main: using in-memory storage; data is lost on restart")
		repos = memoryStores()
		guard = booking.NewLocalGuard()
		cache = booking.NoopScheduleCache{}
		scheduler = tasks.LogScheduler{Logger: logger}
	} else {
		database.InitDB()
		utils.InitRedis()
		mongoCli = database.MongoClient
		repos = mongoStores(logger)
		guard = booking.NewRedisGuard(utils.GetLockClient(), config.AppConfig.AdmissionLockTTL, config.AppConfig.AdmissionLockWait, logger)
		cache = booking.NewRedisScheduleCache(utils.GetCacheClient(), config.AppConfig.ScheduleCacheTTL, logger)
		asynqScheduler := tasks.NewAsynqScheduler(cron.TaskRedisOpt(), logger)
		defer asynqScheduler.Close()
		scheduler = asynqScheduler
		authCache = utils.GetAuthCacheClient()
	}

	// services.
	bookingService := booking.NewBookingService(repos.vendors, repos.bookings, repos.events, guard, cache, scheduler, logger, loc)
	catalogService := &catalog.DefaultCatalogService{
		Vendors:      repos.vendors,
		GiftCards:    repos.giftCards,
		Reservations: bookingService,
		Tasks:        scheduler,
		Logger:       logger,
	}
	vendorService := &vendor.DefaultVendorService{
		Repo:   repos.vendors,
		Logger: logger,
	}

	var worker *asynq.Server
	if !config.UsesMemoryStorage() {
		worker = cron.InitExpiryWorker(catalogService, logger)
	}

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	utils.StartHealthMonitor(monitorCtx, utils.RedisClients(), mongoCli)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	handlerBundle := handlers.NewHandlerBundle(
		&handlers.VendorHandler{Service: vendorService},
		&handlers.ItemHandler{Catalog: catalogService, Bookings: bookingService},
		&handlers.AvailabilityHandler{Bookings: bookingService},
		repos.vendors,
		authCache,
	)
	routes.RegisterRoutes(router, handlerBundle)

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
	if worker != nil {
		worker.Shutdown()
	}
	if err := database.Disconnect(ctx); err != nil {
		logger.Sugar().Errorf("main: mongo disconnect failed: %v", err)
	}
	_ = logger.Sync()

	logger.Sugar().Info("main: server stopped gracefully")
}
