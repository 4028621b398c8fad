package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventease/internal/cache"
	"eventease/internal/config"
	"eventease/internal/database"
	"eventease/internal/handlers"
	"eventease/internal/middleware"
	"eventease/internal/monitoring"
	"eventease/internal/notify"
	"eventease/internal/repositories"
	"eventease/internal/services"
	"eventease/internal/utils"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	applied, err := database.Migrate(db.DB)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if applied > 0 {
		log.Printf("Applied %d migrations", applied)
	}

	// Redis backs the discovery cache. The API degrades to uncached
	// discovery when it is unreachable.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	var discoveryCache *cache.DiscoveryCache
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("Redis unavailable, discovery caching disabled: %v", err)
	} else {
		discoveryCache = cache.NewDiscoveryCache(rdb)
	}

	var storage services.StorageService
	if cfg.Storage.AccessKey != "" {
		storage, err = services.NewMinioStorage(cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
	}

	var mailer services.Mailer = &services.NoopMailer{}
	if cfg.Email.SMTPUser != "" {
		mailer = services.NewSMTPMailer(cfg.Email)
	}

	bus := notify.NewBus()
	monitoring.SubscribeMutations(bus)
	if discoveryCache != nil {
		discoveryCache.Subscribe(bus)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db.DB)
	eventRepo := repositories.NewEventRepository(db.DB)
	ticketRepo := repositories.NewTicketRepository(db.DB)
	regRepo := repositories.NewRegistrationRepository(db.DB)
	campaignRepo := repositories.NewCampaignRepository(db.DB)
	auditRepo := repositories.NewAuditLogRepository(db.DB)

	// Services
	tokenTTL := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour
	hasher := utils.NewHasher(uint32(cfg.Auth.HashMemoryKiB), uint32(cfg.Auth.HashIterations), uint8(cfg.Auth.HashParallelism))
	authService := services.NewAuthService(userRepo, auditRepo, mailer, hasher, cfg.Auth.JWTSecret, tokenTTL)
	eventService := services.NewEventService(eventRepo, ticketRepo, userRepo, auditRepo, storage, services.NewPlanPolicy(), bus)
	ticketService := services.NewTicketService(ticketRepo, eventRepo)
	registrationService := services.NewRegistrationService(regRepo, eventRepo, ticketRepo, userRepo, mailer)
	campaignService := services.NewCampaignService(campaignRepo, eventRepo)
	adminService := services.NewAdminService(userRepo, auditRepo, auditRepo)

	h := &handlers.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Events:       handlers.NewEventHandler(eventService, ticketService, discoveryCache),
		Organizer:    handlers.NewOrganizerEventHandler(eventService, registrationService),
		TicketTypes:  handlers.NewTicketTypeHandler(ticketService),
		Registration: handlers.NewRegistrationHandler(registrationService),
		Campaigns:    handlers.NewCampaignHandler(campaignService),
		Admin:        handlers.NewAdminHandler(adminService),
	}

	authMW := middleware.NewAuthMiddleware(authService)
	limiter := middleware.NewRateLimiter(120, 20)
	router := handlers.NewRouter(cfg, h, authMW, limiter)

	srv := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
