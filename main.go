package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"hoa-backend/internal/config"
	"hoa-backend/internal/handler"
	"hoa-backend/internal/middleware"
	"hoa-backend/internal/repository"
	"hoa-backend/internal/service"
	"hoa-backend/pkg/database"
	"hoa-backend/pkg/logger"
	"hoa-backend/pkg/redis"
)

// Resources holds all resources that need cleanup
type Resources struct {
	db          *database.PostgresDB
	redisClient *redis.Client
	server      *http.Server
	log         *logger.Logger
	mu          sync.Mutex
	closed      bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error

	r.log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first to stop accepting new requests
	if r.server != nil {
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		}
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			r.log.WithError(err).Error("Failed to close Redis connection")
			errs = append(errs, fmt.Errorf("Redis close: %w", err))
		}
	}

	if r.db != nil {
		r.db.Close()
	}

	if len(errs) > 0 {
		return fmt.Errorf("cleanup completed with %d errors: %v", len(errs), errs)
	}

	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Starting hoa-backend server")

	ctx := context.Background()
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	redisClient, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}

	// Repositories
	pollRepo := repository.NewPollRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	residentRepo := repository.NewResidentRepository(db)
	feeRepo := repository.NewFeeRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// Services
	clock := service.SystemClock{}
	cacheService := service.NewCacheService(redisClient, log.Logger)
	pollService := service.NewPollService(pollRepo, voteRepo, cacheService, clock, log.Logger)
	ledgerService := service.NewLedgerService(feeRepo, paymentRepo, residentRepo, cacheService, clock, cfg.AnnualFeeAmount, log.Logger)
	residentService := service.NewResidentService(residentRepo, clock, log.Logger)
	authService := service.NewAuthService(residentRepo, cfg.JWTSecret, clock, log.Logger)

	router := setupRouter(cfg, log, db, redisClient, pollService, ledgerService, residentService, authService)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB max header size
	}

	resources := &Resources{
		db:          db,
		redisClient: redisClient,
		server:      server,
		log:         log,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error occurred")
			serverErrChan <- err
		}
	}()

	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(
	cfg *config.Config,
	log *logger.Logger,
	db *database.PostgresDB,
	redisClient *redis.Client,
	pollService *service.PollService,
	ledgerService *service.LedgerService,
	residentService *service.ResidentService,
	authService *service.AuthService,
) *chi.Mux {
	r := chi.NewRouter()

	corsConfig := &middleware.CORSConfig{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}

	r.Use(middleware.CORS(corsConfig, log))
	r.Use(middleware.RequestID(log))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	healthHandler := handler.NewHealthHandler(db, redisClient)
	authHandler := handler.NewAuthHandler(authService)
	pollHandler := handler.NewPollHandler(pollService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService, residentService)
	residentHandler := handler.NewResidentHandler(residentService)

	// Health check (no auth required)
	r.Get("/health", healthHandler.Check)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)

		// Public poll reads with tallies
		r.Get("/polls", pollHandler.ListPolls)
		r.Get("/polls/{pollID}", pollHandler.GetPoll)

		// Protected routes (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authService, log))

			r.Post("/polls/{pollID}/vote", pollHandler.SubmitVote)
			r.Get("/polls/{pollID}/my-vote", pollHandler.GetMyVote)
			r.Get("/me/votes", pollHandler.GetMyVotes)
			r.Get("/me/fees", ledgerHandler.GetMyFees)
			r.Get("/me/fines", ledgerHandler.GetMyFines)
			r.Get("/me/payments/stats", ledgerHandler.GetMyPaymentStats)
			r.Post("/payments", ledgerHandler.RecordPayment)
			r.Post("/payments/{externalID}/confirm", ledgerHandler.ConfirmPayment)

			// Board-member routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.BoardOnly(log))

				r.Post("/polls", pollHandler.CreatePoll)
				r.Put("/polls/{pollID}", pollHandler.UpdatePoll)
				r.Delete("/polls/{pollID}", pollHandler.DeletePoll)
				r.Post("/polls/{pollID}/toggle", pollHandler.ToggleActive)

				r.Route("/admin", func(r chi.Router) {
					r.Get("/homeowners/payment-status", ledgerHandler.GetHomeownersPaymentStatus)
					r.Post("/fees/year", ledgerHandler.CreateYearFees)
					r.Get("/fees", ledgerHandler.ListFees)
					r.Post("/fines", ledgerHandler.AddFine)
					r.Get("/fines", ledgerHandler.ListFines)
					r.Put("/fines/{fineID}/status", ledgerHandler.UpdateFineStatus)

					r.Get("/residents", residentHandler.ListResidents)
					r.Post("/residents", residentHandler.CreateResident)
					r.Get("/residents/{residentID}", residentHandler.GetResident)
					r.Put("/residents/{residentID}", residentHandler.UpdateResident)
					r.Delete("/residents/{residentID}", residentHandler.DeleteResident)
					r.Post("/residents/{residentID}/block", residentHandler.BlockResident)
					r.Post("/residents/{residentID}/unblock", residentHandler.UnblockResident)
				})
			})
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":{"type":"not_found","message":"Endpoint not found"}}`))
	})

	log.Info("Router configured successfully")
	return r
}
