package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"pos-till/internal/config"
	custommiddleware "pos-till/internal/middleware"
	"pos-till/internal/repository"
	"pos-till/internal/service"
	"pos-till/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.ValidationMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))

	// Redis backs the rate limiter and the category emoji mapping
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 300,
		Window:            time.Minute,
		KeyPrefix:         "pos:ratelimit",
	}, logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	emojiRepo := repository.NewEmojiRepository(redisClient)

	// Initialize services
	catalogService := service.NewCatalogService(productRepo, categoryRepo, emojiRepo, cfg.POS.FallbackCategory, logger)
	checkoutService := service.NewCheckoutService(productRepo, receiptRepo, decimal.NewFromFloat(cfg.POS.TaxRate), logger)
	reportingService := service.NewReportingService(receiptRepo, cfg.POS.HistoryLimit)

	// One till, one session
	session := service.NewSession()

	// Initialize handlers
	catalogHandler := transport.NewCatalogHandler(catalogService, logger)
	checkoutHandler := transport.NewCheckoutHandler(checkoutService, session, logger)
	historyHandler := transport.NewHistoryHandler(reportingService, logger)

	// Register routes
	catalogHandler.RegisterRoutes(router)
	checkoutHandler.RegisterRoutes(router)
	historyHandler.RegisterRoutes(router)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	// Close redis connection
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
