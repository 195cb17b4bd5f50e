package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/Samrita-Swain/tawania-backend/internal/config"
	"github.com/Samrita-Swain/tawania-backend/internal/modules/audit"
	"github.com/Samrita-Swain/tawania-backend/internal/modules/auth"
	"github.com/Samrita-Swain/tawania-backend/internal/modules/catalog"
	"github.com/Samrita-Swain/tawania-backend/internal/modules/inventory"
	"github.com/Samrita-Swain/tawania-backend/internal/modules/loyalty"
	"github.com/Samrita-Swain/tawania-backend/internal/modules/pos"
	"github.com/Samrita-Swain/tawania-backend/internal/modules/transfer"
	"github.com/Samrita-Swain/tawania-backend/internal/modules/user"
	"github.com/Samrita-Swain/tawania-backend/internal/modules/warehouse"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	db, err := sql.Open("postgres", cfg.Postgres.URL)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}
	logger.Info("connected to database")

	// The report cache is optional; with no Redis configured the audit
	// service recomputes reports on every request.
	var reportCache *audit.ReportCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		reportCache = audit.NewReportCache(rdb, 0)
		logger.Info("report cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	devDetails := !cfg.IsProduction()

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(auth.Middleware(cfg.JWT.Secret))

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)
	user.NewHandler(userService, devDetails).RegisterRoutes(router)

	authService := auth.NewService(userRepo, cfg.JWT.Secret)
	auth.NewHandler(authService, devDetails).RegisterRoutes(router)

	// ── Locations & catalog ─────────────────────────────────
	warehouseRepo := warehouse.NewPostgresRepository(db)
	warehouseService := warehouse.NewService(warehouseRepo)
	warehouse.NewHandler(warehouseService, devDetails).RegisterRoutes(router)

	catalogRepo := catalog.NewPostgresRepository(db)
	catalogService := catalog.NewService(catalogRepo)
	catalog.NewHandler(catalogService, devDetails).RegisterRoutes(router)

	inventoryRepo := inventory.NewPostgresRepository(db)
	inventoryService := inventory.NewService(inventoryRepo)
	inventory.NewHandler(inventoryService, devDetails).RegisterRoutes(router)

	// ── Audits ──────────────────────────────────────────────
	auditRepo := audit.NewPostgresRepository(db)
	auditService := audit.NewService(auditRepo, reportCache, logger)
	audit.NewHandler(auditService, devDetails).RegisterRoutes(router)

	// ── Movements & sales ───────────────────────────────────
	transferRepo := transfer.NewPostgresRepository(db)
	transferService := transfer.NewService(transferRepo, inventoryService, logger)
	transfer.NewHandler(transferService, devDetails).RegisterRoutes(router)

	loyaltyRepo := loyalty.NewPostgresRepository(db)
	loyaltyService := loyalty.NewService(loyaltyRepo, logger)
	loyalty.NewHandler(loyaltyService, devDetails).RegisterRoutes(router)

	posRepo := pos.NewPostgresRepository(db)
	posService := pos.NewService(posRepo, inventoryService, loyaltyService, logger)
	pos.NewHandler(posService, devDetails).RegisterRoutes(router)

	addr := ":" + cfg.Server.Port
	logger.Info("server listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	var logger *zap.Logger
	var err error
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return logger
}
