package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"booking-api/internal/cache"
	"booking-api/internal/config"
	"booking-api/internal/database"
	"booking-api/internal/event"
	"booking-api/internal/handler"
	"booking-api/internal/metrics"
	"booking-api/internal/middleware"
	"booking-api/internal/repository"
	"booking-api/internal/router"
	"booking-api/internal/service"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, cfg.DatabaseURL, database.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
		MaxConnIdleTime: cfg.DBMaxConnIdleTime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)
	serviceRepo := repository.NewServiceRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	slog.Info("database ready")

	tokens, err := service.NewTokenService(cfg.JWTSecret)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	hasher := service.NewHasher(cfg.BcryptCost, cfg.HashWorkers)

	bus := event.NewBus()
	auditService := service.NewAuditService(auditRepo, bus)
	auditCtx, auditCancel := context.WithCancel(context.Background())
	go auditService.Run(auditCtx)

	m := metrics.New()

	cleanupFuncs := []func(){
		auditCancel,
		func() {
			slog.Info("closing database connections")
			db.Close()
		},
	}

	var catalogCache service.CatalogCache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.New(ctx, cache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			slog.Warn("redis unavailable, catalog cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			slog.Info("catalog cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CatalogCacheTTL)
			catalogCache = redisCache
			cleanupFuncs = append(cleanupFuncs, func() {
				if err := redisCache.Close(); err != nil {
					slog.Warn("failed to close redis client", "error", err)
				}
			})
		}
	}

	userService := service.NewUserService(userRepo, hasher, tokens, bus)
	appointmentService := service.NewAppointmentService(appointmentRepo, bus, m)
	catalogService := service.NewCatalogService(serviceRepo, catalogCache, cfg.CatalogCacheTTL, bus)

	created, err := userService.EnsureAdmin(ctx, service.SeedAdmin{
		Email:    cfg.SeedAdminEmail,
		Username: cfg.SeedAdminUsername,
		Password: cfg.SeedAdminPassword,
	})
	if err != nil {
		runCleanup(cleanupFuncs)
		return nil, fmt.Errorf("failed to seed admin account: %w", err)
	}
	if created {
		slog.Info("seed admin created", "username", cfg.SeedAdminUsername)
	}

	authMiddleware := middleware.NewAuthMiddleware(tokens)
	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(userService),
		User:        handler.NewUserHandler(userService, appointmentService),
		Appointment: handler.NewAppointmentHandler(appointmentService),
		Service:     handler.NewServiceHandler(catalogService),
		Audit:       handler.NewAuditHandler(auditService),
		Docs:        handler.NewDocsHandler(cfg.OpenAPIPath),
		Health:      handler.NewHealthHandler(db),
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router.New(cfg, authMiddleware, m, handlers),
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{server: server, cleanupFuncs: cleanupFuncs}, nil
}

func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		slog.Info("shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		runCleanup(a.cleanupFuncs)
		return fmt.Errorf("server failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := a.server.Shutdown(ctx)
	runCleanup(a.cleanupFuncs)
	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func runCleanup(funcs []func()) {
	for _, cleanup := range funcs {
		cleanup()
	}
}
