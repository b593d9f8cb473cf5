package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	pb "github.com/MichaelF102/Uber-Analytics/api/v1"
	"github.com/MichaelF102/Uber-Analytics/internal/config"
	"github.com/MichaelF102/Uber-Analytics/internal/dataset"
	handler "github.com/MichaelF102/Uber-Analytics/internal/grpc"
	httphandler "github.com/MichaelF102/Uber-Analytics/internal/http"
	"github.com/MichaelF102/Uber-Analytics/internal/repository"
	"github.com/MichaelF102/Uber-Analytics/internal/service"
	"github.com/MichaelF102/Uber-Analytics/pkg/cache"
	dbbuilder "github.com/MichaelF102/Uber-Analytics/pkg/database"
	grpcsrv "github.com/MichaelF102/Uber-Analytics/pkg/grpc/server"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      cache.Cacher
	grpcServer *grpcsrv.Server
	httpServer *http.Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	dbPool, err := dbbuilder.New(
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
		dbbuilder.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("path", cfg.DBPath))

	aggregateRepo := repository.NewAggregateRepository(dbPool)
	if err := aggregateRepo.Verify(ctx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("database schema check failed: %w", err)
	}

	bookings := dataset.NewHandle(cfg.CSVPath, logger)
	if _, err := bookings.Bookings(ctx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("dataset load failed: %w", err)
	}

	var cacheClient cache.Cacher = cache.Nop{}
	if cfg.RedisAddr != "" {
		redisCache, err := cache.New(ctx, cache.WithAddress(cfg.RedisAddr))
		if err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("cache init failed: %w", err)
		}
		cacheClient = redisCache
		logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))
	} else {
		logger.Info("REDIS_ADDR not set, caching disabled")
	}

	dashboardService := service.NewDashboardService(aggregateRepo, bookings, logger)

	grpcHandlers := handler.NewGRPCHandlers(dashboardService, cacheClient, logger, cfg.CacheTTL)

	grpcServer, err := grpcsrv.New(
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
	)
	if err != nil {
		cacheClient.Close()
		dbPool.Close()
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}

	grpcServer.RegisterServiceWithHealth(pb.ServiceName, func(s *grpc.Server) {
		pb.RegisterDashboardServer(s, grpcHandlers)
	})

	router, err := httphandler.NewRouter(
		httphandler.NewHandler(dashboardService, cacheClient, logger, cfg.CacheTTL),
		logger.Named("http"),
		cfg.AppEnv,
		cfg.CORSAllowedOrigins,
	)
	if err != nil {
		grpcServer.Shutdown(ctx)
		cacheClient.Close()
		dbPool.Close()
		return nil, fmt.Errorf("failed to create HTTP router: %w", err)
	}

	return &App{
		logger:     logger,
		dbPool:     dbPool,
		cache:      cacheClient,
		grpcServer: grpcServer,
		httpServer: &http.Server{
			Addr:              net.JoinHostPort("", strconv.Itoa(cfg.HTTPPort)),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	a.logger.Info("application starting")

	a.grpcServer.Start()

	httpErr := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", zap.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
	case err := <-httpErr:
		a.logger.Error("HTTP server failed", zap.Error(err))
		runErr = fmt.Errorf("http server: %w", err)
	}

	a.logger.Info("application shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.shutdown(ctx)

	_ = a.logger.Sync()
	return runErr
}

// shutdown stops both servers and releases the cache and database.
func (a *App) shutdown(ctx context.Context) {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("HTTP shutdown error", zap.Error(err))
	}
	if err := a.grpcServer.Shutdown(ctx); err != nil {
		a.logger.Error("gRPC shutdown error", zap.Error(err))
	}

	if err := a.cache.Close(); err != nil {
		a.logger.Error("cache shutdown error", zap.Error(err))
	}
	if err := a.dbPool.Close(); err != nil {
		a.logger.Error("database shutdown error", zap.Error(err))
	}

	select {
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			a.logger.Warn("shutdown completed but deadline exceeded")
		}
	default:
		a.logger.Info("graceful shutdown completed successfully")
	}
}
