package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/godilite/washroom-dashboard/internal/backend"
	"github.com/godilite/washroom-dashboard/internal/config"
	handler "github.com/godilite/washroom-dashboard/internal/grpc"
	"github.com/godilite/washroom-dashboard/internal/observability"
	"github.com/godilite/washroom-dashboard/internal/repository"
	"github.com/godilite/washroom-dashboard/internal/service"
	"github.com/godilite/washroom-dashboard/internal/views"
	"github.com/godilite/washroom-dashboard/pkg/cache"
	dbbuilder "github.com/godilite/washroom-dashboard/pkg/database"
	grpcsrv "github.com/godilite/washroom-dashboard/pkg/grpc/server"
)

const shutdownTimeout = 10 * time.Second

// reportCache is what the gateway needs from the cache, plus Ping for health.
type reportCache interface {
	handler.Cacher
	Ping(ctx context.Context) error
}

type App struct {
	logger     *zap.Logger
	cancel     context.CancelFunc
	journalDB  *sql.DB
	journal    *repository.ActivityRepository
	cache      reportCache
	router     *views.Router
	grpcServer *grpcsrv.Server
	opsServer  *observability.Server
}

type options struct {
	grpcListener net.Listener
}

type Option func(*options)

// WithGRPCListener serves the gateway on lis instead of binding GRPC_PORT.
func WithGRPCListener(lis net.Listener) Option {
	return func(o *options) { o.grpcListener = lis }
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	loc, err := time.LoadLocation(cfg.DisplayTimezone)
	if err != nil {
		return nil, fmt.Errorf("display timezone %q: %w", cfg.DisplayTimezone, err)
	}
	clock := views.NewClock(loc)

	metrics := observability.NewMetrics()

	api := backend.New(cfg.BackendURL,
		backend.WithTimeout(cfg.BackendTimeout),
		backend.WithLogger(logger),
		backend.WithObserver(metrics),
	)
	logger.Info("Backend client initialized", zap.String("url", cfg.BackendURL))

	journalDB, err := dbbuilder.New(ctx,
		dbbuilder.WithDataSource(cfg.JournalPath),
		dbbuilder.WithCreateDir(true),
		dbbuilder.WithSchema(repository.Schema...),
	)
	if err != nil {
		return nil, fmt.Errorf("journal init failed: %w", err)
	}
	logger.Info("Activity journal initialized", zap.String("path", cfg.JournalPath))
	journal := repository.NewActivityRepository(journalDB, logger)

	var reports reportCache = cache.Noop{}
	if cfg.RedisAddr != "" {
		client, err := cache.New(ctx, cache.WithAddress(cfg.RedisAddr))
		if err != nil {
			journalDB.Close()
			return nil, fmt.Errorf("cache init failed: %w", err)
		}
		reports = client
		logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))
	} else {
		logger.Info("Report cache disabled")
	}

	reportService := service.NewReportService(api, logger)

	viewOpts := []views.Option{
		views.WithLogger(logger),
		views.WithMetrics(metrics),
		views.WithJournal(journal),
		views.WithClockInterval(cfg.ClockInterval),
		views.WithPollInterval(cfg.HomePollInterval),
		views.WithRequestTimeout(cfg.BackendTimeout),
	}
	home := views.NewHome(api, clock, viewOpts...)
	monitor := views.NewMonitor(api, clock, viewOpts...)
	reportPage := views.NewReport(reportService, api, clock, viewOpts...)
	session := views.NewSession(api, viewOpts...)

	viewCtx, cancel := context.WithCancel(context.Background())
	router := views.NewRouter(viewCtx, views.Pages{
		Home:    home,
		Monitor: monitor,
		Report:  reportPage,
	}, logger)

	grpcHandlers := handler.NewGRPCHandlers(handler.Deps{
		Router:   router,
		Session:  session,
		Home:     home,
		Monitor:  monitor,
		Report:   reportPage,
		Reports:  reportService,
		Activity: journal,
		Clock:    clock,
	}, reports, logger, cfg.ReportCacheTTL)

	a := &App{
		logger:    logger,
		cancel:    cancel,
		journalDB: journalDB,
		journal:   journal,
		cache:     reports,
		router:    router,
	}

	serverOpts := []grpcsrv.Option{
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
		grpcsrv.WithRequestID(true),
		grpcsrv.WithLogging(true),
		grpcsrv.WithObserver(metrics),
	}
	if o.grpcListener != nil {
		serverOpts = append(serverOpts, grpcsrv.WithListener(o.grpcListener))
	}
	grpcServer, err := grpcsrv.New(serverOpts...)
	if err != nil {
		a.closeStores()
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}
	grpcServer.RegisterService(&handler.ServiceDesc, grpcHandlers)
	a.grpcServer = grpcServer

	if cfg.MetricsAddr != "" {
		opsServer, err := observability.NewServer(cfg.MetricsAddr, observability.Routes(metrics, a.health), logger)
		if err != nil {
			a.closeStores()
			return nil, fmt.Errorf("failed to create ops server: %w", err)
		}
		a.opsServer = opsServer
	}

	return a, nil
}

// Start launches the servers and returns immediately.
func (a *App) Start() {
	a.grpcServer.Start()
	if a.opsServer != nil {
		a.opsServer.Start()
	}
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	a.logger.Info("application starting")
	a.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info("application shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.Shutdown(ctx)
	if err == nil {
		a.logger.Info("graceful shutdown completed successfully")
	}
	_ = a.logger.Sync()
	return err
}

// Shutdown stops the active view, then the servers, then closes the stores.
func (a *App) Shutdown(ctx context.Context) error {
	a.router.Close()

	var errs []error
	if err := a.grpcServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("grpc server: %w", err))
	}
	if a.opsServer != nil {
		if err := a.opsServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("ops server: %w", err))
		}
	}
	a.closeStores()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		a.logger.Warn("shutdown completed but deadline exceeded")
	}
	return errors.Join(errs...)
}

// GRPCAddr is the bound gateway address.
func (a *App) GRPCAddr() string {
	return a.grpcServer.Addr().String()
}

// OpsAddr is the bound ops address, or empty when disabled.
func (a *App) OpsAddr() string {
	if a.opsServer == nil {
		return ""
	}
	return a.opsServer.Addr().String()
}

func (a *App) health(ctx context.Context) error {
	if err := a.journal.Ping(ctx); err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	if err := a.cache.Ping(ctx); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return nil
}

func (a *App) closeStores() {
	a.cancel()
	if err := a.cache.Close(); err != nil {
		a.logger.Error("cache shutdown error", zap.Error(err))
	}
	if err := a.journalDB.Close(); err != nil {
		a.logger.Error("database shutdown error", zap.Error(err))
	}
}
