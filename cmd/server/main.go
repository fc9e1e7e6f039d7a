package main

import (
	"context"
	"crypto/rand"
	"log"
	"os"
	"path/filepath"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/lifelogger/backend/api/handler"
	"github.com/lifelogger/backend/api/transport"
	"github.com/lifelogger/backend/domain"
	"github.com/lifelogger/backend/internal/config"
	"github.com/lifelogger/backend/internal/infrastructure/monitor"
	pgInfra "github.com/lifelogger/backend/internal/infrastructure/postgres"
	redisInfra "github.com/lifelogger/backend/internal/infrastructure/redis"
	"github.com/lifelogger/backend/internal/middleware"
	"github.com/lifelogger/backend/internal/router"
	"github.com/lifelogger/backend/internal/services/lifecycle"
	"github.com/lifelogger/backend/pkg/httpcontext"
	"github.com/lifelogger/backend/pkg/logger"
	"github.com/lifelogger/backend/repository"
	"github.com/lifelogger/backend/repository/memory"
	"github.com/lifelogger/backend/repository/postgres"
	redisRepo "github.com/lifelogger/backend/repository/redis"
	"github.com/lifelogger/backend/repository/sqlite"
	authUC "github.com/lifelogger/backend/usecase/auth"
	statsUC "github.com/lifelogger/backend/usecase/stats"
	taskUC "github.com/lifelogger/backend/usecase/task"
)

type stores struct {
	tasks       repository.TaskRepository
	completions repository.CompletionRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Service:  cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	mon := monitor.New(cfg.Monitor.Interval, zapLogger)

	var repos stores
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		repos = openSQLite(appCtx, cfg, mon, manager, zapLogger)
	default:
		repos = openPostgres(appCtx, cfg, mon, manager, zapLogger)
	}

	limiter := newAttemptLimiter(appCtx, cfg, mon, manager, zapLogger)

	if err := mon.Start(); err != nil {
		zapLogger.Fatal("monitor start failed", zap.Error(err))
	}
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop(ctx)
		return nil
	})

	loc, _ := cfg.Location()
	clock := domain.NewClock(loc, nil)

	authUseCase := authUC.New(authUC.Config{
		Password: cfg.Auth.SitePassword,
		Secret:   sessionSecret(cfg.Auth, zapLogger),
		Issuer:   cfg.Auth.Issuer,
		TTL:      cfg.Auth.SessionTTL,
	}, limiter, clock.Now, zapLogger)
	if !authUseCase.Enabled() {
		zapLogger.Warn("SITE_PASSWORD is empty, password gate disabled")
	}
	taskUseCase := taskUC.New(repos.tasks, repos.completions, clock, zapLogger)
	statsUseCase := statsUC.New(repos.tasks, repos.completions, clock, zapLogger)

	validator, err := transport.NewValidator()
	if err != nil {
		zapLogger.Fatal("request schemas invalid", zap.Error(err))
	}
	trustedProxies, err := httpcontext.ParseTrustedProxies(cfg.HTTP.TrustedProxies)
	if err != nil {
		zapLogger.Fatal("invalid TRUSTED_PROXIES", zap.Error(err))
	}
	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout, trustedProxies...)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, validator, cfg.Auth.SecureCookie, ctxAdapter, zapLogger),
		Task:   apiHandler.NewTaskHandler(taskUseCase, validator, ctxAdapter, zapLogger),
		Stats:  apiHandler.NewStatsHandler(statsUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	handler := router.New(handlers,
		middleware.AccessLog(zapLogger),
		middleware.Recover(zapLogger),
		middleware.PasswordGate(authUseCase, middleware.GateConfig{
			PublicPaths: router.PublicPaths,
			LoginPath:   apiHandler.LoginPath,
		}, zapLogger),
	)

	server := &fasthttp.Server{
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("driver", cfg.Database.Driver),
			zap.String("timezone", loc.String()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, mon *monitor.Monitor, manager *lifecycle.Manager, zapLogger *zap.Logger) stores {
	caPath, cleanup, err := pgInfra.ResolveRootCA(cfg.Database.SSLRootCA)
	if err != nil {
		zapLogger.Fatal("invalid DB_SSL_CA", zap.Error(err))
	}
	manager.Register("postgres_ca", func(context.Context) error {
		cleanup()
		return nil
	})

	dsn, err := pgInfra.WithRootCA(cfg.Database.URL, caPath)
	if err != nil {
		zapLogger.Fatal("invalid database url", zap.Error(err))
	}
	cfg.Database.URL = dsn

	if cfg.Migrations.Enabled {
		if err := pgInfra.RunMigrations(dsn, cfg.Migrations.Path, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}
	}

	pool, err := pgInfra.NewPool(ctx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(context.Context) error {
		pgInfra.Close(pool, zapLogger)
		return nil
	})
	mon.Register("database", pool.Ping)

	return stores{
		tasks:       postgres.NewTaskRepository(pool),
		completions: postgres.NewCompletionRepository(pool),
	}
}

func openSQLite(ctx context.Context, cfg *config.Config, mon *monitor.Monitor, manager *lifecycle.Manager, zapLogger *zap.Logger) stores {
	path := cfg.Database.SQLitePath
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			zapLogger.Fatal("sqlite directory", zap.Error(err))
		}
	}

	db, err := sqlite.Open(ctx, sqlite.Options{
		Path:            path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
	})
	if err != nil {
		zapLogger.Fatal("sqlite open failed", zap.Error(err))
	}
	zapLogger.Info("opened sqlite database", zap.String("path", path))
	manager.Register("sqlite", func(context.Context) error {
		return db.Close()
	})
	mon.Register("database", db.PingContext)

	return stores{
		tasks:       sqlite.NewTaskRepository(db),
		completions: sqlite.NewCompletionRepository(db),
	}
}

func newAttemptLimiter(ctx context.Context, cfg *config.Config, mon *monitor.Monitor, manager *lifecycle.Manager, zapLogger *zap.Logger) repository.AttemptLimiter {
	if !cfg.Redis.Enabled() {
		return memory.NewAttemptLimiter(cfg.Auth.MaxAttempts, cfg.Auth.AttemptWindow, nil)
	}

	client, err := redisInfra.NewClient(ctx, cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(context.Context) error {
		return client.Close()
	})
	mon.Register("redis", redisInfra.Pinger(client))

	return redisRepo.NewAttemptLimiter(client, cfg.Auth.MaxAttempts, cfg.Auth.AttemptWindow)
}

// sessionSecret falls back to a random key, which invalidates sessions on restart.
func sessionSecret(cfg config.AuthConfig, zapLogger *zap.Logger) []byte {
	if cfg.SessionSecret != "" {
		return []byte(cfg.SessionSecret)
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		zapLogger.Fatal("generate session secret", zap.Error(err))
	}
	if cfg.SitePassword != "" {
		zapLogger.Warn("SESSION_SECRET is empty, using a random key; sessions end on restart")
	}
	return secret
}
