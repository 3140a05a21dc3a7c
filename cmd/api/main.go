package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/session-service/internal/api/http"
	"github.com/spec-kit/session-service/internal/api/http/handlers"
	"github.com/spec-kit/session-service/internal/auth"
	"github.com/spec-kit/session-service/internal/config"
	"github.com/spec-kit/session-service/internal/events"
	"github.com/spec-kit/session-service/internal/httpclient"
	"github.com/spec-kit/session-service/internal/observability"
	"github.com/spec-kit/session-service/internal/persistence"
	"github.com/spec-kit/session-service/internal/repository"
	"github.com/spec-kit/session-service/internal/service"
	"github.com/spec-kit/session-service/internal/state"
	"github.com/spec-kit/session-service/internal/token"
	"github.com/spec-kit/session-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var redis *persistence.Redis
	var kv persistence.KV
	if cfg.Redis.Addr != "" {
		redis = persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		kv = persistence.NewRedisKV(redis)
	} else {
		logger.Warn("REDIS_ADDR not provided; token store backed by memory")
		kv = persistence.NewMemoryKV()
	}

	codec := token.NewCodec(cfg.Auth.JWTSecret)
	tokenStore := auth.NewStore(kv, auth.StoreConfig{
		CookieName:   cfg.Auth.CookieName,
		CookieMaxAge: cfg.Auth.CookieMaxAge(),
	}, logger)
	session := auth.NewSession(tokenStore, codec)
	guard := auth.NewGuard(cfg.Guard, cfg.Auth.CookieName)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger)

	verifier, err := service.NewStaticVerifier(cfg.Auth, logger)
	if err != nil {
		logger.Fatal("failed to build credential verifier", zap.Error(err))
	}
	authService := service.NewAuthService(cfg.Auth, verifier, codec, dispatcher)
	authState := state.NewStore(authService, tokenStore)

	var userRepo repository.UserRepository
	if pool := pg.PoolHandle(); pool != nil {
		userRepo = repository.NewUserRepository(pool)
	} else {
		userRepo = repository.NewMemoryUserRepository()
	}
	userService := service.NewUserService(userRepo)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Version, cfg.App.Env, pg, redis),
		Auth:   handlers.NewAuthHandler(authState, session),
		Users:  handlers.NewUsersHandler(userService),
		Guard:  guard,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	apiClient := httpclient.New("http://127.0.0.1:"+cfg.App.Port, tokenStore, logger)
	worker.StartHealthMonitor(ctx, apiClient, time.Minute, logger)

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
