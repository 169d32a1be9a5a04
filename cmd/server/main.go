package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/taskflow/api/handler"
	"github.com/fastygo/taskflow/internal/config"
	"github.com/fastygo/taskflow/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/taskflow/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/taskflow/internal/infrastructure/redis"
	"github.com/fastygo/taskflow/internal/middleware"
	"github.com/fastygo/taskflow/internal/router"
	"github.com/fastygo/taskflow/internal/services/lifecycle"
	"github.com/fastygo/taskflow/pkg/httpcontext"
	"github.com/fastygo/taskflow/pkg/logger"
	"github.com/fastygo/taskflow/pkg/token"
	"github.com/fastygo/taskflow/repository"
	"github.com/fastygo/taskflow/repository/memory"
	"github.com/fastygo/taskflow/repository/postgres"
	redisRepo "github.com/fastygo/taskflow/repository/redis"
	analyticsUC "github.com/fastygo/taskflow/usecase/analytics"
	authUC "github.com/fastygo/taskflow/usecase/auth"
	commentUC "github.com/fastygo/taskflow/usecase/comment"
	profileUC "github.com/fastygo/taskflow/usecase/profile"
	projectUC "github.com/fastygo/taskflow/usecase/project"
	taskUC "github.com/fastygo/taskflow/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Fields: map[string]string{
			"app":     cfg.AppName,
			"version": cfg.Version,
			"env":     cfg.Environment,
		},
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)

	if cfg.Migrations.Enabled {
		if err := pgInfra.RunMigrations(cfg.Database.URL, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.OnStop("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}

	var (
		attempts    repository.AttemptCounter
		redisPinger monitor.Pinger
	)
	if redisClient != nil {
		manager.OnStop("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
		attempts = redisRepo.NewAttemptCounter(redisClient)
		redisPinger = monitor.PingerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
		zapLogger.Info("redis enabled, attempt counters are shared")
	} else {
		attempts = memory.NewAttemptCounter()
		zapLogger.Info("redis disabled, attempt counters are kept in process")
	}

	mon := monitor.New(pool, redisPinger, 0, zapLogger)

	issuer, err := token.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	if err != nil {
		zapLogger.Fatal("token issuer", zap.Error(err))
	}

	userRepo := postgres.NewUserRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	commentRepo := postgres.NewCommentRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)

	authUseCase := authUC.New(userRepo, issuer, zapLogger)
	limiter := authUC.NewAttemptLimiter(attempts, cfg.RateLimit.Attempts, cfg.RateLimit.Window, zapLogger)
	profileUseCase := profileUC.New(userRepo, zapLogger)
	projectUseCase := projectUC.New(projectRepo, userRepo, zapLogger)
	taskUseCase := taskUC.New(taskRepo, projectRepo, zapLogger)
	commentUseCase := commentUC.New(commentRepo, taskRepo, projectRepo, zapLogger)
	analyticsUseCase := analyticsUC.New(analyticsRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:      apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Profile:   apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		Project:   apiHandler.NewProjectHandler(projectUseCase, ctxAdapter, zapLogger),
		Task:      apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Comment:   apiHandler.NewCommentHandler(commentUseCase, ctxAdapter, zapLogger),
		Analytics: apiHandler.NewAnalyticsHandler(analyticsUseCase, ctxAdapter, zapLogger),
		Health:    apiHandler.NewHealthHandler(mon, cfg.AppName, cfg.Version, ctxAdapter, zapLogger),
	}

	r := router.New(handlers, router.Middlewares{
		Auth:          middleware.JWTAuth(authUseCase, ctxAdapter, zapLogger),
		LoginLimit:    middleware.RateLimit(limiter, "login", ctxAdapter),
		RegisterLimit: middleware.RateLimit(limiter, "register", ctxAdapter),
	})

	server := &fasthttp.Server{
		Handler:            router.Handler(r, middleware.RequestLogger(zapLogger), middleware.CORS()),
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		MaxRequestBodySize: cfg.HTTP.MaxBodySize,
		Name:               cfg.AppName,
	}

	manager.Go("http_server", func() error {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		return server.ListenAndServe(cfg.Address())
	})
	manager.OnStop("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	waitErr := manager.Wait(appCtx)
	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
	if waitErr != nil {
		zapLogger.Fatal("server stopped unexpectedly", zap.Error(waitErr))
	}
}
