package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/wcloud/dynamicmenu/internal/app"
	"github.com/wcloud/dynamicmenu/internal/auth"
	authhttp "github.com/wcloud/dynamicmenu/internal/auth/http"
	"github.com/wcloud/dynamicmenu/internal/menu"
	"github.com/wcloud/dynamicmenu/internal/observability"
	"github.com/wcloud/dynamicmenu/internal/platform/cache"
	"github.com/wcloud/dynamicmenu/internal/platform/db"
	"github.com/wcloud/dynamicmenu/internal/roles"
	"github.com/wcloud/dynamicmenu/internal/token"
	"github.com/wcloud/dynamicmenu/internal/users"
	"github.com/wcloud/dynamicmenu/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	codec, err := token.NewCodec(cfg.JWTSecret, cfg.JWTTTL, logger)
	if err != nil {
		logger.Error("init token codec", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()

	menuRepo := menu.NewRepository(pool)
	menuService := menu.NewService(menuRepo, logger)
	menuHandler := menu.NewHandler(logger, menuService)

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo, menuService, logger)

	var directory auth.Directory = usersService
	if cfg.AuthCacheTTL > 0 {
		directory = users.NewCachedDirectory(usersService, redisClient, cfg.AuthCacheTTL, logger)
		logger.Info("authority cache enabled", slog.Duration("ttl", cfg.AuthCacheTTL))
	}

	authService := auth.NewService(directory, logger)
	authenticator := auth.NewAuthenticator(logger, codec, authService, cfg.JWTHeader, cfg.JWTPrefix, metrics)

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	authHandler := authhttp.NewHandler(logger, authService, codec, menuService, usersService, jobsClient)
	usersHandler := users.NewHandler(logger, usersService)

	rolesRepo := roles.NewRepository(pool)
	rolesService := roles.NewService(rolesRepo, logger)
	rolesHandler := roles.NewHandler(logger, rolesService, menuService)

	router := app.NewRouter(app.RouterParams{
		Logger:        logger,
		Config:        cfg,
		Authenticator: authenticator,
		AuthHandler:   authHandler,
		MenuHandler:   menuHandler,
		UsersHandler:  usersHandler,
		RolesHandler:  rolesHandler,
		Metrics:       metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("server exit", slog.Any("error", err))
		os.Exit(1)
	}
}
