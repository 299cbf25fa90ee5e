package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/isira-aw/Metropolitan-NEW-EMS/config"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/api/handler"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/api/router"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/metrics"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/notify"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/repository"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/scheduler"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/service"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/clock"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/database"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/jwt"
	applogger "github.com/isira-aw/Metropolitan-NEW-EMS/pkg/logger"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/redis"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/storage"
)

func main() {
	configPath := flag.String("config", "", "path to the config file")
	flag.Parse()

	// 1. configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logging
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("time_zone", cfg.Clock.TimeZone),
	)

	clk, err := clock.Load(cfg.Clock.TimeZone)
	if err != nil {
		logger.Fatal("load time zone", zap.Error(err))
	}

	// 3. database and schema
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	// 4. redis is optional: without it logout cannot revoke and login is not rate limited
	var blacklist service.TokenBlacklist
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, token revocation and login rate limiting disabled", zap.Error(err))
		rdb = nil
	} else {
		blacklist = rdb
	}

	// 5. image storage is optional as well
	var images storage.ImageStore
	if cfg.Storage.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		store, err := storage.NewMinioStore(ctx, &cfg.Storage, logger)
		cancel()
		if err != nil {
			logger.Warn("image storage unavailable", zap.Error(err))
		} else {
			images = store
		}
	}

	dispatcher := notify.NewDispatcher(
		notify.NewSMTPMailer(&cfg.Mail),
		notify.NewWhatsAppClient(&cfg.WhatsApp),
		0, logger,
	)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	// 6. repository -> service -> handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc, err := service.NewService(service.Deps{
		Config:    cfg,
		Repo:      repo,
		Clock:     clk,
		JWT:       jwtMgr,
		Blacklist: blacklist,
		Notifier:  dispatcher,
		Images:    images,
		Metrics:   m,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("init services", zap.Error(err))
	}
	h := handler.NewHandler(svc, cfg.Storage.MaxImageSize)

	// 7. background jobs
	sched := scheduler.New(
		scheduler.WithLogger(logger),
		scheduler.WithMetrics(m),
		scheduler.WithLocation(clk.Location()),
	)
	if cfg.Scheduler.Enabled {
		if err := sched.RegisterBuiltins(cfg.Scheduler, svc.Approval, svc.JobCard); err != nil {
			logger.Fatal("register scheduled jobs", zap.Error(err))
		}
		sched.Start()
	}

	// 8. HTTP
	engine := router.Setup(cfg, h, jwtMgr, rdb, m, logger)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	// 9. graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	if err := sched.Stop(ctx); err != nil {
		logger.Error("scheduler shutdown", zap.Error(err))
	}
	dispatcher.Wait()

	if err := sqlDB.Close(); err != nil {
		logger.Error("close database", zap.Error(err))
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("stopped")
}
