package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"todo-list/internal/config"
	"todo-list/internal/httpapi"
	"todo-list/internal/logging"
	"todo-list/internal/notify"
	"todo-list/internal/repository"
	"todo-list/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	logger := logging.New(logging.Options{Level: cfg.LogLevel, Prefix: "todo"})
	if err != nil {
		logger.Fatal("config", "err", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := repository.NewDB(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("db", "err", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	now := func() time.Time { return time.Now().In(cfg.Location) }

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	taskSvc := service.NewTaskService(taskRepo, categoryRepo, now)
	categorySvc := service.NewCategoryService(categoryRepo)
	accountSvc := service.NewAccountService(userRepo, now)

	router := httpapi.NewRouter(httpapi.Options{
		Tasks:             taskSvc,
		Categories:        categorySvc,
		Auth:              service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, now),
		Accounts:          accountSvc,
		Logger:            logger,
		AuthRatePerMinute: cfg.AuthRatePerMinute,
		CORSOrigins:       cfg.CORSOrigins,
	})

	if cfg.DigestEnabled() {
		connect := func() (*notify.Telegram, error) { return notify.NewTelegram(cfg.TelegramToken, logger) }
		if scheduler, err := startTelegram(ctx, connect, cfg, logger, userRepo, taskRepo, accountSvc, taskSvc, categorySvc, now); err != nil {
			logger.Error("telegram unavailable, daily digest disabled", "err", err)
		} else {
			defer scheduler.Stop()
		}
	} else {
		logger.Info("TELEGRAM_TOKEN not set, daily digest disabled")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "err", err)
	}
	logger.Info("shutdown complete")
}

// startTelegram authorizes the bot, starts answering commands and schedules
// the daily digest. The HTTP API keeps running when it fails.
func startTelegram(
	ctx context.Context,
	connect func() (*notify.Telegram, error),
	cfg config.Config,
	logger *log.Logger,
	users *repository.UserRepository,
	tasks *repository.TaskRepository,
	accounts *service.AccountService,
	taskSvc *service.TaskService,
	categorySvc *service.CategoryService,
	now func() time.Time,
) (*service.SchedulerService, error) {
	telegram, err := connect()
	if err != nil {
		return nil, err
	}

	reminderSvc := service.NewReminderService(users, tasks, telegram, logger, now)
	scheduler := service.NewSchedulerService(cfg.Location, logger)
	if _, err := scheduler.ScheduleDaily(cfg.DigestTime, func() {
		jobCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()
		if err := reminderSvc.SendDailyReports(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("digest", "err", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule digest: %w", err)
	}

	commands := notify.NewCommands(accounts, taskSvc, categorySvc, logger, now)
	go func() {
		if err := telegram.Start(ctx, commands); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("telegram polling stopped", "err", err)
		}
	}()

	scheduler.Start()
	logger.Info("daily digest scheduled", "at", cfg.DigestTime, "tz", cfg.Location.String())
	return scheduler, nil
}
