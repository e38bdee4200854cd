// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"finance-notifier/internal/cleanup"
	"finance-notifier/internal/common/config"
	"finance-notifier/internal/common/database"
	"finance-notifier/internal/common/logger"
	"finance-notifier/internal/mailer"
	"finance-notifier/internal/queue/redisqueue"
	"finance-notifier/internal/scheduler"
	notifsvc "finance-notifier/internal/service/notification"
	entrystore "finance-notifier/internal/store/entry"
	notifstore "finance-notifier/internal/store/notification"
	userstore "finance-notifier/internal/store/user"
	entryreminder "finance-notifier/internal/workers/entry-reminder"
)

const handlerTimeout = 30 * time.Second

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("config load failed: %v", err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting worker manager",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected")

	// --- Init Redis with retry ---
	var rds *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rds, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rds.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rds.Close()
	zapLog.Info("Redis connected")

	// --- Mailer ---
	var m mailer.Mailer
	switch cfg.Email.Provider {
	case "smtp":
		m = mailer.NewSMTPMailer(
			cfg.Email.SMTP.Host,
			cfg.Email.SMTP.Port,
			cfg.Email.SMTP.Username,
			cfg.Email.SMTP.Password,
			cfg.Email.FromEmail,
			cfg.Email.SMTP.Domain,
		)
	default:
		m, err = mailer.NewSESMailer(ctx, cfg.Email.AWS.Region, cfg.Email.FromEmail)
		if err != nil {
			zapLog.Fatal("ses mailer init failed", zap.Error(err))
		}
	}
	zapLog.Info("mailer initialized", zap.String("provider", cfg.Email.Provider))

	// --- Wiring ---
	notifications := notifstore.NewStore(pg.DB)
	entries := entrystore.NewStore(pg.DB)
	users := userstore.NewStore(pg.DB)

	jobQueue := redisqueue.New(rds.Client, cfg.Queue.Namespace)
	calc := scheduler.NewTimeCalculator(cfg.Notifications.DefaultLeadMinutes, cfg.Notifications.DefaultTimezone)
	sched := scheduler.New(
		jobQueue,
		calc,
		log,
		cfg.Queue.Attempts,
		time.Duration(cfg.Queue.BackoffBaseMs)*time.Millisecond,
	)

	service := notifsvc.NewService(notifications, entries, users, sched, m, log)
	handler := entryreminder.NewHandler(service, log, handlerTimeout)

	runner := redisqueue.NewRunner(
		jobQueue,
		handler.Handle,
		log,
		time.Duration(cfg.Queue.PollIntervalMs)*time.Millisecond,
		cfg.Queue.WorkerCount,
	)

	cleaner := cleanup.NewCleaner(
		notifications,
		time.Duration(cfg.Cleanup.RetentionDays)*24*time.Hour,
		time.Duration(cfg.Cleanup.IntervalMinutes)*time.Minute,
		log,
	)

	// --- Metrics / pprof endpoint ---
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.Handle("/debug/pprof/", http.DefaultServeMux)

		addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
		zapLog.Info("metrics endpoint listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
			zapLog.Error("metrics endpoint failed", zap.Error(err))
		}
	}()

	go cleaner.Run(ctx)

	runner.Run(ctx)

	zapLog.Info("worker manager stopped")
}
