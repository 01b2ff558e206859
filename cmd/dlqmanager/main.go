package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron"

	"example.com/wellplan/internal/config"
	"example.com/wellplan/internal/outbox"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	manager := outbox.NewDLQManager(pool, cfg.DLQMaxRetries, cfg.DLQBaseDelay, nil)

	metricsSrv := &http.Server{Addr: cfg.MetricsAddress, Handler: promhttp.Handler()}
	go func() {
		log.Printf("dlq manager metrics listening on %s", cfg.MetricsAddress)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()

	// Runs never overlap; a tick that arrives mid-run is skipped.
	var running sync.Mutex
	scheduler := cron.New()
	err = scheduler.AddFunc(cfg.DLQSchedule, func() {
		if !running.TryLock() {
			return
		}
		defer running.Unlock()

		processed, err := manager.RunOnce(ctx, cfg.DLQBatchSize)
		if err != nil {
			log.Printf("dlq manager error: %v", err)
		} else if processed > 0 {
			log.Printf("dlq manager processed %d entries", processed)
		}
	})
	if err != nil {
		log.Fatalf("invalid DLQ_SCHEDULE %q: %v", cfg.DLQSchedule, err)
	}
	scheduler.Start()

	log.Printf("DLQ manager started (schedule=%s, maxRetries=%d)", cfg.DLQSchedule, cfg.DLQMaxRetries)

	<-ctx.Done()
	log.Println("dlq manager received shutdown signal")
	scheduler.Stop()

	// Stop does not wait for an in-flight run.
	running.Lock()
	running.Unlock()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("metrics server shutdown error: %v", err)
	}
}
