package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"matchscore-backend/internal/bootstrap"
	"matchscore-backend/internal/queue"
	"matchscore-backend/internal/scans"
	"matchscore-backend/internal/shared/config"
	"matchscore-backend/internal/shared/telemetry"
)

const (
	defaultWorkerConcurrency  = 4
	defaultShutdownTimeoutSec = 30
)

func main() {
	cfg := config.Load()

	if strings.TrimSpace(cfg.QueueURL) == "" {
		log.Fatal("SCAN_QUEUE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	concurrency := envInt("SCAN_WORKER_CONCURRENCY", defaultWorkerConcurrency)
	shutdownTimeout := time.Duration(envInt("SCAN_SHUTDOWN_TIMEOUT_SECONDS", defaultShutdownTimeoutSec)) * time.Second

	consumer, err := queue.NewSQSClient(ctx, cfg.QueueURL)
	if err != nil {
		log.Fatalf("queue client: %v", err)
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	if concurrency < 1 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	log.Printf("worker started queue=%s concurrency=%d", cfg.QueueURL, concurrency)

pollLoop:
	for {
		select {
		case <-ctx.Done():
			break pollLoop
		default:
		}

		received, err := consumer.Receive(ctx, 10)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				break pollLoop
			}
			log.Printf("receive message: %v", err)
			continue
		}

		for _, rec := range received {
			select {
			case <-ctx.Done():
				break pollLoop
			case sem <- struct{}{}:
			}
			wg.Add(1)
			go func(r queue.Received) {
				defer wg.Done()
				defer func() { <-sem }()
				handleMessage(ctx, app.ScanProcessor, consumer, r)
			}(rec)
		}
	}

	log.Printf("shutdown requested, waiting up to %s for in-flight jobs", shutdownTimeout)
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(shutdownTimeout):
		log.Printf("shutdown timeout reached; exiting with in-flight jobs")
	}
}

type deleter interface {
	Delete(ctx context.Context, receiptHandle string) error
}

// handleMessage runs one scan job. The message is deleted whether the
// scan succeeds or fails: failures are persisted on the scan row and a
// redelivery would only repeat the same failure.
func handleMessage(ctx context.Context, proc bootstrap.ScanProcessor, del deleter, rec queue.Received) {
	msg := rec.Message
	if strings.TrimSpace(msg.ScanID) == "" {
		telemetry.Error("worker.scan.missing_id", map[string]any{
			"request_id": msg.RequestID,
		})
		deleteMessage(ctx, del, rec)
		return
	}

	jobCtx := scans.WithRequestID(ctx, msg.RequestID)
	telemetry.Info("worker.scan.received", map[string]any{
		"scan_id":    msg.ScanID,
		"request_id": msg.RequestID,
	})

	if err := proc.Process(jobCtx, msg.ScanID); err != nil {
		telemetry.Error("worker.scan.failed", map[string]any{
			"scan_id":    msg.ScanID,
			"request_id": msg.RequestID,
			"error":      err.Error(),
		})
	} else {
		telemetry.Info("worker.scan.completed", map[string]any{
			"scan_id":    msg.ScanID,
			"request_id": msg.RequestID,
		})
	}

	deleteMessage(ctx, del, rec)
}

func deleteMessage(ctx context.Context, del deleter, rec queue.Received) {
	if strings.TrimSpace(rec.ReceiptHandle) == "" {
		return
	}
	if err := del.Delete(ctx, rec.ReceiptHandle); err != nil {
		telemetry.Error("worker.scan.delete_failed", map[string]any{
			"scan_id": rec.Message.ScanID,
			"error":   err.Error(),
		})
	}
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
