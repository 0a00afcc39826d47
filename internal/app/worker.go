package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leave-core/internal/audit"
	"leave-core/internal/balance"
	"leave-core/internal/directory"
	"leave-core/internal/leave"
	"leave-core/internal/messaging/kafka"
	"leave-core/internal/messaging/kafka/producer"
	"leave-core/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker hosts the two background loops: the outbox drain that ships
// staged lifecycle events to the broker, and the escalation sweep that
// promotes pending requests past the deadline.
func RunWorker() error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	directoryService := directory.NewService(directory.NewRepository(gormDB))
	auditService := audit.NewService(audit.NewRepository(gormDB, sqlDB))
	balanceService := balance.NewService(sqlDB, balance.NewRepository(gormDB, sqlDB), auditService, nil)
	leaveService := leave.NewService(
		sqlDB,
		leave.NewRepository(gormDB, sqlDB),
		balanceService,
		auditService,
		directoryService,
		leave.NewEventPublisher(outboxRepo),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)

	go runEscalationSweep(ctx, leaveService, logger, time.Minute)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}

func runEscalationSweep(ctx context.Context, leaveService leave.Service, logger *zap.Logger, interval time.Duration) {
	log := logger.Named("escalation.sweep")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("escalation sweep started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			log.Info("escalation sweep stopped")
			return
		case <-ticker.C:
			promoted, err := leaveService.EscalateOverdue(ctx)
			if err != nil {
				log.Error("escalation sweep failed", zap.Error(err))
				continue
			}
			if promoted > 0 {
				log.Info("requests escalated", zap.Int("count", promoted))
			}
		}
	}
}
