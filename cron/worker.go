package cron

import (
	"context"
	"fmt"
	"time"

	"massobook/config"
	"massobook/services/notification"
	"massobook/services/tasks"
	"massobook/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// QueueRedisOpt is the asynq connection for the confirmation queue.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitConfirmationWorker runs the confirmation email worker in background.
// The returned server should be shut down on exit; cancelling ctx stops the
// queue health monitor.
func InitConfirmationWorker(ctx context.Context, mailer notification.Mailer, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendConfirmation, handleConfirmationTask(mailer, logger))

	go monitorRedisConnection(ctx, logger, 30*time.Second)

	go func() {
		logger.Info("starting confirmation worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("confirmation worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("confirmation worker gave up; queued emails will wait for the next start")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func handleConfirmationTask(mailer notification.Mailer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseConfirmationTask(task)
		if err != nil {
			logger.Error("invalid confirmation payload", zap.Error(err))
			return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
		}

		if err := mailer.SendConfirmation(ctx, p); err != nil {
			logger.Warn("confirmation email failed",
				zap.String("bookingId", p.BookingID), zap.Error(err))
			// a missing key will not fix itself between retries
			if utils.KindOf(err) == utils.KindConfiguration {
				return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
			}
			return err
		}

		logger.Info("confirmation email sent", zap.String("bookingId", p.BookingID))
		return nil
	}
}

// monitorRedisConnection pings the queue database periodically to detect
// failures at runtime. It returns once ctx is done.
func monitorRedisConnection(ctx context.Context, logger *zap.Logger, every time.Duration) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("queue redis monitor stopped")
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("queue redis connection lost", zap.Error(err))
			}
		}
	}
}
