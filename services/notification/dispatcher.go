package notification

import (
	"context"
	"fmt"

	"massobook/models"
	"massobook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InlineDispatcher sends within the booking request.
type InlineDispatcher struct {
	mailer Mailer
}

func NewInlineDispatcher(mailer Mailer) *InlineDispatcher {
	return &InlineDispatcher{mailer: mailer}
}

func (d *InlineDispatcher) Dispatch(ctx context.Context, p models.ConfirmationPayload) error {
	return d.mailer.SendConfirmation(ctx, p)
}

// Enqueuer is the part of *asynq.Client the queue dispatcher uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueDispatcher hands the confirmation to the background worker.
type QueueDispatcher struct {
	client Enqueuer
	logger *zap.Logger
}

func NewQueueDispatcher(client Enqueuer, logger *zap.Logger) *QueueDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueueDispatcher{client: client, logger: logger}
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, p models.ConfirmationPayload) error {
	task, opts, err := tasks.NewConfirmationTask(p)
	if err != nil {
		return fmt.Errorf("build confirmation task: %w", err)
	}
	info, err := d.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue confirmation: %w", err)
	}
	d.logger.Debug("confirmation queued", zap.String("taskId", info.ID), zap.String("queue", info.Queue))
	return nil
}
