package tasks

import (
	"encoding/json"

	"massobook/models"

	"github.com/hibiken/asynq"
)

const TypeSendConfirmation = "booking:confirmation"

const confirmationMaxRetry = 5

func NewConfirmationTask(payload models.ConfirmationPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendConfirmation, b)
	opts := []asynq.Option{asynq.MaxRetry(confirmationMaxRetry)}
	if payload.BookingID != "" {
		opts = append(opts, asynq.TaskID("confirmation:"+payload.BookingID))
	}
	return task, opts, nil
}

func ParseConfirmationTask(task *asynq.Task) (models.ConfirmationPayload, error) {
	var p models.ConfirmationPayload
	err := json.Unmarshal(task.Payload(), &p)
	return p, err
}
