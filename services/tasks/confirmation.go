package tasks

import (
	"encoding/json"
	"time"

	"tourbook/models"

	"github.com/hibiken/asynq"
)

const TypeBookingConfirmation = "booking:confirmation"

// QueueNotifications is the asynq queue confirmation tasks are sent to.
const QueueNotifications = "notifications"

func NewBookingConfirmationTask(payload models.BookingConfirmationPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingConfirmation, b)
	opts := []asynq.Option{
		asynq.Queue(QueueNotifications),
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Second),
		// A redelivered webhook must not notify twice.
		asynq.TaskID("confirmation:" + payload.BookingID),
	}

	return task, opts, nil
}

// ParseBookingConfirmation decodes the payload of a confirmation task.
func ParseBookingConfirmation(t *asynq.Task) (models.BookingConfirmationPayload, error) {
	var payload models.BookingConfirmationPayload
	err := json.Unmarshal(t.Payload(), &payload)
	return payload, err
}
