package task

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	SendPassTaskName  = "sendPassTask"
	SendPassQueueName = "sendPassQueue"
)

// SendPass asks the backend to (re)deliver the visitor pass on WhatsApp.
type SendPass struct {
	EventID        int64 `json:"event_id"`
	RegistrationID int64 `json:"registration_id"`
}

func NewSendPassTask(eventID, registrationID int64) (*asynq.Task, error) {
	data := SendPass{
		EventID:        eventID,
		RegistrationID: registrationID,
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("json data marshal failed: %w", err)
	}

	return asynq.NewTask(
		SendPassTaskName,
		payload,
		asynq.MaxRetry(5),
		asynq.Queue(SendPassQueueName),
	), nil
}
