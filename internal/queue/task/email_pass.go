package task

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	EmailPassTaskName  = "emailPassTask"
	EmailPassQueueName = "emailPassQueue"
)

type EmailPass struct {
	EventID        int64  `json:"event_id"`
	RegistrationID int64  `json:"registration_id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
}

func NewEmailPassTask(eventID, registrationID int64, email, name string) (*asynq.Task, error) {
	data := EmailPass{
		EventID:        eventID,
		RegistrationID: registrationID,
		Email:          email,
		Name:           name,
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("json data marshal failed: %w", err)
	}

	return asynq.NewTask(
		EmailPassTaskName,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(EmailPassQueueName),
	), nil
}
