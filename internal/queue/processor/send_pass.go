package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mandapam/portal/internal/queue/task"
	"github.com/mandapam/portal/internal/worker"

	"github.com/hibiken/asynq"
)

type sendPassProcessor struct {
	workers *worker.Workers
}

func NewSendPassProcessor(workers *worker.Workers) *sendPassProcessor {
	return &sendPassProcessor{
		workers: workers,
	}
}

func (p *sendPassProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var data task.SendPass
	err := json.Unmarshal(t.Payload(), &data)
	if err != nil {
		return fmt.Errorf("process send pass task json unmarshal failed: %w: %w", err, asynq.SkipRetry)
	}

	if err = p.workers.PassSender.SendPass(ctx, data.EventID, data.RegistrationID); err != nil {
		return fmt.Errorf("send pass failed: %w", err)
	}

	return nil
}
