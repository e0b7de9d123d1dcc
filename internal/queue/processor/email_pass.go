package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mandapam/portal/internal/queue/task"
	"github.com/mandapam/portal/internal/worker"

	"github.com/hibiken/asynq"
)

type emailPassProcessor struct {
	workers *worker.Workers
}

func NewEmailPassProcessor(workers *worker.Workers) *emailPassProcessor {
	return &emailPassProcessor{
		workers: workers,
	}
}

func (p *emailPassProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var data task.EmailPass
	err := json.Unmarshal(t.Payload(), &data)
	if err != nil {
		return fmt.Errorf("process email pass task json unmarshal failed: %w: %w", err, asynq.SkipRetry)
	}

	if err = p.workers.PassMailer.EmailPass(ctx, data); err != nil {
		return fmt.Errorf("email pass failed: %w", err)
	}

	return nil
}
