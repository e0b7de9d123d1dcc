package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/mandapam/portal/internal/upstream"
	"github.com/mandapam/portal/pkg/logger"
)

type passSender struct {
	backend Backend
}

func newPassSender(backend Backend) *passSender {
	return &passSender{backend: backend}
}

// SendPass asks the backend to push the pass over WhatsApp. Rejections
// other than transport failures are not retried.
func (s *passSender) SendPass(ctx context.Context, eventID, registrationID int64) error {
	err := s.backend.SendWhatsApp(ctx, eventID, registrationID)
	if err == nil {
		logger.Info("pass sent",
			zap.Int64("event_id", eventID),
			zap.Int64("registration_id", registrationID),
		)
		return nil
	}

	if upstream.IsNetwork(err) {
		return fmt.Errorf("send whatsapp: %w", err)
	}

	logger.Warn("pass send rejected",
		zap.Int64("event_id", eventID),
		zap.Int64("registration_id", registrationID),
		zap.Error(err),
	)
	return fmt.Errorf("send whatsapp: %w: %w", err, asynq.SkipRetry)
}
