package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/mandapam/portal/internal/config"
	"github.com/mandapam/portal/internal/queue/task"
	emailProvider "github.com/mandapam/portal/pkg/email"
)

type passMailer struct {
	backend Backend
	sender  emailProvider.Sender
	config  config.EmailConfig
}

func newPassMailer(backend Backend, sender emailProvider.Sender, cfg config.EmailConfig) *passMailer {
	return &passMailer{
		backend: backend,
		sender:  sender,
		config:  cfg,
	}
}

type passEmailInput struct {
	Name           string
	EventTitle     string
	RegistrationID int64
}

func (s *passMailer) EmailPass(ctx context.Context, data task.EmailPass) error {
	event, err := s.backend.GetEvent(ctx, data.EventID)
	if err != nil {
		return fmt.Errorf("get event failed: %w", err)
	}

	pdf, err := s.backend.PassPDF(ctx, data.EventID, data.RegistrationID)
	if err != nil {
		return fmt.Errorf("download pass failed: %w", err)
	}

	sendInput := emailProvider.SendEmailInput{
		Subject: "Your pass for " + event.Title,
		To:      data.Email,
		Attachments: []emailProvider.Attachment{{
			Filename:    fmt.Sprintf("pass-%d-%d.pdf", data.EventID, data.RegistrationID),
			ContentType: "application/pdf",
			Data:        pdf,
		}},
	}

	templateInput := passEmailInput{
		Name:           data.Name,
		EventTitle:     event.Title,
		RegistrationID: data.RegistrationID,
	}
	if err = sendInput.GenerateBodyFromHTML(s.config.Templates.Pass, templateInput); err != nil {
		return fmt.Errorf("generate email failed: %w", err)
	}

	if err = s.sender.Send(sendInput); err != nil {
		if errors.Is(err, emailProvider.ErrDisabled) {
			return fmt.Errorf("send email failed: %w: %w", err, asynq.SkipRetry)
		}
		return fmt.Errorf("send email failed: %w", err)
	}

	return nil
}
