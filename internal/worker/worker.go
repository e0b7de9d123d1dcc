package worker

import (
	"context"

	"github.com/mandapam/portal/internal/config"
	"github.com/mandapam/portal/internal/domain"
	"github.com/mandapam/portal/internal/queue/task"
	emailProvider "github.com/mandapam/portal/pkg/email"
)

type Workers struct {
	PassSender PassSender
	PassMailer PassMailer
}

// Backend is the slice of the association backend the workers call.
type Backend interface {
	SendWhatsApp(ctx context.Context, eventID, registrationID int64) error
	PassPDF(ctx context.Context, eventID, registrationID int64) ([]byte, error)
	GetEvent(ctx context.Context, eventID int64) (*domain.Event, error)
}

type Deps struct {
	Backend       Backend
	EmailProvider emailProvider.Sender
	Config        *config.Config
}

type PassSender interface {
	SendPass(ctx context.Context, eventID, registrationID int64) error
}

type PassMailer interface {
	EmailPass(ctx context.Context, data task.EmailPass) error
}

func NewWorkers(deps Deps) *Workers {
	return &Workers{
		PassSender: newPassSender(deps.Backend),
		PassMailer: newPassMailer(deps.Backend, deps.EmailProvider, deps.Config.Email),
	}
}
