package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/mandapam/portal/internal/association"
	"github.com/mandapam/portal/internal/checkin"
	"github.com/mandapam/portal/internal/config"
	"github.com/mandapam/portal/internal/pass"
	"github.com/mandapam/portal/internal/payment"
	"github.com/mandapam/portal/internal/photo"
	"github.com/mandapam/portal/internal/probe"
	"github.com/mandapam/portal/internal/repository"
)

type Services struct {
	Events        *Events
	Registrations *Registrations
	Associations  *association.Client
	Passes        *pass.Coordinator
	CheckIn       *checkin.Controller
	Attempts      repository.PaymentAttempts
}

// Backend is the association REST backend as the services use it.
type Backend interface {
	payment.Upstream
	EventReader
	Uploader
}

type Deps struct {
	Ctx          context.Context
	Logger       *zap.Logger
	Config       *config.Config
	Backend      Backend
	Probe        *probe.Probe
	Associations *association.Client
	Optimizer    *photo.Optimizer
	Passes       *pass.Coordinator
	CheckIn      *checkin.Controller
	Repos        *repository.Repositories
}

func NewServices(deps Deps) *Services {
	var ledger payment.Ledger
	var attempts repository.PaymentAttempts
	if deps.Repos != nil {
		ledger = deps.Repos.PaymentAttempts
		attempts = deps.Repos.PaymentAttempts
	}

	orchestrator := payment.NewOrchestrator(
		deps.Backend,
		deps.Probe,
		ledger,
		payment.PoliciesFromConfig(deps.Config.Upstream),
		deps.Logger,
	)

	events := newEvents(deps.Backend)

	return &Services{
		Events: events,
		Registrations: newRegistrations(deps.Ctx, registrationDeps{
			events:       events,
			uploader:     deps.Backend,
			probe:        deps.Probe,
			associations: deps.Associations,
			optimizer:    deps.Optimizer,
			orchestrator: orchestrator,
			passes:       deps.Passes,
			cfg:          deps.Config,
			log:          deps.Logger,
		}),
		Associations: deps.Associations,
		Passes:       deps.Passes,
		CheckIn:      deps.CheckIn,
		Attempts:     attempts,
	}
}
