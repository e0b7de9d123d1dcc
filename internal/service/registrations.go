package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mandapam/portal/internal/association"
	"github.com/mandapam/portal/internal/config"
	"github.com/mandapam/portal/internal/domain"
	"github.com/mandapam/portal/internal/pass"
	"github.com/mandapam/portal/internal/payment"
	"github.com/mandapam/portal/internal/photo"
	"github.com/mandapam/portal/internal/probe"
	"github.com/mandapam/portal/internal/upstream"
	pkgvalidator "github.com/mandapam/portal/pkg/validator"
)

type Uploader interface {
	UploadProfileImage(ctx context.Context, filename string, contentType string, data []byte) (string, error)
}

// SessionView is everything the registration page renders for a session.
type SessionView struct {
	ID              uuid.UUID           `json:"session_id"`
	Flow            Flow                `json:"flow"`
	Event           domain.Event        `json:"event"`
	Phone           string              `json:"phone,omitempty"`
	PhoneLocked     bool                `json:"phone_locked"`
	CanSubmit       bool                `json:"can_submit"`
	Existing        *probe.Status       `json:"existing,omitempty"`
	Associations    association.View    `json:"associations"`
	Payment         *payment.State      `json:"payment,omitempty"`
	Delivery        pass.DeliveryStatus `json:"delivery_status,omitempty"`
	DeliveryMessage string              `json:"delivery_message,omitempty"`
	ExpiresAt       time.Time           `json:"expires_at"`
}

type registrationDeps struct {
	events       *Events
	uploader     Uploader
	probe        *probe.Probe
	associations *association.Client
	optimizer    *photo.Optimizer
	orchestrator *payment.Orchestrator
	passes       *pass.Coordinator
	cfg          *config.Config
	log          *zap.Logger
}

// Registrations drives the public self-registration page and the staff
// manual registration modal.
type Registrations struct {
	registrationDeps
	validate *validator.Validate
	sessions *registry
	root     context.Context
}

func newRegistrations(ctx context.Context, deps registrationDeps) *Registrations {
	if ctx == nil {
		ctx = context.Background()
	}
	r := &Registrations{
		registrationDeps: deps,
		validate:         pkgvalidator.New(),
		sessions:         newRegistry(deps.cfg.Session.TTL),
		root:             ctx,
	}
	go r.sessions.run(ctx, time.Minute)
	return r
}

func (r *Registrations) NewSession(ctx context.Context, flow Flow, eventID int64, staffID string) (*SessionView, error) {
	if flow == FlowManual && staffID == "" {
		return nil, ErrStaffOnly
	}

	event, err := r.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	sctx, cancel := context.WithCancel(r.root)
	s := &Session{
		ID:           uuid.New(),
		Flow:         flow,
		StaffID:      staffID,
		Event:        *event,
		ctx:          sctx,
		cancel:       cancel,
		watcher:      probe.NewWatcher(sctx, r.probe, eventID, r.cfg.Probe.Debounce),
		associations: association.NewDebouncer(sctx, r.associations, r.cfg.Association.Debounce),
	}
	r.sessions.add(s)

	r.log.Debug("registration session opened",
		zap.String("session_id", s.ID.String()),
		zap.Int64("event_id", eventID),
		zap.String("flow", string(flow)),
	)

	return r.view(s), nil
}

func (r *Registrations) Session(_ context.Context, id string) (*SessionView, error) {
	s, err := r.sessions.get(id)
	if err != nil {
		return nil, err
	}
	return r.view(s), nil
}

// PhoneChanged feeds the phone field; a complete number starts the
// debounced already-registered check.
func (r *Registrations) PhoneChanged(_ context.Context, id string, raw string) (*SessionView, error) {
	s, err := r.sessions.get(id)
	if err != nil {
		return nil, err
	}
	s.watcher.PhoneChanged(raw)
	return r.view(s), nil
}

func (r *Registrations) CityChanged(_ context.Context, id string, city string) (*SessionView, error) {
	s, err := r.sessions.get(id)
	if err != nil {
		return nil, err
	}
	s.associations.CityChanged(city)
	return r.view(s), nil
}

// Status answers the standalone "am I registered?" lookup. The explicit
// variant reports a failed lookup instead of assuming not registered.
func (r *Registrations) Status(ctx context.Context, eventID int64, phone string, explicit bool) (probe.Status, error) {
	if explicit {
		return r.probe.Verify(ctx, eventID, phone)
	}
	return r.probe.Check(ctx, eventID, phone), nil
}

// Submit validates the form, guards against duplicate registration and
// starts a payment attempt. It returns once the attempt needs the gateway
// or has settled, or when ctx ends.
func (r *Registrations) Submit(ctx context.Context, id string, form Form, upload *photo.Upload) (*SessionView, error) {
	s, err := r.sessions.get(id)
	if err != nil {
		return nil, err
	}

	form.Normalize()

	// A phone the watcher already looked up is not probed again; any other
	// phone is checked by the attempt before anything is uploaded.
	var prior *probe.Status
	if s.watcher.Phone() == form.Phone {
		if st, ok := s.watcher.Latest(); ok && st.IsRegistered {
			prior = &st
		} else if s.watcher.InFlight() {
			return nil, ErrPhoneCheckPending
		}
	}

	accepted, photoErr := r.optimizer.Accept(upload)
	previewURL := ""
	if photoErr == nil {
		previewURL = accepted.Preview
	}

	sub := payment.Submission{
		EventID:      s.Event.ID,
		Phone:        form.Phone,
		Free:         s.Event.IsFree(),
		PhotoDataURL: previewURL,
		Prior:        prior,
		Validate: func() map[string]string {
			if prior != nil {
				return nil
			}
			fields := form.Validate(r.validate)
			if photoErr != nil {
				fields["photo"] = photoErr.Error()
			}
			return fields
		},
		Prepare: func(ctx context.Context) (upstream.InitiateRequest, error) {
			return r.prepare(ctx, form, upload)
		},
		OnConfirmed: func(ctx context.Context, st payment.State) {
			r.confirmed(ctx, s, form, st)
		},
	}

	s.mu.Lock()
	if s.attempt != nil {
		phase := s.attempt.State().Phase
		if phase == payment.Confirmed {
			s.mu.Unlock()
			return r.view(s), nil
		}
		if !phase.Resubmittable() {
			s.mu.Unlock()
			return nil, ErrAttemptInProgress
		}
	}
	attempt := r.orchestrator.Start(s.ctx, sub)
	s.attempt = attempt
	s.delivery = ""
	s.mu.Unlock()

	r.log.Info("registration submitted",
		zap.String("session_id", s.ID.String()),
		zap.String("attempt_id", attempt.ID.String()),
		zap.Int64("event_id", s.Event.ID),
		zap.String("flow", string(s.Flow)),
		zap.String("staff_id", s.StaffID),
	)

	_, _ = attempt.Wait(ctx, func(st payment.State) bool {
		return st.Phase == payment.AwaitingGateway || st.Phase.Terminal()
	})
	return r.view(s), nil
}

// Gateway relays a checkout callback. Repeated success callbacks are
// absorbed; only the first one confirms the payment.
func (r *Registrations) Gateway(ctx context.Context, id string, ev payment.GatewayEvent) (*SessionView, error) {
	s, err := r.sessions.get(id)
	if err != nil {
		return nil, err
	}

	attempt := s.currentAttempt()
	if attempt == nil {
		return nil, fmt.Errorf("%w: no payment in progress", payment.ErrIllegalTransition)
	}

	if _, err = attempt.Deliver(ev); err != nil && !errors.Is(err, payment.ErrDuplicateConfirmation) {
		return nil, err
	}

	// A slow confirmation answers with the in-progress view; the client
	// follows up with the session.
	if wait := r.cfg.Session.GatewayWait; wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wait)
		defer cancel()
	}

	_, _ = attempt.Wait(ctx, func(st payment.State) bool {
		return st.Phase != payment.Confirming && st.Phase != payment.Polling
	})
	return r.view(s), nil
}

// PassTarget returns the registration confirmed in the session, so a pass is
// only reachable by whoever holds the session.
func (r *Registrations) PassTarget(_ context.Context, id string) (eventID, registrationID int64, err error) {
	s, err := r.sessions.get(id)
	if err != nil {
		return 0, 0, err
	}

	attempt := s.currentAttempt()
	if attempt == nil {
		return 0, 0, ErrNotConfirmed
	}
	st := attempt.State()
	if st.Phase != payment.Confirmed || st.Outcome == nil || st.Outcome.Registration == nil || st.Outcome.Registration.ID == 0 {
		return 0, 0, ErrNotConfirmed
	}
	return s.Event.ID, st.Outcome.Registration.ID, nil
}

func (r *Registrations) prepare(ctx context.Context, form Form, upload *photo.Upload) (upstream.InitiateRequest, error) {
	optimized, err := r.optimizer.Optimize(upload.Data)
	if err != nil {
		return upstream.InitiateRequest{}, fmt.Errorf("%w: %w", ErrUpload, err)
	}

	url, err := r.uploader.UploadProfileImage(ctx, optimized.Filename(upload.Filename), optimized.MIME, optimized.Data)
	if err != nil {
		return upstream.InitiateRequest{}, fmt.Errorf("%w: %w", ErrUpload, err)
	}

	return form.initiateRequest(url), nil
}

func (r *Registrations) confirmed(ctx context.Context, s *Session, form Form, st payment.State) {
	out := st.Outcome
	if out == nil {
		return
	}

	conf := confirmation(out)
	status := conf.Status()
	if r.passes != nil && out.Registration != nil {
		status = r.passes.Handoff(ctx, conf, pass.Recipient{
			EventID:        st.EventID,
			RegistrationID: out.Registration.ID,
			Email:          form.Email,
			Name:           form.Name,
		})
	}
	s.setDelivery(status)
}

func (r *Registrations) view(s *Session) *SessionView {
	v := &SessionView{
		ID:           s.ID,
		Flow:         s.Flow,
		Event:        s.Event,
		Phone:        s.watcher.Phone(),
		PhoneLocked:  s.watcher.InFlight(),
		Associations: s.associations.View(),
	}
	if st, ok := s.watcher.Latest(); ok && st.IsRegistered {
		v.Existing = &st
	}

	s.mu.Lock()
	attempt, delivery := s.attempt, s.delivery
	v.ExpiresAt = s.expiresAt
	s.mu.Unlock()

	if attempt != nil {
		st := attempt.State()
		v.Payment = &st
		if st.Phase == payment.Confirmed && st.Outcome != nil {
			if delivery == "" {
				delivery = confirmation(st.Outcome).Status()
			}
			v.Delivery = delivery
			v.DeliveryMessage = delivery.Message()
		}
	}

	resubmittable := v.Payment == nil || v.Payment.Phase.Resubmittable()
	v.CanSubmit = !v.PhoneLocked && v.Existing == nil && resubmittable
	return v
}

func confirmation(out *payment.Outcome) pass.Confirmation {
	return pass.Confirmation{
		Existing:           out.Existing,
		Recovered:          out.Recovered,
		IsNewRegistration:  out.IsNewRegistration,
		ShouldSendWhatsApp: out.ShouldSendWhatsApp,
		DeliveryError:      out.DeliveryError,
	}
}
