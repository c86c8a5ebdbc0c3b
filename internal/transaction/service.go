package transaction

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/partner-transaction/internal"
	"github.com/frahmantamala/partner-transaction/internal/core/events"
	"github.com/frahmantamala/partner-transaction/internal/partner"
	"github.com/frahmantamala/partner-transaction/pkg/logger"
)

// EventPublisher is the slice of the event bus the service needs.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	registry partner.Registry
	signer   *Signer
	eventBus EventPublisher
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Service)

// WithClock replaces the wall clock used when the request context carries
// no arrival time.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService wires a submission pipeline. eventBus may be nil.
func NewService(registry partner.Registry, eventBus EventPublisher, lg *slog.Logger, opts ...Option) *Service {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	s := &Service{
		registry: registry,
		signer:   NewSigner(lg),
		eventBus: eventBus,
		logger:   lg,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates req, verifies its signature and prices it. Validation
// failures come back as a single *errors.AppError listing every message; a
// signature mismatch comes back as an access-denied error wrapping
// ErrSignatureMismatch.
func (s *Service) Submit(ctx context.Context, req *TransactionRequest) (*Quote, error) {
	if req == nil {
		return nil, errors.NewValidationError(MsgInvalidRequestBody, errors.ErrCodeValidationFailed)
	}

	now, ok := errors.RequestTimeFromContext(ctx)
	if !ok {
		now = s.now().UTC()
	}

	lg := logger.From(ctx, s.logger).With(
		"partner_key", req.PartnerKey,
		"partner_ref_no", req.PartnerRefNo)

	if appErr := Validate(req, s.registry, now); appErr != nil {
		lg.Info("transaction rejected", "reasons", appErr.Messages())
		s.publish(ctx, events.NewTransactionRejectedEvent(req.PartnerKey, req.PartnerRefNo, appErr.Messages()))
		return nil, appErr
	}

	if !s.signer.Verify(req) {
		lg.Info("transaction rejected", "reason", "signature mismatch")
		s.publish(ctx, events.NewTransactionRejectedEvent(req.PartnerKey, req.PartnerRefNo, []string{MsgAccessDenied}))
		return nil, NewAccessDenied(ErrSignatureMismatch)
	}

	quote := NewQuote(req.TotalAmount)
	lg.Info("transaction priced",
		"total_amount", quote.TotalAmount,
		"discount_percentage", quote.Percentage.String(),
		"final_amount", quote.FinalAmount.String())
	s.publish(ctx, events.NewTransactionPricedEvent(
		req.PartnerKey, req.PartnerRefNo, quote.TotalAmount,
		quote.Percentage, quote.TotalDiscount, quote.FinalAmount))

	return &quote, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Error("failed to publish event",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"error", err)
	}
}
