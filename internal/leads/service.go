package leads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/growthops/lead-intake/internal/leadstore"
	"github.com/growthops/lead-intake/internal/observability/metrics"
	"github.com/growthops/lead-intake/internal/requestmeta"
	"github.com/growthops/lead-intake/pkg/logging"
)

const (
	// maxIDAttempts bounds identifier regeneration when the store reports a
	// key conflict. Each attempt writes a different key, so this is a
	// uniqueness guard rather than a write retry.
	maxIDAttempts = 3

	defaultNotifyTimeout = 10 * time.Second

	// unknownValue fills request-metadata fields the request did not supply.
	unknownValue = "unknown"
)

// Notifier delivers a best-effort notification for an accepted lead.
type Notifier interface {
	NotifyLead(ctx context.Context, lead Lead) error
}

// Options tunes service behavior per deployment surface.
type Options struct {
	// NotifyTimeout bounds a single notification attempt. Zero means the
	// default of ten seconds.
	NotifyTimeout time.Duration
	// AwaitNotify makes Submit wait for the notification before returning.
	// The Lambda surface needs this: its sandbox freezes once the response
	// is produced, so a detached goroutine would never run.
	AwaitNotify bool
}

// Service orchestrates the submission flow: validate, sanitize, enrich,
// persist, notify.
type Service struct {
	validator     *Validator
	store         leadstore.Store
	notifier      Notifier
	metrics       *metrics.LeadMetrics
	logger        *logging.Logger
	notifyTimeout time.Duration
	awaitNotify   bool
}

// NewService creates a submission service. The store and notifier are both
// soft-configured collaborators: either may be nil, which disables its step
// without erroring requests.
func NewService(validator *Validator, store leadstore.Store, notifier Notifier, m *metrics.LeadMetrics, logger *logging.Logger, opts Options) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	timeout := opts.NotifyTimeout
	if timeout <= 0 {
		timeout = defaultNotifyTimeout
	}
	return &Service{
		validator:     validator,
		store:         store,
		notifier:      notifier,
		metrics:       m,
		logger:        logger,
		notifyTimeout: timeout,
		awaitNotify:   opts.AwaitNotify,
	}
}

// Submit runs the full flow for one raw submission. A non-empty FieldError
// slice means the input was rejected by validation; a non-nil error means an
// internal failure. Exactly one of the three results is meaningful.
func (s *Service) Submit(ctx context.Context, raw map[string]any, meta requestmeta.Meta) (*Lead, []FieldError, error) {
	if errs := s.validator.Validate(raw); len(errs) > 0 {
		s.metrics.ObserveSubmission("rejected")
		for _, fe := range errs {
			s.metrics.ObserveValidationFailure(fe.Field)
		}
		return nil, errs, nil
	}

	lead := Sanitize(raw)
	applyMeta(&lead, meta)

	if err := s.persist(ctx, &lead); err != nil {
		s.metrics.ObserveSubmission("error")
		return nil, nil, err
	}

	s.dispatch(ctx, lead)

	s.metrics.ObserveSubmission("accepted")
	s.logger.Info("lead accepted",
		"lead_id", lead.ID,
		"company", lead.Company,
		"industry", lead.Industry,
		"country", lead.Country,
	)
	return &lead, nil, nil
}

// applyMeta fills the enrichment fields from request metadata, defaulting
// every collaborator-supplied value to the literal "unknown".
func applyMeta(lead *Lead, meta requestmeta.Meta) {
	lead.IP = orUnknown(meta.IP)
	lead.Country = orUnknown(meta.Country)
	lead.UserAgent = orUnknown(meta.UserAgent)
	lead.Device = orUnknown(meta.Device)
	lead.ReceivedAt = meta.ReceivedAt
	if lead.ReceivedAt.IsZero() {
		lead.ReceivedAt = time.Now().UTC()
	}
}

func orUnknown(s string) string {
	if s == "" {
		return unknownValue
	}
	return s
}

// persist writes the lead once to the bound store. A missing store skips the
// write silently; a key conflict regenerates the identifier.
func (s *Service) persist(ctx context.Context, lead *Lead) error {
	lead.ID = NewLeadID()
	if s.store == nil {
		return nil
	}

	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		payload, err := json.Marshal(lead)
		if err != nil {
			return fmt.Errorf("marshal lead: %w", err)
		}
		err = s.store.Save(ctx, leadstore.Record{
			ID:        lead.ID,
			Payload:   payload,
			Email:     lead.Email,
			Company:   lead.Company,
			CreatedAt: lead.ReceivedAt,
		})
		if err == nil {
			s.metrics.ObserveStoreWrite("ok")
			return nil
		}
		if !errors.Is(err, leadstore.ErrDuplicateID) {
			s.metrics.ObserveStoreWrite("error")
			return fmt.Errorf("persist lead %s: %w", lead.ID, err)
		}
		s.logger.Warn("lead id collision, regenerating", "lead_id", lead.ID, "attempt", attempt)
		lead.ID = NewLeadID()
	}

	s.metrics.ObserveStoreWrite("conflict")
	return ErrIDExhausted
}

// dispatch hands the lead to the notifier. In server mode the send runs
// detached so a slow provider cannot stall the response; in await mode it
// completes before Submit returns. Failures never reach the caller.
func (s *Service) dispatch(ctx context.Context, lead Lead) {
	if s.notifier == nil {
		return
	}
	if s.awaitNotify {
		s.notify(ctx, lead)
		return
	}
	go s.notify(context.Background(), lead)
}

func (s *Service) notify(ctx context.Context, lead Lead) {
	ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()

	start := time.Now()
	err := s.notifier.NotifyLead(ctx, lead)
	s.metrics.ObserveNotification(err == nil, time.Since(start).Seconds())
	if err != nil {
		s.logger.Error("lead notification failed", "lead_id", lead.ID, "error", err)
	}
}
