package webhook

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	stripewebhook "github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/pawcare/backend/internal/models"
	"github.com/pawcare/backend/internal/platform/cache"
	"github.com/pawcare/backend/pkg/config"
	"github.com/pawcare/backend/pkg/logctx"
	"github.com/pawcare/backend/pkg/metrics"
	"github.com/pawcare/backend/pkg/types"
)

// Processor is the webhook surface used by the HTTP handlers.
type Processor interface {
	// Ingest verifies, stores and, for completed checkouts, reconciles one
	// event. Reconciliation failures never fail the call.
	Ingest(ctx context.Context, payload []byte, signature string) (*IngestResult, error)
	// ProcessPending reconciles every unprocessed completed checkout. The
	// first hard failure aborts the sweep.
	ProcessPending(ctx context.Context) (*BatchResult, error)
	ScanEvents(ctx context.Context, req *ScanEventsRequest) (*ScanEventsResponse, error)
}

type IngestResult struct {
	EventID   string   `json:"event_id"`
	EventType string   `json:"event_type"`
	Duplicate bool     `json:"duplicate"`
	Outcome   *Outcome `json:"outcome,omitempty"`
}

type BatchResult struct {
	Total      int `json:"total"`
	Reconciled int `json:"reconciled"`
	Skipped    int `json:"skipped"`
}

type Service struct {
	store         Store
	users         cache.UserCache
	metrics       *metrics.Reconcile
	log           *zap.SugaredLogger
	webhookSecret string
}

func NewService(cfg *config.Config, store Store, users cache.UserCache, m *metrics.Reconcile, log *zap.SugaredLogger) *Service {
	if users == nil {
		users = cache.Nop{}
	}
	s := &Service{store: store, users: users, metrics: m, log: log}
	if cfg != nil {
		s.webhookSecret = cfg.Stripe.WebhookSecret
	}
	return s
}

// verifySignature is a no-op until a signing secret is configured.
func (s *Service) verifySignature(payload []byte, header string) error {
	if s.webhookSecret == "" {
		return nil
	}
	if err := stripewebhook.ValidatePayload(payload, header, s.webhookSecret); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}

func (s *Service) Ingest(ctx context.Context, payload []byte, signature string) (*IngestResult, error) {
	if err := s.verifySignature(payload, signature); err != nil {
		return nil, err
	}
	ev, err := ParseEvent(payload)
	if err != nil {
		return nil, err
	}
	log := logctx.FromCtx(ctx, s.log).With("event_id", ev.ID, "event_type", ev.Type)

	obj := &ev.Data.Object
	row := &models.WebhookEvent{
		ID:                      ev.ID,
		EventType:               ev.Type,
		ProviderPaymentIntentID: obj.PaymentIntent,
		CustomerEmail:           obj.Email(),
		Amount:                  obj.Total(),
		Currency:                obj.Currency,
		PaymentStatus:           obj.PaymentState(),
		Payload:                 datatypes.JSON(payload),
	}
	checkout := ev.Type == types.EventTypeCheckoutCompleted
	if checkout {
		row.ProviderSessionID = nonEmpty(obj.ID)
		row.FirebaseUID = obj.FirebaseUID()
	}

	res := &IngestResult{EventID: ev.ID, EventType: ev.Type}
	if err := s.store.CreateEvent(ctx, row); err != nil {
		if errors.Is(err, ErrDuplicateEvent) {
			log.Infow("webhook_event_duplicate")
			res.Duplicate = true
			return res, nil
		}
		return nil, err
	}
	log.Infow("webhook_event_received")

	if checkout {
		out := s.Reconcile(ctx, row, TriggerIngest)
		res.Outcome = &out
	}
	return res, nil
}

func (s *Service) ProcessPending(ctx context.Context) (*BatchResult, error) {
	rows, err := s.store.ListUnprocessed(ctx, types.EventTypeCheckoutCompleted)
	if err != nil {
		return nil, err
	}
	res := &BatchResult{Total: len(rows)}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		out := s.Reconcile(ctx, row, TriggerBatch)
		switch out.Kind {
		case types.ReconcileOutcomeReconciled:
			res.Reconciled++
		case types.ReconcileOutcomeSkipped:
			res.Skipped++
		case types.ReconcileOutcomeFailed:
			return res, fmt.Errorf("failed to reconcile webhook event %s: %w", row.ID, out.Err)
		}
	}
	logctx.FromCtx(ctx, s.log).Infow("webhook_batch_done", "total", res.Total, "reconciled", res.Reconciled, "skipped", res.Skipped)
	return res, nil
}

func (s *Service) ScanEvents(ctx context.Context, req *ScanEventsRequest) (*ScanEventsResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	req.Filters = lo.Compact(req.Filters)
	for _, f := range req.Filters {
		if err := f.Validate(ScanFields); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
	}
	if req.SortBy != "" && !lo.Contains(ScanFields, req.SortBy) {
		return nil, fmt.Errorf("%w: cannot sort by %q", ErrInvalidFilter, req.SortBy)
	}
	return s.store.ScanEvents(ctx, req)
}
