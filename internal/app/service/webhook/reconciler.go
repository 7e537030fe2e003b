package webhook

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"

	"github.com/pawcare/backend/internal/models"
	"github.com/pawcare/backend/pkg/logctx"
	"github.com/pawcare/backend/pkg/tool"
	"github.com/pawcare/backend/pkg/types"
)

// Trigger labels where a reconciliation was started from.
const (
	TriggerIngest = "ingest"
	TriggerBatch  = "batch"
)

// Outcome is the typed result of reconciling one event. Skips are normal
// for events without enough data and never carry an error. A failure's cause
// stays in Err, which is never serialized; it is recorded on the event row.
type Outcome struct {
	Kind      types.ReconcileOutcome `json:"kind"`
	Reason    string                 `json:"reason,omitempty"`
	PaymentID string                 `json:"payment_id,omitempty"`
	Err       error                  `json:"-"`
}

func Reconciled(paymentID string) Outcome {
	return Outcome{Kind: types.ReconcileOutcomeReconciled, PaymentID: paymentID}
}

func Skipped(reason string) Outcome {
	return Outcome{Kind: types.ReconcileOutcomeSkipped, Reason: reason}
}

func Failed(err error) Outcome {
	return Outcome{Kind: types.ReconcileOutcomeFailed, Err: err}
}

const (
	skipAlreadyProcessed = "already processed"
	skipNoSession        = "missing session id"
	skipNoFirebaseUID    = "missing firebase_uid"
	skipUnknownUser      = "user not found"
	skipSessionDone      = "session already reconciled"
)

// Reconcile turns one stored event into a payment and a plan upgrade.
// A failed attempt is written to the event's error_message and left unprocessed.
func (s *Service) Reconcile(ctx context.Context, ev *models.WebhookEvent, trigger string) Outcome {
	log := logctx.FromCtx(ctx, s.log).With("event_id", ev.ID, "trigger", trigger)
	start := time.Now()

	out := s.reconcile(ctx, ev)
	s.metrics.Observe(trigger, string(out.Kind), float64(time.Since(start).Milliseconds()))

	switch out.Kind {
	case types.ReconcileOutcomeReconciled:
		log.Infow("webhook_reconciled", "payment_id", out.PaymentID)
	case types.ReconcileOutcomeSkipped:
		log.Warnw("webhook_reconcile_skipped", "reason", out.Reason)
	case types.ReconcileOutcomeFailed:
		log.Errorw("webhook_reconcile_failed", "error", out.Err)
		if err := s.store.MarkFailed(ctx, ev.ID, out.Err.Error()); err != nil {
			log.Errorw("webhook_mark_failed_error", "error", err)
		}
	}
	return out
}

func (s *Service) reconcile(ctx context.Context, ev *models.WebhookEvent) Outcome {
	if ev.Processed {
		return Skipped(skipAlreadyProcessed)
	}
	facts, err := FactsFromPayload(ev.Payload)
	if err != nil {
		return Failed(err)
	}
	if facts.SessionID == nil {
		return Skipped(skipNoSession)
	}
	uid := lo.FromPtr(ev.FirebaseUID)
	if uid == "" {
		return Skipped(skipNoFirebaseUID)
	}
	user, err := s.store.FindUserByFirebaseUID(ctx, uid)
	if err != nil {
		return Failed(err)
	}
	if user == nil {
		return Skipped(skipUnknownUser)
	}

	p := &models.Payment{
		ID:                      tool.GenerateUUIDV7(),
		UserID:                  user.ID,
		FirebaseUID:             uid,
		WebhookEventID:          ev.ID,
		ProviderSessionID:       *facts.SessionID,
		ProviderPaymentIntentID: facts.PaymentIntentID,
		Amount:                  facts.Amount,
		Currency:                facts.Currency,
		Status:                  facts.Status,
	}
	if err := s.store.ApplyReconciliation(ctx, ev.ID, p); err != nil {
		if errors.Is(err, ErrAlreadyProcessed) {
			return Skipped(skipAlreadyProcessed)
		}
		if errors.Is(err, ErrSessionReconciled) {
			ev.Processed = true
			return Skipped(skipSessionDone)
		}
		return Failed(err)
	}
	ev.Processed = true

	if err := s.users.Delete(ctx, uid); err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("user_cache_invalidate_failed", "firebase_uid", uid, "error", err)
	}
	return Reconciled(p.ID)
}
