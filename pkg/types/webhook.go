package types

import "github.com/stripe/stripe-go/v79"

// EventTypeCheckoutCompleted is the only event type that is reconciled into a payment.
const EventTypeCheckoutCompleted = string(stripe.EventTypeCheckoutSessionCompleted)

// ReconcileOutcome classifies one reconciliation attempt.
type ReconcileOutcome string

const (
	ReconcileOutcomeReconciled ReconcileOutcome = "reconciled"
	ReconcileOutcomeSkipped    ReconcileOutcome = "skipped"
	ReconcileOutcomeFailed     ReconcileOutcome = "failed"
)
