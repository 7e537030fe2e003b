package webhook

import "errors"

var (
	// ErrDuplicateEvent is returned when an event id has already been stored.
	ErrDuplicateEvent = errors.New("webhook event already recorded")
	// ErrAlreadyProcessed is returned when another reconciliation committed first.
	ErrAlreadyProcessed = errors.New("webhook event already processed")
	// ErrSessionReconciled is returned when another event already produced the
	// payment for the same checkout session. The event is still marked processed.
	ErrSessionReconciled = errors.New("checkout session already reconciled")
	// ErrInvalidSignature is returned when the provider signature does not verify.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrMalformedEvent is returned for bodies without an event id or type.
	ErrMalformedEvent = errors.New("malformed webhook event")
)

// ErrInvalidFilter is returned for list requests on unknown columns.
var ErrInvalidFilter = errors.New("invalid filter")
