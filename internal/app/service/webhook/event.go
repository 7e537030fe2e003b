package webhook

import (
	"encoding/json"
	"fmt"
)

// Event is the subset of a provider event body this package reads. Unknown
// fields are ignored and every nested read tolerates absence.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object EventObject `json:"object"`
	} `json:"data"`
}

// EventObject is the event's data.object. Fields are nullable because their
// presence depends on the event type.
type EventObject struct {
	ID             *string        `json:"id"`
	PaymentIntent  *string        `json:"payment_intent"`
	Amount         *int64         `json:"amount"`
	AmountTotal    *int64         `json:"amount_total"`
	Currency       *string        `json:"currency"`
	PaymentStatus  *string        `json:"payment_status"`
	Status         *string        `json:"status"`
	Metadata       map[string]any `json:"metadata"`
	BillingDetails *struct {
		Email *string `json:"email"`
	} `json:"billing_details"`
	CustomerDetails *struct {
		Email *string `json:"email"`
	} `json:"customer_details"`
}

// ParseEvent decodes a raw body. Only id and type are required.
func ParseEvent(raw []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if ev.ID == "" || ev.Type == "" {
		return nil, fmt.Errorf("%w: missing id or type", ErrMalformedEvent)
	}
	return &ev, nil
}

// FirebaseUID returns metadata.firebase_uid when it is a non-empty string.
func (o *EventObject) FirebaseUID() *string {
	if s, ok := o.Metadata["firebase_uid"].(string); ok && s != "" {
		return &s
	}
	return nil
}

// Email prefers billing details and falls back to the checkout customer details.
func (o *EventObject) Email() *string {
	if o.BillingDetails != nil && o.BillingDetails.Email != nil {
		return o.BillingDetails.Email
	}
	if o.CustomerDetails != nil {
		return o.CustomerDetails.Email
	}
	return nil
}

// Total is the charged amount in minor units. Checkout sessions carry
// amount_total, charges and intents carry amount.
func (o *EventObject) Total() *int64 {
	if o.AmountTotal != nil {
		return o.AmountTotal
	}
	return o.Amount
}

// PaymentState prefers the checkout session payment_status over the object status.
func (o *EventObject) PaymentState() *string {
	if o.PaymentStatus != nil {
		return o.PaymentStatus
	}
	return o.Status
}

// Facts are the payment facts a reconciliation copies into the ledger.
type Facts struct {
	SessionID       *string
	PaymentIntentID *string
	Amount          *int64
	Currency        *string
	Status          *string
}

// FactsFromPayload re-reads the stored payload. datatypes.JSON always holds
// the serialized body, so there is a single decode path.
func FactsFromPayload(payload []byte) (*Facts, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("failed to decode stored payload: %w", err)
	}
	obj := &ev.Data.Object
	return &Facts{
		SessionID:       nonEmpty(obj.ID),
		PaymentIntentID: obj.PaymentIntent,
		Amount:          obj.Total(),
		Currency:        obj.Currency,
		Status:          obj.PaymentState(),
	}, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
