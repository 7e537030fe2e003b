package models

import (
	"time"

	"gorm.io/datatypes"
)

// WebhookEvent is one inbound payment provider notification, keyed by the
// provider's event id. The primary key is the idempotency boundary: a provider
// retry of the same event can never produce a second row.
type WebhookEvent struct {
	ID                      string  `gorm:"column:id;type:varchar(255);primaryKey" json:"id"`
	EventType               string  `gorm:"column:event_type;type:varchar(100);not null;index:idx_webhook_events_type_processed,priority:1" json:"event_type"`
	ProviderSessionID       *string `gorm:"column:provider_session_id;type:varchar(255)" json:"provider_session_id"`
	ProviderPaymentIntentID *string `gorm:"column:provider_payment_intent_id;type:varchar(255)" json:"provider_payment_intent_id"`
	CustomerEmail           *string `gorm:"column:customer_email;type:varchar(255)" json:"customer_email"`
	Amount                  *int64  `gorm:"column:amount;type:bigint" json:"amount"`
	Currency                *string `gorm:"column:currency;type:varchar(16)" json:"currency"`
	PaymentStatus           *string `gorm:"column:payment_status;type:varchar(64)" json:"payment_status"`
	// Payload is the verbatim event body.
	Payload   datatypes.JSON `gorm:"column:payload;type:jsonb;not null" json:"payload"`
	Processed bool           `gorm:"column:processed;not null;default:false;index:idx_webhook_events_type_processed,priority:2" json:"processed"`
	// ErrorMessage is set by a failed reconciliation and stays until overwritten.
	ErrorMessage *string   `gorm:"column:error_message;type:text" json:"error_message"`
	FirebaseUID  *string   `gorm:"column:firebase_uid;type:varchar(128);index" json:"firebase_uid"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (WebhookEvent) TableName() string { return "webhook_events" }
