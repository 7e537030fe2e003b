package models

import "time"

// Payment is an append-only ledger row written once per reconciled checkout.
type Payment struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID      string `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	FirebaseUID string `gorm:"column:firebase_uid;type:varchar(128);not null" json:"firebase_uid"`
	// WebhookEventID is the event this payment was reconciled from.
	WebhookEventID          string    `gorm:"column:webhook_event_id;type:varchar(255);not null;index" json:"webhook_event_id"`
	ProviderSessionID       string    `gorm:"column:provider_session_id;type:varchar(255);not null;uniqueIndex" json:"provider_session_id"`
	ProviderPaymentIntentID *string   `gorm:"column:provider_payment_intent_id;type:varchar(255)" json:"provider_payment_intent_id"`
	Amount                  *int64    `gorm:"column:amount;type:bigint" json:"amount"`
	Currency                *string   `gorm:"column:currency;type:varchar(16)" json:"currency"`
	Status                  *string   `gorm:"column:status;type:varchar(64)" json:"status"`
	CreatedAt               time.Time `json:"created_at"`
}

func (Payment) TableName() string { return "payments" }
