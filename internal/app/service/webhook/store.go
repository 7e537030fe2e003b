package webhook

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pawcare/backend/internal/models"
	"github.com/pawcare/backend/pkg/types"
)

// Store is the persistence the webhook path depends on.
type Store interface {
	// CreateEvent inserts ev, returning ErrDuplicateEvent if its id exists.
	CreateEvent(ctx context.Context, ev *models.WebhookEvent) error
	GetEvent(ctx context.Context, id string) (*models.WebhookEvent, error)
	ListUnprocessed(ctx context.Context, eventType string) ([]*models.WebhookEvent, error)
	// FindUserByFirebaseUID returns nil, nil when no user matches.
	FindUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	// ApplyReconciliation atomically marks the event processed, appends p and
	// upgrades the owning user. It returns ErrAlreadyProcessed if the event
	// was processed before this call committed, and ErrSessionReconciled after
	// committing only the processed flag when p's session already has a payment.
	ApplyReconciliation(ctx context.Context, eventID string, p *models.Payment) error
	MarkFailed(ctx context.Context, eventID, message string) error
	ScanEvents(ctx context.Context, req *ScanEventsRequest) (*ScanEventsResponse, error)
}

type ScanEventsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanEventsResponse struct {
	Items []*models.WebhookEvent `json:"items"`
	Total int64                  `json:"total"`
}

// ScanFields are the webhook_events columns accepted in filters and sort_by.
var ScanFields = []string{
	"id", "event_type", "provider_session_id", "provider_payment_intent_id", "customer_email",
	"amount", "currency", "payment_status", "processed", "error_message", "firebase_uid",
	"created_at", "updated_at",
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store { return &gormStore{db: db} }

func (s *gormStore) CreateEvent(ctx context.Context, ev *models.WebhookEvent) error {
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(ev)
	if res.Error != nil {
		return fmt.Errorf("failed to create webhook event: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrDuplicateEvent
	}
	return nil
}

func (s *gormStore) GetEvent(ctx context.Context, id string) (*models.WebhookEvent, error) {
	var ev models.WebhookEvent
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&ev).Error; err != nil {
		return nil, fmt.Errorf("failed to load webhook event %s: %w", id, err)
	}
	return &ev, nil
}

func (s *gormStore) ListUnprocessed(ctx context.Context, eventType string) ([]*models.WebhookEvent, error) {
	var rows []*models.WebhookEvent
	err := s.db.WithContext(ctx).
		Where("processed = ? AND event_type = ?", false, eventType).
		Order("created_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list unprocessed webhook events: %w", err)
	}
	return rows, nil
}

func (s *gormStore) FindUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("firebase_uid = ?", firebaseUID).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}

func (s *gormStore) ApplyReconciliation(ctx context.Context, eventID string, p *models.Payment) error {
	var sessionTaken bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The conditional update is the commit point. It takes the row lock
		// first, so a concurrent reconciler blocks here and then matches nothing.
		res := tx.Model(&models.WebhookEvent{}).
			Where("id = ? AND processed = ?", eventID, false).
			Update("processed", true)
		if res.Error != nil {
			return fmt.Errorf("failed to mark webhook event processed: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}

		var existing int64
		err := tx.Model(&models.Payment{}).
			Where("provider_session_id = ?", p.ProviderSessionID).
			Count(&existing).Error
		if err != nil {
			return fmt.Errorf("failed to look up payment for session: %w", err)
		}
		if existing > 0 {
			sessionTaken = true
			return nil
		}

		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}
		res = tx.Model(&models.User{}).Where("id = ?", p.UserID).Update("current_plan", types.PlanPremium)
		if res.Error != nil {
			return fmt.Errorf("failed to upgrade user plan: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("failed to upgrade user plan: user %s vanished", p.UserID)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if sessionTaken {
		return ErrSessionReconciled
	}
	return nil
}

func (s *gormStore) MarkFailed(ctx context.Context, eventID, message string) error {
	err := s.db.WithContext(ctx).Model(&models.WebhookEvent{}).
		Where("id = ?", eventID).
		Update("error_message", message).Error
	if err != nil {
		return fmt.Errorf("failed to record webhook error: %w", err)
	}
	return nil
}

func (s *gormStore) ScanEvents(ctx context.Context, req *ScanEventsRequest) (*ScanEventsResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.WebhookEvent{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{types.FiltersAnd(req.Filters)}})
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count webhook events: %w", err)
	}

	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	q := tx.Limit(req.Size).Offset(req.From).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: sortBy}, Desc: req.SortOrder != "asc"}}})

	var rows []*models.WebhookEvent
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list webhook events: %w", err)
	}
	return &ScanEventsResponse{Items: rows, Total: total}, nil
}
