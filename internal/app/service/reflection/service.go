package reflection

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pawcare/backend/internal/app/service/caresetting"
	"github.com/pawcare/backend/internal/models"
	"github.com/pawcare/backend/pkg/logctx"
)

var ErrNoteNotFound = errors.New("reflection note not found")

type CreateRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

type ApproveRequest struct {
	ApprovedByParent bool `json:"approved_by_parent"`
}

// Manager is the reflection note surface, scoped to the caller's care setting.
type Manager interface {
	Create(ctx context.Context, firebaseUID string, req *CreateRequest) (*models.ReflectionNote, error)
	// List returns the newest note first.
	List(ctx context.Context, firebaseUID string) ([]models.ReflectionNote, error)
	SetApproved(ctx context.Context, firebaseUID string, id uint, approved bool) (*models.ReflectionNote, error)
}

type Service struct {
	db       *gorm.DB
	settings caresetting.Finder
	log      *zap.SugaredLogger
}

func NewService(db *gorm.DB, settings caresetting.Finder, log *zap.SugaredLogger) *Service {
	return &Service{db: db, settings: settings, log: log}
}

func (s *Service) Create(ctx context.Context, firebaseUID string, req *CreateRequest) (*models.ReflectionNote, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	cs, err := s.settings.ForUser(ctx, firebaseUID)
	if err != nil {
		return nil, err
	}
	n := &models.ReflectionNote{CareSettingID: cs.ID, Content: req.Content}
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, fmt.Errorf("failed to create reflection note: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("reflection_note_created", "reflection_note_id", n.ID, "care_setting_id", cs.ID)
	return n, nil
}

func (s *Service) List(ctx context.Context, firebaseUID string) ([]models.ReflectionNote, error) {
	cs, err := s.settings.ForUser(ctx, firebaseUID)
	if err != nil {
		return nil, err
	}
	notes := make([]models.ReflectionNote, 0)
	err = s.db.WithContext(ctx).
		Where("care_setting_id = ?", cs.ID).
		Order("created_at DESC").Order("id DESC").
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reflection notes: %w", err)
	}
	return notes, nil
}

func (s *Service) SetApproved(ctx context.Context, firebaseUID string, id uint, approved bool) (*models.ReflectionNote, error) {
	cs, err := s.settings.ForUser(ctx, firebaseUID)
	if err != nil {
		return nil, err
	}
	var n models.ReflectionNote
	err = s.db.WithContext(ctx).Where("id = ? AND care_setting_id = ?", id, cs.ID).Take(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load reflection note: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.ReflectionNote{ID: n.ID}).Update("approved_by_parent", approved).Error; err != nil {
		return nil, fmt.Errorf("failed to update reflection note: %w", err)
	}
	n.ApprovedByParent = approved
	logctx.FromCtx(ctx, s.log).Infow("reflection_note_reviewed", "reflection_note_id", n.ID, "approved", approved)
	return &n, nil
}
