package caresetting

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pawcare/backend/internal/app/service/user"
	"github.com/pawcare/backend/internal/models"
	"github.com/pawcare/backend/pkg/logctx"
	"github.com/pawcare/backend/pkg/types"
)

const (
	ClearStatusNotCleared = "not_cleared"
	ClearStatusCleared    = "cleared"
)

var (
	ErrSettingExists   = errors.New("care setting already exists")
	ErrSettingNotFound = errors.New("care setting not found")
	ErrPinMismatch     = errors.New("pin does not match")
	ErrInvalidPeriod   = errors.New("care period must have a start date not after its end date")
)

// CreateRequest is the parent's setup of a care period. Times are "HH:MM[:SS]".
type CreateRequest struct {
	ParentName      string         `json:"parent_name" binding:"required,max=100"`
	ChildName       string         `json:"child_name" binding:"required,max=100"`
	DogName         string         `json:"dog_name" binding:"required,max=100"`
	CareStartDate   types.Date     `json:"care_start_date" swaggertype:"string" example:"2025-08-01"`
	CareEndDate     types.Date     `json:"care_end_date" swaggertype:"string" example:"2025-08-07"`
	MorningMealTime datatypes.Time `json:"morning_meal_time" swaggertype:"string" example:"07:30:00"`
	NightMealTime   datatypes.Time `json:"night_meal_time" swaggertype:"string" example:"18:00:00"`
	WalkTime        datatypes.Time `json:"walk_time" swaggertype:"string" example:"16:00:00"`
	CarePassword    string         `json:"care_password" binding:"required,min=4,max=72"`
	CareClearStatus string         `json:"care_clear_status" binding:"omitempty,oneof=not_cleared cleared"`
}

type ClearRequest struct {
	CareClearStatus string `json:"care_clear_status" binding:"required,oneof=not_cleared cleared"`
}

// Finder resolves the care setting owned by a Firebase account. Errors are
// user.ErrUserNotFound or ErrSettingNotFound when nothing is registered.
type Finder interface {
	ForUser(ctx context.Context, firebaseUID string) (*models.CareSetting, error)
}

type Manager interface {
	Finder
	Create(ctx context.Context, firebaseUID string, req *CreateRequest) (*models.CareSetting, error)
	SetClearStatus(ctx context.Context, firebaseUID, status string) (*models.CareSetting, error)
	// VerifyPin reports false, nil when the user has no care setting yet.
	VerifyPin(ctx context.Context, firebaseUID, pin string) (bool, error)
	// CheckPin returns ErrSettingNotFound or ErrPinMismatch on failure.
	CheckPin(ctx context.Context, firebaseUID, pin string) error
}

type Service struct {
	db      *gorm.DB
	users   user.Manager
	log     *zap.SugaredLogger
	pinCost int
}

func NewService(db *gorm.DB, users user.Manager, log *zap.SugaredLogger) *Service {
	return &Service{db: db, users: users, log: log, pinCost: bcrypt.DefaultCost}
}

func (s *Service) Create(ctx context.Context, firebaseUID string, req *CreateRequest) (*models.CareSetting, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.CareStartDate.Time().IsZero() || req.CareEndDate.Time().IsZero() || req.CareEndDate.Before(req.CareStartDate) {
		return nil, ErrInvalidPeriod
	}
	u, err := s.users.GetByFirebaseUID(ctx, firebaseUID)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.CarePassword), s.pinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash pin: %w", err)
	}
	status := req.CareClearStatus
	if status == "" {
		status = ClearStatusNotCleared
	}
	cs := &models.CareSetting{
		UserID:           u.ID,
		ParentName:       req.ParentName,
		ChildName:        req.ChildName,
		DogName:          req.DogName,
		CareStartDate:    req.CareStartDate,
		CareEndDate:      req.CareEndDate,
		MorningMealTime:  req.MorningMealTime,
		NightMealTime:    req.NightMealTime,
		WalkTime:         req.WalkTime,
		CarePasswordHash: string(hash),
		CareClearStatus:  status,
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(cs)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to create care setting: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrSettingExists
	}
	logctx.FromCtx(ctx, s.log).Infow("care_setting_created", "care_setting_id", cs.ID, "user_id", u.ID)
	return cs, nil
}

func (s *Service) ForUser(ctx context.Context, firebaseUID string) (*models.CareSetting, error) {
	u, err := s.users.GetByFirebaseUID(ctx, firebaseUID)
	if err != nil {
		return nil, err
	}
	var cs models.CareSetting
	err = s.db.WithContext(ctx).Where("user_id = ?", u.ID).Take(&cs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSettingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load care setting: %w", err)
	}
	return &cs, nil
}

func (s *Service) SetClearStatus(ctx context.Context, firebaseUID, status string) (*models.CareSetting, error) {
	cs, err := s.ForUser(ctx, firebaseUID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(cs).Update("care_clear_status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update clear status: %w", err)
	}
	cs.CareClearStatus = status
	logctx.FromCtx(ctx, s.log).Infow("care_clear_status_updated", "care_setting_id", cs.ID, "status", status)
	return cs, nil
}

func (s *Service) VerifyPin(ctx context.Context, firebaseUID, pin string) (bool, error) {
	err := s.CheckPin(ctx, firebaseUID, pin)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrSettingNotFound), errors.Is(err, ErrPinMismatch):
		return false, nil
	default:
		return false, err
	}
}

func (s *Service) CheckPin(ctx context.Context, firebaseUID, pin string) error {
	cs, err := s.ForUser(ctx, firebaseUID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cs.CarePasswordHash), []byte(pin)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			logctx.FromCtx(ctx, s.log).Infow("care_pin_mismatch", "care_setting_id", cs.ID)
			return ErrPinMismatch
		}
		return fmt.Errorf("failed to compare pin: %w", err)
	}
	return nil
}
