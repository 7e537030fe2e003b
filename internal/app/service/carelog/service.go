package carelog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pawcare/backend/internal/app/service/caresetting"
	"github.com/pawcare/backend/internal/models"
	"github.com/pawcare/backend/pkg/config"
	"github.com/pawcare/backend/pkg/logctx"
	"github.com/pawcare/backend/pkg/types"
)

const (
	WalkResultSuccess = "success"
	WalkResultFail    = "fail"
)

var (
	ErrLogExists       = errors.New("care log already exists for this date")
	ErrLogNotFound     = errors.New("care log not found")
	ErrMissionNotFound = errors.New("walk mission not found")
	ErrInvalidWalk     = errors.New("walk must not end before it starts")
)

type CreateLogRequest struct {
	Date       types.Date `json:"date" swaggertype:"string" example:"2025-08-01"`
	FedMorning bool       `json:"fed_morning"`
	FedNight   bool       `json:"fed_night"`
}

// UpdateLogRequest leaves absent flags untouched.
type UpdateLogRequest struct {
	FedMorning *bool `json:"fed_morning"`
	FedNight   *bool `json:"fed_night"`
}

// Today is the care state of the current calendar day. CareLogID is nil
// until something is recorded for the day.
type Today struct {
	CareLogID  *uint `json:"care_log_id"`
	FedMorning bool  `json:"fed_morning"`
	FedNight   bool  `json:"fed_night"`
	Walked     bool  `json:"walked"`
}

type WalkRequest struct {
	StartedAt      time.Time `json:"started_at" binding:"required"`
	EndedAt        time.Time `json:"ended_at" binding:"required"`
	TotalDistanceM int       `json:"total_distance_m" binding:"min=0"`
	Result         string    `json:"result" binding:"required,oneof=success fail"`
}

// Manager is the care log and walk mission surface. Every call is scoped
// to the care setting of firebaseUID.
type Manager interface {
	CreateLog(ctx context.Context, firebaseUID string, req *CreateLogRequest) (*models.CareLog, error)
	UpdateLog(ctx context.Context, firebaseUID string, id uint, req *UpdateLogRequest) (*models.CareLog, error)
	Today(ctx context.Context, firebaseUID string) (*Today, error)
	// CreateWalk attaches the walk to today's care log, creating the log when needed.
	CreateWalk(ctx context.Context, firebaseUID string, req *WalkRequest) (*models.WalkMission, error)
	ListWalks(ctx context.Context, firebaseUID string) ([]models.WalkMission, error)
	UpdateWalk(ctx context.Context, firebaseUID string, id uint, req *WalkRequest) (*models.WalkMission, error)
}

type Service struct {
	db       *gorm.DB
	settings caresetting.Finder
	log      *zap.SugaredLogger
	loc      *time.Location
	now      func() time.Time
}

func NewService(db *gorm.DB, settings caresetting.Finder, cfg *config.Config, log *zap.SugaredLogger) (*Service, error) {
	loc, err := cfg.Care.Location()
	if err != nil {
		return nil, err
	}
	return &Service{db: db, settings: settings, log: log, loc: loc, now: time.Now}, nil
}

func (s *Service) today() types.Date { return types.NewDate(s.now().In(s.loc)) }

func (s *Service) CreateLog(ctx context.Context, firebaseUID string, req *CreateLogRequest) (*models.CareLog, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	cs, err := s.settings.ForUser(ctx, firebaseUID)
	if err != nil {
		return nil, err
	}
	day := req.Date
	if day.Time().IsZero() {
		day = s.today()
	}
	cl := &models.CareLog{
		CareSettingID: cs.ID,
		Date:          day,
		FedMorning:    req.FedMorning,
		FedNight:      req.FedNight,
	}
	res := s.db.WithContext(ctx).Clauses(onLogConflict).Create(cl)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to create care log: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrLogExists
	}
	logctx.FromCtx(ctx, s.log).Infow("care_log_created", "care_log_id", cl.ID, "date", day.String())
	return cl, nil
}

var onLogConflict = clause.OnConflict{
	Columns:   []clause.Column{{Name: "care_setting_id"}, {Name: "date"}},
	DoNothing: true,
}

func (s *Service) UpdateLog(ctx context.Context, firebaseUID string, id uint, req *UpdateLogRequest) (*models.CareLog, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	cs, err := s.settings.ForUser(ctx, firebaseUID)
	if err != nil {
		return nil, err
	}
	var cl models.CareLog
	err = s.db.WithContext(ctx).Where("id = ? AND care_setting_id = ?", id, cs.ID).Take(&cl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load care log: %w", err)
	}

	updates := map[string]any{}
	if req.FedMorning != nil {
		updates["fed_morning"] = *req.FedMorning
		cl.FedMorning = *req.FedMorning
	}
	if req.FedNight != nil {
		updates["fed_night"] = *req.FedNight
		cl.FedNight = *req.FedNight
	}
	if len(updates) == 0 {
		return &cl, nil
	}
	if err := s.db.WithContext(ctx).Model(&models.CareLog{ID: cl.ID}).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update care log: %w", err)
	}
	return &cl, nil
}

func (s *Service) Today(ctx context.Context, firebaseUID string) (*Today, error) {
	cs, err := s.settings.ForUser(ctx, firebaseUID)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	var cl models.CareLog
	err = db.Where("care_setting_id = ? AND date = ?", cs.ID, s.today()).Take(&cl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Today{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load today's care log: %w", err)
	}

	var walks int64
	if err := db.Model(&models.WalkMission{}).
		Where("care_log_id = ? AND result = ?", cl.ID, WalkResultSuccess).
		Count(&walks).Error; err != nil {
		return nil, fmt.Errorf("failed to count walks: %w", err)
	}
	return &Today{CareLogID: &cl.ID, FedMorning: cl.FedMorning, FedNight: cl.FedNight, Walked: walks > 0}, nil
}

func validateWalk(req *WalkRequest) error {
	if req == nil {
		return fmt.Errorf("nil request")
	}
	if req.EndedAt.Before(req.StartedAt) {
		return ErrInvalidWalk
	}
	return nil
}

func (s *Service) CreateWalk(ctx context.Context, firebaseUID string, req *WalkRequest) (*models.WalkMission, error) {
	if err := validateWalk(req); err != nil {
		return nil, err
	}
	cs, err := s.settings.ForUser(ctx, firebaseUID)
	if err != nil {
		return nil, err
	}
	day := s.today()
	wm := &models.WalkMission{
		StartedAt:      req.StartedAt,
		EndedAt:        req.EndedAt,
		TotalDistanceM: req.TotalDistanceM,
		Result:         req.Result,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(onLogConflict).Create(&models.CareLog{CareSettingID: cs.ID, Date: day}).Error; err != nil {
			return fmt.Errorf("ensure care log: %w", err)
		}
		var cl models.CareLog
		if err := tx.Where("care_setting_id = ? AND date = ?", cs.ID, day).Take(&cl).Error; err != nil {
			return fmt.Errorf("load care log: %w", err)
		}
		wm.CareLogID = cl.ID
		return tx.Create(wm).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create walk mission: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("walk_mission_created", "walk_mission_id", wm.ID, "care_log_id", wm.CareLogID, "result", wm.Result)
	return wm, nil
}

// ownedLogs selects the care log ids belonging to one care setting.
func (s *Service) ownedLogs(ctx context.Context, careSettingID uint) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.CareLog{}).Select("id").Where("care_setting_id = ?", careSettingID)
}

func (s *Service) ListWalks(ctx context.Context, firebaseUID string) ([]models.WalkMission, error) {
	cs, err := s.settings.ForUser(ctx, firebaseUID)
	if err != nil {
		return nil, err
	}
	walks := make([]models.WalkMission, 0)
	err = s.db.WithContext(ctx).
		Where("care_log_id IN (?)", s.ownedLogs(ctx, cs.ID)).
		Order("created_at DESC").Order("id DESC").
		Find(&walks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list walk missions: %w", err)
	}
	return walks, nil
}

func (s *Service) UpdateWalk(ctx context.Context, firebaseUID string, id uint, req *WalkRequest) (*models.WalkMission, error) {
	if err := validateWalk(req); err != nil {
		return nil, err
	}
	cs, err := s.settings.ForUser(ctx, firebaseUID)
	if err != nil {
		return nil, err
	}
	var wm models.WalkMission
	err = s.db.WithContext(ctx).
		Where("id = ? AND care_log_id IN (?)", id, s.ownedLogs(ctx, cs.ID)).
		Take(&wm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load walk mission: %w", err)
	}

	wm.StartedAt = req.StartedAt
	wm.EndedAt = req.EndedAt
	wm.TotalDistanceM = req.TotalDistanceM
	wm.Result = req.Result
	err = s.db.WithContext(ctx).Model(&models.WalkMission{ID: wm.ID}).Updates(map[string]any{
		"started_at":       wm.StartedAt,
		"ended_at":         wm.EndedAt,
		"total_distance_m": wm.TotalDistanceM,
		"result":           wm.Result,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update walk mission: %w", err)
	}
	return &wm, nil
}
