package user

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pawcare/backend/internal/models"
	"github.com/pawcare/backend/internal/platform/cache"
	"github.com/pawcare/backend/pkg/logctx"
	"github.com/pawcare/backend/pkg/tool"
	"github.com/pawcare/backend/pkg/types"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

// CreateUserRequest registers a Firebase account. Every user starts on the
// free plan; premium is only granted by a reconciled payment.
type CreateUserRequest struct {
	FirebaseUID string `json:"firebase_uid" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	IsVerified  bool   `json:"is_verified"`
}

// Manager is the user surface used by the HTTP handlers.
type Manager interface {
	Create(ctx context.Context, req *CreateUserRequest) (*models.User, error)
	// GetByFirebaseUID reads through the user cache.
	GetByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
}

type Service struct {
	db    *gorm.DB
	cache cache.UserCache
	log   *zap.SugaredLogger
}

func NewService(db *gorm.DB, c cache.UserCache, log *zap.SugaredLogger) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	return &Service{db: db, cache: c, log: log}
}

func (s *Service) Create(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	u := &models.User{
		ID:          tool.GenerateUUIDV7(),
		FirebaseUID: req.FirebaseUID,
		Email:       req.Email,
		CurrentPlan: types.PlanFree,
		IsVerified:  req.IsVerified,
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "firebase_uid"}}, DoNothing: true}).
		Create(u)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to create user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserExists
	}
	logctx.FromCtx(ctx, s.log).Infow("user_created", "firebase_uid", u.FirebaseUID)
	return u, nil
}

func (s *Service) GetByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	log := logctx.FromCtx(ctx, s.log)
	if u, err := s.cache.Get(ctx, firebaseUID); err != nil {
		log.Warnw("user_cache_get_failed", "error", err)
	} else if u != nil {
		return u, nil
	}

	u, err := s.find(ctx, firebaseUID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, u); err != nil {
		log.Warnw("user_cache_set_failed", "error", err)
	}
	return u, nil
}

func (s *Service) find(ctx context.Context, firebaseUID string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("firebase_uid = ?", firebaseUID).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &u, nil
}
