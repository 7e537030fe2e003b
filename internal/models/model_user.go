package models

import (
	"time"

	"github.com/pawcare/backend/pkg/types"
)

// User is the account owned by the identity provider subject FirebaseUID.
type User struct {
	ID          string     `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FirebaseUID string     `gorm:"column:firebase_uid;type:varchar(128);not null;uniqueIndex" json:"firebase_uid"`
	Email       string     `gorm:"column:email;type:varchar(255);not null" json:"email"`
	CurrentPlan types.Plan `gorm:"column:current_plan;type:varchar(32);not null;default:'free'" json:"current_plan"`
	IsVerified  bool       `gorm:"column:is_verified;not null;default:false" json:"is_verified"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }
