package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/pawcare/backend/pkg/types"
)

// CareSetting is the parent's configuration of one care period. Each user
// owns at most one.
type CareSetting struct {
	ID              uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID          string         `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"user_id"`
	ParentName      string         `gorm:"column:parent_name;type:varchar(100);not null" json:"parent_name"`
	ChildName       string         `gorm:"column:child_name;type:varchar(100);not null" json:"child_name"`
	DogName         string         `gorm:"column:dog_name;type:varchar(100);not null" json:"dog_name"`
	CareStartDate   types.Date     `gorm:"column:care_start_date;not null" json:"care_start_date"`
	CareEndDate     types.Date     `gorm:"column:care_end_date;not null" json:"care_end_date"`
	MorningMealTime datatypes.Time `gorm:"column:morning_meal_time;not null" json:"morning_meal_time"`
	NightMealTime   datatypes.Time `gorm:"column:night_meal_time;not null" json:"night_meal_time"`
	WalkTime        datatypes.Time `gorm:"column:walk_time;not null" json:"walk_time"`
	// CarePasswordHash is the bcrypt hash of the parent's PIN.
	CarePasswordHash string    `gorm:"column:care_password_hash;type:varchar(100);not null" json:"-"`
	CareClearStatus  string    `gorm:"column:care_clear_status;type:varchar(32);not null" json:"care_clear_status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (CareSetting) TableName() string { return "care_settings" }
