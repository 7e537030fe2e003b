package models

import (
	"time"

	"github.com/pawcare/backend/pkg/types"
)

// CareLog records the feeding of one day. (care_setting_id, date) is unique.
type CareLog struct {
	ID            uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CareSettingID uint       `gorm:"column:care_setting_id;not null;uniqueIndex:idx_care_logs_setting_date,priority:1" json:"care_setting_id"`
	Date          types.Date `gorm:"column:date;not null;uniqueIndex:idx_care_logs_setting_date,priority:2" json:"date"`
	FedMorning    bool       `gorm:"column:fed_morning;not null;default:false" json:"fed_morning"`
	FedNight      bool       `gorm:"column:fed_night;not null;default:false" json:"fed_night"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (CareLog) TableName() string { return "care_logs" }

// WalkMission is one walk attempt, attached to the care log of its day.
type WalkMission struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CareLogID      uint      `gorm:"column:care_log_id;not null;index" json:"care_log_id"`
	StartedAt      time.Time `gorm:"column:started_at;not null" json:"started_at"`
	EndedAt        time.Time `gorm:"column:ended_at;not null" json:"ended_at"`
	TotalDistanceM int       `gorm:"column:total_distance_m;not null" json:"total_distance_m"`
	Result         string    `gorm:"column:result;type:varchar(16);not null" json:"result"`
	CreatedAt      time.Time `json:"created_at"`
}

func (WalkMission) TableName() string { return "walk_missions" }
