package models

import "time"

type ReflectionNote struct {
	ID               uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CareSettingID    uint      `gorm:"column:care_setting_id;not null;index" json:"care_setting_id"`
	Content          string    `gorm:"column:content;type:text;not null" json:"content"`
	ApprovedByParent bool      `gorm:"column:approved_by_parent;not null;default:false" json:"approved_by_parent"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (ReflectionNote) TableName() string { return "reflection_notes" }
