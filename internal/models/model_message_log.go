package models

import "time"

// MessageLog keeps every dog message shown to a user.
type MessageLog struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID     string    `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Content    string    `gorm:"column:content;type:text;not null" json:"content"`
	IsLLMBased bool      `gorm:"column:is_llm_based;not null;default:false" json:"is_llm_based"`
	CreatedAt  time.Time `json:"created_at"`
}

func (MessageLog) TableName() string { return "message_logs" }
