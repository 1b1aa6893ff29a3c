package models

import (
	"time"
)

// UserXP is the single persisted mapping of the bot: user identifier to experience points.
type UserXP struct {
	UserID    string    `gorm:"primaryKey;type:varchar(64)"`
	XP        int64     `gorm:"default:0;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name
func (UserXP) TableName() string {
	return "user_xp"
}
