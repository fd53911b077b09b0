package models

import (
	"time"

	"gorm.io/gorm"
)

// Activity is a feed entry recording a notable action (signup, event
// creation, referral redemption).
type Activity struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	Type      string         `json:"type" gorm:"type:varchar(50);not null"` // user/event/referral
	Content   string         `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Activity) TableName() string {
	return "activities"
}
