package models

import (
	"gorm.io/gorm"
)

// Event is a user-created event. Mutations are restricted to the creator;
// dependent rows (RSVPs, invites, referral codes) are not cascaded here.
type Event struct {
	gorm.Model
	CreatedBy   uint    `json:"created_by" gorm:"index;not null"`
	Creator     *User   `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Title       string  `json:"title" gorm:"type:varchar(255);not null"`
	Description string  `json:"description" gorm:"type:text"`
	Location    string  `json:"location" gorm:"type:varchar(255)"`
	EventDate   string  `json:"event_date" gorm:"type:varchar(10);not null"` // YYYY-MM-DD
	EventTime   *string `json:"event_time,omitempty" gorm:"type:varchar(8)"` // HH:MM
	ImageURL    *string `json:"image_url,omitempty" gorm:"type:varchar(255)"`
}

func (Event) TableName() string {
	return "events"
}
