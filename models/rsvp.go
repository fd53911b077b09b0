package models

import (
	"gorm.io/gorm"
)

// RSVP status values.
const (
	RSVPGoing    = "going"
	RSVPMaybe    = "maybe"
	RSVPNotGoing = "not_going"
)

// RSVP is a user's attendance response to an event. At most one row per
// (event, user); writes go through an upsert on that pair.
type RSVP struct {
	gorm.Model
	EventID uint   `json:"event_id" gorm:"uniqueIndex:idx_rsvps_event_user;not null"`
	Event   *Event `json:"event,omitempty" gorm:"foreignKey:EventID"`
	UserID  uint   `json:"user_id" gorm:"uniqueIndex:idx_rsvps_event_user;not null"`
	Status  string `json:"status" gorm:"type:varchar(20);not null"`
}

func (RSVP) TableName() string {
	return "rsvps"
}

// ValidRSVPStatus reports whether s is one of the accepted status values.
func ValidRSVPStatus(s string) bool {
	switch s {
	case RSVPGoing, RSVPMaybe, RSVPNotGoing:
		return true
	}
	return false
}
