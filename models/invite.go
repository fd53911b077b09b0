package models

import (
	"gorm.io/gorm"
)

// Invite status values.
const (
	InvitePending  = "pending"
	InviteAccepted = "accepted"
	InviteDeclined = "declined"
)

// Invite is an email invitation to an event, sent by a user. Only the sender
// may change its status.
type Invite struct {
	gorm.Model
	EventID     uint   `json:"event_id" gorm:"index;not null"`
	Event       *Event `json:"event,omitempty" gorm:"foreignKey:EventID"`
	SentBy      uint   `json:"sent_by" gorm:"index;not null"`
	SentToEmail string `json:"sent_to_email" gorm:"type:varchar(100);index;not null"`
	Status      string `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
}

func (Invite) TableName() string {
	return "invites"
}

// ValidInviteStatus reports whether s is one of the accepted status values.
func ValidInviteStatus(s string) bool {
	switch s {
	case InvitePending, InviteAccepted, InviteDeclined:
		return true
	}
	return false
}
