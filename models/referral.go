package models

import (
	"gorm.io/gorm"
)

// ReferralCodeLength is the length of generated referral code strings.
const ReferralCodeLength = 10

// ReferralCode attributes signups and clicks to the issuing user, optionally
// tied to a single event. One code per creator is enforced by an application
// lookup plus bounded retry on the code's unique index, not by a constraint
// on created_by.
type ReferralCode struct {
	gorm.Model
	Code      string `json:"code" gorm:"type:varchar(32);uniqueIndex;not null"`
	EventID   *uint  `json:"event_id" gorm:"index"`
	Event     *Event `json:"event,omitempty" gorm:"foreignKey:EventID"`
	CreatedBy uint   `json:"created_by" gorm:"index;not null"`
}

func (ReferralCode) TableName() string {
	return "referral_codes"
}

// ReferralRegistration records that a user redeemed a referral code. The
// composite unique index makes repeated redemption a detectable duplicate
// insert rather than a second row.
type ReferralRegistration struct {
	gorm.Model
	ReferralCodeID uint  `json:"referral_code_id" gorm:"uniqueIndex:idx_registrations_code_user;not null"`
	UserID         uint  `json:"user_id" gorm:"uniqueIndex:idx_registrations_code_user;not null"`
	EventID        *uint `json:"event_id"`
}

func (ReferralRegistration) TableName() string {
	return "referral_registrations"
}

// ReferralClick records one click per (code, anonymous identity). The
// identity is a user UUID: either the server-side anonymous session's or a
// client-supplied candidate accepted before the session cookie propagates.
// The unique index backs up the pre-insert existence check so concurrent
// clicks cannot double-count.
type ReferralClick struct {
	gorm.Model
	ReferralCodeID uint   `json:"referral_code_id" gorm:"uniqueIndex:idx_clicks_code_user;not null"`
	AnonUserID     string `json:"anon_user_id" gorm:"type:char(36);uniqueIndex:idx_clicks_code_user;not null"`
}

func (ReferralClick) TableName() string {
	return "referral_clicks"
}
