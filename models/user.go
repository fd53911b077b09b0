package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is a registered account or an anonymous (ephemeral) session identity.
// Anonymous users have no email or password and exist only to attribute
// referral clicks before signup.
type User struct {
	gorm.Model
	UUID        string  `json:"uuid" gorm:"type:char(36);uniqueIndex;not null"`
	Username    string  `json:"username" gorm:"type:varchar(50);uniqueIndex;not null"`
	Email       *string `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	Password    string  `json:"-" gorm:"type:varchar(255)"`
	IsAnonymous bool    `json:"is_anonymous" gorm:"default:false"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}
