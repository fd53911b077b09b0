package config

import (
	"fmt"
	"os"

	"github.com/Nonita16/viral-events-app/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// InitDB connects to MySQL and migrates the schema. TranslateError is on so
// duplicate-key failures surface as gorm.ErrDuplicatedKey regardless of
// driver; the referral pipeline relies on that for idempotent inserts.
func InitDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %v", err)
	}

	return db, nil
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.RSVP{},
		&models.Invite{},
		&models.ReferralCode{},
		&models.ReferralRegistration{},
		&models.ReferralClick{},
		&models.Activity{},
	)
}
