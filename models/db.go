package models

import (
	"gorm.io/gorm"
)

// DB is the global database handle, set once at startup.
var DB *gorm.DB

// SetDB stores the global database handle.
func SetDB(db *gorm.DB) {
	DB = db
}
