package model

import "gorm.io/gorm"

// Location is the admin-managed replacement for the old fixed location enum.
// Toneles and dispensadores reference a location by name.
type Location struct {
	gorm.Model
	Name        string `gorm:"uniqueIndex"`
	Description string
}
