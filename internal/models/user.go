package models

import "gorm.io/gorm"

// User represents a user in the system.
//
// The set of live session endpoints for a user is process state owned by the
// presence registry; Online mirrors it so query responses can report presence
// without consulting the registry.
type User struct {
	gorm.Model
	Username     string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Online       bool   `gorm:"not null;default:false"`
}
