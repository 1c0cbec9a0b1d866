package models

import "time"

// Contact grants UserID permission to exchange messages and calls with
// ContactID. The relation is symmetric: accepting a friend request inserts
// one row per direction inside a single transaction, so either both rows
// exist or neither does.
type Contact struct {
	UserID    uint `gorm:"primaryKey"`
	ContactID uint `gorm:"primaryKey"`
	CreatedAt time.Time

	User        User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ContactUser User `gorm:"foreignKey:ContactID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
