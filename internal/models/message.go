package models

import "gorm.io/gorm"

// Message represents a private chat message between two contacts.
// Apart from the one-way Seen flip a message is immutable.
type Message struct {
	gorm.Model
	SenderID   uint   `gorm:"not null;index"`
	ReceiverID uint   `gorm:"not null;index"`
	Content    string `gorm:"not null"`
	Seen       bool   `gorm:"not null;default:false"`

	Sender   User `gorm:"foreignKey:SenderID"`
	Receiver User `gorm:"foreignKey:ReceiverID"`
}
