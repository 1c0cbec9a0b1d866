package models

import (
	"time"

	"gorm.io/gorm"
)

// CallStatus defines the lifecycle state of a call.
type CallStatus string

const (
	CallOngoing CallStatus = "ongoing"
	CallEnded   CallStatus = "ended"
	CallMissed  CallStatus = "missed"
)

// Valid reports whether s is a known call status.
func (s CallStatus) Valid() bool {
	return s == CallOngoing || s == CallEnded || s == CallMissed
}

// Call represents a signaling call between two users. EndedAt is stamped
// exactly when the call leaves the ongoing state.
type Call struct {
	gorm.Model
	CallerID  uint       `gorm:"not null;index"`
	CalleeID  uint       `gorm:"not null;index"`
	Status    CallStatus `gorm:"type:varchar(20);not null"`
	StartedAt time.Time  `gorm:"not null"`
	EndedAt   *time.Time

	Caller User `gorm:"foreignKey:CallerID"`
	Callee User `gorm:"foreignKey:CalleeID"`
}
