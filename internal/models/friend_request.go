package models

import "gorm.io/gorm"

// FriendRequestStatus defines the state of a friend request between two users.
type FriendRequestStatus string

const (
	// RequestPending means the request has been sent but not yet answered.
	RequestPending FriendRequestStatus = "pending"

	// RequestAccepted means the receiver accepted and the users are now contacts.
	RequestAccepted FriendRequestStatus = "accepted"

	// RequestRejected means the receiver declined the request.
	RequestRejected FriendRequestStatus = "rejected"
)

// Terminal reports whether the status can no longer change.
func (s FriendRequestStatus) Terminal() bool {
	return s == RequestAccepted || s == RequestRejected
}

// FriendRequest represents a proposal from one user to become contacts with
// another. At most one pending request may exist per ordered (from, to) pair;
// once accepted or rejected the request is immutable.
type FriendRequest struct {
	gorm.Model
	FromUserID uint                `gorm:"not null;index"`
	ToUserID   uint                `gorm:"not null;index"`
	Status     FriendRequestStatus `gorm:"type:varchar(20);not null;index"`

	FromUser User `gorm:"foreignKey:FromUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ToUser   User `gorm:"foreignKey:ToUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
