// Package service implements the core messaging, contact and call operations.
// Services persist through gorm, enforce contact authorization, and fan
// realtime events out through a UserNotifier. All failures are apperr values.
package service

import "beamchat/backend/internal/hub"

// UserNotifier pushes realtime events to the live endpoints of a user, or to
// everyone. Implemented by hub.Notifier; tests substitute a recorder.
type UserNotifier interface {
	NotifyUser(userID uint, event hub.Event)
	Broadcast(event hub.Event)
}
