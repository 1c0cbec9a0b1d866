package service

import (
	"errors"
	"log/slog"

	"beamchat/backend/internal/apperr"
	"beamchat/backend/internal/hub"
	"beamchat/backend/internal/models"

	"gorm.io/gorm"
)

// DefaultPageSize is the message page size used when the caller passes none.
const DefaultPageSize = 20

// Messages persists private messages and fans them out to the receiver's
// live endpoints. Contact authorization gates every operation that touches
// message content.
type Messages struct {
	db       *gorm.DB
	notifier UserNotifier
	log      *slog.Logger
}

// NewMessages creates the message service.
func NewMessages(db *gorm.DB, notifier UserNotifier, log *slog.Logger) *Messages {
	return &Messages{db: db, notifier: notifier, log: log}
}

// Send persists a message from senderID to receiverID and pushes it to every
// live endpoint of the receiver. The receiver having no live endpoints is not
// an error; the message is already durable. Fails PermissionDenied when the
// receiver is not a contact of the sender, creating nothing.
func (s *Messages) Send(senderID, receiverID uint, content string) (*models.Message, error) {
	if content == "" {
		return nil, apperr.Validation("message content must not be empty")
	}

	allowed, err := areContacts(s.db, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.PermissionDenied("you are not allowed to chat with this user")
	}

	message := models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, apperr.Infrastructure("failed to create message", err)
	}

	s.notifier.NotifyUser(receiverID, hub.Event{
		Type:    hub.EventPrivateMessage,
		Payload: hub.NewMessagePayload(message),
	})
	return &message, nil
}

// MarkSeen flips the seen flag of a message exactly once. Only the message's
// receiver may flip it; a call by anyone else, or for a missing message,
// returns (nil, nil) rather than an error. A repeat call by the receiver is a
// successful no-op that still reports the seen message. The sender's live
// endpoints are notified on the actual flip.
func (s *Messages) MarkSeen(messageID, requesterID uint) (*models.Message, error) {
	var message models.Message
	err := s.db.First(&message, messageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Infrastructure("failed to load message", err)
	}
	if message.ReceiverID != requesterID {
		return nil, nil
	}
	if message.Seen {
		return &message, nil
	}

	if err := s.db.Model(&message).Update("seen", true).Error; err != nil {
		return nil, apperr.Infrastructure("failed to mark message seen", err)
	}

	s.notifier.NotifyUser(message.SenderID, hub.Event{
		Type:    hub.EventMessageSeen,
		Payload: hub.MessageSeenPayload{MessageID: message.ID},
	})
	s.notifier.NotifyUser(message.SenderID, hub.Event{
		Type:    hub.EventMessageRead,
		Payload: hub.MessageReadPayload{MessageID: message.ID, ReaderID: requesterID},
	})
	return &message, nil
}

// Between returns one page of the conversation between userID and otherID in
// ascending chronological order, plus the total message count for pagination.
// Fails PermissionDenied unless otherID is a contact of userID. Limit
// defaults to DefaultPageSize and page to 1.
func (s *Messages) Between(userID, otherID uint, limit, page int) ([]models.Message, int64, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	allowed, err := areContacts(s.db, userID, otherID)
	if err != nil {
		return nil, 0, err
	}
	if !allowed {
		return nil, 0, apperr.PermissionDenied("you are not allowed to chat with this user")
	}

	// Session makes the pair scope reusable for both the count and the page query.
	pair := s.db.Model(&models.Message{}).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherID, otherID, userID).
		Session(&gorm.Session{})

	var total int64
	if err := pair.Count(&total).Error; err != nil {
		return nil, 0, apperr.Infrastructure("failed to count messages", err)
	}

	var messages []models.Message
	if err := pair.
		Order("created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, 0, apperr.Infrastructure("failed to load messages", err)
	}
	return messages, total, nil
}
