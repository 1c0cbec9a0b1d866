package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"beamchat/backend/internal/apperr"
	"beamchat/backend/internal/hub"
	"beamchat/backend/internal/models"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Contacts implements the friend-request workflow and the permission store
// gating all message and call traffic.
//
// State machine per ordered (from, to) pair:
//
//	NONE -> PENDING (send) -> ACCEPTED | REJECTED (terminal)
//
// Acceptance inserts both directions of the contact relation inside one
// transaction, so the relation is symmetric or absent, never half-applied.
type Contacts struct {
	db       *gorm.DB
	notifier UserNotifier
	log      *slog.Logger
}

// NewContacts creates the contact service.
func NewContacts(db *gorm.DB, notifier UserNotifier, log *slog.Logger) *Contacts {
	return &Contacts{db: db, notifier: notifier, log: log}
}

// SendRequest creates a pending friend request from fromID to toID and
// notifies the target's live endpoints.
func (s *Contacts) SendRequest(fromID, toID uint) (*models.FriendRequest, error) {
	if fromID == toID {
		return nil, apperr.Conflict("cannot send a friend request to yourself")
	}

	var sender, target models.User
	if err := s.db.First(&sender, fromID).Error; err != nil {
		return nil, asLookupError(err, "sender not found")
	}
	if err := s.db.First(&target, toID).Error; err != nil {
		return nil, asLookupError(err, "target user not found")
	}

	request := models.FriendRequest{
		FromUserID: fromID,
		ToUserID:   toID,
		Status:     models.RequestPending,
	}

	// The duplicate checks run inside the transaction so two concurrent sends
	// for the same pair cannot both pass them.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		contacts, err := areContacts(tx, fromID, toID)
		if err != nil {
			return err
		}
		if contacts {
			return apperr.Conflict("already contacts")
		}

		var count int64
		if err := tx.Model(&models.FriendRequest{}).
			Where("from_user_id = ? AND to_user_id = ? AND status = ?", fromID, toID, models.RequestPending).
			Count(&count).Error; err != nil {
			return apperr.Infrastructure("failed to check existing request", err)
		}
		if count > 0 {
			return apperr.Conflict("friend request already sent")
		}

		if err := tx.Model(&models.FriendRequest{}).
			Where("from_user_id = ? AND to_user_id = ? AND status = ?", toID, fromID, models.RequestPending).
			Count(&count).Error; err != nil {
			return apperr.Infrastructure("failed to check reverse request", err)
		}
		if count > 0 {
			return apperr.Conflict("this user already sent you a friend request")
		}

		if err := tx.Create(&request).Error; err != nil {
			return apperr.Infrastructure("failed to create friend request", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyUser(toID, hub.Event{
		Type: hub.EventFriendRequestReceived,
		Payload: hub.FriendRequestReceivedPayload{
			SenderID:   fromID,
			SenderName: sender.Username,
			CreatedAt:  request.CreatedAt,
		},
	})
	s.log.Info("friend request sent", "from", fromID, "to", toID)
	return &request, nil
}

// AcceptRequest marks the pending request requesterID -> accepterID as
// accepted and inserts both users into each other's contact set. The request
// update and both contact rows commit together or not at all. A request that
// is missing or already terminal fails NotFound and is never re-applied.
func (s *Contacts) AcceptRequest(accepterID, requesterID uint) error {
	var accepter, requester models.User
	if err := s.db.First(&accepter, accepterID).Error; err != nil {
		return asLookupError(err, "user not found")
	}
	if err := s.db.First(&requester, requesterID).Error; err != nil {
		return asLookupError(err, "requester not found")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		request, err := pendingRequest(tx, requesterID, accepterID)
		if err != nil {
			return err
		}
		if err := tx.Model(request).Update("status", models.RequestAccepted).Error; err != nil {
			return apperr.Infrastructure("failed to accept request", err)
		}
		if err := tx.Create(&models.Contact{UserID: accepterID, ContactID: requesterID}).Error; err != nil {
			return apperr.Infrastructure("failed to add contact", err)
		}
		if err := tx.Create(&models.Contact{UserID: requesterID, ContactID: accepterID}).Error; err != nil {
			return apperr.Infrastructure("failed to add contact", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.NotifyUser(requesterID, hub.Event{
		Type: hub.EventFriendRequestAccepted,
		Payload: hub.FriendRequestAcceptedPayload{
			AccepterID:   accepterID,
			AccepterName: accepter.Username,
		},
	})
	s.notifier.NotifyUser(accepterID, hub.Event{
		Type: hub.EventContactAdded,
		Payload: hub.ContactAddedPayload{
			NewContact: hub.ContactInfo{
				ID:       requester.ID,
				Username: requester.Username,
				Online:   requester.Online,
			},
		},
	})
	s.log.Info("friend request accepted", "accepter", accepterID, "requester", requesterID)
	return nil
}

// RejectRequest marks the pending request requesterID -> rejecterID as
// rejected and notifies the requester. Contact sets are untouched.
func (s *Contacts) RejectRequest(rejecterID, requesterID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		request, err := pendingRequest(tx, requesterID, rejecterID)
		if err != nil {
			return err
		}
		if err := tx.Model(request).Update("status", models.RequestRejected).Error; err != nil {
			return apperr.Infrastructure("failed to reject request", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.NotifyUser(requesterID, hub.Event{
		Type:    hub.EventFriendRequestRejected,
		Payload: hub.FriendRequestRejectedPayload{RejecterID: rejecterID},
	})
	s.log.Info("friend request rejected", "rejecter", rejecterID, "requester", requesterID)
	return nil
}

// Remove deletes the contact relation between userID and otherID. The
// relation is symmetric, so both rows go inside one transaction; removing a
// user who is not a contact fails NotFound. Message history is untouched, but
// further traffic fails the contact gate until a new request is accepted.
func (s *Contacts) Remove(userID, otherID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND contact_id = ?", userID, otherID).Delete(&models.Contact{})
		if res.Error != nil {
			return apperr.Infrastructure("failed to remove contact", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("this user is not in your contacts")
		}
		if err := tx.Where("user_id = ? AND contact_id = ?", otherID, userID).Delete(&models.Contact{}).Error; err != nil {
			return apperr.Infrastructure("failed to remove contact", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("contact removed", "user", userID, "contact", otherID)
	return nil
}

// AreContacts reports whether otherID is in userID's contact set.
func (s *Contacts) AreContacts(userID, otherID uint) (bool, error) {
	return areContacts(s.db, userID, otherID)
}

// ContactIDs returns the IDs of all contacts of userID.
func (s *Contacts) ContactIDs(userID uint) ([]uint, error) {
	var ids []uint
	if err := s.db.Model(&models.Contact{}).
		Where("user_id = ?", userID).
		Pluck("contact_id", &ids).Error; err != nil {
		return nil, apperr.Infrastructure("failed to load contact ids", err)
	}
	return ids, nil
}

// PendingRequests returns the user's incoming and outgoing pending requests,
// newest first.
func (s *Contacts) PendingRequests(userID uint) (incoming, outgoing []models.FriendRequest, err error) {
	if err := s.db.Preload("FromUser").
		Where("to_user_id = ? AND status = ?", userID, models.RequestPending).
		Order("created_at DESC").Find(&incoming).Error; err != nil {
		return nil, nil, apperr.Infrastructure("failed to load incoming requests", err)
	}
	if err := s.db.Preload("ToUser").
		Where("from_user_id = ? AND status = ?", userID, models.RequestPending).
		Order("created_at DESC").Find(&outgoing).Error; err != nil {
		return nil, nil, apperr.Infrastructure("failed to load outgoing requests", err)
	}
	return incoming, outgoing, nil
}

// ContactSummary pairs a contact with the latest message exchanged with them,
// if any.
type ContactSummary struct {
	User          hub.ContactInfo
	LatestMessage *models.Message
}

// Summaries returns one entry per contact of userID, ordered by latest
// message time descending; contacts without any messages come last.
func (s *Contacts) Summaries(userID uint) ([]ContactSummary, error) {
	var rows []models.Contact
	if err := s.db.Preload("ContactUser").Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, apperr.Infrastructure("failed to load contacts", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	contactIDs := lo.Map(rows, func(c models.Contact, _ int) uint { return c.ContactID })

	// One row per contact: group by the other participant of each message
	// (sender+receiver-user) and keep only the newest id per group, so the
	// load stays bounded by the contact count as history grows. IDs follow
	// insertion order, so MAX(id) is the latest message of the pair.
	newestPerContact := s.db.Model(&models.Message{}).
		Select("MAX(id)").
		Where("(sender_id = ? AND receiver_id IN ?) OR (receiver_id = ? AND sender_id IN ?)",
			userID, contactIDs, userID, contactIDs).
		Group(fmt.Sprintf("sender_id + receiver_id - %d", userID))

	var messages []models.Message
	if err := s.db.Where("id IN (?)", newestPerContact).Find(&messages).Error; err != nil {
		return nil, apperr.Infrastructure("failed to load latest messages", err)
	}

	latest := make(map[uint]models.Message, len(messages))
	for _, m := range messages {
		other := m.SenderID
		if other == userID {
			other = m.ReceiverID
		}
		latest[other] = m
	}

	summaries := lo.Map(rows, func(c models.Contact, _ int) ContactSummary {
		summary := ContactSummary{
			User: hub.ContactInfo{
				ID:       c.ContactUser.ID,
				Username: c.ContactUser.Username,
				Online:   c.ContactUser.Online,
			},
		}
		if m, ok := latest[c.ContactID]; ok {
			msg := m
			summary.LatestMessage = &msg
		}
		return summary
	})

	sort.SliceStable(summaries, func(i, j int) bool {
		ti, tj := summaryTime(summaries[i]), summaryTime(summaries[j])
		return ti.After(tj)
	})
	return summaries, nil
}

func summaryTime(s ContactSummary) time.Time {
	if s.LatestMessage == nil {
		return time.Time{}
	}
	return s.LatestMessage.CreatedAt
}

func areContacts(db *gorm.DB, userID, otherID uint) (bool, error) {
	var count int64
	if err := db.Model(&models.Contact{}).
		Where("user_id = ? AND contact_id = ?", userID, otherID).
		Count(&count).Error; err != nil {
		return false, apperr.Infrastructure("failed to check contacts", err)
	}
	return count > 0, nil
}

func pendingRequest(tx *gorm.DB, fromID, toID uint) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := tx.Where("from_user_id = ? AND to_user_id = ? AND status = ?", fromID, toID, models.RequestPending).
		First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("no pending friend request from this user")
	}
	if err != nil {
		return nil, apperr.Infrastructure("failed to load friend request", err)
	}
	return &request, nil
}

func asLookupError(err error, notFoundMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(notFoundMsg)
	}
	return apperr.Infrastructure("failed to load user", err)
}
