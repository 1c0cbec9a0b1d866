package service

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"beamchat/backend/internal/apperr"
	"beamchat/backend/internal/hub"
	"beamchat/backend/internal/models"
	"beamchat/backend/internal/presence"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMessagesService(t *testing.T) (*Messages, *gorm.DB, *eventRecorder) {
	t.Helper()
	db := newTestDB(t)
	recorder := newEventRecorder()
	return NewMessages(db, recorder, slog.Default()), db, recorder
}

func TestSend_RequiresContact(t *testing.T) {
	req := require.New(t)
	svc, db, recorder := newMessagesService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	_, err := svc.Send(alice.ID, bob.ID, "hello")
	req.True(apperr.IsKind(err, apperr.KindPermissionDenied))

	// Nothing persisted, nothing delivered.
	var count int64
	req.NoError(db.Model(&models.Message{}).Count(&count).Error)
	req.Equal(int64(0), count)
	req.Empty(recorder.eventsFor(bob.ID))
}

func TestSend_PersistsAndFansOut(t *testing.T) {
	req := require.New(t)
	svc, db, recorder := newMessagesService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	makeContacts(t, db, alice.ID, bob.ID)

	message, err := svc.Send(alice.ID, bob.ID, "hello bob")
	req.NoError(err)
	req.False(message.Seen)
	req.NotZero(message.ID)

	events := recorder.eventsFor(bob.ID)
	req.Len(events, 1)
	req.Equal(hub.EventPrivateMessage, events[0].Type)
	payload := events[0].Payload.(hub.MessagePayload)
	req.Equal("hello bob", payload.Content)
	req.Equal(alice.ID, payload.SenderID)
}

func TestSend_EmptyContent(t *testing.T) {
	req := require.New(t)
	svc, db, _ := newMessagesService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	makeContacts(t, db, alice.ID, bob.ID)

	_, err := svc.Send(alice.ID, bob.ID, "")
	req.True(apperr.IsKind(err, apperr.KindValidation))
}

func TestSend_SucceedsWithNoLiveEndpoints(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	// Real notifier over an empty registry: nobody is connected.
	notifier := hub.NewNotifier(presence.NewRegistry(), hub.New(slog.Default()))
	svc := NewMessages(db, notifier, slog.Default())

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	makeContacts(t, db, alice.ID, bob.ID)

	message, err := svc.Send(alice.ID, bob.ID, "are you there?")
	req.NoError(err)

	// The message is durable even though delivery reached nobody.
	var stored models.Message
	req.NoError(db.First(&stored, message.ID).Error)
	req.Equal("are you there?", stored.Content)
}

func TestMarkSeen_OnlyReceiverFlips(t *testing.T) {
	req := require.New(t)
	svc, db, recorder := newMessagesService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	makeContacts(t, db, alice.ID, bob.ID)

	message, err := svc.Send(alice.ID, bob.ID, "hello")
	req.NoError(err)

	// The sender cannot mark their own message seen; no error, no change.
	result, err := svc.MarkSeen(message.ID, alice.ID)
	req.NoError(err)
	req.Nil(result)

	var stored models.Message
	req.NoError(db.First(&stored, message.ID).Error)
	req.False(stored.Seen)

	// The receiver flips it and the sender's endpoints are notified.
	result, err = svc.MarkSeen(message.ID, bob.ID)
	req.NoError(err)
	req.NotNil(result)
	req.True(result.Seen)

	types := recorder.typesFor(alice.ID)
	req.Contains(types, hub.EventMessageSeen)
	req.Contains(types, hub.EventMessageRead)
}

func TestMarkSeen_IsIdempotent(t *testing.T) {
	req := require.New(t)
	svc, db, recorder := newMessagesService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	makeContacts(t, db, alice.ID, bob.ID)

	message, err := svc.Send(alice.ID, bob.ID, "hello")
	req.NoError(err)

	first, err := svc.MarkSeen(message.ID, bob.ID)
	req.NoError(err)
	req.True(first.Seen)
	notified := len(recorder.eventsFor(alice.ID))

	second, err := svc.MarkSeen(message.ID, bob.ID)
	req.NoError(err)
	req.True(second.Seen)

	// The repeat call did not re-notify the sender.
	req.Len(recorder.eventsFor(alice.ID), notified)
}

func TestMarkSeen_UnknownMessage(t *testing.T) {
	req := require.New(t)
	svc, db, _ := newMessagesService(t)
	bob := createUser(t, db, "bob")

	result, err := svc.MarkSeen(4242, bob.ID)
	req.NoError(err)
	req.Nil(result)
}

func TestBetween_RequiresContact(t *testing.T) {
	req := require.New(t)
	svc, db, _ := newMessagesService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	_, _, err := svc.Between(alice.ID, bob.ID, 10, 1)
	req.True(apperr.IsKind(err, apperr.KindPermissionDenied))
}

func TestBetween_PaginatesAscending(t *testing.T) {
	req := require.New(t)
	svc, db, _ := newMessagesService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")
	makeContacts(t, db, alice.ID, bob.ID)
	makeContacts(t, db, alice.ID, carol.ID)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		sender, receiver := alice.ID, bob.ID
		if i%2 == 1 {
			sender, receiver = bob.ID, alice.ID
		}
		req.NoError(db.Create(&models.Message{
			SenderID:   sender,
			ReceiverID: receiver,
			Content:    fmt.Sprintf("msg %d", i),
			Model:      gorm.Model{CreatedAt: base.Add(time.Duration(i) * time.Second)},
		}).Error)
	}
	// Traffic with another contact must not leak into the pair.
	req.NoError(db.Create(&models.Message{SenderID: alice.ID, ReceiverID: carol.ID, Content: "other"}).Error)

	messages, total, err := svc.Between(alice.ID, bob.ID, 10, 2)
	req.NoError(err)
	req.Equal(int64(25), total)
	req.Len(messages, 10)
	req.Equal("msg 10", messages[0].Content)
	req.Equal("msg 19", messages[9].Content)
	for i := 1; i < len(messages); i++ {
		req.False(messages[i].CreatedAt.Before(messages[i-1].CreatedAt))
	}
}

func TestBetween_AppliesDefaults(t *testing.T) {
	req := require.New(t)
	svc, db, _ := newMessagesService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	makeContacts(t, db, alice.ID, bob.ID)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		req.NoError(db.Create(&models.Message{
			SenderID:   alice.ID,
			ReceiverID: bob.ID,
			Content:    fmt.Sprintf("msg %d", i),
			Model:      gorm.Model{CreatedAt: base.Add(time.Duration(i) * time.Second)},
		}).Error)
	}

	// limit and page absent: default page size, first page.
	messages, total, err := svc.Between(alice.ID, bob.ID, 0, 0)
	req.NoError(err)
	req.Equal(int64(25), total)
	req.Len(messages, DefaultPageSize)
	req.Equal("msg 0", messages[0].Content)
}
