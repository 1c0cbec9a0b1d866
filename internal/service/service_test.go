package service

import (
	"fmt"
	"sync"
	"testing"

	"beamchat/backend/internal/database"
	"beamchat/backend/internal/hub"
	"beamchat/backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{Username: username, PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func makeContacts(t *testing.T, db *gorm.DB, a, b uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.Contact{UserID: a, ContactID: b}).Error)
	require.NoError(t, db.Create(&models.Contact{UserID: b, ContactID: a}).Error)
}

// eventRecorder is a UserNotifier that captures events instead of delivering them.
type eventRecorder struct {
	mu         sync.Mutex
	sent       map[uint][]hub.Event
	broadcasts []hub.Event
}

func newEventRecorder() *eventRecorder {
	return &eventRecorder{sent: make(map[uint][]hub.Event)}
}

func (r *eventRecorder) NotifyUser(userID uint, event hub.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent[userID] = append(r.sent[userID], event)
}

func (r *eventRecorder) Broadcast(event hub.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcasts = append(r.broadcasts, event)
}

func (r *eventRecorder) eventsFor(userID uint) []hub.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]hub.Event(nil), r.sent[userID]...)
}

func (r *eventRecorder) typesFor(userID uint) []string {
	events := r.eventsFor(userID)
	types := make([]string, len(events))
	for i, ev := range events {
		types[i] = ev.Type
	}
	return types
}
