package gateway

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"beamchat/backend/internal/database"
	"beamchat/backend/internal/hub"
	"beamchat/backend/internal/models"
	"beamchat/backend/internal/presence"
	"beamchat/backend/internal/service"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:gw_%s?mode=memory&cache=shared", t.Name())
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

// broadcastRecorder counts broadcasts while ignoring per-user fanout.
type broadcastRecorder struct {
	mu     sync.Mutex
	events []hub.Event
}

func (r *broadcastRecorder) NotifyUser(uint, hub.Event) {}

func (r *broadcastRecorder) Broadcast(event hub.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *broadcastRecorder) sequence() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.events))
	for i, ev := range r.events {
		types[i] = ev.Type
	}
	return types
}

func (r *broadcastRecorder) ofType(eventType string) []hub.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []hub.Event
	for _, ev := range r.events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

func buildGateway(db *gorm.DB, registry *presence.Registry, eventHub *hub.Hub, notifier service.UserNotifier) *Gateway {
	log := slog.Default()
	return New(registry, eventHub, notifier,
		service.NewUsers(db, log),
		service.NewContacts(db, notifier, log),
		service.NewMessages(db, notifier, log),
		service.NewCalls(db, log),
		log)
}

// newRecordedGateway routes broadcasts into a recorder; per-user fanout is
// discarded. Used by the lifecycle tests.
func newRecordedGateway(db *gorm.DB) (*Gateway, *presence.Registry, *broadcastRecorder) {
	registry := presence.NewRegistry()
	eventHub := hub.New(slog.Default())
	recorder := &broadcastRecorder{}
	return buildGateway(db, registry, eventHub, recorder), registry, recorder
}

// newLiveGateway wires the real notifier over the gateway's own registry and
// hub, so events land on attached client channels.
func newLiveGateway(db *gorm.DB) *Gateway {
	registry := presence.NewRegistry()
	eventHub := hub.New(slog.Default())
	notifier := hub.NewNotifier(registry, eventHub)
	return buildGateway(db, registry, eventHub, notifier)
}

// connectEndpoint attaches a fresh endpoint for the user and returns its
// session and client channel.
func connectEndpoint(g *Gateway, user *models.User, endpointID string) (*Session, hub.Client) {
	sess := &Session{UserID: user.ID, Username: user.Username, EndpointID: endpointID}
	client := make(hub.Client, clientBuffer)
	g.Connect(sess, client)
	return sess, client
}

// waitFor drains the client channel until an event of the wanted type shows
// up. Presence broadcasts from earlier connects are skipped over.
func waitFor(t *testing.T, client hub.Client, eventType string) hub.Event {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case data := <-client:
			var ev hub.Event
			require.NoError(t, json.Unmarshal(data, &ev))
			if ev.Type == eventType {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s event", eventType)
		}
	}
}

func payloadOf(t *testing.T, ev hub.Event) map[string]any {
	t.Helper()
	data, err := json.Marshal(ev.Payload)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func dispatchRaw(g *Gateway, sess *Session, eventType string, payload any) {
	data, _ := json.Marshal(map[string]any{"type": eventType, "payload": payload})
	g.Dispatch(sess, data)
}

func TestConnect_SecondDeviceDoesNotRebroadcast(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	g, registry, recorder := newRecordedGateway(db)
	alice := createUser(t, db, "alice")

	sessA, _ := connectEndpoint(g, alice, "ep-a")
	sessB, _ := connectEndpoint(g, alice, "ep-b")

	req.Len(recorder.ofType(hub.EventUserOnline), 1)
	req.True(registry.Online(alice.ID))

	var stored models.User
	req.NoError(db.First(&stored, alice.ID).Error)
	req.True(stored.Online)

	// Losing one of two endpoints keeps the user online, silently.
	g.Disconnect(sessA)
	req.Empty(recorder.ofType(hub.EventUserOffline))
	req.True(registry.Online(alice.ID))

	// Losing the last endpoint broadcasts offline exactly once.
	g.Disconnect(sessB)
	req.Len(recorder.ofType(hub.EventUserOffline), 1)
	req.False(registry.Online(alice.ID))

	req.NoError(db.First(&stored, alice.ID).Error)
	req.False(stored.Online)
}

func TestConnect_ConcurrentDevicesBroadcastOnce(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	g, _, recorder := newRecordedGateway(db)
	alice := createUser(t, db, "alice")

	const devices = 20
	var wg sync.WaitGroup
	for i := 0; i < devices; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			connectEndpoint(g, alice, fmt.Sprintf("ep-%d", i))
		}(i)
	}
	wg.Wait()

	req.Len(recorder.ofType(hub.EventUserOnline), 1)
}

func TestLifecycle_ChurnKeepsPresenceOrdered(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	g, registry, recorder := newRecordedGateway(db)
	alice := createUser(t, db, "alice")

	// Endpoints connecting and disconnecting concurrently must never leave
	// the stored flag or the broadcast stream contradicting the registry:
	// every online broadcast pairs with the offline that follows it.
	const churn = 30
	var wg sync.WaitGroup
	for i := 0; i < churn; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess, _ := connectEndpoint(g, alice, fmt.Sprintf("ep-%d", i))
			g.Disconnect(sess)
		}(i)
	}
	wg.Wait()

	req.False(registry.Online(alice.ID))
	var stored models.User
	req.NoError(db.First(&stored, alice.ID).Error)
	req.False(stored.Online)

	seq := recorder.sequence()
	req.NotEmpty(seq)
	req.Equal(hub.EventUserOffline, seq[len(seq)-1])
	for i, eventType := range seq {
		if i%2 == 0 {
			req.Equal(hub.EventUserOnline, eventType)
		} else {
			req.Equal(hub.EventUserOffline, eventType)
		}
	}
}

func TestDispatch_UnknownEventType(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	g := newLiveGateway(db)
	alice := createUser(t, db, "alice")
	sess, client := connectEndpoint(g, alice, "ep-a")

	g.Dispatch(sess, []byte(`{"type":"teleport","payload":{}}`))

	ev := waitFor(t, client, hub.EventOperationError)
	req.Equal("validation", payloadOf(t, ev)["code"])
}

func TestDispatch_MalformedEnvelope(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	g := newLiveGateway(db)
	alice := createUser(t, db, "alice")
	sess, client := connectEndpoint(g, alice, "ep-a")

	g.Dispatch(sess, []byte(`{"type":`))

	ev := waitFor(t, client, hub.EventOperationError)
	req.Equal("validation", payloadOf(t, ev)["code"])
}

func TestDispatch_PrivateMessage(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	g := newLiveGateway(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	makeContacts(t, db, alice.ID, bob.ID)

	aliceSess, aliceClient := connectEndpoint(g, alice, "ep-alice")
	bobSess, bobClient := connectEndpoint(g, bob, "ep-bob")

	dispatchRaw(g, aliceSess, "private-message", map[string]any{
		"receiverId": bob.ID,
		"content":    "hello bob",
	})

	ev := waitFor(t, bobClient, hub.EventPrivateMessage)
	payload := payloadOf(t, ev)
	req.Equal("hello bob", payload["content"])
	req.Equal(float64(alice.ID), payload["senderId"])

	var count int64
	req.NoError(db.Model(&models.Message{}).Count(&count).Error)
	req.Equal(int64(1), count)

	// Receiver marks it read; the sender's endpoint hears about it.
	dispatchRaw(g, bobSess, "message_read", map[string]any{
		"messageId": uint(payload["id"].(float64)),
	})
	read := waitFor(t, aliceClient, hub.EventMessageRead)
	req.Equal(float64(bob.ID), payloadOf(t, read)["readerId"])
}

func TestDispatch_PrivateMessageWithoutContact(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	g := newLiveGateway(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	aliceSess, aliceClient := connectEndpoint(g, alice, "ep-alice")
	_, bobClient := connectEndpoint(g, bob, "ep-bob")

	dispatchRaw(g, aliceSess, "private-message", map[string]any{
		"receiverId": bob.ID,
		"content":    "let me in",
	})

	// Only the initiating endpoint hears about the failure.
	ev := waitFor(t, aliceClient, hub.EventOperationError)
	req.Equal("permission_denied", payloadOf(t, ev)["code"])

	select {
	case data := <-bobClient:
		var got hub.Event
		req.NoError(json.Unmarshal(data, &got))
		req.NotEqual(hub.EventPrivateMessage, got.Type)
	default:
	}
}

func TestDispatch_TypingIsContactGated(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	g := newLiveGateway(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	aliceSess, aliceClient := connectEndpoint(g, alice, "ep-alice")
	_, bobClient := connectEndpoint(g, bob, "ep-bob")

	dispatchRaw(g, aliceSess, "typing", map[string]any{"receiverId": bob.ID})
	ev := waitFor(t, aliceClient, hub.EventOperationError)
	req.Equal("permission_denied", payloadOf(t, ev)["code"])

	makeContacts(t, db, alice.ID, bob.ID)

	dispatchRaw(g, aliceSess, "typing", map[string]any{"receiverId": bob.ID})
	typing := waitFor(t, bobClient, hub.EventTyping)
	req.Equal("alice", payloadOf(t, typing)["senderName"])

	// stop_typing carries no sender name.
	dispatchRaw(g, aliceSess, "stop_typing", map[string]any{"receiverId": bob.ID})
	stop := waitFor(t, bobClient, hub.EventStopTyping)
	req.NotContains(payloadOf(t, stop), "senderName")
}

func TestDispatch_FriendRequestFlow(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	g := newLiveGateway(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	aliceSess, aliceClient := connectEndpoint(g, alice, "ep-alice")
	bobSess, bobClient := connectEndpoint(g, bob, "ep-bob")

	dispatchRaw(g, aliceSess, "send_friend_request", map[string]any{
		"targetUserId": bob.ID,
	})
	received := waitFor(t, bobClient, hub.EventFriendRequestReceived)
	req.Equal("alice", payloadOf(t, received)["senderName"])

	dispatchRaw(g, bobSess, "accept_friend_request", map[string]any{
		"senderId": alice.ID,
	})
	accepted := waitFor(t, aliceClient, hub.EventFriendRequestAccepted)
	req.Equal("bob", payloadOf(t, accepted)["accepterName"])

	var count int64
	req.NoError(db.Model(&models.Contact{}).Count(&count).Error)
	req.Equal(int64(2), count)
}

func TestDispatch_CallLifecycle(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	g := newLiveGateway(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	makeContacts(t, db, alice.ID, bob.ID)

	aliceSess, aliceClient := connectEndpoint(g, alice, "ep-alice")
	bobSess, bobClient := connectEndpoint(g, bob, "ep-bob")

	// Caller rings; callee receives the offer with the persisted call ID.
	dispatchRaw(g, aliceSess, "call-user", map[string]any{
		"calleeId": bob.ID,
		"signal":   map[string]any{"type": "offer", "sdp": "v=0"},
	})
	offer := waitFor(t, bobClient, hub.EventCallUser)
	callID := uint(payloadOf(t, offer)["callId"].(float64))
	req.NotZero(callID)

	var call models.Call
	req.NoError(db.First(&call, callID).Error)
	req.Equal(models.CallOngoing, call.Status)
	req.Nil(call.EndedAt)

	// Callee answers; pure relay back to the caller.
	dispatchRaw(g, bobSess, "answer-call", map[string]any{
		"callId":   callID,
		"callerId": alice.ID,
		"signal":   map[string]any{"type": "answer", "sdp": "v=0"},
	})
	answer := waitFor(t, aliceClient, hub.EventAnswerCall)
	req.Equal(float64(callID), payloadOf(t, answer)["callId"])

	// ICE candidates relay verbatim.
	dispatchRaw(g, aliceSess, "ice-candidate", map[string]any{
		"targetId":  bob.ID,
		"candidate": map[string]any{"candidate": "candidate:0 1 UDP"},
	})
	waitFor(t, bobClient, hub.EventICECandidate)

	// Caller hangs up; the record ends and the peer is told.
	dispatchRaw(g, aliceSess, "end-call", map[string]any{
		"callId": callID,
		"peerId": bob.ID,
		"status": "ended",
	})
	end := waitFor(t, bobClient, hub.EventEndCall)
	req.Equal("ended", payloadOf(t, end)["status"])

	req.NoError(db.First(&call, callID).Error)
	req.Equal(models.CallEnded, call.Status)
	req.NotNil(call.EndedAt)

	// Hanging up again fails, and only for the endpoint that tried.
	dispatchRaw(g, aliceSess, "end-call", map[string]any{
		"callId": callID,
		"peerId": bob.ID,
		"status": "missed",
	})
	errEv := waitFor(t, aliceClient, hub.EventOperationError)
	req.Equal("conflict", payloadOf(t, errEv)["code"])
}

func TestDispatch_CallWithoutContact(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	g := newLiveGateway(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	aliceSess, aliceClient := connectEndpoint(g, alice, "ep-alice")

	dispatchRaw(g, aliceSess, "call-user", map[string]any{
		"calleeId": bob.ID,
		"signal":   map[string]any{"type": "offer"},
	})

	ev := waitFor(t, aliceClient, hub.EventOperationError)
	req.Equal("permission_denied", payloadOf(t, ev)["code"])

	var count int64
	req.NoError(db.Model(&models.Call{}).Count(&count).Error)
	req.Equal(int64(0), count)
}
