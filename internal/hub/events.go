package hub

import (
	"encoding/json"
	"time"

	"beamchat/backend/internal/models"
)

// Outbound event types. These names are the wire contract with clients.
const (
	EventUserOnline            = "user-online"
	EventUserOffline           = "user-offline"
	EventPrivateMessage        = "private-message"
	EventMessageSeen           = "message-seen"
	EventMessageRead           = "message_read"
	EventCallUser              = "call-user"
	EventAnswerCall            = "answer-call"
	EventICECandidate          = "ice-candidate"
	EventEndCall               = "end-call"
	EventFriendRequestReceived = "friend_request_received"
	EventFriendRequestAccepted = "friend_request_accepted"
	EventFriendRequestRejected = "friend_request_rejected"
	EventContactAdded          = "contact_added"
	EventTyping                = "typing"
	EventStopTyping            = "stop_typing"
	EventOperationError        = "operation-error"
)

// PresencePayload accompanies user-online and user-offline broadcasts.
type PresencePayload struct {
	UserID uint `json:"userId"`
}

// MessagePayload accompanies private-message.
type MessagePayload struct {
	ID         uint      `json:"id"`
	SenderID   uint      `json:"senderId"`
	ReceiverID uint      `json:"receiverId"`
	Content    string    `json:"content"`
	Seen       bool      `json:"seen"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewMessagePayload builds the wire shape of a persisted message.
func NewMessagePayload(m models.Message) MessagePayload {
	return MessagePayload{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		Seen:       m.Seen,
		CreatedAt:  m.CreatedAt,
	}
}

// MessageSeenPayload accompanies message-seen.
type MessageSeenPayload struct {
	MessageID uint `json:"messageId"`
}

// MessageReadPayload accompanies message_read.
type MessageReadPayload struct {
	MessageID uint `json:"messageId"`
	ReaderID  uint `json:"readerId"`
}

// CallSignalPayload carries WebRTC signaling data between peers. Signal and
// Candidate are relayed verbatim; the hub never inspects them.
type CallSignalPayload struct {
	CallID    uint            `json:"callId,omitempty"`
	CallerID  uint            `json:"callerId"`
	CalleeID  uint            `json:"calleeId"`
	Signal    json.RawMessage `json:"signal,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

// EndCallPayload accompanies end-call.
type EndCallPayload struct {
	CallID uint              `json:"callId"`
	Status models.CallStatus `json:"status"`
}

// FriendRequestReceivedPayload accompanies friend_request_received.
type FriendRequestReceivedPayload struct {
	SenderID   uint      `json:"senderId"`
	SenderName string    `json:"senderName"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FriendRequestAcceptedPayload accompanies friend_request_accepted.
type FriendRequestAcceptedPayload struct {
	AccepterID   uint   `json:"accepterId"`
	AccepterName string `json:"accepterName"`
}

// FriendRequestRejectedPayload accompanies friend_request_rejected.
type FriendRequestRejectedPayload struct {
	RejecterID uint `json:"rejecterId"`
}

// ContactAddedPayload accompanies contact_added.
type ContactAddedPayload struct {
	NewContact ContactInfo `json:"newContact"`
}

// ContactInfo is the public shape of a user inside realtime payloads.
type ContactInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Online   bool   `json:"online"`
}

// TypingPayload accompanies typing and stop_typing.
type TypingPayload struct {
	SenderID   uint   `json:"senderId"`
	SenderName string `json:"senderName,omitempty"`
}

// OperationErrorPayload is sent only to the endpoint whose request failed.
type OperationErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}
