package gateway

import (
	"encoding/json"

	"beamchat/backend/internal/models"
)

// Inbound event types. This set is closed: Dispatch rejects anything else.
const (
	inPrivateMessage      = "private-message"
	inMessageSeen         = "message-seen"
	inMessageRead         = "message_read"
	inCallUser            = "call-user"
	inAnswerCall          = "answer-call"
	inICECandidate        = "ice-candidate"
	inEndCall             = "end-call"
	inSendFriendRequest   = "send_friend_request"
	inAcceptFriendRequest = "accept_friend_request"
	inRejectFriendRequest = "reject_friend_request"
	inTyping              = "typing"
	inStopTyping          = "stop_typing"
)

// envelope is the wire shape of every inbound event.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type privateMessageIn struct {
	ReceiverID uint   `json:"receiverId"`
	Content    string `json:"content"`
}

type messageSeenIn struct {
	MessageID uint `json:"messageId"`
}

type callUserIn struct {
	CalleeID uint            `json:"calleeId"`
	Signal   json.RawMessage `json:"signal"`
}

type answerCallIn struct {
	CallID   uint            `json:"callId"`
	CallerID uint            `json:"callerId"`
	Signal   json.RawMessage `json:"signal"`
}

type iceCandidateIn struct {
	TargetID  uint            `json:"targetId"`
	Candidate json.RawMessage `json:"candidate"`
}

type endCallIn struct {
	CallID uint              `json:"callId"`
	PeerID uint              `json:"peerId"`
	Status models.CallStatus `json:"status"`
}

type sendFriendRequestIn struct {
	TargetUserID uint `json:"targetUserId"`
}

type friendRequestActionIn struct {
	SenderID uint `json:"senderId"`
}

type typingIn struct {
	ReceiverID uint `json:"receiverId"`
}

func decode[T any](raw json.RawMessage) (T, bool) {
	var payload T
	if len(raw) == 0 {
		return payload, false
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, false
	}
	return payload, true
}
