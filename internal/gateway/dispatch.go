package gateway

import (
	"encoding/json"

	"beamchat/backend/internal/apperr"
	"beamchat/backend/internal/hub"
)

// Dispatch routes one inbound event to its handler. This switch is the single
// dispatch point for the closed inbound event set; failures are reported as
// an operation-error event to the initiating endpoint only.
func (g *Gateway) Dispatch(sess *Session, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		g.fail(sess, apperr.Validation("malformed event envelope"))
		return
	}

	var err error
	switch env.Type {
	case inPrivateMessage:
		err = g.onPrivateMessage(sess, env.Payload)
	case inMessageSeen, inMessageRead:
		err = g.onMessageSeen(sess, env.Payload)
	case inCallUser:
		err = g.onCallUser(sess, env.Payload)
	case inAnswerCall:
		err = g.onAnswerCall(sess, env.Payload)
	case inICECandidate:
		err = g.onICECandidate(sess, env.Payload)
	case inEndCall:
		err = g.onEndCall(sess, env.Payload)
	case inSendFriendRequest:
		err = g.onSendFriendRequest(sess, env.Payload)
	case inAcceptFriendRequest:
		err = g.onAcceptFriendRequest(sess, env.Payload)
	case inRejectFriendRequest:
		err = g.onRejectFriendRequest(sess, env.Payload)
	case inTyping:
		err = g.onTyping(sess, env.Payload, hub.EventTyping)
	case inStopTyping:
		err = g.onTyping(sess, env.Payload, hub.EventStopTyping)
	default:
		err = apperr.Validation("unknown event type: " + env.Type)
	}

	if err != nil {
		g.log.Warn("gateway: event failed", "type", env.Type, "user", sess.UserID, "error", err)
		g.fail(sess, err)
	}
}

// fail reports an operation failure to the endpoint that issued it. Other
// endpoints of the same user are unaffected.
func (g *Gateway) fail(sess *Session, err error) {
	g.hub.Send(sess.EndpointID, hub.Event{
		Type: hub.EventOperationError,
		Payload: hub.OperationErrorPayload{
			Message: err.Error(),
			Code:    apperr.KindOf(err).String(),
		},
	})
}

func (g *Gateway) onPrivateMessage(sess *Session, raw json.RawMessage) error {
	p, ok := decode[privateMessageIn](raw)
	if !ok || p.ReceiverID == 0 {
		return apperr.Validation("invalid payload for private-message")
	}
	// Fanout to the receiver happens inside the service, after persistence.
	_, err := g.messages.Send(sess.UserID, p.ReceiverID, p.Content)
	return err
}

func (g *Gateway) onMessageSeen(sess *Session, raw json.RawMessage) error {
	p, ok := decode[messageSeenIn](raw)
	if !ok || p.MessageID == 0 {
		return apperr.Validation("invalid payload for message-seen")
	}
	// A nil result (wrong user or missing message) is a silent no-op.
	_, err := g.messages.MarkSeen(p.MessageID, sess.UserID)
	return err
}

func (g *Gateway) onCallUser(sess *Session, raw json.RawMessage) error {
	p, ok := decode[callUserIn](raw)
	if !ok || p.CalleeID == 0 || len(p.Signal) == 0 {
		return apperr.Validation("invalid payload for call-user")
	}
	call, err := g.calls.Create(sess.UserID, p.CalleeID)
	if err != nil {
		return err
	}
	g.notifier.NotifyUser(p.CalleeID, hub.Event{
		Type: hub.EventCallUser,
		Payload: hub.CallSignalPayload{
			CallID:   call.ID,
			CallerID: sess.UserID,
			CalleeID: p.CalleeID,
			Signal:   p.Signal,
		},
	})
	return nil
}

func (g *Gateway) onAnswerCall(sess *Session, raw json.RawMessage) error {
	p, ok := decode[answerCallIn](raw)
	if !ok || p.CallerID == 0 || len(p.Signal) == 0 {
		return apperr.Validation("invalid payload for answer-call")
	}
	// Pure relay: no persistence, no authorization, silent no-op when the
	// caller has no live endpoints.
	g.notifier.NotifyUser(p.CallerID, hub.Event{
		Type: hub.EventAnswerCall,
		Payload: hub.CallSignalPayload{
			CallID:   p.CallID,
			CallerID: p.CallerID,
			CalleeID: sess.UserID,
			Signal:   p.Signal,
		},
	})
	return nil
}

func (g *Gateway) onICECandidate(sess *Session, raw json.RawMessage) error {
	p, ok := decode[iceCandidateIn](raw)
	if !ok || p.TargetID == 0 || len(p.Candidate) == 0 {
		return apperr.Validation("invalid payload for ice-candidate")
	}
	g.notifier.NotifyUser(p.TargetID, hub.Event{
		Type: hub.EventICECandidate,
		Payload: hub.CallSignalPayload{
			CallerID:  sess.UserID,
			CalleeID:  p.TargetID,
			Candidate: p.Candidate,
		},
	})
	return nil
}

func (g *Gateway) onEndCall(sess *Session, raw json.RawMessage) error {
	p, ok := decode[endCallIn](raw)
	if !ok || p.CallID == 0 || p.PeerID == 0 {
		return apperr.Validation("invalid payload for end-call")
	}
	call, err := g.calls.UpdateStatus(p.CallID, p.Status)
	if err != nil {
		return err
	}
	g.notifier.NotifyUser(p.PeerID, hub.Event{
		Type:    hub.EventEndCall,
		Payload: hub.EndCallPayload{CallID: call.ID, Status: call.Status},
	})
	return nil
}

func (g *Gateway) onSendFriendRequest(sess *Session, raw json.RawMessage) error {
	p, ok := decode[sendFriendRequestIn](raw)
	if !ok || p.TargetUserID == 0 {
		return apperr.Validation("invalid payload for send_friend_request")
	}
	_, err := g.contacts.SendRequest(sess.UserID, p.TargetUserID)
	return err
}

func (g *Gateway) onAcceptFriendRequest(sess *Session, raw json.RawMessage) error {
	p, ok := decode[friendRequestActionIn](raw)
	if !ok || p.SenderID == 0 {
		return apperr.Validation("invalid payload for accept_friend_request")
	}
	return g.contacts.AcceptRequest(sess.UserID, p.SenderID)
}

func (g *Gateway) onRejectFriendRequest(sess *Session, raw json.RawMessage) error {
	p, ok := decode[friendRequestActionIn](raw)
	if !ok || p.SenderID == 0 {
		return apperr.Validation("invalid payload for reject_friend_request")
	}
	return g.contacts.RejectRequest(sess.UserID, p.SenderID)
}

// onTyping relays typing indicators. Like messages, they are contact-gated.
func (g *Gateway) onTyping(sess *Session, raw json.RawMessage, eventType string) error {
	p, ok := decode[typingIn](raw)
	if !ok || p.ReceiverID == 0 {
		return apperr.Validation("invalid payload for typing")
	}
	allowed, err := g.contacts.AreContacts(sess.UserID, p.ReceiverID)
	if err != nil {
		return err
	}
	if !allowed {
		return apperr.PermissionDenied("you are not allowed to send typing indicators to this user")
	}

	payload := hub.TypingPayload{SenderID: sess.UserID}
	if eventType == hub.EventTyping {
		payload.SenderName = sess.Username
	}
	g.notifier.NotifyUser(p.ReceiverID, hub.Event{Type: eventType, Payload: payload})
	return nil
}
