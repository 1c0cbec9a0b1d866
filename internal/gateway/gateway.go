// Package gateway owns the connection lifecycle: it turns authenticated
// websocket connections into session endpoints, keeps the presence registry
// in step with connects and disconnects, and dispatches inbound realtime
// events to the services.
package gateway

import (
	"log/slog"
	"net/http"
	"sync"

	"beamchat/backend/internal/hub"
	"beamchat/backend/internal/presence"
	"beamchat/backend/internal/service"
	"beamchat/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Session identifies one live endpoint of an authenticated user.
type Session struct {
	UserID     uint
	Username   string
	EndpointID string
}

// Gateway glues connections to the presence registry and the fanout hub.
type Gateway struct {
	registry *presence.Registry
	hub      *hub.Hub
	notifier service.UserNotifier
	users    *service.Users
	contacts *service.Contacts
	messages *service.Messages
	calls    *service.Calls
	log      *slog.Logger
	upgrader websocket.Upgrader

	// lifecycle holds one mutex per user. The registry alone decides the
	// online transitions, but the stored Online flag and the presence
	// broadcasts must follow in the same order the transitions happened, so
	// the whole connect/disconnect path runs under the user's mutex.
	lifecycle sync.Map
}

// New creates a gateway over the given collaborators.
func New(
	registry *presence.Registry,
	h *hub.Hub,
	notifier service.UserNotifier,
	users *service.Users,
	contacts *service.Contacts,
	messages *service.Messages,
	calls *service.Calls,
	log *slog.Logger,
) *Gateway {
	return &Gateway{
		registry: registry,
		hub:      h,
		notifier: notifier,
		users:    users,
		contacts: contacts,
		messages: messages,
		calls:    calls,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// HandleWS godoc
// @Summary      Attach a realtime session endpoint
// @Description  Upgrades the connection to a websocket after validating the token query parameter.
// @Tags         realtime
// @Param        token query string true "JWT"
// @Success      101
// @Failure      401  {object}  map[string]string
// @Router       /ws [get]
func (g *Gateway) HandleWS(c *gin.Context) {
	userID, err := jwt.ParseUserID(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}
	user, err := g.users.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
		return
	}

	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		g.log.Error("gateway: websocket upgrade failed", "user", userID, "error", err)
		return
	}

	sess := &Session{
		UserID:     user.ID,
		Username:   user.Username,
		EndpointID: uuid.NewString(),
	}
	client := make(hub.Client, clientBuffer)

	g.Connect(sess, client)
	go g.writePump(conn, client)
	g.readLoop(conn, sess)
}

func (g *Gateway) userLock(userID uint) *sync.Mutex {
	mu, _ := g.lifecycle.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Connect attaches the endpoint's client to the hub and registers it in the
// presence registry. Only the registration that takes the user from zero
// endpoints to one broadcasts user-online; further devices attach silently.
func (g *Gateway) Connect(sess *Session, client hub.Client) {
	mu := g.userLock(sess.UserID)
	mu.Lock()
	defer mu.Unlock()

	g.hub.Attach(sess.EndpointID, client)

	if first := g.registry.Register(sess.UserID, sess.EndpointID); first {
		if err := g.users.SetOnline(sess.UserID, true); err != nil {
			g.log.Error("gateway: set online", "user", sess.UserID, "error", err)
		}
		g.notifier.Broadcast(hub.Event{
			Type:    hub.EventUserOnline,
			Payload: hub.PresencePayload{UserID: sess.UserID},
		})
	}
	g.log.Info("endpoint connected", "user", sess.UserID, "endpoint", sess.EndpointID)
}

// Disconnect removes the endpoint. Only losing the last endpoint flips the
// user offline and broadcasts user-offline.
func (g *Gateway) Disconnect(sess *Session) {
	mu := g.userLock(sess.UserID)
	mu.Lock()
	defer mu.Unlock()

	remaining := g.registry.Unregister(sess.UserID, sess.EndpointID)
	g.hub.Detach(sess.EndpointID)

	if remaining == 0 {
		if err := g.users.SetOnline(sess.UserID, false); err != nil {
			g.log.Error("gateway: set offline", "user", sess.UserID, "error", err)
		}
		g.notifier.Broadcast(hub.Event{
			Type:    hub.EventUserOffline,
			Payload: hub.PresencePayload{UserID: sess.UserID},
		})
	}
	g.log.Info("endpoint disconnected", "user", sess.UserID, "endpoint", sess.EndpointID, "remaining", remaining)
}
