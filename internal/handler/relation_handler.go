package handler

import (
	"net/http"
	"time"

	"beamchat/backend/internal/models"
	"beamchat/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// FriendRequestResponse defines the shape of a friend request in responses.
type FriendRequestResponse struct {
	ID        uint                       `json:"id" example:"1"`
	User      ContactResponse            `json:"user"`
	Status    models.FriendRequestStatus `json:"status" example:"pending"`
	CreatedAt time.Time                  `json:"created_at"`
}

// PendingRequestsResponse lists the viewer's pending requests in both directions.
type PendingRequestsResponse struct {
	Incoming []FriendRequestResponse `json:"incoming"`
	Outgoing []FriendRequestResponse `json:"outgoing"`
}

// RelationHandler exposes the friend-request workflow over REST.
type RelationHandler struct {
	contacts *service.Contacts
}

// NewRelationHandler creates the relation handler.
func NewRelationHandler(contacts *service.Contacts) *RelationHandler {
	return &RelationHandler{contacts: contacts}
}

// SendRequest godoc
// @Summary      Send friend request
// @Description  Sends a friend request to another user.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      201  {object}  map[string]string "{"message": "Request sent successfully"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Target user not found"
// @Failure      409  {object}  ErrorResponse "Duplicate or conflicting request"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id}/request [post]
func (h *RelationHandler) SendRequest(c *gin.Context) {
	targetID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := h.contacts.SendRequest(currentUserID(c), targetID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Request sent successfully"})
}

// AcceptRequest godoc
// @Summary      Accept friend request
// @Description  Accepts a pending friend request from another user.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Requesting User ID"
// @Success      200  {object}  map[string]string "{"message": "Request accepted"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Request not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id}/accept [post]
func (h *RelationHandler) AcceptRequest(c *gin.Context) {
	requesterID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.contacts.AcceptRequest(currentUserID(c), requesterID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request accepted"})
}

// RejectRequest godoc
// @Summary      Reject friend request
// @Description  Rejects a pending friend request from another user.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Requesting User ID"
// @Success      200  {object}  map[string]string "{"message": "Request rejected"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Request not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id}/reject [post]
func (h *RelationHandler) RejectRequest(c *gin.Context) {
	requesterID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.contacts.RejectRequest(currentUserID(c), requesterID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request rejected"})
}

// RemoveContact godoc
// @Summary      Remove a contact
// @Description  Removes the contact relation with another user in both directions.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Contact User ID"
// @Success      200  {object}  map[string]string "{"message": "Contact removed"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Not a contact"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id}/contact [delete]
func (h *RelationHandler) RemoveContact(c *gin.Context) {
	contactID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.contacts.Remove(currentUserID(c), contactID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact removed"})
}

// GetRequests godoc
// @Summary      List pending friend requests
// @Description  Returns the viewer's pending friend requests, incoming and outgoing.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PendingRequestsResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /me/requests [get]
func (h *RelationHandler) GetRequests(c *gin.Context) {
	incoming, outgoing, err := h.contacts.PendingRequests(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, PendingRequestsResponse{
		Incoming: lo.Map(incoming, func(r models.FriendRequest, _ int) FriendRequestResponse {
			return FriendRequestResponse{
				ID:        r.ID,
				User:      ContactResponse{ID: r.FromUser.ID, Username: r.FromUser.Username, Online: r.FromUser.Online},
				Status:    r.Status,
				CreatedAt: r.CreatedAt,
			}
		}),
		Outgoing: lo.Map(outgoing, func(r models.FriendRequest, _ int) FriendRequestResponse {
			return FriendRequestResponse{
				ID:        r.ID,
				User:      ContactResponse{ID: r.ToUser.ID, Username: r.ToUser.Username, Online: r.ToUser.Online},
				Status:    r.Status,
				CreatedAt: r.CreatedAt,
			}
		}),
	})
}
