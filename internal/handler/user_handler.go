package handler

import (
	"net/http"

	"beamchat/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ProfileResponse defines the shape of the viewer's own profile.
type ProfileResponse struct {
	ID         uint   `json:"id" example:"1"`
	Username   string `json:"username" example:"testuser"`
	Online     bool   `json:"online"`
	ContactIDs []uint `json:"contact_ids"`
}

// UserHandler exposes user profile queries.
type UserHandler struct {
	users    *service.Users
	contacts *service.Contacts
}

// NewUserHandler creates the user handler.
func NewUserHandler(users *service.Users, contacts *service.Contacts) *UserHandler {
	return &UserHandler{users: users, contacts: contacts}
}

// GetProfile godoc
// @Summary      Get own profile
// @Description  Returns the authenticated user's profile with their contact IDs.
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ProfileResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /me/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.users.GetByID(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	contactIDs, err := h.contacts.ContactIDs(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if contactIDs == nil {
		contactIDs = []uint{}
	}

	c.JSON(http.StatusOK, ProfileResponse{
		ID:         user.ID,
		Username:   user.Username,
		Online:     user.Online,
		ContactIDs: contactIDs,
	})
}
