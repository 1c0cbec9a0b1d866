package handler

import (
	"net/http"
	"time"

	"beamchat/backend/internal/models"
	"beamchat/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// ContactResponse defines the public shape of a user in chat responses.
type ContactResponse struct {
	ID       uint   `json:"id" example:"1"`
	Username string `json:"username" example:"testuser"`
	Online   bool   `json:"online"`
}

// MessageResponse defines the shape of a message in responses.
type MessageResponse struct {
	ID         uint      `json:"id" example:"1"`
	SenderID   uint      `json:"sender_id"`
	ReceiverID uint      `json:"receiver_id"`
	Content    string    `json:"content"`
	Seen       bool      `json:"seen"`
	CreatedAt  time.Time `json:"created_at"`
}

// ChatSummaryResponse pairs a contact with the latest message exchanged.
type ChatSummaryResponse struct {
	User          ContactResponse  `json:"user"`
	LatestMessage *MessageResponse `json:"latest_message,omitempty"`
}

func newMessageResponse(m models.Message) MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		Seen:       m.Seen,
		CreatedAt:  m.CreatedAt,
	}
}

// ChatHandler exposes the chat queries consumed by the request layer.
type ChatHandler struct {
	messages *service.Messages
	contacts *service.Contacts
}

// NewChatHandler creates the chat handler.
func NewChatHandler(messages *service.Messages, contacts *service.Contacts) *ChatHandler {
	return &ChatHandler{messages: messages, contacts: contacts}
}

// GetChats godoc
// @Summary      List chats
// @Description  Returns one entry per contact with the latest message exchanged, newest first.
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ChatSummaryResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /me/chats [get]
func (h *ChatHandler) GetChats(c *gin.Context) {
	summaries, err := h.contacts.Summaries(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := lo.Map(summaries, func(s service.ContactSummary, _ int) ChatSummaryResponse {
		out := ChatSummaryResponse{
			User: ContactResponse{ID: s.User.ID, Username: s.User.Username, Online: s.User.Online},
		}
		if s.LatestMessage != nil {
			m := newMessageResponse(*s.LatestMessage)
			out.LatestMessage = &m
		}
		return out
	})

	c.JSON(http.StatusOK, response)
}

// GetMessagesWith godoc
// @Summary      Get messages with a contact
// @Description  Returns one page of the conversation with the given user in ascending chronological order.
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true   "Contact User ID"
// @Param        page  query     int  false  "Page number" default(1)
// @Param        limit query     int  false  "Messages per page" default(20)
// @Success      200   {object}  PaginatedResponse[MessageResponse]
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse "Not a contact"
// @Router       /users/{id}/messages [get]
func (h *ChatHandler) GetMessagesWith(c *gin.Context) {
	otherID, ok := paramID(c, "id")
	if !ok {
		return
	}
	limit, page := pageParams(c)
	if limit == 0 {
		limit = service.DefaultPageSize
	}
	if page == 0 {
		page = 1
	}

	messages, total, err := h.messages.Between(currentUserID(c), otherID, limit, page)
	if err != nil {
		respondError(c, err)
		return
	}

	data := lo.Map(messages, func(m models.Message, _ int) MessageResponse {
		return newMessageResponse(m)
	})
	c.JSON(http.StatusOK, NewPaginatedResponse(data, total, page, limit))
}
