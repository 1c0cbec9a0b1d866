package handler

import (
	"net/http"
	"time"

	"beamchat/backend/internal/models"
	"beamchat/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// CallResponse defines the shape of a call record in responses.
type CallResponse struct {
	ID        uint              `json:"id" example:"1"`
	CallerID  uint              `json:"caller_id"`
	CalleeID  uint              `json:"callee_id"`
	Status    models.CallStatus `json:"status" example:"ended"`
	StartedAt time.Time         `json:"started_at"`
	EndedAt   *time.Time        `json:"ended_at,omitempty"`
}

// CallHandler exposes the call history query.
type CallHandler struct {
	calls *service.Calls
}

// NewCallHandler creates the call handler.
func NewCallHandler(calls *service.Calls) *CallHandler {
	return &CallHandler{calls: calls}
}

// GetCallHistory godoc
// @Summary      Get call history
// @Description  Returns one page of the viewer's calls, newest first.
// @Tags         calls
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page number" default(1)
// @Param        limit query     int  false  "Calls per page" default(20)
// @Success      200   {object}  PaginatedResponse[CallResponse]
// @Failure      401   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /me/calls [get]
func (h *CallHandler) GetCallHistory(c *gin.Context) {
	limit, page := pageParams(c)
	if limit == 0 {
		limit = service.DefaultPageSize
	}
	if page == 0 {
		page = 1
	}

	calls, total, err := h.calls.History(currentUserID(c), limit, page)
	if err != nil {
		respondError(c, err)
		return
	}

	data := lo.Map(calls, func(call models.Call, _ int) CallResponse {
		return CallResponse{
			ID:        call.ID,
			CallerID:  call.CallerID,
			CalleeID:  call.CalleeID,
			Status:    call.Status,
			StartedAt: call.StartedAt,
			EndedAt:   call.EndedAt,
		}
	})
	c.JSON(http.StatusOK, NewPaginatedResponse(data, total, page, limit))
}
