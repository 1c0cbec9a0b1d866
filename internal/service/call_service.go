package service

import (
	"errors"
	"log/slog"
	"time"

	"beamchat/backend/internal/apperr"
	"beamchat/backend/internal/models"

	"gorm.io/gorm"
)

// Calls owns the call lifecycle records. Signaling payloads themselves are
// relayed by the gateway without touching this service; only call setup and
// status transitions are persisted.
type Calls struct {
	db  *gorm.DB
	log *slog.Logger
}

// NewCalls creates the call service.
func NewCalls(db *gorm.DB, log *slog.Logger) *Calls {
	return &Calls{db: db, log: log}
}

// Create persists a new ongoing call. Call setup requires the same contact
// authorization as messaging: the callee must be in the caller's contact set.
func (s *Calls) Create(callerID, calleeID uint) (*models.Call, error) {
	allowed, err := areContacts(s.db, callerID, calleeID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.PermissionDenied("you are not allowed to call this user")
	}

	call := models.Call{
		CallerID:  callerID,
		CalleeID:  calleeID,
		Status:    models.CallOngoing,
		StartedAt: time.Now(),
	}
	if err := s.db.Create(&call).Error; err != nil {
		return nil, apperr.Infrastructure("failed to create call", err)
	}
	s.log.Info("call created", "call", call.ID, "caller", callerID, "callee", calleeID)
	return &call, nil
}

// UpdateStatus transitions a call to the given status, stamping EndedAt when
// the call leaves the ongoing state. A call that already reached a terminal
// state fails Conflict; terminal transitions happen exactly once.
func (s *Calls) UpdateStatus(callID uint, status models.CallStatus) (*models.Call, error) {
	if !status.Valid() {
		return nil, apperr.Validation("unknown call status")
	}

	var call models.Call
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&call, callID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("call not found")
			}
			return apperr.Infrastructure("failed to load call", err)
		}
		if call.Status != models.CallOngoing {
			return apperr.Conflict("call has already ended")
		}

		call.Status = status
		if status != models.CallOngoing {
			now := time.Now()
			call.EndedAt = &now
		}
		if err := tx.Save(&call).Error; err != nil {
			return apperr.Infrastructure("failed to update call", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &call, nil
}

// History returns one page of the user's calls, newest first, plus the total
// count for pagination.
func (s *Calls) History(userID uint, limit, page int) ([]models.Call, int64, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	scope := s.db.Model(&models.Call{}).
		Where("caller_id = ? OR callee_id = ?", userID, userID).
		Session(&gorm.Session{})

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, apperr.Infrastructure("failed to count calls", err)
	}

	var calls []models.Call
	if err := scope.
		Order("started_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&calls).Error; err != nil {
		return nil, 0, apperr.Infrastructure("failed to load calls", err)
	}
	return calls, total, nil
}
