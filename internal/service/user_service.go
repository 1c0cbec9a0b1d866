package service

import (
	"errors"
	"log/slog"

	"beamchat/backend/internal/apperr"
	"beamchat/backend/internal/models"

	"gorm.io/gorm"
)

// Users provides lookups and the persistent online flag for user records.
type Users struct {
	db  *gorm.DB
	log *slog.Logger
}

// NewUsers creates the user service.
func NewUsers(db *gorm.DB, log *slog.Logger) *Users {
	return &Users{db: db, log: log}
}

// GetByID returns the user with the given ID.
func (s *Users) GetByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Infrastructure("failed to load user", err)
	}
	return &user, nil
}

// GetByUsername returns the user with the given username.
func (s *Users) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Infrastructure("failed to load user", err)
	}
	return &user, nil
}

// Create persists a new user. The username must be unique.
func (s *Users) Create(username, passwordHash string) (*models.User, error) {
	var existing models.User
	err := s.db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil, apperr.Conflict("username already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Infrastructure("failed to check username", err)
	}

	user := models.User{Username: username, PasswordHash: passwordHash}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, apperr.Infrastructure("failed to create user", err)
	}
	return &user, nil
}

// SetOnline mirrors the presence-derived online flag onto the user record so
// query responses can report it. The presence registry remains the source of
// truth while the process is running.
func (s *Users) SetOnline(userID uint, online bool) error {
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).Update("online", online).Error; err != nil {
		return apperr.Infrastructure("failed to update online flag", err)
	}
	return nil
}
