package store

import (
	"errors"

	"github.com/tasklight-dev/tasklight/internal/models"
	"gorm.io/gorm"
)

type GormUserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) Create(user *models.User) error {
	var existing models.User

	err := s.db.Where("email = ?", user.Email).First(&existing).Error

	if err == nil {
		return ErrDuplicateEmail
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.db.Create(user).Error
}

func (s *GormUserStore) ByEmail(email string) (*models.User, error) {
	var user models.User

	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (s *GormUserStore) ByID(id uint) (*models.User, error) {
	var user models.User

	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (s *GormUserStore) Update(id uint, patch UserPatch) error {
	updates := make(map[string]interface{})

	if patch.Username != nil {
		updates["username"] = *patch.Username
	}

	if patch.Email != nil {
		var existing models.User

		err := s.db.Where("email = ? AND id <> ?", *patch.Email, id).First(&existing).Error

		if err == nil {
			return ErrDuplicateEmail
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		updates["email"] = *patch.Email
	}

	if patch.PasswordHash != nil {
		updates["password_hash"] = *patch.PasswordHash
	}

	if patch.ProfilePic != nil {
		updates["profile_pic"] = *patch.ProfilePic
	}

	if patch.NotifyPush != nil {
		updates["notify_push"] = *patch.NotifyPush
	}

	if patch.NotifyEmail != nil {
		updates["notify_email"] = *patch.NotifyEmail
	}

	if patch.Theme != nil {
		updates["theme"] = *patch.Theme
	}

	if patch.DefaultView != nil {
		updates["default_view"] = *patch.DefaultView
	}

	if patch.Language != nil {
		updates["language"] = *patch.Language
	}

	if len(updates) == 0 {
		return nil
	}

	res := s.db.Model(&models.User{}).Where("id = ?", id).Updates(updates)

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
