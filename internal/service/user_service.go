package service

import (
	"errors"
	"time"

	"k12_tutor_backend/internal/repository"
	"k12_tutor_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

// Profile 个人资料
type Profile struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Grade     string    `json:"grade"`
	Subjects  string    `json:"subjects"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *UserService) GetProfile(userID uint) (*Profile, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	return &Profile{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Grade:     user.Grade,
		Subjects:  user.Subjects,
		CreatedAt: user.CreatedAt,
	}, nil
}

// UpdateProfile 三个可编辑字段整体覆盖，未传字段写为空串
func (s *UserService) UpdateProfile(userID uint, email, grade, subjects string) error {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}
	return s.UserRepo.UpdateProfile(userID, email, grade, subjects)
}
