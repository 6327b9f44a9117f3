package repository

import (
	"k12_tutor_backend/internal/model"

	"gorm.io/gorm"
)

type EssayRepository struct {
	DB *gorm.DB
}

func NewEssayRepository(db *gorm.DB) *EssayRepository {
	return &EssayRepository{DB: db}
}

func (r *EssayRepository) Create(essay *model.Essay) error {
	return r.DB.Create(essay).Error
}

func (r *EssayRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Essay{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// AverageScoreByUser 无作文时返回 0
func (r *EssayRepository) AverageScoreByUser(userID uint) (float64, error) {
	var avg *float64
	err := r.DB.Model(&model.Essay{}).
		Where("user_id = ?", userID).
		Select("AVG(overall_score)").
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}
