package repository

import (
	"time"

	"k12_tutor_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) CreateAnswer(answer *model.Answer) error {
	return r.DB.Create(answer).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.First(&question, id).Error
	return &question, err
}

func (r *QuestionRepository) FindAnswerByQuestionID(questionID uint) (*model.Answer, error) {
	var answer model.Answer
	err := r.DB.Where("question_id = ?", questionID).First(&answer).Error
	return &answer, err
}

// ListByUser 按创建时间倒序分页，附带答案
func (r *QuestionRepository) ListByUser(userID uint, offset, limit int) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Preload("Answer").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *QuestionRepository) CountByUserSince(userID uint, since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}
