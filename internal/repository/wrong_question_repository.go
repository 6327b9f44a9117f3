package repository

import (
	"k12_tutor_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WrongQuestionRepository struct {
	DB *gorm.DB
}

func NewWrongQuestionRepository(db *gorm.DB) *WrongQuestionRepository {
	return &WrongQuestionRepository{DB: db}
}

// Add 条件插入：撞上 (user_id, question_id) 唯一索引时不报错，
// 返回是否真正新建。先查后插的竞态窗口由数据库约束关闭。
func (r *WrongQuestionRepository) Add(wrong *model.WrongQuestion) (bool, error) {
	result := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "question_id"}},
		DoNothing: true,
	}).Create(wrong)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *WrongQuestionRepository) ListByUser(userID uint, includeMastered bool) ([]model.WrongQuestion, error) {
	var wrongs []model.WrongQuestion
	query := r.DB.Where("user_id = ?", userID)
	if !includeMastered {
		query = query.Where("is_mastered = ?", false)
	}
	err := query.Order("created_at DESC").Find(&wrongs).Error
	return wrongs, err
}

func (r *WrongQuestionRepository) ListMastered(userID uint) ([]model.WrongQuestion, error) {
	var wrongs []model.WrongQuestion
	err := r.DB.Where("user_id = ? AND is_mastered = ?", userID, true).
		Order("created_at DESC").
		Find(&wrongs).Error
	return wrongs, err
}

func (r *WrongQuestionRepository) IncrementPractice(id, userID uint) error {
	return r.DB.Model(&model.WrongQuestion{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("practice_count", gorm.Expr("practice_count + 1")).
		Error
}

func (r *WrongQuestionRepository) MarkMastered(id, userID uint) error {
	return r.DB.Model(&model.WrongQuestion{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_mastered", true).
		Error
}

func (r *WrongQuestionRepository) CountByUser(userID uint, mastered bool) (int64, error) {
	var count int64
	err := r.DB.Model(&model.WrongQuestion{}).
		Where("user_id = ? AND is_mastered = ?", userID, mastered).
		Count(&count).Error
	return count, err
}

// WeakPointRow 未掌握错题关联到的题目知识点与学科
type WeakPointRow struct {
	KnowledgePoint string
	Subject        string
}

// ListWeakPointRows 取未掌握错题对应题目的知识点字段（逗号分隔，拆分在服务层做）
func (r *WrongQuestionRepository) ListWeakPointRows(userID uint) ([]WeakPointRow, error) {
	var rows []WeakPointRow
	err := r.DB.Model(&model.WrongQuestion{}).
		Select("questions.knowledge_point AS knowledge_point, questions.subject AS subject").
		Joins("JOIN questions ON questions.id = wrong_questions.question_id").
		Where("wrong_questions.user_id = ? AND wrong_questions.is_mastered = ?", userID, false).
		Scan(&rows).Error
	return rows, err
}
