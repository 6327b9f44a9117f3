package model

import (
	"time"
)

// WrongQuestion 错题本条目。(user_id, question_id) 唯一索引保证同一道题
// 只能收藏一次，重复添加由插入冲突处理而非先查后插。
type WrongQuestion struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint      `gorm:"uniqueIndex:idx_user_question;not null" json:"userId"`
	QuestionID    uint      `gorm:"uniqueIndex:idx_user_question;not null" json:"questionId"`
	ErrorReason   string    `gorm:"type:text" json:"errorReason"`
	PracticeCount int       `gorm:"default:0" json:"practiceCount"`
	IsMastered    bool      `gorm:"default:false" json:"isMastered"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (WrongQuestion) TableName() string {
	return "wrong_questions"
}
