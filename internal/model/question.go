package model

import (
	"time"
)

// Question 用户提交的题目；KnowledgePoint 为逗号分隔的知识点标签
type Question struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint      `gorm:"index;not null" json:"userId"`
	Content        string    `gorm:"type:text" json:"content"`
	ImageURL       string    `gorm:"size:500" json:"imageUrl"`
	Subject        string    `gorm:"size:50" json:"subject"`
	KnowledgePoint string    `gorm:"size:100" json:"knowledgePoint"`
	CreatedAt      time.Time `gorm:"index" json:"createdAt"`

	Answer *Answer `gorm:"foreignKey:QuestionID" json:"answer,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// Answer 与题目一对一；Steps 为 JSON 序列化的分步解析，保持模型给出的顺序
type Answer struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	QuestionID uint      `gorm:"index;not null" json:"questionId"`
	Content    string    `gorm:"type:text" json:"content"`
	Steps      string    `gorm:"type:text" json:"steps"`
	IsCorrect  *bool     `json:"isCorrect"` // 用户标记是否理解，未标记为 nil
	CreatedAt  time.Time `json:"createdAt"`
}

func (Answer) TableName() string {
	return "answers"
}
