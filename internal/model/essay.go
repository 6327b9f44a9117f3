package model

import (
	"time"
)

// Essay 作文及批改结果；各维度反馈按模型返回的 JSON 原样落库。
// OverallScore 不做范围约束，按模型返回值存储。
type Essay struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint   `gorm:"index;not null" json:"userId"`
	Title     string `gorm:"size:200" json:"title"`
	Content   string `gorm:"type:text" json:"content"`
	EssayType string `gorm:"size:50" json:"essayType"`

	OverallScore       float64 `json:"overallScore"`
	StructureFeedback  string  `gorm:"type:text" json:"structureFeedback"`
	GrammarFeedback    string  `gorm:"type:text" json:"grammarFeedback"`
	VocabularyFeedback string  `gorm:"type:text" json:"vocabularyFeedback"`
	Suggestions        string  `gorm:"type:text" json:"suggestions"`
	TopicAnalysis      string  `gorm:"type:text" json:"topicAnalysis"` // 审题立意解读 (JSON格式)

	CreatedAt time.Time `json:"createdAt"`
}

func (Essay) TableName() string {
	return "essays"
}
