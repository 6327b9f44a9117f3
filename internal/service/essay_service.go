package service

import (
	"encoding/json"

	"k12_tutor_backend/internal/model"
	"k12_tutor_backend/internal/repository"
)

// EssayReviewer 作文批改所需的补全端点能力
type EssayReviewer interface {
	ReviewEssay(title, content, essayType string) (map[string]interface{}, error)
}

type EssayService struct {
	EssayRepo *repository.EssayRepository
	LLM       EssayReviewer
}

func NewEssayService(essayRepo *repository.EssayRepository, llm EssayReviewer) *EssayService {
	return &EssayService{
		EssayRepo: essayRepo,
		LLM:       llm,
	}
}

// Review 批改作文并落库，返回模型给出的完整评价对象。
// 各维度反馈按原始 JSON 存储，overall_score 不做范围校验。
func (s *EssayService) Review(userID uint, title, content, essayType string) (map[string]interface{}, error) {
	result, err := s.LLM.ReviewEssay(title, content, essayType)
	if err != nil {
		return nil, err
	}

	essay := &model.Essay{
		UserID:             userID,
		Title:              title,
		Content:            content,
		EssayType:          essayType,
		OverallScore:       numberField(result, "overall_score"),
		StructureFeedback:  marshalField(result, "structure"),
		GrammarFeedback:    marshalField(result, "grammar"),
		VocabularyFeedback: marshalField(result, "vocabulary"),
		Suggestions:        marshalField(result, "suggestions"),
		TopicAnalysis:      marshalField(result, "topic_analysis"),
	}
	if err := s.EssayRepo.Create(essay); err != nil {
		return nil, err
	}

	return result, nil
}

// numberField 模型输出的分数可能是数字也可能缺失，取不到记 0
func numberField(m map[string]interface{}, key string) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return 0
}

func marshalField(m map[string]interface{}, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
