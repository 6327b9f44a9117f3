package service

import (
	"encoding/json"
	"time"

	"k12_tutor_backend/internal/model"
	"k12_tutor_backend/internal/repository"
)

type WrongBookService struct {
	WrongRepo    *repository.WrongQuestionRepository
	QuestionRepo *repository.QuestionRepository
}

func NewWrongBookService(wrongRepo *repository.WrongQuestionRepository, questionRepo *repository.QuestionRepository) *WrongBookService {
	return &WrongBookService{
		WrongRepo:    wrongRepo,
		QuestionRepo: questionRepo,
	}
}

// Add 收藏错题。同一 (用户, 题目) 只保留一条，重复添加返回 created=false。
func (s *WrongBookService) Add(userID, questionID uint, errorReason string) (bool, error) {
	wrong := &model.WrongQuestion{
		UserID:      userID,
		QuestionID:  questionID,
		ErrorReason: errorReason,
	}
	return s.WrongRepo.Add(wrong)
}

// WrongBookItem 错题本条目，附带题目与答案
type WrongBookItem struct {
	ID            uint      `json:"id"`
	QuestionID    uint      `json:"question_id"`
	Content       string    `json:"content"`
	ImageURL      string    `json:"image_url"`
	Subject       string    `json:"subject"`
	Answer        string    `json:"answer"`
	Steps         []string  `json:"steps"`
	ErrorReason   string    `json:"error_reason"`
	PracticeCount int       `json:"practice_count"`
	CreatedAt     time.Time `json:"created_at"`
}

func (s *WrongBookService) List(userID uint, includeMastered bool) ([]WrongBookItem, error) {
	wrongs, err := s.WrongRepo.ListByUser(userID, includeMastered)
	if err != nil {
		return nil, err
	}

	items := make([]WrongBookItem, 0, len(wrongs))
	for _, w := range wrongs {
		q, err := s.QuestionRepo.FindByID(w.QuestionID)
		if err != nil {
			continue
		}

		item := WrongBookItem{
			ID:            w.ID,
			QuestionID:    w.QuestionID,
			Content:       q.Content,
			ImageURL:      q.ImageURL,
			Subject:       q.Subject,
			ErrorReason:   w.ErrorReason,
			PracticeCount: w.PracticeCount,
			CreatedAt:     w.CreatedAt,
			Steps:         []string{},
		}
		if a, err := s.QuestionRepo.FindAnswerByQuestionID(w.QuestionID); err == nil {
			item.Answer = a.Content
			item.Steps = parseSteps(a.Steps)
		}
		items = append(items, item)
	}

	return items, nil
}

// MasteredItem 已掌握题目条目
type MasteredItem struct {
	ID             uint      `json:"id"`
	QuestionID     uint      `json:"question_id"`
	Content        string    `json:"content"`
	ImageURL       string    `json:"image_url"`
	Subject        string    `json:"subject"`
	KnowledgePoint string    `json:"knowledge_point"`
	Answer         string    `json:"answer"`
	Steps          []string  `json:"steps"`
	PracticeCount  int       `json:"practice_count"`
	CreatedAt      time.Time `json:"created_at"`
}

func (s *WrongBookService) ListMastered(userID uint) ([]MasteredItem, error) {
	wrongs, err := s.WrongRepo.ListMastered(userID)
	if err != nil {
		return nil, err
	}

	items := make([]MasteredItem, 0, len(wrongs))
	for _, w := range wrongs {
		q, err := s.QuestionRepo.FindByID(w.QuestionID)
		if err != nil {
			continue
		}

		item := MasteredItem{
			ID:             w.ID,
			QuestionID:     q.ID,
			Content:        q.Content,
			ImageURL:       q.ImageURL,
			Subject:        q.Subject,
			KnowledgePoint: q.KnowledgePoint,
			PracticeCount:  w.PracticeCount,
			CreatedAt:      w.CreatedAt,
			Steps:          []string{},
		}
		if a, err := s.QuestionRepo.FindAnswerByQuestionID(w.QuestionID); err == nil {
			item.Answer = a.Content
			item.Steps = parseSteps(a.Steps)
		}
		items = append(items, item)
	}

	return items, nil
}

// Practice 练习次数加一；条目不存在时静默忽略
func (s *WrongBookService) Practice(id, userID uint) error {
	return s.WrongRepo.IncrementPractice(id, userID)
}

// Master 标记已掌握；条目不存在时静默忽略
func (s *WrongBookService) Master(id, userID uint) error {
	return s.WrongRepo.MarkMastered(id, userID)
}

func parseSteps(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var steps []string
	if err := json.Unmarshal([]byte(raw), &steps); err != nil {
		return []string{}
	}
	return steps
}
