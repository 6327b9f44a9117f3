package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"k12_tutor_backend/internal/model"
	"k12_tutor_backend/internal/repository"
)

// QuestionSolver 解题所需的补全端点能力，便于测试替换
type QuestionSolver interface {
	SolveQuestion(content, imageBase64 string) (*SolveResult, error)
}

type QuestionService struct {
	QuestionRepo *repository.QuestionRepository
	Storage      StorageProvider
	LLM          QuestionSolver
}

func NewQuestionService(questionRepo *repository.QuestionRepository, storage StorageProvider, llm QuestionSolver) *QuestionService {
	return &QuestionService{
		QuestionRepo: questionRepo,
		Storage:      storage,
		LLM:          llm,
	}
}

// SolveResponse 解题接口的响应体
type SolveResponse struct {
	QuestionID      uint     `json:"question_id"`
	Answer          string   `json:"answer"`
	Steps           []string `json:"steps"`
	KnowledgePoints []string `json:"knowledge_points"`
	Tips            string   `json:"tips"`
}

// Solve 调用补全端点解题并落库。imageData 非空时先按
// 时间戳_文件名 存储图片，再以 data URI 形式传给模型。
// 传输层失败原样上抛，由控制器转 500。
func (s *QuestionService) Solve(ctx context.Context, userID uint, content, subject string, imageData []byte, imageFilename string) (*SolveResponse, error) {
	var imageBase64, imageURL string

	if len(imageData) > 0 && imageFilename != "" {
		imageBase64 = base64.StdEncoding.EncodeToString(imageData)

		filename := time.Now().Format("20060102150405") + "_" + filepath.Base(imageFilename)
		url, err := s.Storage.Upload(ctx, filename, bytes.NewReader(imageData), int64(len(imageData)), "image/jpeg")
		if err != nil {
			return nil, err
		}
		imageURL = url
	}

	result, err := s.LLM.SolveQuestion(content, imageBase64)
	if err != nil {
		return nil, err
	}

	question := &model.Question{
		UserID:         userID,
		Content:        content,
		ImageURL:       imageURL,
		Subject:        subject,
		KnowledgePoint: strings.Join(result.KnowledgePoints, ","),
	}
	if err := s.QuestionRepo.Create(question); err != nil {
		return nil, err
	}

	stepsJSON, err := json.Marshal(result.Steps)
	if err != nil {
		return nil, err
	}
	answer := &model.Answer{
		QuestionID: question.ID,
		Content:    result.Answer,
		Steps:      string(stepsJSON),
	}
	if err := s.QuestionRepo.CreateAnswer(answer); err != nil {
		return nil, err
	}

	return &SolveResponse{
		QuestionID:      question.ID,
		Answer:          result.Answer,
		Steps:           result.Steps,
		KnowledgePoints: result.KnowledgePoints,
		Tips:            result.Tips,
	}, nil
}

// HistoryItem 学习历史条目
type HistoryItem struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url"`
	Subject   string    `json:"subject"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// History 按创建时间倒序分页，offset = (page-1)*limit
func (s *QuestionService) History(userID uint, page, limit int) ([]HistoryItem, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	questions, err := s.QuestionRepo.ListByUser(userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	items := make([]HistoryItem, 0, len(questions))
	for _, q := range questions {
		item := HistoryItem{
			ID:        q.ID,
			Content:   q.Content,
			ImageURL:  q.ImageURL,
			Subject:   q.Subject,
			CreatedAt: q.CreatedAt,
		}
		if q.Answer != nil {
			item.Answer = q.Answer.Content
		}
		items = append(items, item)
	}

	total, err := s.QuestionRepo.CountByUser(userID)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}
