package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"k12_tutor_backend/internal/repository"
	"k12_tutor_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ExerciseRecommender 练习推荐所需的补全端点能力
type ExerciseRecommender interface {
	RecommendExercises(weakPoints []string, subject string) []Exercise
}

type StatisticsService struct {
	QuestionRepo *repository.QuestionRepository
	EssayRepo    *repository.EssayRepository
	WrongRepo    *repository.WrongQuestionRepository
	LLM          ExerciseRecommender
	Redis        *redis.Client
}

func NewStatisticsService(
	questionRepo *repository.QuestionRepository,
	essayRepo *repository.EssayRepository,
	wrongRepo *repository.WrongQuestionRepository,
	llm ExerciseRecommender,
	rdb *redis.Client,
) *StatisticsService {
	return &StatisticsService{
		QuestionRepo: questionRepo,
		EssayRepo:    essayRepo,
		WrongRepo:    wrongRepo,
		LLM:          llm,
		Redis:        rdb,
	}
}

const statisticsCacheTTL = 60 * time.Second

type WeakPoint struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Statistics struct {
	TotalQuestions  int64       `json:"total_questions"`
	WrongCount      int64       `json:"wrong_count"`
	MasteredCount   int64       `json:"mastered_count"`
	EssayCount      int64       `json:"essay_count"`
	AvgEssayScore   float64     `json:"avg_essay_score"`
	WeakPoints      []WeakPoint `json:"weak_points"`
	RecentQuestions int64       `json:"recent_questions"`
	AccuracyRate    float64     `json:"accuracy_rate"`
}

// GetStatistics 汇总学习统计。正确率为 (1 - 错题/max(总题数,1)) * 100，
// 分母至少为 1，零提问用户不会除零。结果短暂缓存。
func (s *StatisticsService) GetStatistics(ctx context.Context, userID uint) (*Statistics, error) {
	cacheKey := fmt.Sprintf("stats:user:%d", userID)

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var stats Statistics
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	total, err := s.QuestionRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	wrongCount, err := s.WrongRepo.CountByUser(userID, false)
	if err != nil {
		return nil, err
	}
	masteredCount, err := s.WrongRepo.CountByUser(userID, true)
	if err != nil {
		return nil, err
	}
	essayCount, err := s.EssayRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	avgScore, err := s.EssayRepo.AverageScoreByUser(userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.QuestionRepo.CountByUserSince(userID, time.Now().AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	weakPoints, err := s.topWeakPoints(userID, 5)
	if err != nil {
		return nil, err
	}

	denominator := total
	if denominator < 1 {
		denominator = 1
	}

	stats := &Statistics{
		TotalQuestions:  total,
		WrongCount:      wrongCount,
		MasteredCount:   masteredCount,
		EssayCount:      essayCount,
		AvgEssayScore:   round1(avgScore),
		WeakPoints:      weakPoints,
		RecentQuestions: recent,
		AccuracyRate:    round1((1 - float64(wrongCount)/float64(denominator)) * 100),
	}

	if s.Redis != nil {
		if data, err := json.Marshal(stats); err == nil {
			if err := s.Redis.Set(ctx, cacheKey, data, statisticsCacheTTL).Err(); err != nil {
				logger.Log.Warn("statistics cache write failed", zap.Error(err))
			}
		}
	}

	return stats, nil
}

// Recommend 取至多 3 个薄弱知识点生成练习题；没有错题时用占位知识点
func (s *StatisticsService) Recommend(userID uint) ([]Exercise, error) {
	rows, err := s.WrongRepo.ListWeakPointRows(userID)
	if err != nil {
		return nil, err
	}

	subject := "数学"
	seen := make(map[string]bool)
	var points []string
	for _, row := range rows {
		if row.Subject != "" {
			subject = row.Subject
		}
		for _, kp := range strings.Split(row.KnowledgePoint, ",") {
			kp = strings.TrimSpace(kp)
			if kp == "" || seen[kp] {
				continue
			}
			seen[kp] = true
			points = append(points, kp)
		}
	}

	if len(points) == 0 {
		points = []string{"基础运算"}
	}
	if len(points) > 3 {
		points = points[:3]
	}

	return s.LLM.RecommendExercises(points, subject), nil
}

// topWeakPoints 统计未掌握错题的知识点频次，取前 n 个
func (s *StatisticsService) topWeakPoints(userID uint, n int) ([]WeakPoint, error) {
	rows, err := s.WrongRepo.ListWeakPointRows(userID)
	if err != nil {
		return nil, err
	}

	tally := make(map[string]int)
	for _, row := range rows {
		for _, kp := range strings.Split(row.KnowledgePoint, ",") {
			kp = strings.TrimSpace(kp)
			if kp != "" {
				tally[kp]++
			}
		}
	}

	points := make([]WeakPoint, 0, len(tally))
	for name, count := range tally {
		points = append(points, WeakPoint{Name: name, Count: count})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Count != points[j].Count {
			return points[i].Count > points[j].Count
		}
		return points[i].Name < points[j].Name
	})

	if len(points) > n {
		points = points[:n]
	}
	return points, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
