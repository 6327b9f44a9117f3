package service

import (
	"testing"

	"k12_tutor_backend/internal/model"
	"k12_tutor_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeReviewer struct {
	result map[string]interface{}
	err    error
}

func (f *fakeReviewer) ReviewEssay(title, content, essayType string) (map[string]interface{}, error) {
	return f.result, f.err
}

func newEssayService(t *testing.T, llm EssayReviewer) (*EssayService, *gorm.DB) {
	db := newTestDB(t)
	return NewEssayService(repository.NewEssayRepository(db), llm), db
}

func TestReviewPersistsEssay(t *testing.T) {
	reviewer := &fakeReviewer{result: map[string]interface{}{
		"overall_score":    float64(85),
		"overall_feedback": "写得不错",
		"structure": map[string]interface{}{
			"score":    float64(80),
			"feedback": "结构清晰",
		},
		"suggestions": []interface{}{"注意标点"},
	}}
	svc, db := newEssayService(t, reviewer)

	result, err := svc.Review(1, "我的暑假", "正文内容", "记叙文")
	require.NoError(t, err)
	assert.Equal(t, "写得不错", result["overall_feedback"])

	var essay model.Essay
	require.NoError(t, db.Where("user_id = ?", 1).First(&essay).Error)
	assert.Equal(t, "我的暑假", essay.Title)
	assert.Equal(t, "记叙文", essay.EssayType)
	assert.Equal(t, float64(85), essay.OverallScore)
	assert.JSONEq(t, `{"score":80,"feedback":"结构清晰"}`, essay.StructureFeedback)
	assert.JSONEq(t, `["注意标点"]`, essay.Suggestions)
	// 缺失的维度存空串
	assert.Empty(t, essay.GrammarFeedback)
	assert.Empty(t, essay.TopicAnalysis)
}

func TestReviewDegradedResultStillPersisted(t *testing.T) {
	// 模型输出不合规时上游降级为总评 + 0 分，这里照常落库
	reviewer := &fakeReviewer{result: map[string]interface{}{
		"overall_feedback": "整体不错",
		"overall_score":    0,
	}}
	svc, db := newEssayService(t, reviewer)

	result, err := svc.Review(1, "标题", "内容", "议论文")
	require.NoError(t, err)
	assert.Equal(t, "整体不错", result["overall_feedback"])

	var essay model.Essay
	require.NoError(t, db.Where("user_id = ?", 1).First(&essay).Error)
	assert.Zero(t, essay.OverallScore)
}

func TestReviewPropagatesTransportFailure(t *testing.T) {
	reviewer := &fakeReviewer{err: assert.AnError}
	svc, db := newEssayService(t, reviewer)

	_, err := svc.Review(1, "标题", "内容", "记叙文")
	assert.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&model.Essay{}).Count(&count).Error)
	assert.Zero(t, count)
}
