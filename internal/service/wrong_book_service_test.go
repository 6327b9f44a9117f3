package service

import (
	"testing"

	"k12_tutor_backend/internal/model"
	"k12_tutor_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newWrongBookService(t *testing.T) (*WrongBookService, *gorm.DB) {
	db := newTestDB(t)
	return NewWrongBookService(
		repository.NewWrongQuestionRepository(db),
		repository.NewQuestionRepository(db),
	), db
}

func seedQuestion(t *testing.T, db *gorm.DB, userID uint, content, subject, knowledgePoint string) *model.Question {
	t.Helper()
	q := &model.Question{
		UserID:         userID,
		Content:        content,
		Subject:        subject,
		KnowledgePoint: knowledgePoint,
	}
	require.NoError(t, db.Create(q).Error)
	require.NoError(t, db.Create(&model.Answer{
		QuestionID: q.ID,
		Content:    "答案",
		Steps:      `["步骤1","步骤2"]`,
	}).Error)
	return q
}

func TestWrongBookAddIsIdempotent(t *testing.T) {
	svc, db := newWrongBookService(t)
	q := seedQuestion(t, db, 1, "2x=4", "数学", "一元一次方程")

	created, err := svc.Add(1, q.ID, "移项出错")
	require.NoError(t, err)
	assert.True(t, created)

	// 同一道题重复添加不产生新条目
	created, err = svc.Add(1, q.ID, "又错了")
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	require.NoError(t, db.Model(&model.WrongQuestion{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// 原条目的错误原因不被覆盖
	items, err := svc.List(1, false)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "移项出错", items[0].ErrorReason)
}

func TestWrongBookAddSameQuestionDifferentUsers(t *testing.T) {
	svc, db := newWrongBookService(t)
	q := seedQuestion(t, db, 1, "2x=4", "数学", "一元一次方程")

	created, err := svc.Add(1, q.ID, "")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.Add(2, q.ID, "")
	require.NoError(t, err)
	assert.True(t, created)
}

func TestWrongBookListExpandsQuestion(t *testing.T) {
	svc, db := newWrongBookService(t)
	q := seedQuestion(t, db, 1, "2x=4", "数学", "一元一次方程")

	_, err := svc.Add(1, q.ID, "粗心")
	require.NoError(t, err)

	items, err := svc.List(1, false)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, q.ID, items[0].QuestionID)
	assert.Equal(t, "2x=4", items[0].Content)
	assert.Equal(t, "数学", items[0].Subject)
	assert.Equal(t, "答案", items[0].Answer)
	assert.Equal(t, []string{"步骤1", "步骤2"}, items[0].Steps)
	assert.Equal(t, 0, items[0].PracticeCount)
}

func TestWrongBookMasterMovesItem(t *testing.T) {
	svc, db := newWrongBookService(t)
	q := seedQuestion(t, db, 1, "2x=4", "数学", "一元一次方程")

	_, err := svc.Add(1, q.ID, "")
	require.NoError(t, err)

	items, err := svc.List(1, false)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, svc.Master(items[0].ID, 1))

	// 未掌握列表不再包含，掌握列表包含
	items, err = svc.List(1, false)
	require.NoError(t, err)
	assert.Empty(t, items)

	mastered, err := svc.ListMastered(1)
	require.NoError(t, err)
	require.Len(t, mastered, 1)
	assert.Equal(t, q.ID, mastered[0].QuestionID)
	assert.Equal(t, "一元一次方程", mastered[0].KnowledgePoint)

	// include_mastered 时回到完整列表
	all, err := svc.List(1, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestWrongBookPracticeIncrements(t *testing.T) {
	svc, db := newWrongBookService(t)
	q := seedQuestion(t, db, 1, "2x=4", "数学", "一元一次方程")

	_, err := svc.Add(1, q.ID, "")
	require.NoError(t, err)

	items, err := svc.List(1, false)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, svc.Practice(items[0].ID, 1))
	require.NoError(t, svc.Practice(items[0].ID, 1))

	items, err = svc.List(1, false)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].PracticeCount)
}

func TestWrongBookPracticeOtherUserIgnored(t *testing.T) {
	svc, db := newWrongBookService(t)
	q := seedQuestion(t, db, 1, "2x=4", "数学", "一元一次方程")

	_, err := svc.Add(1, q.ID, "")
	require.NoError(t, err)

	items, err := svc.List(1, false)
	require.NoError(t, err)
	require.Len(t, items, 1)

	// 他人操作不报错也不生效
	require.NoError(t, svc.Practice(items[0].ID, 99))
	require.NoError(t, svc.Master(items[0].ID, 99))

	items, err = svc.List(1, false)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 0, items[0].PracticeCount)
}
