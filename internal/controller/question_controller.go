package controller

import (
	"io"
	"net/http"
	"strconv"

	"k12_tutor_backend/internal/service"
	"k12_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// Solve 提交题目
// @Summary 提交题目求解
// @Description 文本或图片提问，调用补全端点解答并保存题目与答案
// @Tags 题目
// @Router /api/question [post]
func (c *QuestionController) Solve(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	content := ctx.PostForm("content")
	subject := ctx.DefaultPostForm("subject", "数学")

	var imageData []byte
	var imageFilename string
	if file, err := ctx.FormFile("image"); err == nil && file != nil {
		src, err := file.Open()
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		defer src.Close()

		imageData, err = io.ReadAll(src)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		imageFilename = file.Filename
	}

	if content == "" && len(imageData) == 0 {
		util.BadRequest(ctx, "题目内容不能为空")
		return
	}

	result, err := c.QuestionService.Solve(ctx.Request.Context(), claims.UserID, content, subject, imageData, imageFilename)
	if err != nil {
		// 补全端点传输层失败：对本次请求是致命的，用户需要重新提交
		util.Error(ctx, http.StatusInternalServerError, err.Error())
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// History 获取学习历史
// @Summary 提问历史
// @Description 按创建时间倒序分页
// @Tags 题目
// @Router /api/history [get]
func (c *QuestionController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	items, total, err := c.QuestionService.History(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
