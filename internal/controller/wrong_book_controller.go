package controller

import (
	"net/http"

	"k12_tutor_backend/internal/service"
	"k12_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type WrongBookController struct {
	WrongBookService *service.WrongBookService
}

func NewWrongBookController(wrongBookService *service.WrongBookService) *WrongBookController {
	return &WrongBookController{WrongBookService: wrongBookService}
}

type AddWrongRequest struct {
	QuestionID  uint   `json:"question_id" binding:"required"`
	ErrorReason string `json:"error_reason"`
}

// Add 添加到错题本
// @Summary 收藏错题
// @Description 同一道题只保留一条收藏，重复添加直接提示已存在
// @Tags 错题本
// @Router /api/wrong-book/add [post]
func (c *WrongBookController) Add(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AddWrongRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	created, err := c.WrongBookService.Add(claims.UserID, req.QuestionID, req.ErrorReason)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if !created {
		ctx.JSON(http.StatusOK, gin.H{"message": "已在错题本中"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "已添加到错题本"})
}

// List 获取错题本
// @Summary 错题列表
// @Description 默认只返回未掌握的，include_mastered=true 返回全部
// @Tags 错题本
// @Router /api/wrong-book [get]
func (c *WrongBookController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	includeMastered := ctx.Query("include_mastered") == "true"

	items, err := c.WrongBookService.List(claims.UserID, includeMastered)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, items)
}

// Practice 练习错题
// @Summary 记录一次练习
// @Tags 错题本
// @Router /api/wrong-book/practice/{id} [post]
func (c *WrongBookController) Practice(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	if err := c.WrongBookService.Practice(id, claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "已记录练习"})
}

// Master 标记为已掌握
// @Summary 标记已掌握
// @Tags 错题本
// @Router /api/wrong-book/master/{id} [post]
func (c *WrongBookController) Master(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	if err := c.WrongBookService.Master(id, claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "已标记为掌握"})
}

// Mastered 获取已掌握的题目
// @Summary 已掌握列表
// @Tags 错题本
// @Router /api/wrong-book/mastered [get]
func (c *WrongBookController) Mastered(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	items, err := c.WrongBookService.ListMastered(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, items)
}
