package controller

import (
	"net/http"

	"k12_tutor_backend/internal/service"
	"k12_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EssayController struct {
	EssayService *service.EssayService
}

func NewEssayController(essayService *service.EssayService) *EssayController {
	return &EssayController{EssayService: essayService}
}

type EssayRequest struct {
	Title     string `form:"title" json:"title" binding:"required"`
	Content   string `form:"content" json:"content" binding:"required"`
	EssayType string `form:"essay_type" json:"essay_type"`
}

// Review 提交作文批改
// @Summary 作文批改
// @Description 调用补全端点批改并保存，返回完整评价对象
// @Tags 作文
// @Router /api/essay [post]
func (c *EssayController) Review(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req EssayRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.EssayType == "" {
		req.EssayType = "记叙文"
	}

	result, err := c.EssayService.Review(claims.UserID, req.Title, req.Content, req.EssayType)
	if err != nil {
		util.Error(ctx, http.StatusInternalServerError, err.Error())
		return
	}

	ctx.JSON(http.StatusOK, result)
}
