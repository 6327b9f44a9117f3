package controller

import (
	"net/http"

	"k12_tutor_backend/internal/service"
	"k12_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StatisticsController struct {
	StatisticsService *service.StatisticsService
}

func NewStatisticsController(statisticsService *service.StatisticsService) *StatisticsController {
	return &StatisticsController{StatisticsService: statisticsService}
}

// Statistics 获取学习统计
// @Summary 学习统计
// @Description 题目/错题/作文汇总、薄弱知识点 Top5、近 7 天提问数与正确率
// @Tags 统计
// @Router /api/statistics [get]
func (c *StatisticsController) Statistics(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.StatisticsService.GetStatistics(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// Recommend 获取推荐练习
// @Summary 练习推荐
// @Description 按薄弱知识点生成练习题，失败时返回空列表
// @Tags 统计
// @Router /api/recommend [get]
func (c *StatisticsController) Recommend(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	exercises, err := c.StatisticsService.Recommend(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, exercises)
}
