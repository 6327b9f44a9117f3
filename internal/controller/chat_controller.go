package controller

import (
	"errors"
	"net/http"

	"k12_tutor_backend/internal/service"
	"k12_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	ChatService *service.ChatService
}

func NewChatController(chatService *service.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID uint   `json:"session_id"`
}

// Send 发送聊天消息
// @Summary 聊天
// @Description 未携带 session_id 时新建会话；助手回复始终是可展示的文本
// @Tags 聊天
// @Router /api/chat [post]
func (c *ChatController) Send(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sessionID, response, err := c.ChatService.SendMessage(claims.UserID, req.SessionID, req.Message)
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"response":   response,
	})
}

// Sessions 获取会话列表
// @Summary 会话列表
// @Description 最近 20 个会话，新的在前
// @Tags 聊天
// @Router /api/chat/sessions [get]
func (c *ChatController) Sessions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	sessions, err := c.ChatService.ListSessions(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, sessions)
}

// Messages 获取会话消息
// @Summary 会话历史
// @Description 按创建时间升序返回
// @Tags 聊天
// @Router /api/chat/messages/{id} [get]
func (c *ChatController) Messages(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	sessionID := util.MustParseUint(ctx.Param("id"))
	messages, err := c.ChatService.ListMessages(sessionID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, messages)
}
