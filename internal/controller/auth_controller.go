package controller

import (
	"errors"
	"net/http"

	"k12_tutor_backend/internal/config"
	"k12_tutor_backend/internal/middleware"
	"k12_tutor_backend/internal/model"
	"k12_tutor_backend/internal/service"
	"k12_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	Cfg         *config.Config
}

func NewAuthController(authService *service.AuthService, cfg *config.Config) *AuthController {
	return &AuthController{
		AuthService: authService,
		Cfg:         cfg,
	}
}

type RegisterRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
	Email    string `form:"email" json:"email"`
	Grade    string `form:"grade" json:"grade"`
	Subjects string `form:"subjects" json:"subjects"`
}

// Register 注册新用户
// @Summary 用户注册
// @Description 注册成功后直接写入会话 Cookie
// @Tags 认证
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Grade:    req.Grade,
		Subjects: req.Subjects,
	}

	token, err := c.AuthService.Register(user, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrUsernameTaken) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	c.setSessionCookie(ctx, token)
	ctx.JSON(http.StatusCreated, gin.H{"message": "注册成功", "user_id": user.ID})
}

type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// Login 用户登录
// @Summary 用户登录
// @Description 校验凭据并写入会话 Cookie，同时更新最后登录时间
// @Tags 认证
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, err := c.AuthService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	c.setSessionCookie(ctx, token)
	ctx.JSON(http.StatusOK, gin.H{"message": "登录成功"})
}

// Logout 退出登录
// @Summary 退出登录
// @Tags 认证
// @Router /api/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	ctx.SetCookie(middleware.SessionCookieName, "", -1, "/", "", c.Cfg.Server.Mode == "release", true)
	ctx.JSON(http.StatusOK, gin.H{"message": "已退出"})
}

// setSessionCookie Cookie 有效期与令牌一致（7 天），HttpOnly
func (c *AuthController) setSessionCookie(ctx *gin.Context, token string) {
	maxAge := int(c.Cfg.JWT.ExpireTime.Seconds())
	ctx.SetCookie(middleware.SessionCookieName, token, maxAge, "/", "", c.Cfg.Server.Mode == "release", true)
}
