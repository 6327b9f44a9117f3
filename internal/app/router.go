package app

import (
	"k12_tutor_backend/internal/config"
	"k12_tutor_backend/internal/middleware"
	"k12_tutor_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		api.POST("/register", c.auth.Register)
		api.POST("/login", c.auth.Login)
		api.POST("/logout", c.auth.Logout)
	}

	// 以下接口需要登录
	auth := router.Group("/api")
	auth.Use(middleware.AuthMiddleware(cfg))
	{
		auth.POST("/question", c.question.Solve)
		auth.GET("/history", c.question.History)

		auth.POST("/essay", c.essay.Review)

		auth.POST("/chat", c.chat.Send)
		auth.GET("/chat/sessions", c.chat.Sessions)
		auth.GET("/chat/messages/:id", c.chat.Messages)

		auth.POST("/wrong-book/add", c.wrongBook.Add)
		auth.GET("/wrong-book", c.wrongBook.List)
		auth.POST("/wrong-book/practice/:id", c.wrongBook.Practice)
		auth.POST("/wrong-book/master/:id", c.wrongBook.Master)
		auth.GET("/wrong-book/mastered", c.wrongBook.Mastered)

		auth.GET("/statistics", c.statistics.Statistics)
		auth.GET("/recommend", c.statistics.Recommend)

		auth.GET("/profile", c.user.GetProfile)
		auth.POST("/profile", c.user.UpdateProfile)
	}
}
