package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"HeartHabit/internal/handler"
	"HeartHabit/internal/middleware"
)

func Register(h *server.Hertz) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())

	v1 := h.Group("/v1")
	v1.Use(middleware.AuthMiddleware())
	v1.Use(middleware.GeneralRateLimitMiddleware())

	// 动作生命周期路由
	actions := v1.Group("/actions")
	{
		actions.GET("/hidden", handler.ListHiddenActions)
		actions.GET("/favorites", handler.ListFavoriteActions)

		// 邮件链接入口，按 (动作, 日期) 解析实例
		actions.POST("/decline", middleware.MutationRateLimitMiddleware(), handler.DeclineActionByTuple)

		actions.POST("/:action_instance_id/complete", middleware.MutationRateLimitMiddleware(), handler.CompleteAction)
		actions.POST("/:action_instance_id/decline", middleware.MutationRateLimitMiddleware(), handler.DeclineAction)
		actions.POST("/:action_instance_id/favorite", handler.FavoriteAction)
	}

	// 隐藏集合按动作定义操作，和实例路由分开，避免参数位冲突
	hidden := v1.Group("/hidden-actions")
	{
		hidden.POST("/:action_id", handler.HideAction)
		hidden.DELETE("/:action_id", handler.UnhideAction)
	}

	// 挑战路由
	challenges := v1.Group("/challenges")
	{
		challenges.GET("/active", handler.ListActiveChallenges)
		challenges.POST("/:challenge_id/join", handler.JoinChallenge)
		challenges.POST("/:challenge_id/progress", middleware.MutationRateLimitMiddleware(), handler.RecordChallengeProgress)
		challenges.POST("/:challenge_id/leave", handler.LeaveChallenge)
	}

	// 徽章路由，手动重算是全量扫描，单独限流
	badges := v1.Group("/badges")
	{
		badges.GET("", handler.ListBadges)
		badges.POST("/recalculate", middleware.RecalcRateLimitMiddleware(), handler.RecalculateBadges)
	}

	// 健康分
	v1.GET("/score", handler.GetScore)
}
