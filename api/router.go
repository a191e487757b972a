package api

import (
	"github.com/SlpAus/game-gallery-backend/internal/audit"
	"github.com/SlpAus/game-gallery-backend/internal/game"
	"github.com/SlpAus/game-gallery-backend/internal/platform/health"
	"github.com/SlpAus/game-gallery-backend/internal/reaction"
	"github.com/SlpAus/game-gallery-backend/internal/request"
	"github.com/SlpAus/game-gallery-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// 供负载均衡器探活
		api.GET("/health", health.Handler)

		// 个人资料相关的路由组 /api/profile
		profileRoutes := api.Group("/profile", user.RequireSession())
		{
			profileRoutes.GET("/me", user.GetMe)
			profileRoutes.PUT("", user.UpdateProfile)
			profileRoutes.POST("/deactivate", user.DeactivateSelf)
		}

		// 游戏相关的路由组 /api/games
		gameRoutes := api.Group("/games")
		{
			gameRoutes.GET("", user.RequireSession(), game.ListGamesHandler)
			gameRoutes.GET("/:id", user.RequireSession(), game.GetGameHandler)

			// 点评与超级赞需要登录，浏览上报对匿名开放
			gameRoutes.POST("/:id/react", user.RequireSession(), reaction.ReactHandler)
			gameRoutes.GET("/:id/reaction", user.RequireSession(), reaction.GetReactionHandler)
			gameRoutes.POST("/:id/superlike", user.RequireSession(), reaction.SuperlikeHandler)
			gameRoutes.POST("/:id/view", reaction.OptionalUserMiddleware(), reaction.ViewHandler)
		}

		// 游戏请求相关的路由组 /api/game-requests
		gameRequestRoutes := api.Group("/game-requests",
			user.RequireSession(), user.RequireCompleteProfile())
		{
			gameRequestRoutes.POST("", request.SubmitGameRequestHandler)
			gameRequestRoutes.GET("/my", request.MyGameRequestsHandler)
		}

		// 用户申诉相关的路由组 /api/user-requests
		// 被停用的账户也要能提交解封申诉，所以这里放行停用用户
		userRequestRoutes := api.Group("/user-requests", user.RequireSessionAllowInactive())
		{
			userRequestRoutes.POST("", request.SubmitUserRequestHandler)
			userRequestRoutes.GET("/my", request.MyUserRequestsHandler)
		}

		// 管理后台的路由组 /api/admin
		adminRoutes := api.Group("/admin", user.RequireSession(), user.RequireAdmin())
		{
			adminRoutes.GET("/game-requests", request.PendingGameRequestsHandler)
			adminRoutes.POST("/game-requests/:id/approve", request.ApproveGameRequestHandler)
			adminRoutes.POST("/game-requests/:id/reject", request.RejectGameRequestHandler)

			adminRoutes.GET("/user-requests", request.PendingUserRequestsHandler)
			adminRoutes.POST("/user-requests/:id/approve", request.ApproveUserRequestHandler)
			adminRoutes.POST("/user-requests/:id/reject", request.RejectUserRequestHandler)

			adminRoutes.POST("/games/:id/deactivate", game.DeactivateHandler)

			adminRoutes.GET("/actions", audit.ListActionsHandler)
		}
	}
}
