package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bissaliev/ReferalProject/config"
	"github.com/bissaliev/ReferalProject/internal/api/handler"
	"github.com/bissaliev/ReferalProject/internal/api/middleware"
	"github.com/bissaliev/ReferalProject/pkg/jwt"
	"github.com/bissaliev/ReferalProject/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时黑名单与限流均降级关闭
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	if cfg.Server.MaxBodyBytes > 0 {
		r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	}

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok", "redis": "disabled"}
		if rdb != nil {
			status["redis"] = "ok"
			if err := rdb.Ping(c.Request.Context()); err != nil {
				status["redis"] = "unavailable"
			}
		}
		c.JSON(http.StatusOK, status)
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			rl := cfg.Server.RateLimit
			auth.POST("/phone", middleware.RateLimit(rdb, rl.RequestCodeLimit, rl.RequestCodeWindow), h.Auth.RequestCode)
			auth.POST("/verify", h.Auth.Verify)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("", h.User.ListUsers)
				users.GET("/me", h.User.GetCurrentUser)
				users.PATCH("/me", h.User.UpdateCurrentUser)
				users.DELETE("/me", h.User.DeleteCurrentUser)
				users.GET("/:id", h.User.GetUser)

				// 邀请模块
				users.POST("/me/activate-invite-code", h.Referral.ActivateInviteCode)
				users.GET("/me/invited", h.Referral.ListInvited)
				users.GET("/me/invited/export", h.Export.ExportInvited)
			}
		}
	}

	return r
}
