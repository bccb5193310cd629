package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pixelpulse/internal/config"
	"github.com/pixelpulse/internal/handler"
	"github.com/sirupsen/logrus"
)

// SetupRouter 配置 Gin 引擎和路由。
func SetupRouter(api *handler.API, cfg config.AppConfig, log *logrus.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handler.RequestLog(log))

	// 像素/徽章按 IP 限流，查询 API 单独一套配额
	pixelLimit := handler.RateLimit(100, 20)
	apiLimit := handler.RateLimit(120, 30)

	r.GET("/health", api.Health)
	r.GET("/pixel/:file", pixelLimit, api.Pixel)
	// 徽章预览（preview=true）跳过限流，画廊会一次加载很多张
	r.GET("/badge/:file", previewAware(pixelLimit), api.Badge)

	apiGroup := r.Group("/api")
	apiGroup.Use(apiLimit, handler.AuthRequired(cfg))
	{
		apiGroup.GET("/stats", api.StatsOverview)
		apiGroup.GET("/stats/:label", api.StatsLabel)
		apiGroup.GET("/analytics", api.Analytics)
		apiGroup.DELETE("/labels", api.DeleteLabels)
	}

	return r
}

// previewAware 在 preview=true 时绕过限流中间件。
func previewAware(limit gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Query("preview") == "true" {
			c.Next()
			return
		}
		limit(c)
	}
}
