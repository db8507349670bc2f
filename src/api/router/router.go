package router

import (
	"FlightDelayInsight/src/api/handler"
	"FlightDelayInsight/src/api/middleware"
	"FlightDelayInsight/src/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.AllowOrigins))

	r.GET("/health", h.Health)
	r.GET("/logs", h.Logs)

	api := r.Group("/api")
	{
		api.GET("/overview", h.Overview)
		api.GET("/top-airports", h.TopAirports)
		api.GET("/delays-by-day-period", h.DelaysByDayPeriod)
		api.GET("/trends", h.Trends)
		api.GET("/delay-reasons", h.DelayReasons)
		api.GET("/airlines/top", h.TopAirlines)
		api.GET("/monthly", h.Monthly)
		api.GET("/filters", h.Filters)
		api.GET("/export", h.Export)
	}

	return r
}
