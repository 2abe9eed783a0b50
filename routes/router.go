package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lumeview/lumeview/config"
	"github.com/lumeview/lumeview/controllers"
	"github.com/lumeview/lumeview/middleware"
	"github.com/lumeview/lumeview/store"
	"github.com/lumeview/lumeview/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(st store.Store, geo controllers.GeoLookup) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// The beacon script is served from here; sites embed
	// /public/script.js?id=<apiKey>.
	r.Static("/public", "./public")

	websiteController := controllers.NewWebsiteController(st)
	analyticsController := controllers.NewAnalyticsController(st, geo)

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/", analyticsController.Dump)

	limited := r.Group("")
	limited.Use(middleware.RateLimit(cfg.RateLimitPerMinute))
	limited.POST("/websites", websiteController.Create)
	limited.POST("/analytics", analyticsController.Collect)

	return r
}
