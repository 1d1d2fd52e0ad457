package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/lanes/internal/api/handlers"
	"github.com/playmatatu/lanes/internal/auth"
	"github.com/playmatatu/lanes/internal/config"
	"github.com/playmatatu/lanes/internal/game"
	"github.com/playmatatu/lanes/internal/middleware"
	"github.com/playmatatu/lanes/internal/ws"
)

// Deps are the services the routes are served from.
type Deps struct {
	Config  *config.Config
	Tuning  *config.Tuning
	Manager *game.Manager
	Issuer  *auth.Issuer
	WS      *ws.Handler
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, d Deps) {
	router.Use(middleware.CORSMiddleware(d.Config))

	if d.Config.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] No-cache headers enabled for all routes")
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(d.Manager))
		v1.GET("/config", handlers.GetConfig(d.Config, d.Tuning))
		v1.GET("/leaderboard", handlers.GetLeaderboard(d.Manager))
		v1.GET("/games/:id", handlers.GetGameHistory(d.Manager))

		lanes := v1.Group("/lanes")
		{
			lanes.POST("", handlers.CreateLane(d.Manager, d.Issuer))
			lanes.GET("", handlers.ListLanes(d.Manager))
			lanes.GET("/:id", handlers.GetLane(d.Manager))

			owned := lanes.Group("/:id", middleware.RequireLaneToken(d.Issuer))
			{
				owned.POST("/intents", handlers.SubmitIntent(d.Manager))
				owned.DELETE("", handlers.CloseLane(d.Manager))
				owned.GET("/ws", middleware.WebSocketCORSCheck(d.Config), d.WS.ServeLane)
			}
		}
	}
}
