package api

import (
	"github.com/gin-gonic/gin"

	"github.com/playmatatu/duels/internal/api/handlers"
	"github.com/playmatatu/duels/internal/middleware"
)

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, d *handlers.Deps) {
	router.Use(middleware.RequestLogger(d.Log.Named("http")))
	router.Use(middleware.CORSMiddleware(d.Config, d.Log.Named("cors")))

	if !d.Config.IsProduction() {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Next()
		})
	}

	router.GET("/health", handlers.HealthCheck(d))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(d))
		v1.POST("/admin/login", handlers.AdminLogin(d))

		player := v1.Group("")
		player.Use(handlers.AuthMiddleware(d))
		{
			player.GET("/ws", middleware.WebSocketCORSCheck(d.Config), handlers.HandleWebSocket(d))
			player.GET("/balance", handlers.GetBalance(d))

			player.POST("/challenges", handlers.ProposeChallenge(d))
			player.GET("/challenges/:id", handlers.GetChallenge(d))
			player.POST("/challenges/:id/respond", handlers.RespondChallenge(d))
			player.DELETE("/challenges/:id", handlers.CancelChallenge(d))

			player.GET("/sessions/:id", handlers.GetSession(d))
			player.POST("/sessions/:id/moves", handlers.SubmitMove(d))

			player.GET("/communities/:id/games", handlers.ListGames(d))
			player.GET("/communities/:id/matches", handlers.ListMatches(d))
		}

		admin := v1.Group("/admin")
		admin.Use(handlers.AdminMiddleware(d))
		{
			admin.PUT("/communities/:id/games/:kind", handlers.SetGameEnabled(d))
			admin.GET("/communities/:id/bots", handlers.ListBots(d))
			admin.PUT("/communities/:id/bots/:user", handlers.SetBot(d))
			admin.DELETE("/sessions/:id", handlers.AdminCancelSession(d))
			admin.GET("/audit", handlers.GetAuditLogs(d))
		}
	}
}
