package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/playmatatu/duels/internal/config"
)

func allowedOrigins(cfg *config.Config) []string {
	origins := append([]string(nil), cfg.AllowedOrigins...)
	if cfg.FrontendURL != "" {
		origins = append(origins, cfg.FrontendURL)
	}
	return origins
}

func isDevOrigin(origin string) bool {
	return strings.HasPrefix(origin, "http://localhost:") ||
		strings.HasPrefix(origin, "http://127.0.0.1:")
}

// CORSMiddleware returns a CORS middleware configured for the environment.
func CORSMiddleware(cfg *config.Config, log *zap.Logger) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Length", "Content-Type", "Authorization",
			"Accept", "Cache-Control", "X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	origins := allowedOrigins(cfg)
	switch {
	case cfg.IsProduction() && len(origins) > 0:
		corsConfig.AllowOrigins = origins
	case cfg.IsProduction():
		// Same-origin only.
		corsConfig.AllowOriginFunc = func(string) bool { return false }
	default:
		corsConfig.AllowOriginFunc = func(origin string) bool {
			if isDevOrigin(origin) {
				return true
			}
			for _, o := range origins {
				if o == origin {
					return true
				}
			}
			return false
		}
	}
	log.Info("cors configured", zap.String("env", cfg.Environment), zap.Strings("origins", origins))
	return cors.New(corsConfig)
}

// WebSocketCORSCheck validates WebSocket upgrade origins.
func WebSocketCORSCheck(cfg *config.Config) gin.HandlerFunc {
	origins := allowedOrigins(cfg)
	return func(c *gin.Context) {
		if !strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
			c.Next()
			return
		}

		origin := c.GetHeader("Origin")
		// Non-browser clients (bots, tests) send no origin.
		if origin == "" {
			c.Next()
			return
		}

		allowed := !cfg.IsProduction() && isDevOrigin(origin)
		for _, o := range origins {
			if origin == o {
				allowed = true
				break
			}
		}
		if !allowed {
			c.AbortWithStatusJSON(403, gin.H{"error": "WebSocket origin not allowed"})
			return
		}
		c.Next()
	}
}
