package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleWebSocket upgrades an authenticated player to the realtime hub.
func HandleWebSocket(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		player := c.GetString(ctxPlayerID)
		if err := d.Hub.Serve(c.Writer, c.Request, player); err != nil {
			d.Log.Warn("websocket upgrade failed", zap.String("player", player), zap.Error(err))
		}
	}
}
