package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/playmatatu/duels/internal/game"
	"github.com/playmatatu/duels/internal/game/engine"
	"github.com/playmatatu/duels/internal/registry"
)

// ListGames returns every game kind of a community with its toggle and
// play counter.
func ListGames(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfgs, err := registry.Configs(c.Request.Context(), d.Registry, c.Param("id"))
		if err != nil {
			abortWithError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"community_id": c.Param("id"), "games": cfgs})
	}
}

// SetGameEnabled toggles one game kind for a community.
func SetGameEnabled(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind, err := engine.ParseKind(c.Param("kind"))
		if err != nil {
			abortWithError(c, d.Log, game.ErrUnknownGameKind)
			return
		}
		var body struct {
			Enabled *bool `json:"enabled" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "enabled is required"})
			return
		}
		community := c.Param("id")
		err = d.Registry.SetEnabled(c.Request.Context(), community, kind, *body.Enabled)
		audit(c, d, "set_game_enabled", map[string]any{
			"community_id": community,
			"game":         kind,
			"enabled":      *body.Enabled,
		}, err == nil)
		if err != nil {
			abortWithError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"community_id": community, "game": kind, "enabled": *body.Enabled})
	}
}

// SetBot marks or clears a community member as a bot account. Bots cannot
// be challenged.
func SetBot(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Bot *bool `json:"bot" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bot is required"})
			return
		}
		community, user := c.Param("id"), c.Param("user")
		err := d.Registry.SetBot(c.Request.Context(), community, user, *body.Bot)
		audit(c, d, "set_bot", map[string]any{
			"community_id": community,
			"user_id":      user,
			"bot":          *body.Bot,
		}, err == nil)
		if err != nil {
			abortWithError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"community_id": community, "user_id": user, "bot": *body.Bot})
	}
}

func ListBots(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids, err := d.Registry.Bots(c.Request.Context(), c.Param("id"))
		if err != nil {
			abortWithError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"community_id": c.Param("id"), "bots": ids})
	}
}

// ListMatches returns the most recent finished matches of a community.
func ListMatches(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d.History == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "match history unavailable"})
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		matches, err := d.History.Recent(c.Request.Context(), c.Param("id"), limit)
		if err != nil {
			abortWithError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"community_id": c.Param("id"), "matches": matches})
	}
}

// GetBalance returns the authenticated player's balance in a community.
func GetBalance(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		community := c.Query("community_id")
		if community == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "community_id is required"})
			return
		}
		player := c.GetString(ctxPlayerID)
		bal, err := d.Wallet.Balance(c.Request.Context(), player, community)
		if err != nil {
			abortWithError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"player_id": player, "community_id": community, "balance": bal})
	}
}
