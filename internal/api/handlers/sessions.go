package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playmatatu/duels/internal/game"
)

// SubmitMove applies a move for the authenticated player. The move is the
// raw wire form: a cell, a column, a choice or an answer.
func SubmitMove(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Move string `json:"move" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "move is required"})
			return
		}
		res, err := d.Service.SubmitMove(c.Request.Context(), c.Param("id"), c.GetString(ctxPlayerID), body.Move)
		if err != nil {
			abortWithError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// GetSession returns the current state of a live or retained session.
func GetSession(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := d.Service.Session(c.Param("id"))
		if err != nil {
			abortWithError(c, d.Log, err)
			return
		}
		player := c.GetString(ctxPlayerID)
		if player != view.Players[0] && player != view.Players[1] {
			abortWithError(c, d.Log, game.ErrNotParticipant)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// AdminCancelSession ends a live session without settlement.
func AdminCancelSession(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		reason := c.DefaultQuery("reason", "cancelled by admin")
		err := d.Service.CancelSession(c.Param("id"), reason)
		audit(c, d, "cancel_session", map[string]any{"session_id": c.Param("id"), "reason": reason}, err == nil)
		if err != nil {
			abortWithError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"session_id": c.Param("id"), "status": game.StatusCancelled})
	}
}
