package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/playmatatu/duels/internal/game"
	"github.com/playmatatu/duels/internal/game/engine"
)

type proposeRequest struct {
	CommunityID string `json:"community_id" binding:"required"`
	OpponentID  string `json:"opponent_id" binding:"required"`
	Game        string `json:"game" binding:"required"`
	Stake       int64  `json:"stake"`
	// Wait holds the request open until the opponent answers.
	Wait bool `json:"wait"`
}

// ProposeChallenge opens a challenge from the authenticated player.
func ProposeChallenge(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body proposeRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "community_id, opponent_id and game are required"})
			return
		}
		kind, err := engine.ParseKind(body.Game)
		if err != nil {
			abortWithError(c, d.Log, game.ErrUnknownGameKind)
			return
		}
		req := game.ChallengeRequest{
			CommunityID: body.CommunityID,
			Proposer:    game.Participant{ID: c.GetString(ctxPlayerID)},
			Opponent:    game.Participant{ID: body.OpponentID},
			Kind:        kind,
			Stake:       body.Stake,
		}

		if body.Wait {
			out, err := d.Service.Propose(c.Request.Context(), req)
			if err != nil && out.ChallengeID == "" {
				abortWithError(c, d.Log, err)
				return
			}
			c.JSON(http.StatusOK, out)
			return
		}

		ch, err := d.Service.ProposeChallenge(c.Request.Context(), req)
		if err != nil {
			abortWithError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusCreated, ch.View())
	}
}

// GetChallenge returns a pending challenge to one of its two players.
func GetChallenge(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ch, err := d.Service.Challenge(c.Param("id"))
		if err != nil {
			abortWithError(c, d.Log, err)
			return
		}
		player := c.GetString(ctxPlayerID)
		if player != ch.Proposer.ID && player != ch.Opponent.ID {
			abortWithError(c, d.Log, game.ErrNotParticipant)
			return
		}
		c.JSON(http.StatusOK, ch.View())
	}
}

// RespondChallenge lets the opponent accept or decline.
func RespondChallenge(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Accept *bool `json:"accept" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "accept is required"})
			return
		}
		out, err := d.Service.RespondChallenge(c.Request.Context(), c.Param("id"), c.GetString(ctxPlayerID), *body.Accept)
		if err != nil {
			abortWithError(c, d.Log, err)
			return
		}
		d.Log.Debug("challenge answered",
			zap.String("challenge_id", out.ChallengeID),
			zap.String("status", string(out.Status)))
		c.JSON(http.StatusOK, out)
	}
}

// CancelChallenge withdraws a pending challenge. Only the proposer may.
func CancelChallenge(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := d.Service.CancelChallenge(c.Param("id"), c.GetString(ctxPlayerID)); err != nil {
			abortWithError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"challenge_id": c.Param("id"), "status": game.ChallengeCancelled})
	}
}
