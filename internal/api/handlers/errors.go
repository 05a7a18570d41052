package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/playmatatu/duels/internal/game"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrGameDisabled):
		return http.StatusForbidden
	case errors.Is(err, game.ErrInsufficientFunds), errors.Is(err, game.ErrWrongAnswer):
		return http.StatusUnprocessableEntity
	case errors.Is(err, game.ErrUnknownGameKind),
		errors.Is(err, game.ErrInvalidStake),
		errors.Is(err, game.ErrInvalidMove),
		errors.Is(err, game.ErrSelfChallenge),
		errors.Is(err, game.ErrInvalidOpponent):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrUnknownChallenge),
		errors.Is(err, game.ErrUnknownSession):
		return http.StatusNotFound
	case errors.Is(err, game.ErrNotChallengeOpponent),
		errors.Is(err, game.ErrNotParticipant):
		return http.StatusForbidden
	case errors.Is(err, game.ErrChallengeResolved),
		errors.Is(err, game.ErrChallengeDeclined),
		errors.Is(err, game.ErrChallengeExpired),
		errors.Is(err, game.ErrChallengeCancelled),
		errors.Is(err, game.ErrSessionFinished),
		errors.Is(err, game.ErrSessionInProgress),
		errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrCellOccupied),
		errors.Is(err, game.ErrColumnFull),
		errors.Is(err, game.ErrAlreadySubmitted),
		errors.Is(err, game.ErrLockedOut):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// abortWithError writes the single JSON error shape used by every handler.
func abortWithError(c *gin.Context, log *zap.Logger, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error(), "code": game.ErrorCode(err)}
	var pe *game.PreconditionError
	if errors.As(err, &pe) && pe.PlayerID != "" {
		body["player_id"] = pe.PlayerID
	}
	if status == http.StatusInternalServerError {
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		body["error"] = "internal error"
	}
	c.AbortWithStatusJSON(status, body)
}
